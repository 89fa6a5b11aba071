// Package snapshot exports the forum's channels, threads, and comments as
// JSON Lines.
//
// Each line is a Record. Channels appear in creation order, each followed by
// its threads in id order, each thread followed by its comments in id order.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/agora/pkg/types"
)

// maxLineSize bounds a single record when reading.
const maxLineSize = 4 * 1024 * 1024

// Record kinds.
const (
	KindChannel = "channel"
	KindThread  = "thread"
	KindComment = "comment"
)

// Record is one line of a snapshot.
type Record struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Counts reports how many records of each kind a snapshot holds.
type Counts struct {
	Channels int `json:"channels"`
	Threads  int `json:"threads"`
	Comments int `json:"comments"`
}

func (c *Counts) add(kind string) {
	switch kind {
	case KindChannel:
		c.Channels++
	case KindThread:
		c.Threads++
	case KindComment:
		c.Comments++
	}
}

// Export writes every channel, thread, and comment in f to path, all read
// from one f.Snapshot. The file is replaced atomically.
func Export(ctx context.Context, f types.Forum, path string) (Counts, error) {
	var (
		lines  []json.RawMessage
		counts Counts
	)
	emit := func(kind string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", kind, err)
		}
		line, err := json.Marshal(Record{Kind: kind, Data: data})
		if err != nil {
			return fmt.Errorf("marshaling record: %w", err)
		}
		lines = append(lines, line)
		counts.add(kind)
		return nil
	}

	snap, err := f.Snapshot(ctx)
	if err != nil {
		return Counts{}, err
	}
	for _, tree := range snap.Channels {
		if err := emit(KindChannel, tree.Channel); err != nil {
			return Counts{}, err
		}
		for _, th := range tree.Threads {
			if err := emit(KindThread, th.Thread); err != nil {
				return Counts{}, err
			}
			for _, c := range th.Comments {
				if err := emit(KindComment, c); err != nil {
					return Counts{}, err
				}
			}
		}
	}

	if err := writeLines(path, lines); err != nil {
		return Counts{}, err
	}
	return counts, nil
}

// Read returns the records of the snapshot at path. Blank and malformed
// lines, and lines that are not records, are skipped.
func Read(path string) ([]Record, Counts, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, Counts{}, err
	}
	records := make([]Record, 0, len(lines))
	var counts Counts
	for _, line := range lines {
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil || rec.Kind == "" {
			continue
		}
		records = append(records, rec)
		counts.add(rec.Kind)
	}
	return records, counts, nil
}

// Decode unmarshals the record's data into the matching entity type.
func (r Record) Decode() (any, error) {
	var v any
	switch r.Kind {
	case KindChannel:
		v = &types.Channel{}
	case KindThread:
		v = &types.Thread{}
	case KindComment:
		v = &types.Comment{}
	default:
		return nil, fmt.Errorf("unknown record kind %q", r.Kind)
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", r.Kind, err)
	}
	return v, nil
}
