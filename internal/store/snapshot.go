package store

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/agora/pkg/types"
)

// Snapshot reads every channel, thread, and comment in one transaction.
func (b *Backend) Snapshot(ctx context.Context) (*types.Snapshot, error) {
	var snap *types.Snapshot
	err := b.withSnapshotTx(ctx, "snapshot", func(t *txn) error {
		rows, err := t.query(ctx, "SELECT "+channelColumns+" FROM channels ORDER BY created_at, channel_name")
		if err != nil {
			return fmt.Errorf("querying channels: %w", err)
		}
		channels, err := collectChannels(rows)
		if err != nil {
			return err
		}

		threads, err := snapshotThreads(ctx, t)
		if err != nil {
			return err
		}
		comments, err := snapshotComments(ctx, t)
		if err != nil {
			return err
		}

		snap = &types.Snapshot{Channels: make([]types.ChannelTree, 0, len(channels))}
		for _, ch := range channels {
			tree := types.ChannelTree{Channel: ch, Threads: []types.ThreadTree{}}
			for _, th := range threads[ch.ChannelID] {
				cs := comments[threadRef{th.ChannelID, th.ThreadID}]
				if cs == nil {
					cs = []*types.Comment{}
				}
				tree.Threads = append(tree.Threads, types.ThreadTree{Thread: th, Comments: cs})
			}
			snap.Channels = append(snap.Channels, tree)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

type threadRef struct {
	channelID string
	threadID  int64
}

// snapshotThreads groups every thread by channel id, in ThreadID order.
func snapshotThreads(ctx context.Context, t *txn) (map[string][]*types.Thread, error) {
	rows, err := t.query(ctx, threadSelect+" ORDER BY t.channel_id, t.thread_id")
	if err != nil {
		return nil, fmt.Errorf("querying threads: %w", err)
	}
	defer rows.Close()

	byChannel := make(map[string][]*types.Thread)
	for rows.Next() {
		th, err := scanThread(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning thread: %w", err)
		}
		byChannel[th.ChannelID] = append(byChannel[th.ChannelID], th)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating threads: %w", err)
	}
	return byChannel, nil
}

// snapshotComments groups every comment by thread, in CommentID order.
func snapshotComments(ctx context.Context, t *txn) (map[threadRef][]*types.Comment, error) {
	rows, err := t.query(ctx, commentSelect+" ORDER BY m.channel_id, m.thread_id, m.comment_id")
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	byThread := make(map[threadRef][]*types.Comment)
	for rows.Next() {
		cm, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		ref := threadRef{cm.ChannelID, cm.ThreadID}
		byThread[ref] = append(byThread[ref], cm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}
	return byThread, nil
}
