package store

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout is fixed-width so stored timestamps sort as text in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// encodeModerators stores the moderator list as a JSON array, keeping order.
func encodeModerators(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("encoding moderators: %w", err)
	}
	return string(data), nil
}

func decodeModerators(s string) ([]string, error) {
	names := []string{}
	if s == "" {
		return names, nil
	}
	if err := json.Unmarshal([]byte(s), &names); err != nil {
		return nil, fmt.Errorf("decoding moderators: %w", err)
	}
	return names, nil
}

func encodeAttributes(attrs map[string]string) (string, error) {
	if attrs == nil {
		attrs = map[string]string{}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return "", fmt.Errorf("encoding attributes: %w", err)
	}
	return string(data), nil
}

func decodeAttributes(s string) (map[string]string, error) {
	attrs := map[string]string{}
	if s == "" {
		return attrs, nil
	}
	if err := json.Unmarshal([]byte(s), &attrs); err != nil {
		return nil, fmt.Errorf("decoding attributes: %w", err)
	}
	return attrs, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
