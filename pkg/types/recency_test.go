package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsRecent(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name    string
		pubDate time.Time
		want    bool
	}{
		{"two days old", now.Add(-2 * day), false},
		{"two days in the future", now.Add(2 * day), false},
		{"one day in the future", now.Add(day), false},
		{"one second in the future", now.Add(time.Second), false},
		{"half a day old", now.Add(-day / 2), true},
		{"exactly now", now, true},
		{"exactly one day old", now.Add(-day), true},
		{"just over one day old", now.Add(-day - time.Nanosecond), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRecent(tt.pubDate, now))
		})
	}
}

func TestEntityIsRecent(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	recent := now.Add(-time.Hour)
	old := now.Add(-72 * time.Hour)

	assert.True(t, (&Channel{PubDate: recent}).IsRecent(now))
	assert.False(t, (&Channel{PubDate: old}).IsRecent(now))
	assert.True(t, (&Thread{PubDate: recent}).IsRecent(now))
	assert.False(t, (&Thread{PubDate: old}).IsRecent(now))
	assert.True(t, (&Comment{PubDate: recent}).IsRecent(now))
	assert.False(t, (&Comment{PubDate: old}).IsRecent(now))
}

func TestIsRecent_ComparesInstants(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	assert.True(t, IsRecent(now.Add(-time.Hour).In(tokyo), now))
	assert.False(t, IsRecent(now.Add(time.Hour).In(tokyo), now))
}
