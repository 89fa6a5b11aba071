package store

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/agora/pkg/types"
)

func TestNextID_ConcurrentCreates(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b *Backend) {
		const perChannel = 12
		alice := uniq("alice")
		channels := []string{uniq("red"), uniq("blue")}
		mustUser(t, b, alice)
		for _, name := range channels {
			mustChannel(t, b, name, alice)
		}

		var mu sync.Mutex
		got := make(map[string][]int64)

		g, ctx := errgroup.WithContext(context.Background())
		for _, name := range channels {
			for range perChannel {
				g.Go(func() error {
					th := &types.Thread{ChannelName: name, OwnerName: alice, ThreadName: "race", PubDate: pubDate}
					if err := b.CreateThread(ctx, th); err != nil {
						return err
					}
					mu.Lock()
					got[name] = append(got[name], th.ThreadID)
					mu.Unlock()
					return nil
				})
			}
		}
		require.NoError(t, g.Wait())

		want := make([]int64, perChannel)
		for i := range want {
			want[i] = int64(i)
		}
		for _, name := range channels {
			ids := got[name]
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			assert.Equal(t, want, ids, "channel %s", name)
		}
	})
}

func TestNextID_ConcurrentComments(t *testing.T) {
	b := setupBackend(t)
	mustUser(t, b, "alice")
	mustChannel(t, b, "general", "alice")
	th := mustThread(t, b, "general", "alice")

	g, ctx := errgroup.WithContext(context.Background())
	for range 10 {
		g.Go(func() error {
			return b.CreateComment(ctx, &types.Comment{
				ChannelName: "general", ThreadID: th.ThreadID, OwnerName: "alice", Text: "race", PubDate: pubDate,
			})
		})
	}
	require.NoError(t, g.Wait())

	comments, err := b.ListComments(context.Background(), "general", th.ThreadID)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, commentIDsOf(comments))
}
