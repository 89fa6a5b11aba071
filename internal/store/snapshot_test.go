package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/agora/pkg/types"
)

func TestSnapshot(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	mustUser(t, b, "alice")
	mustChannel(t, b, "general", "alice")
	mustChannel(t, b, "quiet", "alice")
	mustThread(t, b, "general", "alice")
	th := mustThread(t, b, "general", "alice")
	mustComment(t, b, "general", th.ThreadID, "alice")
	mustComment(t, b, "general", th.ThreadID, "alice")

	snap, err := b.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Channels, 2)

	general := snap.Channels[0]
	assert.Equal(t, "general", general.Channel.ChannelName)
	require.Len(t, general.Threads, 2)
	assert.Equal(t, int64(0), general.Threads[0].Thread.ThreadID)
	assert.Empty(t, general.Threads[0].Comments)
	assert.Equal(t, []int64{0, 1}, commentIDsOf(general.Threads[1].Comments))

	quiet := snap.Channels[1]
	assert.Equal(t, "quiet", quiet.Channel.ChannelName)
	assert.NotNil(t, quiet.Threads)
	assert.Empty(t, quiet.Threads)
}

func TestSnapshot_Empty(t *testing.T) {
	b := setupBackend(t)
	snap, err := b.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Channels)
}

func TestSnapshot_Detached(t *testing.T) {
	b := NewBackend()
	_, err := b.Snapshot(context.Background())
	assert.ErrorIs(t, err, types.ErrDetached)
}

// Every snapshot taken while channels are being deleted sees each channel
// either whole or not at all.
func TestSnapshot_ConsistentDuringDeletes(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b *Backend) {
		ctx := context.Background()
		alice := uniq("alice")
		mustUser(t, b, alice)

		var names []string
		for range 4 {
			name := uniq("room")
			names = append(names, name)
			mustChannel(t, b, name, alice)
			for range 2 {
				th := mustThread(t, b, name, alice)
				mustComment(t, b, name, th.ThreadID, alice)
			}
		}
		mine := make(map[string]bool, len(names))
		for _, name := range names {
			mine[name] = true
		}

		var g errgroup.Group
		g.Go(func() error {
			for _, name := range names {
				if err := b.DeleteChannel(ctx, name); err != nil {
					return err
				}
			}
			return nil
		})
		for range 4 {
			g.Go(func() error {
				snap, err := b.Snapshot(ctx)
				if err != nil {
					return err
				}
				for _, tree := range snap.Channels {
					if !mine[tree.Channel.ChannelName] {
						continue
					}
					assert.Len(t, tree.Threads, 2, "channel %s", tree.Channel.ChannelName)
					for _, th := range tree.Threads {
						assert.Len(t, th.Comments, 1)
					}
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())
	})
}
