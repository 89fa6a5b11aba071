package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/agora/pkg/types"
)

func TestCreateThread_SequentialPerChannel(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b *Backend) {
		ctx := context.Background()
		alice := uniq("alice")
		first, second := uniq("first"), uniq("second")
		mustUser(t, b, alice)
		mustChannel(t, b, first, alice)
		mustChannel(t, b, second, alice)

		for want := int64(0); want < 4; want++ {
			th := mustThread(t, b, first, alice)
			assert.Equal(t, want, th.ThreadID)
		}
		th := mustThread(t, b, second, alice)
		assert.Equal(t, int64(0), th.ThreadID, "each channel numbers its threads from 0")

		threads, err := b.ListThreads(ctx, first)
		require.NoError(t, err)
		assert.Equal(t, []int64{0, 1, 2, 3}, threadIDsOf(threads))
	})
}

func TestCreateThread_IDsNotReusedAfterDelete(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	mustUser(t, b, "alice")
	mustChannel(t, b, "general", "alice")
	mustThread(t, b, "general", "alice")
	newest := mustThread(t, b, "general", "alice")

	require.NoError(t, b.DeleteThread(ctx, "general", newest.ThreadID))

	th := mustThread(t, b, "general", "alice")
	assert.Equal(t, int64(2), th.ThreadID)
}

func TestCreateThread_FillsReferences(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	alice := mustUser(t, b, "alice")
	ch := mustChannel(t, b, "general", "alice")

	th := mustThread(t, b, "general", "alice")
	assert.Equal(t, ch.ChannelID, th.ChannelID)
	assert.Equal(t, alice.UserID, th.OwnerID)

	got, err := b.GetThread(ctx, "general", th.ThreadID)
	require.NoError(t, err)
	assert.Equal(t, "general", got.ChannelName)
	assert.Equal(t, "topic", got.ThreadName)
	assert.Equal(t, "details", got.Description)
	assert.Equal(t, "alice", got.OwnerName)
}

func TestCreateThread_Errors(t *testing.T) {
	tests := []struct {
		name   string
		thread types.Thread
		check  func(t *testing.T, err error)
	}{
		{
			name:   "empty thread reports every required field",
			thread: types.Thread{},
			check: func(t *testing.T, err error) {
				requireValidation(t, err, types.FieldChannel, types.FieldOwner, types.FieldThreadName, types.FieldPubDate)
			},
		},
		{
			name:   "missing channel",
			thread: types.Thread{ChannelName: "missing", OwnerName: "alice", ThreadName: "x", PubDate: pubDate},
			check: func(t *testing.T, err error) {
				requireNotFound(t, err, types.KindChannel)
			},
		},
		{
			name:   "missing owner",
			thread: types.Thread{ChannelName: "general", OwnerName: "ghost", ThreadName: "x", PubDate: pubDate},
			check: func(t *testing.T, err error) {
				requireNotFound(t, err, types.KindUser)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBackend(t)
			mustUser(t, b, "alice")
			mustChannel(t, b, "general", "alice")

			th := tt.thread
			tt.check(t, b.CreateThread(context.Background(), &th))

			threads, err := b.ListThreads(context.Background(), "general")
			require.NoError(t, err)
			assert.Empty(t, threads)
		})
	}
}

func TestDeleteThread_KeepsSiblings(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b *Backend) {
		ctx := context.Background()
		alice, general := uniq("alice"), uniq("general")
		mustUser(t, b, alice)
		mustChannel(t, b, general, alice)

		doomed := mustThread(t, b, general, alice)
		kept := mustThread(t, b, general, alice)
		mustComment(t, b, general, doomed.ThreadID, alice)
		keptComment := mustComment(t, b, general, kept.ThreadID, alice)

		require.NoError(t, b.DeleteThread(ctx, general, doomed.ThreadID))

		_, err := b.GetThread(ctx, general, doomed.ThreadID)
		requireNotFound(t, err, types.KindThread)
		_, err = b.ListComments(ctx, general, doomed.ThreadID)
		requireNotFound(t, err, types.KindThread)

		threads, err := b.ListThreads(ctx, general)
		require.NoError(t, err)
		assert.Equal(t, []int64{kept.ThreadID}, threadIDsOf(threads))

		comments, err := b.ListComments(ctx, general, kept.ThreadID)
		require.NoError(t, err)
		assert.Equal(t, []int64{keptComment.CommentID}, commentIDsOf(comments))
	})
}

func TestDeleteThread_Missing(t *testing.T) {
	b := setupBackend(t)
	mustUser(t, b, "alice")
	mustChannel(t, b, "general", "alice")

	requireNotFound(t, b.DeleteThread(context.Background(), "general", 7), types.KindThread)
	requireNotFound(t, b.DeleteThread(context.Background(), "missing", 0), types.KindThread)
}

func TestListThreads_MissingChannel(t *testing.T) {
	b := setupBackend(t)
	_, err := b.ListThreads(context.Background(), "missing")
	requireNotFound(t, err, types.KindChannel)
}
