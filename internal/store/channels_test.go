package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/agora/pkg/types"
)

func TestCreateChannel(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	owner := mustUser(t, b, "alice")

	ch := &types.Channel{
		ChannelName: "general",
		Description: "anything goes",
		OwnerName:   "alice",
		Moderators:  []string{"ignored"},
		PubDate:     pubDate,
	}
	require.NoError(t, b.CreateChannel(ctx, ch))
	assert.NotEmpty(t, ch.ChannelID)
	assert.Equal(t, owner.UserID, ch.OwnerID)
	assert.Empty(t, ch.Moderators, "moderators start empty")

	got, err := b.GetChannel(ctx, "general")
	require.NoError(t, err)
	assert.Equal(t, ch.ChannelID, got.ChannelID)
	assert.Equal(t, "anything goes", got.Description)
	assert.Equal(t, []string{}, got.Moderators)
	assert.True(t, got.PubDate.Equal(pubDate))
}

func TestCreateChannel_Validation(t *testing.T) {
	tests := []struct {
		name       string
		channel    types.Channel
		wantFields []string
	}{
		{
			name:       "empty channel reports every required field",
			channel:    types.Channel{},
			wantFields: []string{types.FieldChannelName, types.FieldOwner, types.FieldPubDate},
		},
		{
			name:       "duplicate name",
			channel:    types.Channel{ChannelName: "general", OwnerName: "alice", PubDate: pubDate},
			wantFields: []string{types.FieldChannelName},
		},
		{
			name:       "duplicate name and missing fields together",
			channel:    types.Channel{ChannelName: "general"},
			wantFields: []string{types.FieldChannelName, types.FieldOwner, types.FieldPubDate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBackend(t)
			ctx := context.Background()
			mustUser(t, b, "alice")
			original := mustChannel(t, b, "general", "alice")

			ch := tt.channel
			requireValidation(t, b.CreateChannel(ctx, &ch), tt.wantFields...)
			assert.Equal(t, tt.channel, ch, "failed create must not touch its input")

			channels, err := b.ListChannels(ctx)
			require.NoError(t, err)
			require.Len(t, channels, 1)

			got, err := b.GetChannel(ctx, "general")
			require.NoError(t, err)
			assert.Equal(t, original.ChannelID, got.ChannelID)
			assert.Equal(t, original.OwnerID, got.OwnerID)
			assert.Equal(t, "alice", got.OwnerName)
			assert.Equal(t, original.Description, got.Description)
		})
	}
}

func TestCreateChannel_NamesAreCaseSensitive(t *testing.T) {
	b := setupBackend(t)
	mustUser(t, b, "alice")
	mustChannel(t, b, "general", "alice")
	mustChannel(t, b, "General", "alice")
}

func TestCreateChannel_UnknownOwner(t *testing.T) {
	b := setupBackend(t)
	ch := &types.Channel{ChannelName: "general", OwnerName: "ghost", PubDate: pubDate}
	requireNotFound(t, b.CreateChannel(context.Background(), ch), types.KindUser)
}

func TestSetModerators(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	mustUser(t, b, "alice")
	mustChannel(t, b, "general", "alice")

	ch, err := b.SetModerators(ctx, "general", []string{"carol", "bob", "carol"})
	require.NoError(t, err)
	assert.Equal(t, []string{"carol", "bob"}, ch.Moderators)

	got, err := b.GetChannel(ctx, "general")
	require.NoError(t, err)
	assert.Equal(t, []string{"carol", "bob"}, got.Moderators)
	assert.Equal(t, "alice", got.OwnerName, "moderator changes keep the owner")

	_, err = b.SetModerators(ctx, "general", []string{"bob", " "})
	requireValidation(t, err, types.FieldModerators)

	_, err = b.SetModerators(ctx, "missing", []string{"bob"})
	requireNotFound(t, err, types.KindChannel)
}

func TestListChannels_CreationOrder(t *testing.T) {
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := setupBackend(t, WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	ctx := context.Background()

	channels, err := b.ListChannels(ctx)
	require.NoError(t, err)
	assert.Empty(t, channels)

	mustUser(t, b, "alice")
	for _, name := range []string{"zeta", "alpha", "mid"} {
		mustChannel(t, b, name, "alice")
	}

	channels, err = b.ListChannels(ctx)
	require.NoError(t, err)
	names := make([]string, len(channels))
	for i, ch := range channels {
		names[i] = ch.ChannelName
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestDeleteChannel_Cascades(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	mustUser(t, b, "alice")
	mustChannel(t, b, "doomed", "alice")
	mustChannel(t, b, "kept", "alice")

	for range 2 {
		th := mustThread(t, b, "doomed", "alice")
		mustComment(t, b, "doomed", th.ThreadID, "alice")
	}
	keptThread := mustThread(t, b, "kept", "alice")
	keptComment := mustComment(t, b, "kept", keptThread.ThreadID, "alice")

	require.NoError(t, b.DeleteChannel(ctx, "doomed"))

	_, err := b.GetChannel(ctx, "doomed")
	requireNotFound(t, err, types.KindChannel)
	_, err = b.GetThread(ctx, "doomed", 0)
	requireNotFound(t, err, types.KindThread)

	got, err := b.GetComment(ctx, "kept", keptThread.ThreadID, keptComment.CommentID)
	require.NoError(t, err)
	assert.Equal(t, keptComment.Text, got.Text)

	requireNotFound(t, b.DeleteChannel(ctx, "doomed"), types.KindChannel)
}

func TestDeleteChannel_NameReusableWithFreshIDs(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	mustUser(t, b, "alice")
	mustChannel(t, b, "general", "alice")
	mustThread(t, b, "general", "alice")
	mustThread(t, b, "general", "alice")

	require.NoError(t, b.DeleteChannel(ctx, "general"))
	mustChannel(t, b, "general", "alice")

	th := mustThread(t, b, "general", "alice")
	assert.Equal(t, int64(0), th.ThreadID)
}
