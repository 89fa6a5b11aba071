package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/agora/pkg/types"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		entity     any
		wantFields []string
	}{
		{
			name:       "thread id collision names channel and thread_id",
			entity:     &types.Thread{ChannelName: "general", ThreadID: 0, OwnerName: "alice", ThreadName: "dup", PubDate: pubDate},
			wantFields: []string{types.FieldChannel, types.FieldThreadID},
		},
		{
			name:       "free thread id passes",
			entity:     &types.Thread{ChannelName: "general", ThreadID: 5, OwnerName: "alice", ThreadName: "new", PubDate: pubDate},
			wantFields: nil,
		},
		{
			name:       "comment id collision names thread and comment_id",
			entity:     &types.Comment{ChannelName: "general", ThreadID: 0, CommentID: 0, OwnerName: "alice", Text: "dup", PubDate: pubDate},
			wantFields: []string{types.FieldThread, types.FieldCommentID},
		},
		{
			name:       "same comment id in another thread passes",
			entity:     &types.Comment{ChannelName: "general", ThreadID: 1, CommentID: 0, OwnerName: "alice", Text: "ok", PubDate: pubDate},
			wantFields: nil,
		},
		{
			name:       "duplicate channel name with missing fields reports all",
			entity:     &types.Channel{ChannelName: "general"},
			wantFields: []string{types.FieldChannelName, types.FieldOwner, types.FieldPubDate},
		},
		{
			name:       "channel with blank moderator",
			entity:     &types.Channel{ChannelName: "other", OwnerName: "alice", PubDate: pubDate, Moderators: []string{""}},
			wantFields: []string{types.FieldModerators},
		},
		{
			name:       "duplicate username",
			entity:     &types.User{Username: "alice"},
			wantFields: []string{types.FieldUsername},
		},
		{
			name:       "new username passes",
			entity:     &types.User{Username: "zed"},
			wantFields: nil,
		},
	}

	b := setupBackend(t)
	mustUser(t, b, "alice")
	mustChannel(t, b, "general", "alice")
	th := mustThread(t, b, "general", "alice")
	mustThread(t, b, "general", "alice")
	mustComment(t, b, "general", th.ThreadID, "alice")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.Validate(context.Background(), tt.entity)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			requireValidation(t, err, tt.wantFields...)
		})
	}
}

func TestValidate_ExistingUserIsNotItsOwnDuplicate(t *testing.T) {
	b := setupBackend(t)
	u := mustUser(t, b, "alice")
	assert.NoError(t, b.Validate(context.Background(), u))
}

func TestValidate_DoesNotStore(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	mustUser(t, b, "alice")

	ch := &types.Channel{ChannelName: "general", OwnerName: "alice", PubDate: pubDate}
	require.NoError(t, b.Validate(ctx, ch))

	_, err := b.GetChannel(ctx, "general")
	requireNotFound(t, err, types.KindChannel)
}

func TestValidate_UnsupportedEntity(t *testing.T) {
	b := setupBackend(t)
	err := b.Validate(context.Background(), "not an entity")
	assert.ErrorIs(t, err, types.ErrInvalidEntity)
}
