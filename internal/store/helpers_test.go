package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/agora/pkg/types"
)

// envPostgresDSN enables the PostgreSQL runs of the shared tests.
const envPostgresDSN = "AGORA_TEST_DATABASE_URL"

var pubDate = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// setupBackend attaches a SQLite backend in a fresh temp directory.
func setupBackend(t *testing.T, opts ...Option) *Backend {
	t.Helper()

	b := NewBackend(opts...)
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })
	return b
}

// setupPostgres attaches a PostgreSQL backend, or skips when no DSN is set.
func setupPostgres(t *testing.T) *Backend {
	t.Helper()

	dsn := os.Getenv(envPostgresDSN)
	if dsn == "" {
		t.Skipf("%s not set", envPostgresDSN)
	}
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendPostgres, DSN: dsn}))
	t.Cleanup(func() { b.Detach() })
	return b
}

// forEachBackend runs fn against SQLite and, when configured, PostgreSQL.
// Names passed to the helpers below are made unique per call with uniq so
// that runs against a shared database do not collide.
func forEachBackend(t *testing.T, fn func(t *testing.T, b *Backend)) {
	t.Run(types.BackendSQLite, func(t *testing.T) {
		fn(t, setupBackend(t))
	})
	t.Run(types.BackendPostgres, func(t *testing.T) {
		fn(t, setupPostgres(t))
	})
}

func uniq(name string) string {
	return name + "-" + uuid.NewString()[:8]
}

func mustUser(t *testing.T, b *Backend, username string) *types.User {
	t.Helper()
	u := &types.User{Username: username}
	require.NoError(t, b.CreateUser(context.Background(), u))
	return u
}

func mustChannel(t *testing.T, b *Backend, name, owner string) *types.Channel {
	t.Helper()
	ch := &types.Channel{ChannelName: name, Description: "about " + name, OwnerName: owner, PubDate: pubDate}
	require.NoError(t, b.CreateChannel(context.Background(), ch))
	return ch
}

func mustThread(t *testing.T, b *Backend, channel, owner string) *types.Thread {
	t.Helper()
	th := &types.Thread{ChannelName: channel, OwnerName: owner, ThreadName: "topic", Description: "details", PubDate: pubDate}
	require.NoError(t, b.CreateThread(context.Background(), th))
	return th
}

func mustComment(t *testing.T, b *Backend, channel string, threadID int64, owner string) *types.Comment {
	t.Helper()
	c := &types.Comment{ChannelName: channel, ThreadID: threadID, OwnerName: owner, Text: "hello", PubDate: pubDate}
	require.NoError(t, b.CreateComment(context.Background(), c))
	return c
}

// requireValidation asserts err is a ValidationError naming exactly fields.
func requireValidation(t *testing.T, err error, fields ...string) {
	t.Helper()
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, fields, verr.FieldNames())
}

// requireNotFound asserts err is a NotFoundError of the given kind.
func requireNotFound(t *testing.T, err error, kind string) {
	t.Helper()
	require.ErrorIs(t, err, types.ErrNotFound)
	var nf *types.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, kind, nf.Kind)
}

func threadIDsOf(threads []*types.Thread) []int64 {
	ids := make([]int64, len(threads))
	for i, th := range threads {
		ids[i] = th.ThreadID
	}
	return ids
}

func commentIDsOf(comments []*types.Comment) []int64 {
	ids := make([]int64, len(comments))
	for i, c := range comments {
		ids[i] = c.CommentID
	}
	return ids
}
