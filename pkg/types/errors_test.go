package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	require.NoError(t, verr.Err())

	verr.Add(FieldThreadID, "taken")
	verr.Add(FieldChannel, "taken")
	verr.Add(FieldChannel, "second message is ignored")

	err := verr.Err()
	require.Error(t, err)
	assert.Equal(t, []string{FieldChannel, FieldThreadID}, verr.FieldNames())
	assert.True(t, verr.Has(FieldChannel))
	assert.False(t, verr.Has(FieldOwner))
	assert.Equal(t, "validation failed: channel: taken; thread_id: taken", err.Error())

	var target *ValidationError
	require.ErrorAs(t, fmt.Errorf("creating thread: %w", err), &target)
	assert.Len(t, target.Fields, 2)
}

func TestValidationError_NilErr(t *testing.T) {
	var verr *ValidationError
	assert.NoError(t, verr.Err())
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("deleting thread: %w", &NotFoundError{Kind: KindThread, Key: "general/3"})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrForbidden)
	assert.Contains(t, err.Error(), `thread "general/3" not found`)
}

func TestStorageError(t *testing.T) {
	cause := errors.New("database is locked")
	err := &StorageError{Op: "create thread", Attempts: 4, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "create thread: storage failure after 4 attempt(s): database is locked", err.Error())
}
