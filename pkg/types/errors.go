package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Forum lifecycle errors.
var (
	ErrDetached        = errors.New("forum is detached")
	ErrAlreadyAttached = errors.New("forum is already attached")
)

// Entity errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("operation not permitted")
	ErrInvalidEntity = errors.New("unsupported entity type")
)

// Entity kinds used in NotFoundError.
const (
	KindUser         = "user"
	KindUserSettings = "user settings"
	KindChannel      = "channel"
	KindThread       = "thread"
	KindComment      = "comment"
)

// Field names reported by ValidationError.
const (
	FieldUsername    = "username"
	FieldUser        = "user"
	FieldChannelName = "channel_name"
	FieldOwner       = "owner"
	FieldModerators  = "moderators"
	FieldPubDate     = "pub_date"
	FieldChannel     = "channel"
	FieldThreadID    = "thread_id"
	FieldThreadName  = "thread_name"
	FieldThread      = "thread"
	FieldCommentID   = "comment_id"
	FieldText        = "text"
)

// ValidationError lists every field of an entity that failed validation,
// mapped to a human-readable message.
type ValidationError struct {
	Fields map[string]string
}

// Add records msg against field. The first message recorded for a field wins.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// FieldNames returns the offending field names in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Err returns e if any field was recorded and nil otherwise.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	names := e.FieldNames()
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError reports a referenced entity that does not exist.
// It matches ErrNotFound under errors.Is.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StorageError wraps a persistence failure that could not be resolved,
// either because it was not retryable or because retries ran out.
type StorageError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: storage failure after %d attempt(s): %v", e.Op, e.Attempts, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
