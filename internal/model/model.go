// Package model defines domain entities used by services and repositories.
package model

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/akarpov87/todosync/internal/errs"
)

// TaskID is a two-variant task identifier: the zero value means the task has
// not been persisted yet; PersistedID wraps a database-assigned identifier.
// Once persisted an identifier never changes.
type TaskID struct {
	n  int64
	ok bool
}

// PersistedID returns the identifier for a stored row.
func PersistedID(n int64) TaskID { return TaskID{n: n, ok: true} }

// Value returns the stored identifier and whether the task is persisted.
func (id TaskID) Value() (int64, bool) { return id.n, id.ok }

// Persisted reports whether a durable identifier has been assigned.
func (id TaskID) Persisted() bool { return id.ok }

func (id TaskID) String() string {
	if !id.ok {
		return "unpersisted"
	}
	return fmt.Sprintf("%d", id.n)
}

// User is a durable account record created on first login. Never mutated.
type User struct {
	ID       int64
	Identity string // provider-verified identity string, e.g. email
}

// Task is a single list item. Owner always equals the owning session's user.
type Task struct {
	ID        TaskID
	Owner     int64
	Text      string
	Completed bool
	CreatedAt time.Time // server-assigned on insert
}

// FilterMode selects which tasks are visible in the current view.
type FilterMode string

// Supported filter modes.
const (
	FilterAll       FilterMode = "all"
	FilterActive    FilterMode = "active"
	FilterCompleted FilterMode = "completed"
)

// ParseFilterMode maps a mode name to a FilterMode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(s) {
	case FilterAll, FilterActive, FilterCompleted:
		return FilterMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", errs.ErrInvalidFilter, s)
}

// Session holds the per-login in-memory view state. Tasks keep insertion
// order and are never re-sorted.
type Session struct {
	ID       uuid.UUID
	Owner    int64
	Identity string
	Filter   FilterMode
	Tasks    []*Task
}

// View is what the presentation layer renders after an event: the tasks
// visible under the current filter and the count of incomplete tasks.
type View struct {
	Tasks       []*Task
	ActiveCount int
}
