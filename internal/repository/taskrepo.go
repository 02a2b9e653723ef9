package repository

import (
	"context"

	"github.com/akarpov87/todosync/internal/model"
)

// TaskRepository provides row-level access to the task table. Every call is a
// single autocommitted statement.
type TaskRepository interface {
	// Insert creates one row and returns the generated id. The store stamps
	// the creation time.
	Insert(ctx context.Context, owner int64, text string, completed bool) (int64, error)

	// Update overwrites text/completed for a row.
	// Returns errs.ErrNotFound when the id does not exist.
	Update(ctx context.Context, id int64, text string, completed bool) error

	// Delete removes a row. Deleting an absent row is not an error.
	Delete(ctx context.Context, id int64) error

	// ListForUser returns the owner's tasks ordered by id ascending.
	ListForUser(ctx context.Context, owner int64) ([]*model.Task, error)
}
