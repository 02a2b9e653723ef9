package postgres

import (
	"context"

	"github.com/akarpov87/todosync/internal/errs"
	"github.com/akarpov87/todosync/internal/model"
)

// TaskRepo implements TaskRepository using PostgreSQL.
type TaskRepo struct{ db *DB }

// NewTaskRepo constructs a task repository.
func NewTaskRepo(db *DB) *TaskRepo { return &TaskRepo{db: db} }

// Insert creates one row; the store stamps datetime.
func (r *TaskRepo) Insert(ctx context.Context, owner int64, text string, completed bool) (int64, error) {
	const q = `
INSERT INTO todo (userid, field, completed, datetime)
VALUES ($1, $2, $3, now())
RETURNING id`
	var id int64
	if err := r.db.Pool.QueryRow(ctx, q, owner, text, completed).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Update overwrites the row's text/completed fields. A missing row is an
// explicit errs.ErrNotFound, never a silent success.
func (r *TaskRepo) Update(ctx context.Context, id int64, text string, completed bool) error {
	const q = `UPDATE todo SET field=$2, completed=$3 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, text, completed)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes the row. Idempotent: zero rows affected is success.
func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM todo WHERE id=$1`
	_, err := r.db.Pool.Exec(ctx, q, id)
	return err
}

// ListForUser hydrates the owner's tasks in insertion order (id ascending is
// the stable tie-break).
func (r *TaskRepo) ListForUser(ctx context.Context, owner int64) ([]*model.Task, error) {
	const q = `
SELECT id, field, completed, datetime
FROM todo
WHERE userid=$1
ORDER BY id ASC`
	rows, err := r.db.Pool.Query(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Task
	for rows.Next() {
		var (
			id int64
			t  model.Task
		)
		if err = rows.Scan(&id, &t.Text, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.ID = model.PersistedID(id)
		t.Owner = owner
		out = append(out, &t)
	}
	return out, rows.Err()
}
