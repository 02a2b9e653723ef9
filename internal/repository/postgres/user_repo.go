package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/akarpov87/todosync/internal/errs"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// GetByIdentity selects a user id by its identity string.
func (r *UserRepo) GetByIdentity(ctx context.Context, identity string) (int64, error) {
	const q = `SELECT id FROM users WHERE username=$1`
	var id int64
	if err := r.db.Pool.QueryRow(ctx, q, identity).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errs.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// Create inserts a new user row. The username column is UNIQUE, so a racing
// creation surfaces as errs.ErrAlreadyExists and the caller re-reads.
func (r *UserRepo) Create(ctx context.Context, identity string) (int64, error) {
	const q = `INSERT INTO users (username) VALUES ($1) RETURNING id`
	var id int64
	if err := r.db.Pool.QueryRow(ctx, q, identity).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, errs.ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}
