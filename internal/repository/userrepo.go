// Package repository defines storage interfaces implemented by concrete backends.
package repository

import "context"

// UserRepository provides lookup and creation of durable user records keyed
// by their verified identity string.
type UserRepository interface {
	// GetByIdentity returns the user id for an identity, or errs.ErrNotFound.
	GetByIdentity(ctx context.Context, identity string) (int64, error)
	// Create inserts a new user row and returns the generated id.
	// Returns errs.ErrAlreadyExists when the identity is already taken.
	Create(ctx context.Context, identity string) (int64, error)
}
