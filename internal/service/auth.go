// Package service contains application services for login and task synchronization.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/akarpov87/todosync/internal/errs"
	"github.com/akarpov87/todosync/internal/limiter"
	"github.com/akarpov87/todosync/internal/model"
	"github.com/akarpov87/todosync/internal/repository"
	"github.com/akarpov87/todosync/internal/view"
)

// TokenVerifier turns a provider-issued token into a verified identity string.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// AuthService defines login/logout and identity resolution.
type AuthService interface {
	// Login verifies the identity token, resolves the user record and
	// hydrates a fresh session from storage.
	Login(ctx context.Context, token, client string) (*model.Session, model.View, error)
	// Resolve maps a verified identity to a durable user id, creating the
	// record on first sight.
	Resolve(ctx context.Context, identity string) (int64, error)
	// Logout discards session state. No storage writes.
	Logout(sess *model.Session)
}

type AuthServiceImpl struct {
	users    repository.UserRepository
	tasks    repository.TaskRepository
	verifier TokenVerifier
	lim      limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tasks repository.TaskRepository, verifier TokenVerifier, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tasks: tasks, verifier: verifier, lim: lim}
}

// Login authenticates with rate limiting keyed by the client descriptor (the
// identity is unknown until the token verifies). A failed verification leaves
// no partial session state behind.
func (s *AuthServiceImpl) Login(ctx context.Context, token, client string) (*model.Session, model.View, error) {
	clientHash := limiter.HashClient(client)

	allowed, _, err := s.lim.Allow(ctx, client, clientHash)
	if err != nil {
		return nil, model.View{}, err
	}
	if !allowed {
		return nil, model.View{}, errs.ErrRateLimited
	}

	identity, err := s.verifier.Verify(ctx, token)
	if err != nil {
		if blocked, _, ferr := s.lim.Failure(ctx, client, clientHash); ferr == nil && blocked {
			return nil, model.View{}, errs.ErrRateLimited
		}
		return nil, model.View{}, fmt.Errorf("%w: %v", errs.ErrAuthenticationFailed, err)
	}
	_ = s.lim.Success(ctx, client, clientHash)

	owner, err := s.Resolve(ctx, identity)
	if err != nil {
		return nil, model.View{}, err
	}

	tasks, err := s.tasks.ListForUser(ctx, owner)
	if err != nil {
		return nil, model.View{}, err
	}

	sid, err := uuid.NewV4()
	if err != nil {
		return nil, model.View{}, err
	}
	sess := &model.Session{
		ID:       sid,
		Owner:    owner,
		Identity: identity,
		Filter:   model.FilterAll,
		Tasks:    tasks,
	}
	return sess, view.Snapshot(sess), nil
}

// Resolve looks up the user row for an identity and creates it on first
// sight. The username column is UNIQUE: losing the creation race yields
// ErrAlreadyExists, which is resolved by re-reading the winner's row.
func (s *AuthServiceImpl) Resolve(ctx context.Context, identity string) (int64, error) {
	if identity == "" {
		return 0, errors.New("validation: empty identity")
	}
	id, err := s.users.GetByIdentity(ctx, identity)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return 0, err
	}
	id, err = s.users.Create(ctx, identity)
	if errors.Is(err, errs.ErrAlreadyExists) {
		return s.users.GetByIdentity(ctx, identity)
	}
	return id, err
}

// Logout clears in-memory state; durable rows are untouched.
func (s *AuthServiceImpl) Logout(sess *model.Session) {
	if sess == nil {
		return
	}
	sess.Tasks = nil
	sess.Owner = 0
	sess.Identity = ""
	sess.Filter = model.FilterAll
}
