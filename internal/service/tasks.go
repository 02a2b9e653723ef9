package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/akarpov87/todosync/internal/errs"
	"github.com/akarpov87/todosync/internal/model"
	"github.com/akarpov87/todosync/internal/repository"
	"github.com/akarpov87/todosync/internal/view"
)

// TaskService applies UI events to a session and reconciles the in-memory
// list against storage. Every mutating event funnels through a full
// reconciliation; deletion happens explicitly before the next reconcile runs.
type TaskService interface {
	// Add appends a new unpersisted task and reconciles.
	Add(ctx context.Context, sess *model.Session, text string) (model.View, error)
	// Toggle flips a task's completion flag and reconciles.
	Toggle(ctx context.Context, sess *model.Session, index int) (model.View, error)
	// Remove deletes a task from storage and memory, then reconciles.
	Remove(ctx context.Context, sess *model.Session, index int) (model.View, error)
	// SetFilter switches the visible-task filter and reconciles.
	SetFilter(ctx context.Context, sess *model.Session, mode model.FilterMode) (model.View, error)
	// ClearCompleted deletes every completed task, then reconciles once.
	ClearCompleted(ctx context.Context, sess *model.Session) (model.View, error)
	// Reconcile pushes the whole list to storage and recomputes the view.
	Reconcile(ctx context.Context, sess *model.Session) (model.View, error)
}

type TaskServiceImpl struct {
	repo    repository.TaskRepository
	maxText int
}

// NewTaskService constructs TaskService with a task text length cap.
func NewTaskService(repo repository.TaskRepository, maxText int) *TaskServiceImpl {
	if maxText <= 0 {
		maxText = 500
	}
	return &TaskServiceImpl{repo: repo, maxText: maxText}
}

// Add validates the text, appends the task in memory and reconciles, which
// assigns the durable identifier.
func (s *TaskServiceImpl) Add(ctx context.Context, sess *model.Session, text string) (model.View, error) {
	if err := validSession(sess); err != nil {
		return model.View{}, err
	}
	if text == "" {
		return model.View{}, errors.New("validation: empty task text")
	}
	if len(text) > s.maxText {
		return model.View{}, fmt.Errorf("validation: task text too long (%d > %d)", len(text), s.maxText)
	}
	sess.Tasks = append(sess.Tasks, &model.Task{Owner: sess.Owner, Text: text})
	return s.Reconcile(ctx, sess)
}

// Toggle flips completion state for the task at the given list position.
func (s *TaskServiceImpl) Toggle(ctx context.Context, sess *model.Session, index int) (model.View, error) {
	t, err := taskAt(sess, index)
	if err != nil {
		return model.View{}, err
	}
	t.Completed = !t.Completed
	return s.Reconcile(ctx, sess)
}

// Remove deletes the task at the given position from storage and from the
// in-memory list before reconciling, so reconcile never sees it.
func (s *TaskServiceImpl) Remove(ctx context.Context, sess *model.Session, index int) (model.View, error) {
	t, err := taskAt(sess, index)
	if err != nil {
		return model.View{}, err
	}
	if err := s.deleteTask(ctx, t); err != nil {
		return model.View{}, err
	}
	sess.Tasks = append(sess.Tasks[:index], sess.Tasks[index+1:]...)
	return s.Reconcile(ctx, sess)
}

// SetFilter changes the view filter; counts are refreshed by reconciliation.
func (s *TaskServiceImpl) SetFilter(ctx context.Context, sess *model.Session, mode model.FilterMode) (model.View, error) {
	if err := validSession(sess); err != nil {
		return model.View{}, err
	}
	if _, err := model.ParseFilterMode(string(mode)); err != nil {
		return model.View{}, err
	}
	sess.Filter = mode
	return s.Reconcile(ctx, sess)
}

// ClearCompleted deletes exactly the tasks completed at call time, in list
// order, then runs one reconciliation to refresh counts.
func (s *TaskServiceImpl) ClearCompleted(ctx context.Context, sess *model.Session) (model.View, error) {
	if err := validSession(sess); err != nil {
		return model.View{}, err
	}
	kept := make([]*model.Task, 0, len(sess.Tasks))
	for i, t := range sess.Tasks {
		if !t.Completed {
			kept = append(kept, t)
			continue
		}
		if err := s.deleteTask(ctx, t); err != nil {
			// The failed task and everything after it stay listed, so memory
			// keeps matching what storage actually dropped.
			sess.Tasks = append(kept, sess.Tasks[i:]...)
			return model.View{}, err
		}
	}
	sess.Tasks = kept
	return s.Reconcile(ctx, sess)
}

// Reconcile brings storage into agreement with the in-memory list: inserts
// for unpersisted tasks (assigning their identifier, a one-way transition),
// unconditional updates for the rest. There is no dirty tracking; rewriting
// unchanged rows is an idempotent no-op under autocommit.
func (s *TaskServiceImpl) Reconcile(ctx context.Context, sess *model.Session) (model.View, error) {
	if err := validSession(sess); err != nil {
		return model.View{}, err
	}
	for _, t := range sess.Tasks {
		t.Owner = sess.Owner
		id, persisted := t.ID.Value()
		if !persisted {
			newID, err := s.repo.Insert(ctx, sess.Owner, t.Text, t.Completed)
			if err != nil {
				return model.View{}, err
			}
			t.ID = model.PersistedID(newID)
			continue
		}
		if err := s.repo.Update(ctx, id, t.Text, t.Completed); err != nil {
			return model.View{}, err
		}
	}
	return view.Snapshot(sess), nil
}

// deleteTask removes a persisted row; tasks that never reached storage have
// nothing to delete.
func (s *TaskServiceImpl) deleteTask(ctx context.Context, t *model.Task) error {
	id, persisted := t.ID.Value()
	if !persisted {
		return nil
	}
	return s.repo.Delete(ctx, id)
}

func validSession(sess *model.Session) error {
	if sess == nil || sess.Owner == 0 {
		return errors.New("validation: no active session")
	}
	return nil
}

func taskAt(sess *model.Session, index int) (*model.Task, error) {
	if err := validSession(sess); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sess.Tasks) {
		return nil, fmt.Errorf("%w: task #%d", errs.ErrNotFound, index)
	}
	return sess.Tasks[index], nil
}
