// Package view derives task visibility and aggregate counts from session state.
// It is pure: no storage access, no side effects.
package view

import "github.com/akarpov87/todosync/internal/model"

// Visible reports whether a task is shown under the given filter mode.
func Visible(t *model.Task, mode model.FilterMode) bool {
	switch mode {
	case model.FilterActive:
		return !t.Completed
	case model.FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Snapshot computes the renderable view for a session: visible tasks in
// insertion order and the active count as a sum over the full list.
func Snapshot(sess *model.Session) model.View {
	v := model.View{Tasks: make([]*model.Task, 0, len(sess.Tasks))}
	for _, t := range sess.Tasks {
		if Visible(t, sess.Filter) {
			v.Tasks = append(v.Tasks, t)
		}
		if !t.Completed {
			v.ActiveCount++
		}
	}
	return v
}
