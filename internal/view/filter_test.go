package view

import (
	"testing"

	"github.com/akarpov87/todosync/internal/model"
)

func TestVisible_TruthTable(t *testing.T) {
	cases := []struct {
		mode      model.FilterMode
		completed bool
		want      bool
	}{
		{model.FilterAll, false, true},
		{model.FilterAll, true, true},
		{model.FilterActive, false, true},
		{model.FilterActive, true, false},
		{model.FilterCompleted, false, false},
		{model.FilterCompleted, true, true},
	}
	for _, c := range cases {
		got := Visible(&model.Task{Completed: c.completed}, c.mode)
		if got != c.want {
			t.Fatalf("Visible(completed=%v, %s) = %v, want %v", c.completed, c.mode, got, c.want)
		}
	}
}

func TestSnapshot(t *testing.T) {
	sess := &model.Session{
		Owner:  1,
		Filter: model.FilterActive,
		Tasks: []*model.Task{
			{Text: "A"},
			{Text: "B", Completed: true},
			{Text: "C"},
		},
	}

	v := Snapshot(sess)
	if v.ActiveCount != 2 {
		t.Fatalf("active count: %d", v.ActiveCount)
	}
	if len(v.Tasks) != 2 || v.Tasks[0].Text != "A" || v.Tasks[1].Text != "C" {
		t.Fatalf("visible under active: %+v", v.Tasks)
	}

	sess.Filter = model.FilterAll
	v = Snapshot(sess)
	if len(v.Tasks) != 3 || v.ActiveCount != 2 {
		t.Fatalf("visible under all: %d tasks, %d active", len(v.Tasks), v.ActiveCount)
	}

	sess.Filter = model.FilterCompleted
	v = Snapshot(sess)
	if len(v.Tasks) != 1 || v.Tasks[0].Text != "B" {
		t.Fatalf("visible under completed: %+v", v.Tasks)
	}
}

func TestSnapshot_Empty(t *testing.T) {
	v := Snapshot(&model.Session{Owner: 1, Filter: model.FilterAll})
	if len(v.Tasks) != 0 || v.ActiveCount != 0 {
		t.Fatalf("empty list: %+v", v)
	}
}
