package model

import (
	"errors"
	"testing"

	"github.com/akarpov87/todosync/internal/errs"
)

func TestTaskID_ZeroIsUnpersisted(t *testing.T) {
	var id TaskID
	if id.Persisted() {
		t.Fatalf("zero TaskID must be unpersisted")
	}
	if _, ok := id.Value(); ok {
		t.Fatalf("zero TaskID must carry no value")
	}
	if id.String() != "unpersisted" {
		t.Fatalf("String: %q", id.String())
	}
}

func TestTaskID_Persisted(t *testing.T) {
	id := PersistedID(42)
	if !id.Persisted() {
		t.Fatalf("want persisted")
	}
	n, ok := id.Value()
	if !ok || n != 42 {
		t.Fatalf("Value: %d %v", n, ok)
	}
	if id.String() != "42" {
		t.Fatalf("String: %q", id.String())
	}
}

func TestParseFilterMode(t *testing.T) {
	for _, s := range []string{"all", "active", "completed"} {
		m, err := ParseFilterMode(s)
		if err != nil || string(m) != s {
			t.Fatalf("ParseFilterMode(%q): %v %v", s, m, err)
		}
	}
	if _, err := ParseFilterMode("done"); !errors.Is(err, errs.ErrInvalidFilter) {
		t.Fatalf("want ErrInvalidFilter, got %v", err)
	}
	if _, err := ParseFilterMode(""); !errors.Is(err, errs.ErrInvalidFilter) {
		t.Fatalf("want ErrInvalidFilter on empty, got %v", err)
	}
}
