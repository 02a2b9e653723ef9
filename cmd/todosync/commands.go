package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/akarpov87/todosync/internal/model"
	"github.com/akarpov87/todosync/internal/service"
	"github.com/akarpov87/todosync/internal/view"
)

const usage = `commands:
  login <token>    authenticate with a signed identity token
  logout           drop the current session
  add <text>       add a task
  toggle <n>       flip completion of task #n
  del <n>          delete task #n
  filter <mode>    all | active | completed
  clear            delete all completed tasks
  ls               reconcile and show the list
  quit`

// runner feeds UI events into the engine and prints the resulting view.
type runner struct {
	auth   service.AuthService
	tasks  service.TaskService
	out    io.Writer
	client string
	sess   *model.Session
}

// splitCommand separates the command word from its argument.
func splitCommand(line string) (string, string) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	return cmd, strings.TrimSpace(arg)
}

// handle dispatches one input line. It returns true when the loop should end.
func (r *runner) handle(ctx context.Context, line string) (bool, error) {
	cmd, arg := splitCommand(line)
	switch cmd {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(r.out, usage)
		return false, nil
	case "login":
		sess, v, err := r.auth.Login(ctx, arg, r.client)
		if err != nil {
			return false, err
		}
		r.sess = sess
		fmt.Fprintf(r.out, "logged in as %s\n", sess.Identity)
		r.render(v)
		return false, nil
	case "logout":
		r.auth.Logout(r.sess)
		r.sess = nil
		return false, nil
	case "add":
		return r.event(func() (model.View, error) { return r.tasks.Add(ctx, r.sess, arg) })
	case "toggle":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("toggle: bad task number %q", arg)
		}
		return r.event(func() (model.View, error) { return r.tasks.Toggle(ctx, r.sess, n) })
	case "del":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return false, fmt.Errorf("del: bad task number %q", arg)
		}
		return r.event(func() (model.View, error) { return r.tasks.Remove(ctx, r.sess, n) })
	case "filter":
		mode, err := model.ParseFilterMode(arg)
		if err != nil {
			return false, err
		}
		return r.event(func() (model.View, error) { return r.tasks.SetFilter(ctx, r.sess, mode) })
	case "clear":
		return r.event(func() (model.View, error) { return r.tasks.ClearCompleted(ctx, r.sess) })
	case "ls":
		return r.event(func() (model.View, error) { return r.tasks.Reconcile(ctx, r.sess) })
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

// loop dispatches input lines until the context is cancelled, input ends, or
// a quit command arrives. Reading runs on its own goroutine so cancellation
// takes effect even while a read is blocked.
func (r *runner) loop(ctx context.Context, in io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(r.out, "> ")
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			quit, err := r.handle(ctx, line)
			if err != nil {
				fmt.Fprintln(r.out, "error:", err)
			}
			if quit {
				return
			}
		}
	}
}

// event runs one mutating UI event and renders the refreshed view.
func (r *runner) event(fn func() (model.View, error)) (bool, error) {
	if r.sess == nil {
		return false, errors.New("not logged in")
	}
	v, err := fn()
	if err != nil {
		return false, err
	}
	r.render(v)
	return false, nil
}

// render prints visible tasks with their stable list positions plus the
// active count.
func (r *runner) render(v model.View) {
	if r.sess != nil {
		for i, t := range r.sess.Tasks {
			if !view.Visible(t, r.sess.Filter) {
				continue
			}
			mark := " "
			if t.Completed {
				mark = "x"
			}
			fmt.Fprintf(r.out, "%3d [%s] %s\n", i, mark, t.Text)
		}
	}
	fmt.Fprintf(r.out, "%d active item(s) left\n", v.ActiveCount)
}
