package service

import (
	"context"
	"errors"
	"sync"

	cerrors "cirrus/internal/errors"
)

// RunFunc is the body of a cooperative task. It must return promptly
// after its context is cancelled.
type RunFunc func(ctx context.Context) error

// Task is the cooperative Handle variant: the service body runs in a
// goroutine sharing the supervisor's execution context. Cheap, but a
// blocked task cannot be preempted, only abandoned.
type Task struct {
	name   string
	run    RunFunc
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	started bool
	err     error
}

// NewTask creates a task handle around run
func NewTask(name string, run RunFunc) *Task {
	return &Task{
		name: name,
		run:  run,
		done: make(chan struct{}),
	}
}

// Start launches the task body in its own goroutine
func (t *Task) Start() error {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return cerrors.NewWithDetails(cerrors.ErrInvalidState, "task already started", t.name)
	}
	t.started = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel

	go func() {
		err := t.run(ctx)
		t.mu.Lock()
		// Cancellation-driven exits are voluntary, not crashes.
		if err != nil && !errors.Is(err, context.Canceled) {
			t.err = err
		}
		t.mu.Unlock()
		close(t.done)
	}()

	return nil
}

// Stop cancels the task and waits for the body to return
func (t *Task) Stop(ctx context.Context) error {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()
	if !started {
		return nil
	}

	t.cancel()
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return cerrors.NewWithDetails(cerrors.ErrServiceStopFailed, "task did not stop in time", t.name)
	}
}

// Kill cancels the task without waiting. A goroutine cannot be
// terminated harder than that; a wedged body stays leaked.
func (t *Task) Kill() {
	if t.cancel != nil {
		t.cancel()
	}
}

// Alive reports whether the task body is still running
func (t *Task) Alive() bool {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()
	if !started {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Err returns the task's exit error, if any
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
