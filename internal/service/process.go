package service

import (
	"context"
	"os/exec"
	"sync"
	"syscall"

	cerrors "cirrus/internal/errors"
)

// Process is the isolated Handle variant: the service runs as a child
// OS process, so a crash cannot take the supervisor down and the
// kernel schedules it independently.
type Process struct {
	name string
	argv []string
	cmd  *exec.Cmd
	done chan struct{}

	mu  sync.Mutex
	err error
}

// NewProcess creates a process handle for the given command line
func NewProcess(name string, argv []string) *Process {
	return &Process{
		name: name,
		argv: argv,
		done: make(chan struct{}),
	}
}

// Start forks the child process and begins reaping it
func (p *Process) Start() error {
	if len(p.argv) == 0 {
		return cerrors.NewWithDetails(cerrors.ErrServiceStartFailed, "empty command", p.name)
	}

	cmd := exec.Command(p.argv[0], p.argv[1:]...)
	if err := cmd.Start(); err != nil {
		return cerrors.Wrap(cerrors.ErrServiceStartFailed, "failed to start process for "+p.name, err)
	}
	p.cmd = cmd

	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(p.done)
	}()

	return nil
}

// Stop sends SIGTERM and waits for the child to exit
func (p *Process) Stop(ctx context.Context) error {
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}

	// The child may already be gone; Signal on a reaped process just errors.
	_ = p.cmd.Process.Signal(syscall.SIGTERM)

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return cerrors.NewWithDetails(cerrors.ErrServiceStopFailed, "process did not exit on SIGTERM", p.name)
	}
}

// Kill sends SIGKILL to the child
func (p *Process) Kill() {
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
}

// Alive reports whether the child process is still running
func (p *Process) Alive() bool {
	if p.cmd == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Err returns the child's exit error, if any
func (p *Process) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
