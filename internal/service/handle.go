// Package service defines the contract between the supervisor and the
// things it runs. A Handle is one running instance of a service; the
// supervisor only ever starts it, stops it, and observes whether it is
// still alive. Three variants exist: a cooperative in-process task, an
// independently scheduled OS process, and an HTTP server.
package service

import "context"

// Handle is the runtime surface of one service instance. A Handle is
// owned by exactly one worker and is never restarted: a respawn builds
// a fresh Handle from the service factory.
type Handle interface {
	// Start brings the service up. It returns an error only for
	// failures detected synchronously; later failures surface through
	// Alive and Err.
	Start() error

	// Stop asks the service to shut down and waits for it to exit,
	// bounded by the context deadline.
	Stop(ctx context.Context) error

	// Kill terminates the service without waiting for cooperation.
	Kill()

	// Alive reports whether the service is still running.
	Alive() bool

	// Err returns the exit error once the service has died. A nil
	// result after death means a voluntary clean exit.
	Err() error
}

// Factory builds one Handle. The supervisor calls it once per worker
// replica; each call must return an independently owned Handle.
type Factory func() (Handle, error)
