package supervisor

import (
	"time"

	"cirrus/internal/service"
)

// State is the lifecycle state of one worker
type State string

const (
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateExited   State = "exited"
	StateFailed   State = "failed"
)

// Worker is one running instance of a service under supervision. All
// fields are guarded by the launcher mutex after registration.
type Worker struct {
	ID           string
	Slot         int
	Descriptor   Descriptor
	Handle       service.Handle
	State        State
	RestartCount int
	StartedAt    time.Time

	// respawnAt is nonzero while a replacement is scheduled; it
	// spaces out restarts so a crashing service cannot spin.
	respawnAt time.Time
}

// WorkerInfo is an immutable snapshot of a worker for observers
type WorkerInfo struct {
	ID           string    `json:"id"`
	Service      string    `json:"service"`
	Slot         int       `json:"slot"`
	State        State     `json:"state"`
	RestartCount int       `json:"restart_count"`
	StartedAt    time.Time `json:"started_at"`
	Topic        string    `json:"topic,omitempty"`
	Manager      string    `json:"manager,omitempty"`
}

// info snapshots the worker. Call with the launcher mutex held.
func (w *Worker) info() WorkerInfo {
	return WorkerInfo{
		ID:           w.ID,
		Service:      w.Descriptor.Name,
		Slot:         w.Slot,
		State:        w.State,
		RestartCount: w.RestartCount,
		StartedAt:    w.StartedAt,
		Topic:        w.Descriptor.Topic,
		Manager:      w.Descriptor.Manager,
	}
}
