package store

import (
	"context"
	"time"

	"cirrus/internal/constants"
	cerrors "cirrus/internal/errors"
)

// Lifecycle event kinds recorded against workers
const (
	EventStarted     = "started"
	EventStartFailed = "start_failed"
	EventCrashed     = "crashed"
	EventRespawned   = "respawned"
	EventStopped     = "stopped"
	EventKilled      = "killed"
)

// WorkerEvent is one recorded lifecycle event
type WorkerEvent struct {
	ID        int64     `db:"id" json:"id"`
	WorkerID  string    `db:"worker_id" json:"worker_id"`
	Service   string    `db:"service" json:"service"`
	Event     string    `db:"event" json:"event"`
	Detail    string    `db:"detail" json:"detail,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Heartbeat is the latest liveness report of one backend worker
type Heartbeat struct {
	Service   string    `db:"service" json:"service"`
	WorkerID  string    `db:"worker_id" json:"worker_id"`
	BeatCount int64     `db:"beat_count" json:"beat_count"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RecordEvent appends one lifecycle event
func (s *Store) RecordEvent(ctx context.Context, workerID, service, event, detail string) error {
	query := `
		INSERT INTO worker_events (worker_id, service, event, detail)
		VALUES (?, ?, ?, ?)
	`
	if _, err := s.ExecContext(ctx, query, workerID, service, event, detail); err != nil {
		return cerrors.Wrap(cerrors.ErrStoreQuery, "failed to record worker event", err)
	}
	return nil
}

// ListEvents returns recorded events, newest first. An empty service
// matches all services.
func (s *Store) ListEvents(ctx context.Context, service string, limit, offset int) ([]WorkerEvent, error) {
	if limit <= 0 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	var events []WorkerEvent
	var err error
	if service == "" {
		query := `
			SELECT id, worker_id, service, event, detail, created_at
			FROM worker_events
			ORDER BY id DESC LIMIT ? OFFSET ?
		`
		err = s.SelectContext(ctx, &events, query, limit, offset)
	} else {
		query := `
			SELECT id, worker_id, service, event, detail, created_at
			FROM worker_events
			WHERE service = ?
			ORDER BY id DESC LIMIT ? OFFSET ?
		`
		err = s.SelectContext(ctx, &events, query, service, limit, offset)
	}
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrStoreQuery, "failed to list worker events", err)
	}
	return events, nil
}

// ListEventsSince returns events with an id greater than sinceID,
// oldest first. Used by the live event stream.
func (s *Store) ListEventsSince(ctx context.Context, sinceID int64, limit int) ([]WorkerEvent, error) {
	if limit <= 0 {
		limit = constants.DefaultPageSize
	}
	var events []WorkerEvent
	query := `
		SELECT id, worker_id, service, event, detail, created_at
		FROM worker_events
		WHERE id > ?
		ORDER BY id ASC LIMIT ?
	`
	if err := s.SelectContext(ctx, &events, query, sinceID, limit); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrStoreQuery, "failed to list worker events", err)
	}
	return events, nil
}

// CountEvents returns the number of recorded events for a service
func (s *Store) CountEvents(ctx context.Context, service, event string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM worker_events WHERE service = ? AND event = ?`
	if err := s.GetContext(ctx, &count, query, service, event); err != nil {
		return 0, cerrors.Wrap(cerrors.ErrStoreQuery, "failed to count worker events", err)
	}
	return count, nil
}

// Beat records one heartbeat for a backend worker
func (s *Store) Beat(ctx context.Context, service, workerID string) error {
	query := `
		INSERT INTO heartbeats (service, worker_id, beat_count, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(service, worker_id) DO UPDATE SET
			beat_count = beat_count + 1,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.ExecContext(ctx, query, service, workerID); err != nil {
		return cerrors.Wrap(cerrors.ErrStoreQuery, "failed to record heartbeat", err)
	}
	return nil
}

// ListHeartbeats returns the latest heartbeat per worker
func (s *Store) ListHeartbeats(ctx context.Context) ([]Heartbeat, error) {
	var beats []Heartbeat
	query := `
		SELECT service, worker_id, beat_count, updated_at
		FROM heartbeats
		ORDER BY service, worker_id
	`
	if err := s.SelectContext(ctx, &beats, query); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrStoreQuery, "failed to list heartbeats", err)
	}
	return beats, nil
}
