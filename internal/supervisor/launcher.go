package supervisor

import (
	"context"
	"sort"
	"sync"
	"time"

	"cirrus/internal/constants"
	cerrors "cirrus/internal/errors"
	"cirrus/internal/logger"
	"cirrus/internal/store"

	"github.com/google/uuid"
)

// Recorder persists worker lifecycle events. A nil Recorder disables
// persistence; the launcher never depends on it for correctness.
type Recorder interface {
	RecordEvent(ctx context.Context, workerID, service, event, detail string) error
}

// Options tunes the launcher
type Options struct {
	// RespawnDelay spaces out restarts of a crashing worker
	RespawnDelay time.Duration
	// GracePeriod bounds draining at shutdown
	GracePeriod time.Duration
	// PollInterval is how often the monitor loop checks liveness
	PollInterval time.Duration
	// Recorder receives lifecycle events, may be nil
	Recorder Recorder
}

// Launcher tracks all workers of the control process. One service
// failing to construct or start never prevents the others from
// running; Launch swallows per-replica failures after logging them.
type Launcher struct {
	opts     Options
	recorder Recorder

	mu           sync.Mutex
	workers      map[string]*Worker
	launched     int
	failures     int
	forced       int
	shuttingDown bool

	once sync.Once
	wake chan struct{}
}

// New creates a launcher with bounded defaults for unset options
func New(opts Options) *Launcher {
	if opts.RespawnDelay <= 0 {
		opts.RespawnDelay = constants.DefaultRespawnDelay
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = constants.DefaultGracePeriod
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = constants.DefaultPollInterval
	}
	return &Launcher{
		opts:     opts,
		recorder: opts.Recorder,
		workers:  make(map[string]*Worker),
		wake:     make(chan struct{}, 1),
	}
}

// Launch builds and starts the descriptor's replicas. Failures are
// logged and recorded per replica, never propagated: a broken service
// must not block the remainder of the batch from starting.
func (l *Launcher) Launch(d Descriptor) {
	for slot := 0; slot < d.replicas(); slot++ {
		l.spawn(d, slot, 0, store.EventStarted)
	}
}

// spawn builds and starts one worker. It returns false when the
// replica was abandoned, either on failure or because shutdown began.
func (l *Launcher) spawn(d Descriptor, slot, restarts int, event string) bool {
	l.mu.Lock()
	if l.shuttingDown {
		l.mu.Unlock()
		return false
	}
	l.mu.Unlock()

	handle, err := d.Factory()
	if err != nil {
		l.noteStartFailure(d, slot, err)
		return false
	}

	w := &Worker{
		ID:           uuid.NewString(),
		Slot:         slot,
		Descriptor:   d,
		Handle:       handle,
		State:        StateStarting,
		RestartCount: restarts,
	}

	if err := handle.Start(); err != nil {
		l.noteStartFailure(d, slot, err)
		return false
	}
	w.State = StateRunning
	w.StartedAt = time.Now()

	l.mu.Lock()
	if l.shuttingDown {
		l.mu.Unlock()
		// Shutdown raced the start. The worker is never tracked, so
		// it has to be taken down right here.
		ctx, cancel := context.WithTimeout(context.Background(), l.opts.GracePeriod)
		defer cancel()
		if err := handle.Stop(ctx); err != nil {
			handle.Kill()
		}
		return false
	}
	l.workers[w.ID] = w
	l.launched++
	l.mu.Unlock()

	logger.WithFields(logger.Fields{
		"service":  d.Name,
		"worker":   w.ID,
		"slot":     slot,
		"restarts": restarts,
	}).Info("Worker started")
	l.record(w.ID, d.Name, event, "")
	return true
}

// noteStartFailure logs and counts an abandoned replica
func (l *Launcher) noteStartFailure(d Descriptor, slot int, err error) {
	l.mu.Lock()
	l.failures++
	l.mu.Unlock()

	logger.WithFields(logger.Fields{
		"service": d.Name,
		"slot":    slot,
	}).WithError(err).Error("Service failed to start")
	l.record("", d.Name, store.EventStartFailed, err.Error())
}

// Wait blocks until shutdown completes. While blocked it monitors
// tracked workers, respawning crashed ones unless draining. It
// returns immediately when no worker ever launched, nil after a clean
// drain, and a shutdown-timeout error when workers had to be killed.
func (l *Launcher) Wait() error {
	l.mu.Lock()
	if l.launched == 0 {
		l.mu.Unlock()
		logger.Warn("No workers launched, nothing to supervise")
		return nil
	}
	l.mu.Unlock()

	ticker := time.NewTicker(l.opts.PollInterval)
	defer ticker.Stop()

	for {
		if l.scan() {
			break
		}
		select {
		case <-ticker.C:
		case <-l.wake:
		}
	}

	l.mu.Lock()
	forced := l.forced
	l.mu.Unlock()

	logger.Info("Supervisor stopped")
	if forced > 0 {
		return cerrors.ErrShutdownTimedOut
	}
	return nil
}

type pendingEvent struct {
	workerID string
	service  string
	event    string
	detail   string
}

// scan is one pass of the monitor loop. It transitions dead workers,
// schedules and executes respawns, and reports whether the drain has
// completed. Respawns run outside the lock, one at a time, so restarts
// for a slot are serialized and never storm.
func (l *Launcher) scan() bool {
	now := time.Now()
	var pending []pendingEvent
	var respawns []*Worker

	l.mu.Lock()
	for id, w := range l.workers {
		switch w.State {
		case StateStarting, StateRunning:
			if w.Handle.Alive() {
				continue
			}
			detail := ""
			if err := w.Handle.Err(); err != nil {
				w.State = StateFailed
				detail = err.Error()
			} else {
				w.State = StateExited
			}
			logger.WithFields(logger.Fields{
				"service": w.Descriptor.Name,
				"worker":  w.ID,
				"state":   string(w.State),
				"error":   detail,
			}).Warn("Worker died")
			if l.shuttingDown {
				delete(l.workers, id)
				pending = append(pending, pendingEvent{w.ID, w.Descriptor.Name, store.EventStopped, detail})
			} else {
				w.respawnAt = now.Add(l.opts.RespawnDelay)
				pending = append(pending, pendingEvent{w.ID, w.Descriptor.Name, store.EventCrashed, detail})
			}
		case StateExited, StateFailed:
			if l.shuttingDown {
				delete(l.workers, id)
				continue
			}
			if !w.respawnAt.IsZero() && !now.Before(w.respawnAt) {
				delete(l.workers, id)
				respawns = append(respawns, w)
			}
		}
	}
	done := l.shuttingDown && len(l.workers) == 0
	l.mu.Unlock()

	for _, ev := range pending {
		l.record(ev.workerID, ev.service, ev.event, ev.detail)
	}
	for _, w := range respawns {
		logger.WithFields(logger.Fields{
			"service":  w.Descriptor.Name,
			"slot":     w.Slot,
			"restarts": w.RestartCount + 1,
		}).Info("Respawning worker")
		l.spawn(w.Descriptor, w.Slot, w.RestartCount+1, store.EventRespawned)
	}
	return done
}

// Shutdown flips the launcher into draining mode. It is monotonic and
// idempotent: only the first call snapshots the worker set and starts
// the bounded drain; later calls just nudge the monitor loop.
func (l *Launcher) Shutdown() {
	l.once.Do(func() {
		l.mu.Lock()
		l.shuttingDown = true
		targets := make([]*Worker, 0, len(l.workers))
		for _, w := range l.workers {
			targets = append(targets, w)
		}
		l.mu.Unlock()

		logger.Infof("Shutdown requested, draining %d workers", len(targets))
		go l.drain(targets)
	})
	l.nudge()
}

// drain asks every worker to stop within the grace period and kills
// the ones that do not make it
func (l *Launcher) drain(targets []*Worker) {
	ctx, cancel := context.WithTimeout(context.Background(), l.opts.GracePeriod)
	defer cancel()

	var wg sync.WaitGroup
	for _, w := range targets {
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			if err := w.Handle.Stop(ctx); err != nil {
				logger.WithFields(logger.Fields{
					"service": w.Descriptor.Name,
					"worker":  w.ID,
				}).WithError(err).Warn("Worker did not stop within grace period, killing it")
				w.Handle.Kill()
				l.untrack(w, store.EventKilled, true)
				return
			}
			l.untrack(w, store.EventStopped, false)
		}(w)
	}
	wg.Wait()
	l.nudge()
}

// untrack removes a drained worker. The monitor loop may already have
// removed it if it died on its own; then this is a no-op.
func (l *Launcher) untrack(w *Worker, event string, forced bool) {
	l.mu.Lock()
	_, tracked := l.workers[w.ID]
	if tracked {
		delete(l.workers, w.ID)
		if forced {
			l.forced++
		}
		if w.State == StateStarting || w.State == StateRunning {
			w.State = StateExited
		}
	}
	l.mu.Unlock()

	if tracked {
		l.record(w.ID, w.Descriptor.Name, event, "")
	}
	l.nudge()
}

// nudge wakes the monitor loop without waiting for the next tick
func (l *Launcher) nudge() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// record persists one lifecycle event, best effort
func (l *Launcher) record(workerID, service, event, detail string) {
	if l.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.recorder.RecordEvent(ctx, workerID, service, event, detail); err != nil {
		logger.WithError(err).Warnf("Failed to record %s event for %s", event, service)
	}
}

// Workers returns a snapshot of all tracked workers, ordered by
// service name and slot
func (l *Launcher) Workers() []WorkerInfo {
	l.mu.Lock()
	infos := make([]WorkerInfo, 0, len(l.workers))
	for _, w := range l.workers {
		infos = append(infos, w.info())
	}
	l.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Service != infos[j].Service {
			return infos[i].Service < infos[j].Service
		}
		return infos[i].Slot < infos[j].Slot
	})
	return infos
}

// Failures returns the number of replicas abandoned at startup
func (l *Launcher) Failures() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failures
}

// Launched returns the number of workers ever started successfully
func (l *Launcher) Launched() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launched
}

// Draining reports whether shutdown has begun
func (l *Launcher) Draining() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shuttingDown
}
