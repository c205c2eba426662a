package supervisor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	cerrors "cirrus/internal/errors"
	"cirrus/internal/service"
	"cirrus/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOpts() Options {
	return Options{
		RespawnDelay: 20 * time.Millisecond,
		GracePeriod:  250 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
	}
}

// blockingFactory builds tasks that run until cancelled
func blockingFactory(name string) service.Factory {
	return func() (service.Handle, error) {
		return service.NewTask(name, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}), nil
	}
}

// failingFactory always fails construction
func failingFactory() service.Factory {
	return func() (service.Handle, error) {
		return nil, fmt.Errorf("no such device")
	}
}

// waitReturns runs Wait in the background and returns its result channel
func waitReturns(l *Launcher) chan error {
	done := make(chan error, 1)
	go func() { done <- l.Wait() }()
	return done
}

func TestLaunchFailureIsolation(t *testing.T) {
	l := New(testOpts())

	l.Launch(Descriptor{Name: "a", Workers: 1, Factory: failingFactory()})
	l.Launch(Descriptor{Name: "b", Workers: 2, Factory: blockingFactory("b")})

	assert.Equal(t, 1, l.Failures())

	workers := l.Workers()
	require.Len(t, workers, 2)
	assert.NotEqual(t, workers[0].ID, workers[1].ID)
	for _, w := range workers {
		assert.Equal(t, "b", w.Service)
		assert.Equal(t, StateRunning, w.State)
	}

	done := waitReturns(l)
	select {
	case err := <-done:
		t.Fatalf("Wait returned before shutdown: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	l.Shutdown()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after shutdown")
	}
	assert.Empty(t, l.Workers())
}

func TestReplicaIdentity(t *testing.T) {
	l := New(testOpts())
	l.Launch(Descriptor{Name: "api", Workers: 3, Factory: blockingFactory("api")})

	workers := l.Workers()
	require.Len(t, workers, 3)

	seen := map[string]bool{}
	slots := map[int]bool{}
	for _, w := range workers {
		seen[w.ID] = true
		slots[w.Slot] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, slots)

	l.Shutdown()
	require.NoError(t, <-waitReturns(l))
}

func TestDefaultReplicaCount(t *testing.T) {
	l := New(testOpts())
	l.Launch(Descriptor{Name: "single", Factory: blockingFactory("single")})
	assert.Len(t, l.Workers(), 1)

	l.Shutdown()
	require.NoError(t, <-waitReturns(l))
}

func TestWaitWithoutLaunchedWorkers(t *testing.T) {
	l := New(testOpts())
	l.Launch(Descriptor{Name: "broken", Factory: failingFactory()})

	done := waitReturns(l)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait should return immediately when nothing launched")
	}
}

func TestStartErrorAbandonsReplicaOnly(t *testing.T) {
	l := New(testOpts())

	calls := 0
	factory := func() (service.Handle, error) {
		calls++
		if calls == 1 {
			// A task that was already started refuses to start again.
			task := service.NewTask("dup", func(ctx context.Context) error {
				<-ctx.Done()
				return nil
			})
			require.NoError(t, task.Start())
			task.Kill()
			return task, nil
		}
		return service.NewTask("dup", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}), nil
	}
	l.Launch(Descriptor{Name: "dup", Workers: 2, Factory: factory})

	assert.Equal(t, 1, l.Failures())
	assert.Len(t, l.Workers(), 1)

	l.Shutdown()
	require.NoError(t, <-waitReturns(l))
}

func TestRespawnAfterCrashes(t *testing.T) {
	l := New(testOpts())

	var mu sync.Mutex
	runs := 0
	factory := func() (service.Handle, error) {
		return service.NewTask("c", func(ctx context.Context) error {
			mu.Lock()
			runs++
			n := runs
			mu.Unlock()
			if n <= 2 {
				return fmt.Errorf("crash %d", n)
			}
			<-ctx.Done()
			return ctx.Err()
		}), nil
	}
	l.Launch(Descriptor{Name: "c", Factory: factory})

	done := waitReturns(l)

	// Two crashes, two respawns, then the third run stabilizes.
	require.Eventually(t, func() bool {
		workers := l.Workers()
		return len(workers) == 1 && workers[0].State == StateRunning && workers[0].RestartCount == 2
	}, 2*time.Second, 10*time.Millisecond)

	l.Shutdown()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, runs, "no respawn may happen once draining")
}

func TestShutdownIdempotent(t *testing.T) {
	l := New(testOpts())
	l.Launch(Descriptor{Name: "b", Factory: blockingFactory("b")})

	done := waitReturns(l)
	l.Shutdown()
	l.Shutdown()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return")
	}
	assert.True(t, l.Draining())
	assert.Empty(t, l.Workers())
}

func TestDrainBoundForcesStuckWorker(t *testing.T) {
	l := New(testOpts())

	unblock := make(chan struct{})
	defer close(unblock)
	factory := func() (service.Handle, error) {
		return service.NewTask("stuck", func(ctx context.Context) error {
			<-unblock // ignores cancellation
			return nil
		}), nil
	}
	l.Launch(Descriptor{Name: "stuck", Factory: factory})

	done := waitReturns(l)
	start := time.Now()
	l.Shutdown()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.True(t, cerrors.HasCode(err, cerrors.ErrShutdownTimeout))
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return despite forced termination")
	}
	assert.Less(t, time.Since(start), 1500*time.Millisecond)
	assert.Empty(t, l.Workers())
}

func TestLaunchRefusedWhileDraining(t *testing.T) {
	l := New(testOpts())
	l.Shutdown()
	l.Launch(Descriptor{Name: "late", Factory: blockingFactory("late")})

	assert.Zero(t, l.Launched())
	assert.Empty(t, l.Workers())
}

// memRecorder captures lifecycle events in memory
type memRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *memRecorder) RecordEvent(ctx context.Context, workerID, svc, event, detail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, svc+":"+event)
	return nil
}

func (r *memRecorder) count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == key {
			n++
		}
	}
	return n
}

func TestLifecycleEventsRecorded(t *testing.T) {
	rec := &memRecorder{}
	opts := testOpts()
	opts.Recorder = rec
	l := New(opts)

	var mu sync.Mutex
	runs := 0
	factory := func() (service.Handle, error) {
		return service.NewTask("flaky", func(ctx context.Context) error {
			mu.Lock()
			runs++
			n := runs
			mu.Unlock()
			if n == 1 {
				return fmt.Errorf("first run dies")
			}
			<-ctx.Done()
			return ctx.Err()
		}), nil
	}
	l.Launch(Descriptor{Name: "flaky", Factory: factory})
	l.Launch(Descriptor{Name: "broken", Factory: failingFactory()})

	done := waitReturns(l)
	require.Eventually(t, func() bool {
		return rec.count("flaky:"+store.EventRespawned) == 1
	}, 2*time.Second, 10*time.Millisecond)

	l.Shutdown()
	require.NoError(t, <-done)

	assert.Equal(t, 1, rec.count("flaky:"+store.EventStarted))
	assert.Equal(t, 1, rec.count("flaky:"+store.EventCrashed))
	assert.Equal(t, 1, rec.count("broken:"+store.EventStartFailed))
	assert.Equal(t, 1, rec.count("flaky:"+store.EventStopped))
}
