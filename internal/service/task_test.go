package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStartAndStop(t *testing.T) {
	task := NewTask("test", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	require.NoError(t, task.Start())
	assert.True(t, task.Alive())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, task.Stop(ctx))

	assert.False(t, task.Alive())
	// A cancellation-driven exit is clean, not a crash.
	assert.NoError(t, task.Err())
}

func TestTaskDoubleStart(t *testing.T) {
	task := NewTask("test", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	require.NoError(t, task.Start())
	defer task.Kill()

	err := task.Start()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already started")
}

func TestTaskCrashRecordsError(t *testing.T) {
	task := NewTask("test", func(ctx context.Context) error {
		return fmt.Errorf("boom")
	})

	require.NoError(t, task.Start())

	waitDead(t, task)
	assert.EqualError(t, task.Err(), "boom")
}

func TestTaskCleanExit(t *testing.T) {
	task := NewTask("test", func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, task.Start())

	waitDead(t, task)
	assert.NoError(t, task.Err())
}

func TestTaskStopTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	task := NewTask("stuck", func(ctx context.Context) error {
		<-block
		return nil
	})
	require.NoError(t, task.Start())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := task.Stop(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "did not stop in time")
}

func TestTaskStopBeforeStart(t *testing.T) {
	task := NewTask("idle", func(ctx context.Context) error { return nil })
	assert.False(t, task.Alive())
	assert.NoError(t, task.Stop(context.Background()))
}

// waitDead polls until the handle reports dead or the test times out
func waitDead(t *testing.T, h Handle) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !h.Alive() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("handle did not die in time")
}
