package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessStartFailure(t *testing.T) {
	proc := NewProcess("missing", []string{"/nonexistent/binary"})
	err := proc.Start()
	assert.Error(t, err)
	assert.False(t, proc.Alive())
}

func TestProcessEmptyCommand(t *testing.T) {
	proc := NewProcess("empty", nil)
	err := proc.Start()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty command")
}

func TestProcessLifecycle(t *testing.T) {
	proc := NewProcess("sleeper", []string{"sleep", "30"})
	require.NoError(t, proc.Start())
	assert.True(t, proc.Alive())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, proc.Stop(ctx))
	assert.False(t, proc.Alive())
}

func TestProcessCleanExit(t *testing.T) {
	proc := NewProcess("true", []string{"true"})
	require.NoError(t, proc.Start())

	waitDead(t, proc)
	assert.NoError(t, proc.Err())
}

func TestProcessCrashRecordsError(t *testing.T) {
	proc := NewProcess("false", []string{"false"})
	require.NoError(t, proc.Start())

	waitDead(t, proc)
	assert.Error(t, proc.Err())
}

func TestProcessKill(t *testing.T) {
	proc := NewProcess("sleeper", []string{"sleep", "30"})
	require.NoError(t, proc.Start())

	proc.Kill()
	waitDead(t, proc)
	assert.Error(t, proc.Err())
}
