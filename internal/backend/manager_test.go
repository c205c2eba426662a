package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	cerrors "cirrus/internal/errors"
	"cirrus/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnownManagers(t *testing.T) {
	for _, name := range []string{"compute", "scheduler", "network", "conductor"} {
		ctor, err := Resolve(name)
		require.NoError(t, err, name)
		assert.NotNil(t, ctor)
	}
}

func TestResolveUnknownManager(t *testing.T) {
	_, err := Resolve("quantum")
	require.Error(t, err)
	assert.True(t, cerrors.HasCode(err, cerrors.ErrManagerNotFound))
}

func TestHeartbeatManagerBeats(t *testing.T) {
	s := testutil.SetupTestStore(t)

	ctor, err := Resolve("compute")
	require.NoError(t, err)
	run := ctor("compute", "compute", Deps{Store: s, Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	require.Eventually(t, func() bool {
		beats, err := s.ListHeartbeats(context.Background())
		return err == nil && len(beats) == 1 && beats[0].BeatCount >= 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("run loop did not stop on cancellation")
	}
}
