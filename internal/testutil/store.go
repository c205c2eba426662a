// Package testutil provides shared helpers for tests.
package testutil

import (
	"testing"

	"cirrus/internal/store"
)

// SetupTestStore creates a migrated in-memory event store and closes
// it when the test finishes.
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(store.DefaultConfig(":memory:"))
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}
