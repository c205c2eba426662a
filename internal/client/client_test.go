package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"cirrus/internal/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/healthz", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","workers":3,"launched":3,"start_failures":0}`))
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)

	health, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 3, health.Workers)
}

func TestWorkers(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/workers", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"workers":[{"id":"w1","service":"compute","state":"running"}],"total":1}`))
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)

	workers, err := c.Workers(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, workers.Total)
	assert.Equal(t, "compute", workers.Workers[0].Service)
}

func TestServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)

	_, err = c.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestUnreachableServer(t *testing.T) {
	c, err := New("http://127.0.0.1:1")
	require.NoError(t, err)

	_, err = c.Health(context.Background())
	assert.Error(t, err)
}

func TestEventsQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/events", r.URL.Path)
		assert.Equal(t, "compute", r.URL.Query().Get("service"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)

	events, err := c.Events(context.Background(), "compute", 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestServicesDecode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"name":"compute","workers":2,"topic":"compute"}]`))
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)

	services, err := c.Services(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, server.ServiceSummary{Name: "compute", Workers: 2, Topic: "compute"}, services[0])
}
