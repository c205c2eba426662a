package server

import (
	"net/http"
	"strings"
	"time"

	cerrors "cirrus/internal/errors"
	"cirrus/internal/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Allow connections without origin header (e.g., CLI tools)
		if origin == "" {
			return true
		}

		allowedOrigins := []string{
			"http://localhost",
			"https://localhost",
			"http://127.0.0.1",
			"https://127.0.0.1",
			"http://[::1]",
			"https://[::1]",
		}
		for _, allowed := range allowedOrigins {
			if strings.HasPrefix(origin, allowed) {
				return true
			}
		}

		logger.WithFields(logger.Fields{
			"origin": origin,
			"remote": r.RemoteAddr,
		}).Warn("WebSocket connection rejected - invalid origin")
		return false
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleStreamEvents pushes worker lifecycle events to the client as
// they are recorded. The stream starts at the newest existing event.
func (s *Server) handleStreamEvents(c echo.Context) error {
	if s.store == nil {
		return cerrors.ToHTTPError(cerrors.New(cerrors.ErrNotFound, "event persistence is disabled"))
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx := c.Request().Context()

	// Drain client frames so close messages are noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var lastID int64
	if recent, err := s.store.ListEvents(ctx, "", 1, 0); err == nil && len(recent) > 0 {
		lastID = recent[0].ID
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-closed:
			return nil
		case <-ticker.C:
			events, err := s.store.ListEventsSince(ctx, lastID, 0)
			if err != nil {
				logger.WithError(err).Warn("Failed to poll events for stream")
				continue
			}
			for _, ev := range events {
				if err := ws.WriteJSON(ev); err != nil {
					return nil
				}
				lastID = ev.ID
			}
		}
	}
}
