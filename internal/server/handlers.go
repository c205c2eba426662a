package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	cerrors "cirrus/internal/errors"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleHealth(c echo.Context) error {
	status := "ok"
	if s.sup.Draining() {
		status = "draining"
	}
	return c.JSON(http.StatusOK, HealthResponse{
		Status:        status,
		Draining:      s.sup.Draining(),
		Workers:       len(s.sup.Workers()),
		Launched:      s.sup.Launched(),
		StartFailures: s.sup.Failures(),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleListWorkers(c echo.Context) error {
	workers := s.sup.Workers()
	return c.JSON(http.StatusOK, WorkersResponse{
		Workers: workers,
		Total:   len(workers),
	})
}

func (s *Server) handleListServices(c echo.Context) error {
	if s.services == nil {
		return c.JSON(http.StatusOK, []ServiceSummary{})
	}
	return c.JSON(http.StatusOK, s.services())
}

func (s *Server) handleListEvents(c echo.Context) error {
	if s.store == nil {
		return cerrors.ToHTTPError(cerrors.New(cerrors.ErrNotFound, "event persistence is disabled"))
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	service := c.QueryParam("service")

	key := fmt.Sprintf("%s|%d|%d", service, limit, offset)
	if events, ok := s.eventCache.Get(key); ok {
		return c.JSON(http.StatusOK, events)
	}

	events, err := s.store.ListEvents(c.Request().Context(), service, limit, offset)
	if err != nil {
		return cerrors.ToHTTPError(err)
	}
	s.eventCache.Set(key, events)
	return c.JSON(http.StatusOK, events)
}

func (s *Server) handleListHeartbeats(c echo.Context) error {
	if s.store == nil {
		return cerrors.ToHTTPError(cerrors.New(cerrors.ErrNotFound, "event persistence is disabled"))
	}

	if beats, ok := s.beatCache.Get("all"); ok {
		return c.JSON(http.StatusOK, beats)
	}

	beats, err := s.store.ListHeartbeats(c.Request().Context())
	if err != nil {
		return cerrors.ToHTTPError(err)
	}
	s.beatCache.Set("all", beats)
	return c.JSON(http.StatusOK, beats)
}
