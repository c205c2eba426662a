package server

import (
	"net/http"
	"os"
	"time"

	"cirrus/internal/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// MetadataResponse is the host metadata document
type MetadataResponse struct {
	Hostname      string   `json:"hostname"`
	Services      []string `json:"services"`
	UptimeSeconds int64    `json:"uptime_seconds"`
}

// NewMetadata builds the metadata API: a small read-only endpoint
// answering questions about the host this supervisor runs on.
func NewMetadata(services []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(logger.RequestLogger())

	started := time.Now()
	e.GET("/", func(c echo.Context) error {
		hostname, _ := os.Hostname()
		return c.JSON(http.StatusOK, MetadataResponse{
			Hostname:      hostname,
			Services:      services,
			UptimeSeconds: int64(time.Since(started).Seconds()),
		})
	})
	return e
}
