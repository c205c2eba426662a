package service

import (
	"context"
	"net"
	"net/http"
	"sync"

	cerrors "cirrus/internal/errors"

	"github.com/labstack/echo/v4"
)

// HTTP is the serving Handle variant: an echo server bound to one
// address. Binding happens in Start so that a taken port surfaces as a
// synchronous startup failure instead of a crash moments later.
type HTTP struct {
	name string
	addr string
	echo *echo.Echo
	done chan struct{}

	mu  sync.Mutex
	err error
}

// NewHTTP creates an HTTP handle serving e on addr
func NewHTTP(name, addr string, e *echo.Echo) *HTTP {
	return &HTTP{
		name: name,
		addr: addr,
		echo: e,
		done: make(chan struct{}),
	}
}

// Start binds the listener and begins serving
func (h *HTTP) Start() error {
	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrServiceStartFailed, "failed to bind "+h.addr+" for "+h.name, err)
	}
	h.echo.Listener = ln

	go func() {
		err := h.echo.Start(h.addr)
		h.mu.Lock()
		if err != nil && err != http.ErrServerClosed {
			h.err = err
		}
		h.mu.Unlock()
		close(h.done)
	}()

	return nil
}

// Stop drains in-flight requests and shuts the server down
func (h *HTTP) Stop(ctx context.Context) error {
	if err := h.echo.Shutdown(ctx); err != nil {
		return cerrors.Wrap(cerrors.ErrServiceStopFailed, "failed to shut down "+h.name, err)
	}
	return nil
}

// Kill closes the server without draining
func (h *HTTP) Kill() {
	_ = h.echo.Close()
}

// Alive reports whether the server is still serving
func (h *HTTP) Alive() bool {
	if h.echo.Listener == nil {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Err returns the serve error, if any
func (h *HTTP) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Addr returns the bound address, useful when the configured port is 0
func (h *HTTP) Addr() string {
	if h.echo.Listener != nil {
		return h.echo.Listener.Addr().String()
	}
	return h.addr
}
