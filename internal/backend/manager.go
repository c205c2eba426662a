// Package backend provides the manager implementations behind the
// fixed backend service set. A manager is resolved by name from the
// service configuration and yields the run loop a worker executes.
package backend

import (
	"context"
	"time"

	cerrors "cirrus/internal/errors"
	"cirrus/internal/logger"
	"cirrus/internal/service"
	"cirrus/internal/store"

	"github.com/rs/xid"
)

// Deps carries the collaborators a manager may use
type Deps struct {
	Store    *store.Store
	Interval time.Duration
}

// Constructor builds the run loop for one worker instance. It is
// invoked once per replica, so every worker gets an independent loop.
type Constructor func(name, topic string, deps Deps) service.RunFunc

// managers maps manager names to their constructors. The stock
// backend set all runs the periodic heartbeat loop; deployments that
// swap in a custom manager name must register it here first.
var managers = map[string]Constructor{
	"compute":   heartbeatManager,
	"scheduler": heartbeatManager,
	"network":   heartbeatManager,
	"conductor": heartbeatManager,
}

// Resolve looks up a manager constructor by name
func Resolve(manager string) (Constructor, error) {
	ctor, ok := managers[manager]
	if !ok {
		return nil, cerrors.NewWithDetails(cerrors.ErrManagerNotFound, "no manager registered under this name", manager)
	}
	return ctor, nil
}

// heartbeatManager reports liveness into the event store on a fixed
// interval until cancelled
func heartbeatManager(name, topic string, deps Deps) service.RunFunc {
	return func(ctx context.Context) error {
		instance := xid.New().String()
		log := logger.WithFields(logger.Fields{
			"service":  name,
			"topic":    topic,
			"instance": instance,
		})
		log.Info("Backend worker running")

		ticker := time.NewTicker(deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Backend worker stopping")
				return ctx.Err()
			case <-ticker.C:
				if deps.Store == nil {
					continue
				}
				if err := deps.Store.Beat(ctx, name, instance); err != nil {
					log.WithError(err).Warn("Failed to record heartbeat")
				}
			}
		}
	}
}
