// Package registry builds the ordered list of service descriptors for
// this host: the API front-ends enabled by configuration, the fixed
// auxiliary server set, and the fixed backend service set. Building
// the registry only records factories; nothing is constructed or
// started until the launcher invokes them.
package registry

import (
	"fmt"

	"cirrus/internal/backend"
	"cirrus/internal/config"
	cerrors "cirrus/internal/errors"
	"cirrus/internal/objectstore"
	"cirrus/internal/server"
	"cirrus/internal/service"
	"cirrus/internal/store"
	"cirrus/internal/supervisor"
)

// Registry produces the service descriptors for one host configuration
type Registry struct {
	cfg   *config.Config
	store *store.Store
	sup   server.Supervisor
}

// New creates a registry. store may be nil; sup is the launcher view
// handed to the admin API.
func New(cfg *config.Config, st *store.Store, sup server.Supervisor) *Registry {
	return &Registry{cfg: cfg, store: st, sup: sup}
}

// Descriptors returns the services to launch, in launch order. The
// order only matters for log readability; no service depends on
// another having started.
func (r *Registry) Descriptors() []supervisor.Descriptor {
	var ds []supervisor.Descriptor

	for _, name := range r.cfg.API.Enabled {
		ds = append(ds, supervisor.Descriptor{
			Name:    name + "-api",
			Workers: r.cfg.API.Workers,
			Factory: r.apiFactory(name),
		})
	}

	ds = append(ds, supervisor.Descriptor{
		Name:    "objectstore",
		Workers: r.cfg.ObjectStore.Workers,
		Factory: r.objectStoreFactory(),
	})

	for _, name := range config.BackendServices {
		sc := r.cfg.Service(name)
		ds = append(ds, supervisor.Descriptor{
			Name:    name,
			Workers: sc.Workers,
			Topic:   sc.Topic,
			Manager: sc.Manager,
			Factory: r.backendFactory(name, sc),
		})
	}

	return ds
}

// Summaries returns the declarative view served by the admin API
func (r *Registry) Summaries() []server.ServiceSummary {
	var summaries []server.ServiceSummary
	for _, d := range r.Descriptors() {
		workers := d.Workers
		if workers < 1 {
			workers = 1
		}
		summaries = append(summaries, server.ServiceSummary{
			Name:    d.Name,
			Workers: workers,
			Topic:   d.Topic,
			Manager: d.Manager,
		})
	}
	return summaries
}

// apiFactory maps an enabled API endpoint name to its factory. An
// unknown name yields a factory that fails, so a typo in the enabled
// list surfaces as one logged startup failure instead of taking the
// host down.
func (r *Registry) apiFactory(name string) service.Factory {
	addr := fmt.Sprintf("%s:%d", r.cfg.API.Host, r.cfg.API.Ports[name])

	switch name {
	case "admin":
		return func() (service.Handle, error) {
			srv := server.New(r.cfg, r.sup, r.store, r.Summaries)
			return service.NewHTTP("admin-api", addr, srv.Echo()), nil
		}
	case "metadata":
		return func() (service.Handle, error) {
			return service.NewHTTP("metadata-api", addr, server.NewMetadata(r.serviceNames())), nil
		}
	default:
		return func() (service.Handle, error) {
			return nil, cerrors.NewWithDetails(cerrors.ErrServiceNotFound, "unknown API endpoint", name)
		}
	}
}

// objectStoreFactory builds the auxiliary object-store server
func (r *Registry) objectStoreFactory() service.Factory {
	addr := fmt.Sprintf("%s:%d", r.cfg.ObjectStore.Host, r.cfg.ObjectStore.Port)
	root := r.cfg.ObjectStore.Root
	return func() (service.Handle, error) {
		return service.NewHTTP("objectstore", addr, objectstore.New(root).Echo()), nil
	}
}

// backendFactory builds a backend service worker: an external process
// when configured so, otherwise a cooperative task running the named
// manager's loop.
func (r *Registry) backendFactory(name string, sc config.ServiceConfig) service.Factory {
	if sc.RunMode == "process" {
		command := sc.Command
		return func() (service.Handle, error) {
			return service.NewProcess(name, command), nil
		}
	}

	return func() (service.Handle, error) {
		ctor, err := backend.Resolve(sc.Manager)
		if err != nil {
			return nil, err
		}
		run := ctor(name, sc.Topic, backend.Deps{
			Store:    r.store,
			Interval: sc.HeartbeatInterval.Std(),
		})
		return service.NewTask(name, run), nil
	}
}

// serviceNames lists every registered service name
func (r *Registry) serviceNames() []string {
	var names []string
	for _, name := range r.cfg.API.Enabled {
		names = append(names, name+"-api")
	}
	names = append(names, "objectstore")
	names = append(names, config.BackendServices...)
	return names
}
