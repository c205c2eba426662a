// Package supervisor implements the cirrus process launcher: it takes
// service descriptors one at a time, replicates each into independent
// workers, isolates per-replica startup failures, respawns workers
// that die unexpectedly, and drains the whole set on shutdown.
package supervisor

import "cirrus/internal/service"

// Descriptor declares one service to launch. It is immutable once
// built; replication re-invokes the factory, never shares handles.
type Descriptor struct {
	// Name identifies the service in logs, events and the admin API
	Name string
	// Factory builds one independently owned handle per replica
	Factory service.Factory
	// Workers is the replica count; values below 1 mean 1
	Workers int
	// Topic is the message topic the service consumes, if any
	Topic string
	// Manager names the manager implementation backing the service
	Manager string
}

// replicas returns the effective worker count
func (d Descriptor) replicas() int {
	if d.Workers < 1 {
		return 1
	}
	return d.Workers
}
