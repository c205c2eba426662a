// Package constants defines application-wide constants to avoid magic numbers
package constants

import "time"

// Network and Port Constants
const (
	// DefaultAPIPort is the default port for the cirrus admin API server
	DefaultAPIPort = 8774

	// DefaultObjectStorePort is the default port for the object-store server
	DefaultObjectStorePort = 3333
)

// File System Permissions
const (
	// DirPermissions is the standard directory permissions for cirrus directories
	DirPermissions = 0755

	// FilePermissions is the standard file permissions for cirrus config files
	FilePermissions = 0644
)

// Supervisor Timing
const (
	// DefaultRespawnDelay is the default delay before a crashed worker is respawned
	DefaultRespawnDelay = 1 * time.Second

	// DefaultGracePeriod is the default bound on draining workers at shutdown
	DefaultGracePeriod = 30 * time.Second

	// DefaultPollInterval is the default liveness poll interval of the monitor loop
	DefaultPollInterval = 250 * time.Millisecond

	// DefaultHeartbeatInterval is the default interval between backend heartbeats
	DefaultHeartbeatInterval = 10 * time.Second
)

// HTTP Configuration
const (
	// DefaultHTTPClientTimeout is the default timeout for admin API client requests
	DefaultHTTPClientTimeout = 30 * time.Second

	// DefaultServerReadTimeout is the default server read timeout
	DefaultServerReadTimeout = 10 * time.Second

	// DefaultServerWriteTimeout is the default server write timeout
	DefaultServerWriteTimeout = 10 * time.Second
)

// Database Configuration
const (
	// DefaultMaxOpenConnections is the default maximum number of database connections
	DefaultMaxOpenConnections = 25

	// DefaultMaxIdleConnections is the default maximum number of idle database connections
	DefaultMaxIdleConnections = 5

	// DefaultConnectionLifetime is the default maximum lifetime of a database connection
	DefaultConnectionLifetime = 5 * time.Minute
)

// Read Cache Configuration
const (
	// DefaultReadCacheTTL is how long cached admin API query results stay fresh
	DefaultReadCacheTTL = 1 * time.Second

	// DefaultReadCacheSize is the maximum number of cached query results
	DefaultReadCacheSize = 128
)

// Pagination Constants
const (
	// DefaultPageSize is the default number of items per page in paginated responses
	DefaultPageSize = 50

	// MaxPageSize is the maximum allowed page size to prevent resource exhaustion
	MaxPageSize = 500
)

// Network Port Validation
const (
	// MinPortNumber is the minimum valid TCP port number
	MinPortNumber = 1

	// MaxPortNumber is the maximum valid TCP port number
	MaxPortNumber = 65535
)
