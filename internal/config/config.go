// Package config loads and validates the cirrus host configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cirrus/internal/constants"
	"cirrus/internal/errors"
	"cirrus/internal/validation"
	"cirrus/internal/xdg"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the global cirrus configuration
type Config struct {
	LogLevel    string                   `toml:"log_level"`
	Supervisor  SupervisorConfig         `toml:"supervisor"`
	API         APIConfig                `toml:"api"`
	ObjectStore ObjectStoreConfig        `toml:"objectstore"`
	Store       StoreConfig              `toml:"store"`
	Services    map[string]ServiceConfig `toml:"services"`
}

// Duration wraps time.Duration so TOML values like "30s" parse
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// SupervisorConfig tunes the process launcher. The respawn delay and the
// drain grace period are deliberately configuration, not constants.
type SupervisorConfig struct {
	RespawnDelay Duration `toml:"respawn_delay"`
	GracePeriod  Duration `toml:"grace_period"`
	PollInterval Duration `toml:"poll_interval"`
}

// APIConfig describes the API front-ends to launch
type APIConfig struct {
	Host    string         `toml:"host"`
	Enabled []string       `toml:"enabled"`
	Ports   map[string]int `toml:"ports"`
	Workers int            `toml:"workers"`
}

// ObjectStoreConfig describes the auxiliary object-store server
type ObjectStoreConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Root    string `toml:"root"`
	Workers int    `toml:"workers"`
}

// StoreConfig describes the supervision event store
type StoreConfig struct {
	Path string `toml:"path"`
}

// ServiceConfig overrides launch parameters for one backend service
type ServiceConfig struct {
	Workers           int           `toml:"workers"`
	Topic             string        `toml:"topic"`
	Manager           string        `toml:"manager"`
	RunMode           string        `toml:"run_mode"` // "task" or "process"
	Command           []string      `toml:"command"`  // process mode only
	HeartbeatInterval Duration `toml:"heartbeat_interval"`
}

// BackendServices is the fixed backend service set launched on every host.
var BackendServices = []string{"compute", "scheduler", "network", "conductor"}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Supervisor: SupervisorConfig{
			RespawnDelay: Duration(constants.DefaultRespawnDelay),
			GracePeriod:  Duration(constants.DefaultGracePeriod),
			PollInterval: Duration(constants.DefaultPollInterval),
		},
		API: APIConfig{
			Host:    "localhost",
			Enabled: []string{"admin", "metadata"},
			Ports: map[string]int{
				"admin":    constants.DefaultAPIPort,
				"metadata": constants.DefaultAPIPort + 1,
			},
			Workers: 1,
		},
		ObjectStore: ObjectStoreConfig{
			Host:    "localhost",
			Port:    constants.DefaultObjectStorePort,
			Workers: 1,
		},
		Services: map[string]ServiceConfig{},
	}
}

// ConfigPath returns the path of the configuration file
func ConfigPath() (string, error) {
	configDir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// Load reads the configuration from the XDG config directory, applying
// defaults for anything the file does not set. A missing file is not an
// error; it yields the defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from an explicit path
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg.withDerivedDefaults()
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigNotFound, "failed to read configuration", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, fmt.Sprintf("failed to parse %s", path), err)
	}

	cfg.applyDefaults()
	return cfg.withDerivedDefaults()
}

// applyDefaults fills any zero values left after unmarshalling
func (c *Config) applyDefaults() {
	defaults := Default()
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.Supervisor.RespawnDelay <= 0 {
		c.Supervisor.RespawnDelay = defaults.Supervisor.RespawnDelay
	}
	if c.Supervisor.GracePeriod <= 0 {
		c.Supervisor.GracePeriod = defaults.Supervisor.GracePeriod
	}
	if c.Supervisor.PollInterval <= 0 {
		c.Supervisor.PollInterval = defaults.Supervisor.PollInterval
	}
	if c.API.Host == "" {
		c.API.Host = defaults.API.Host
	}
	if c.API.Enabled == nil {
		c.API.Enabled = defaults.API.Enabled
	}
	if c.API.Ports == nil {
		c.API.Ports = map[string]int{}
	}
	for name, port := range defaults.API.Ports {
		if _, ok := c.API.Ports[name]; !ok {
			c.API.Ports[name] = port
		}
	}
	if c.API.Workers < 1 {
		c.API.Workers = 1
	}
	if c.ObjectStore.Host == "" {
		c.ObjectStore.Host = defaults.ObjectStore.Host
	}
	if c.ObjectStore.Port == 0 {
		c.ObjectStore.Port = defaults.ObjectStore.Port
	}
	if c.ObjectStore.Workers < 1 {
		c.ObjectStore.Workers = 1
	}
	if c.Services == nil {
		c.Services = map[string]ServiceConfig{}
	}
}

// withDerivedDefaults fills path defaults that depend on the environment
func (c *Config) withDerivedDefaults() (*Config, error) {
	if c.Store.Path == "" {
		dataDir, err := xdg.DataDir()
		if err != nil {
			return nil, err
		}
		c.Store.Path = filepath.Join(dataDir, "cirrus.db")
	}
	if c.ObjectStore.Root == "" {
		dataDir, err := xdg.DataDir()
		if err != nil {
			return nil, err
		}
		c.ObjectStore.Root = filepath.Join(dataDir, "buckets")
	}
	return c, nil
}

// Service returns the launch parameters for a backend service, merged with
// the built-in defaults for that service.
func (c *Config) Service(name string) ServiceConfig {
	sc := c.Services[name]
	if sc.Workers < 1 {
		sc.Workers = 1
	}
	if sc.Topic == "" {
		sc.Topic = name
	}
	if sc.Manager == "" {
		sc.Manager = name
	}
	if sc.RunMode == "" {
		sc.RunMode = "task"
	}
	if sc.HeartbeatInterval <= 0 {
		sc.HeartbeatInterval = Duration(constants.DefaultHeartbeatInterval)
	}
	return sc
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	for name, port := range c.API.Ports {
		if err := validation.Port(port); err != nil {
			return errors.NewWithDetails(errors.ErrInvalidPort, "invalid API port", fmt.Sprintf("%s: %d", name, port))
		}
	}
	for _, name := range c.API.Enabled {
		if _, ok := c.API.Ports[name]; !ok {
			return errors.NewWithDetails(errors.ErrConfigValidation, "enabled API has no port assigned", name)
		}
	}
	if err := validation.Port(c.ObjectStore.Port); err != nil {
		return err
	}
	for name, sc := range c.Services {
		if err := validation.ServiceName(name); err != nil {
			return err
		}
		if err := validation.ManagerName(sc.Manager); err != nil {
			return err
		}
		if sc.Workers < 0 {
			return errors.NewWithDetails(errors.ErrConfigValidation, "negative worker count", name)
		}
		if sc.RunMode != "" && sc.RunMode != "task" && sc.RunMode != "process" {
			return errors.NewWithDetails(errors.ErrConfigValidation, "run_mode must be task or process", name)
		}
		if sc.RunMode == "process" && len(sc.Command) == 0 {
			return errors.NewWithDetails(errors.ErrConfigValidation, "process run_mode requires a command", name)
		}
	}
	return nil
}
