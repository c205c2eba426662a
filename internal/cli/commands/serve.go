package commands

import (
	"github.com/spf13/cobra"

	"cirrus/internal/config"
	cerrors "cirrus/internal/errors"
	"cirrus/internal/logger"
	"cirrus/internal/registry"
	"cirrus/internal/store"
	"cirrus/internal/supervisor"
)

// ServeCommand creates the serve command that runs the supervisor
func ServeCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the cirrus supervisor",
		Long: `Start the control process: launch every enabled service as a set of
supervised workers and block until shutdown. A SIGINT or SIGTERM starts
a graceful drain; the exit status is non-zero when any worker had to be
force-killed after the grace period.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			logLevel, _ := cmd.Flags().GetString("log-level")

			return runServe(cmd, configPath, logLevel)
		},
	}

	serveCmd.Flags().StringP("config", "c", "", "Path to configuration file")
	serveCmd.Flags().String("log-level", "", "Override the configured log level")

	return serveCmd
}

func runServe(cmd *cobra.Command, configPath, logLevel string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cerrors.Wrap(cerrors.ErrConfigNotFound, "failed to load configuration", err)
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger.SetLevel(cfg.LogLevel)

	st, err := store.New(store.DefaultConfig(cfg.Store.Path))
	if err != nil {
		return err
	}
	defer st.Close()

	launcher := supervisor.New(supervisor.Options{
		RespawnDelay: cfg.Supervisor.RespawnDelay.Std(),
		GracePeriod:  cfg.Supervisor.GracePeriod.Std(),
		PollInterval: cfg.Supervisor.PollInterval.Std(),
		Recorder:     st,
	})

	reg := registry.New(cfg, st, launcher)
	descriptors := reg.Descriptors()
	for _, d := range descriptors {
		launcher.Launch(d)
	}

	logger.WithFields(logger.Fields{
		"services":  len(descriptors),
		"launched":  launcher.Launched(),
		"operation": "serve",
	}).Info("Supervisor running")

	// The surrounding context is cancelled on SIGINT/SIGTERM; turn
	// that into one graceful drain.
	go func() {
		<-cmd.Context().Done()
		logger.Info("Shutdown signal received, draining workers")
		launcher.Shutdown()
	}()

	if err := launcher.Wait(); err != nil {
		logger.WithError(err).Warn("Shutdown completed with force-killed workers")
		return err
	}

	logger.Info("Supervisor stopped cleanly")
	return nil
}
