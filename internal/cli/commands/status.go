package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cirrus/internal/client"
	cerrors "cirrus/internal/errors"
	"cirrus/internal/server"
	"cirrus/internal/supervisor"
)

// statusReport is the combined view printed by the status command
type statusReport struct {
	Health   *server.HealthResponse  `json:"health" yaml:"health"`
	Services []server.ServiceSummary `json:"services" yaml:"services"`
	Workers  []supervisor.WorkerInfo `json:"workers" yaml:"workers"`
}

// StatusCommand creates the status command that queries a running supervisor
func StatusCommand() *cobra.Command {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show supervisor status",
		Long: `Query a running cirrus supervisor over its admin API and show the
registered services and tracked workers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, _ := cmd.Flags().GetString("server")
			format, _ := cmd.Flags().GetString("format")

			return showStatus(cmd, serverURL, format)
		},
	}

	statusCmd.Flags().StringP("server", "s", defaultServerURL(), "Admin API address of the supervisor")
	statusCmd.Flags().StringP("format", "f", "table", "Output format: table, json or yaml")

	return statusCmd
}

func showStatus(cmd *cobra.Command, serverURL, format string) error {
	c, err := client.New(serverURL)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	health, err := c.Health(ctx)
	if err != nil {
		return err
	}
	services, err := c.Services(ctx)
	if err != nil {
		return err
	}
	workers, err := c.Workers(ctx)
	if err != nil {
		return err
	}

	report := statusReport{
		Health:   health,
		Services: services,
		Workers:  workers.Workers,
	}

	switch format {
	case "json":
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	case "yaml":
		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	case "table":
		printStatusTables(report)
		return nil
	default:
		return cerrors.NewWithDetails(cerrors.ErrInvalidInput,
			"unknown output format", format)
	}
}

func printStatusTables(report statusReport) {
	fmt.Printf("Status: %s (workers: %d, launched: %d, start failures: %d)\n",
		report.Health.Status,
		report.Health.Workers,
		report.Health.Launched,
		report.Health.StartFailures,
	)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tWORKERS\tTOPIC\tMANAGER")
	for _, svc := range report.Services {
		topic := svc.Topic
		if topic == "" {
			topic = "-"
		}
		manager := svc.Manager
		if manager == "" {
			manager = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", svc.Name, svc.Workers, topic, manager)
	}
	w.Flush()
	fmt.Println()

	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSERVICE\tSLOT\tSTATE\tRESTARTS\tUPTIME")
	for _, wk := range report.Workers {
		uptime := "-"
		if !wk.StartedAt.IsZero() {
			uptime = time.Since(wk.StartedAt).Truncate(time.Second).String()
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%s\n",
			wk.ID, wk.Service, wk.Slot, wk.State, wk.RestartCount, uptime)
	}
	w.Flush()
}
