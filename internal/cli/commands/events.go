package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"cirrus/internal/client"
	"cirrus/internal/constants"
)

// EventsCommand creates the events command that lists worker lifecycle events
func EventsCommand() *cobra.Command {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "List worker lifecycle events",
		Long: `List recorded worker lifecycle events (starts, crashes, respawns,
shutdowns) from a running supervisor, newest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, _ := cmd.Flags().GetString("server")
			service, _ := cmd.Flags().GetString("service")
			limit, _ := cmd.Flags().GetInt("limit")

			return listEvents(cmd, serverURL, service, limit)
		},
	}

	eventsCmd.Flags().StringP("server", "s", defaultServerURL(), "Admin API address of the supervisor")
	eventsCmd.Flags().String("service", "", "Only show events for this service")
	eventsCmd.Flags().IntP("limit", "n", constants.DefaultPageSize, "Maximum number of events to show")

	return eventsCmd
}

func listEvents(cmd *cobra.Command, serverURL, service string, limit int) error {
	c, err := client.New(serverURL)
	if err != nil {
		return err
	}

	events, err := c.Events(cmd.Context(), service, limit)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Println("No events recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSERVICE\tWORKER\tEVENT\tDETAIL")
	for _, ev := range events {
		detail := ev.Detail
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ev.CreatedAt.Format(time.RFC3339),
			ev.Service,
			ev.WorkerID,
			ev.Event,
			detail,
		)
	}
	w.Flush()
	return nil
}
