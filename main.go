package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cirrus/internal/app"
)

func main() {
	// SIGINT/SIGTERM cancel the context; the serve command turns the
	// cancellation into a graceful drain.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New().RunWithContext(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
