package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/praetorian-inc/what/pkg/identify"
	"github.com/praetorian-inc/what/pkg/logging"
	"github.com/praetorian-inc/what/pkg/serve"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as a streaming identification server",
		Long: `Run what as a long-lived server that reads identification requests
from stdin and writes results to stdout, one JSON document per line.

Signatures are loaded once at startup. The server exits when stdin closes,
a "close" request arrives, or SIGTERM is received.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(globals.signatures)
	if err != nil {
		return err
	}

	id, err := identify.New(cat, identify.WithLogger(logging.Logger))
	if err != nil {
		return err
	}

	// Set up signal handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Debug().Int("signatures", cat.Len()).Msg("serving")
	srv := serve.NewServer(id, identify.DefaultRequest(), cmd.InOrStdin(), cmd.OutOrStdout()).
		WithLogger(logging.Logger)
	return srv.Run(ctx)
}
