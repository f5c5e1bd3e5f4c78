package main

import (
	"fmt"
	"os"

	"github.com/praetorian-inc/what/pkg/logging"
	"github.com/praetorian-inc/what/pkg/store"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		db     string
		format string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show stored identification results",
		Long:  "Read the matches stored with --db and render them again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, db, format)
		},
	}
	cmd.Flags().StringVar(&db, "db", "what.db", "Path to the results database")
	cmd.Flags().StringVar(&format, "format", "human", "Output format: human, json, sarif")
	return cmd
}

func runReport(cmd *cobra.Command, db, format string) error {
	if db == ":memory:" {
		return fmt.Errorf("cannot report from in-memory store")
	}
	if _, err := os.Stat(db); err != nil {
		return fmt.Errorf("database not found: %s", db)
	}
	if err := checkFormat(format); err != nil {
		return err
	}

	s, err := store.New(store.Config{Path: db})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	blobs, err := s.Blobs()
	if err != nil {
		return fmt.Errorf("retrieving blobs: %w", err)
	}
	matches, err := s.Matches()
	if err != nil {
		return fmt.Errorf("retrieving matches: %w", err)
	}

	showOrigin := false
	for _, b := range blobs {
		if b.Kind != "text" {
			showOrigin = true
		}
		if b.Truncated {
			logging.Warn().
				Str("origin", b.Origin).
				Int("scanned", b.Scanned).
				Int("size", b.Size).
				Str("reason", b.Reason).
				Msg("input only partially scanned")
		}
	}

	return render(cmd, format, matches, showOrigin)
}
