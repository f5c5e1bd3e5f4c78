package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/praetorian-inc/what"
	"github.com/praetorian-inc/what/pkg/enum"
	"github.com/praetorian-inc/what/pkg/logging"
	"github.com/praetorian-inc/what/pkg/store"
	"github.com/spf13/cobra"
)

func runIdentify(cmd *cobra.Command, args []string, flags *identifyFlags) error {
	s, err := resolveSettings(cmd, flags)
	if err != nil {
		return err
	}

	cat, err := loadCatalog(s.signatures)
	if err != nil {
		return err
	}

	if flags.tags {
		return printTags(cmd, cat.Tags())
	}
	if len(args) == 0 {
		return cmd.Help()
	}

	bounded, err := criteria(cat, s.rarity, s.include, s.exclude)
	if err != nil {
		return err
	}
	boundaryless, err := criteria(cat, s.bRarity, s.bInclude, s.bExclude)
	if err != nil {
		return err
	}
	key, err := parseKey(s.key)
	if err != nil {
		return err
	}
	if err := checkFormat(s.format); err != nil {
		return err
	}

	opts := []what.Option{
		what.WithCatalog(cat),
		what.WithFilter(bounded),
		what.WithBoundarylessFilter(boundaryless),
		what.WithKey(key),
		what.WithMatcherOptions(s.matchOpts),
		what.WithLogger(logging.Logger),
	}
	if s.reverse {
		opts = append(opts, what.WithReverse())
	}
	id, err := what.New(opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	input := args[0]
	enumerator := enum.Resolve(input, flags.onlyText, enum.Config{
		IncludeHidden: flags.includeHidden,
		Extract:       flags.extract,
	})
	blobs, err := enum.Collect(ctx, enumerator)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	logging.Debug().Int("blobs", len(blobs)).Str("input", input).Msg("enumerated input")
	for _, b := range blobs {
		logging.Trace().Str("origin", b.Origin()).Int("size", len(b.Content)).Msg("blob")
	}

	res, err := id.Identify(ctx, blobs, id.Request())
	if err != nil {
		return err
	}

	for _, b := range res.Blobs {
		if b.Truncated {
			logging.Warn().
				Str("origin", b.Origin).
				Int("scanned", b.Scanned).
				Int("size", b.Size).
				Err(b.Err).
				Msg("input only partially scanned")
		}
	}

	if flags.db != "" {
		if err := saveResult(flags.db, blobs, res); err != nil {
			return err
		}
	}

	return render(cmd, s.format, res.Matches, hasFiles(blobs))
}

// hasFiles reports whether any blob was read from disk.
func hasFiles(blobs []what.Blob) bool {
	for _, b := range blobs {
		if !b.IsText() {
			return true
		}
	}
	return false
}

func saveResult(path string, blobs []what.Blob, res *what.Result) error {
	st, err := store.New(store.Config{Path: path})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	if err := store.Record(st, blobs, res); err != nil {
		return fmt.Errorf("storing results: %w", err)
	}
	logging.Info().Str("db", path).Int("matches", len(res.Matches)).Msg("stored results")
	return nil
}
