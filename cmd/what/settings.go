package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/praetorian-inc/what/pkg/catalog"
	"github.com/praetorian-inc/what/pkg/config"
	"github.com/praetorian-inc/what/pkg/filter"
	"github.com/praetorian-inc/what/pkg/identify"
	"github.com/praetorian-inc/what/pkg/matcher"
	"github.com/spf13/cobra"
)

// Messages shown for invalid user input.
const (
	msgInvalidRange  = "Invalid rarity range format ('min:max' expected)"
	msgInvalidRarity = "Invalid rarity argument (float expected)"
	msgInvalidTags   = "Passed tags are not valid.\nYou can check available tags by using: 'what --tags'"
	msgInvalidKey    = "Invalid key"
)

// settings is the resolved configuration of one run: flags override the
// config file, which overrides the defaults.
type settings struct {
	rarity, include, exclude    string
	bRarity, bInclude, bExclude string

	key        string
	reverse    bool
	format     string
	signatures string
	matchOpts  matcher.Options
}

// flagSet reports whether any of names was given on the command line.
func flagSet(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			return true
		}
	}
	return false
}

func resolveSettings(cmd *cobra.Command, flags *identifyFlags) (*settings, error) {
	cfg, err := config.Load(globals.config)
	if err != nil {
		return nil, err
	}

	s := &settings{
		rarity:     flags.rarity,
		include:    flags.include,
		exclude:    flags.exclude,
		bRarity:    flags.bRarity,
		bInclude:   flags.bInclude,
		bExclude:   flags.bExclude,
		key:        flags.key,
		reverse:    flags.reverse,
		format:     flags.format,
		signatures: globals.signatures,
		matchOpts:  matcher.DefaultOptions(),
	}

	str := func(dst *string, key string, value string, names ...string) {
		if !flagSet(cmd, names...) && cfg.Set(key) {
			*dst = value
		}
	}
	str(&s.rarity, "rarity", cfg.Rarity, "rarity")
	str(&s.include, "include", strings.Join(cfg.Include, ","), "include")
	str(&s.exclude, "exclude", strings.Join(cfg.Exclude, ","), "exclude")
	str(&s.bRarity, "boundaryless.rarity", cfg.Boundaryless.Rarity, "br", "boundaryless-rarity")
	str(&s.bInclude, "boundaryless.include", strings.Join(cfg.Boundaryless.Include, ","), "bi", "boundaryless-include")
	str(&s.bExclude, "boundaryless.exclude", strings.Join(cfg.Boundaryless.Exclude, ","), "be", "boundaryless-exclude")
	str(&s.key, "key", cfg.Key, "key")
	str(&s.format, "format", cfg.Format, "format")
	str(&s.signatures, "signatures", cfg.Signatures, "signatures")

	if !flagSet(cmd, "reverse") && cfg.Set("reverse") {
		s.reverse = cfg.Reverse
	}

	s.matchOpts.MaxBlobSize = flags.maxBlobSize
	if !flagSet(cmd, "max-blob-size") && cfg.Set("max_blob_size") {
		s.matchOpts.MaxBlobSize = cfg.MaxBlobSize
	}
	if cfg.Set("signature_timeout") {
		s.matchOpts.SignatureTimeout = cfg.SignatureTimeout
	}

	return s, nil
}

// loadCatalog loads the catalog at path, or the builtin one when path is
// empty.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		cat, err := catalog.Builtin()
		if err != nil {
			return nil, fmt.Errorf("loading builtin signatures: %w", err)
		}
		return cat, nil
	}
	cat, err := catalog.NewLoader().LoadPath(path)
	if err != nil {
		return nil, fmt.Errorf("loading signatures from %s: %w", path, err)
	}
	return cat, nil
}

// criteria parses one partition's filter settings and validates them
// against cat.
func criteria(cat *catalog.Catalog, rarity, include, exclude string) (filter.Criteria, error) {
	c, err := filter.ParseCriteria(rarity, include, exclude)
	if err != nil {
		return filter.Criteria{}, userError(err)
	}
	if _, err := filter.New(cat, c); err != nil {
		return filter.Criteria{}, userError(err)
	}
	return c, nil
}

func parseKey(name string) (identify.SortKey, error) {
	key, err := identify.ParseSortKey(name)
	if err != nil {
		return identify.SortNone, userError(err)
	}
	return key, nil
}

// userError maps input validation errors to the messages shown on the
// command line. Other errors are returned unchanged.
func userError(err error) error {
	var rangeErr *filter.InvalidRangeError
	switch {
	case errors.As(err, &rangeErr) && rangeErr.Reason == "float expected":
		return errors.New(msgInvalidRarity)
	case errors.As(err, &rangeErr) && rangeErr.Input != "":
		return errors.New(msgInvalidRange)
	case errors.Is(err, filter.ErrInvalidTag):
		return errors.New(msgInvalidTags)
	case errors.Is(err, identify.ErrInvalidSortKey):
		return errors.New(msgInvalidKey)
	}
	return err
}
