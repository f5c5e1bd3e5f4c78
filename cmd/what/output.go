package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/praetorian-inc/what/pkg/sarif"
	"github.com/praetorian-inc/what/pkg/types"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// styles holds the color formatters of the human output.
type styles struct {
	heading  *color.Color
	label    *color.Color
	matched  *color.Color
	name     *color.Color
	metadata *color.Color
	notice   *color.Color
}

// newStyles creates the formatters. The global color.NoColor is ignored
// so --color always works on pipes.
func newStyles(enabled bool) *styles {
	s := &styles{
		heading:  color.New(color.Bold, color.FgHiWhite),
		label:    color.New(color.Bold),
		matched:  color.New(color.FgYellow),
		name:     color.New(color.Bold, color.FgHiBlue),
		metadata: color.New(color.FgHiBlue),
		notice:   color.New(color.FgHiBlack),
	}

	for _, c := range []*color.Color{s.heading, s.label, s.matched, s.name, s.metadata, s.notice} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return s
}

// colorEnabled resolves --color against the output stream.
func colorEnabled(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		f, ok := out.(*os.File)
		if !ok || !term.IsTerminal(int(f.Fd())) {
			return false
		}
		return os.Getenv("NO_COLOR") == ""
	}
}

// checkFormat rejects unknown output formats before any work is done.
func checkFormat(format string) error {
	switch format {
	case "human", "json", "sarif":
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// render writes matches in format. showOrigin adds the file location of
// each match to the human output.
func render(cmd *cobra.Command, format string, matches []*types.Match, showOrigin bool) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return outputJSON(out, matches)
	case "sarif":
		return outputSARIF(out, matches)
	case "human":
		return outputHuman(out, matches, showOrigin, newStyles(colorEnabled(globals.color, out)))
	default:
		return checkFormat(format)
	}
}

func outputJSON(out io.Writer, matches []*types.Match) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(types.NewMatchRecords(matches))
}

func outputSARIF(out io.Writer, matches []*types.Match) error {
	data, err := sarif.FromMatches(matches, version).ToJSON()
	if err != nil {
		return fmt.Errorf("encoding SARIF: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func outputHuman(out io.Writer, matches []*types.Match, showOrigin bool, s *styles) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintln(out, "Nothing found!")
		return err
	}

	fmt.Fprintln(out, s.heading.Sprint("Possible Identification"))

	for _, m := range matches {
		rec := types.NewMatchRecord(m)

		fmt.Fprintln(out)
		fmt.Fprintf(out, "%s %s\n", s.label.Sprint("Matched on:"), s.matched.Sprint(rec.Matched))
		fmt.Fprintf(out, "%s %s\n", s.label.Sprint("Identified as:"), s.name.Sprint(rec.Name))
		if rec.Description != "" {
			fmt.Fprintf(out, "%s %s\n", s.label.Sprint("Description:"), rec.Description)
		}
		if rec.URL != "" {
			fmt.Fprintf(out, "%s %s\n", s.label.Sprint("URL:"), s.metadata.Sprint(rec.URL))
		}
		if rec.Exploit != "" {
			fmt.Fprintf(out, "%s %s\n", s.label.Sprint("Exploit:"), rec.Exploit)
		}
		if showOrigin {
			start := rec.Location.Source.Start
			fmt.Fprintf(out, "%s %s\n", s.label.Sprint("File:"),
				s.metadata.Sprintf("%s:%d:%d", rec.Origin, start.Line, start.Column))
		}
		if !rec.Bounded {
			fmt.Fprintln(out, s.notice.Sprint("(found inside a longer word)"))
		}
	}

	return nil
}

// printTags writes one tag per line.
func printTags(cmd *cobra.Command, tags []string) error {
	out := cmd.OutOrStdout()
	for _, tag := range tags {
		fmt.Fprintln(out, tag)
	}
	return nil
}
