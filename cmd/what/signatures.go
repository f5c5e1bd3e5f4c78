package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/praetorian-inc/what/pkg/catalog"
	"github.com/praetorian-inc/what/pkg/types"
	"github.com/spf13/cobra"
)

func newSignaturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "signatures",
		Aliases: []string{"sigs"},
		Short:   "Manage identification signatures",
		Long:    "Commands for listing and checking identification signatures",
	}

	var format string
	list := &cobra.Command{
		Use:   "list",
		Short: "List available signatures",
		Long:  "Display every loaded signature with its rarity and tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignaturesList(cmd, format)
		},
	}
	list.Flags().StringVar(&format, "format", "table", "Output format: table, json")

	verify := &cobra.Command{
		Use:   "verify",
		Short: "Check signatures against their examples",
		Long: `Match every signature against its own examples and negative examples.
Exits with an error when any signature fails.`,
		Args: cobra.NoArgs,
		RunE: runSignaturesVerify,
	}

	cmd.AddCommand(list, verify)
	return cmd
}

func runSignaturesList(cmd *cobra.Command, format string) error {
	cat, err := loadCatalog(globals.signatures)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		return outputSignaturesJSON(cmd, cat.Signatures())
	case "table":
		fmt.Fprintln(cmd.OutOrStdout(), signaturesTable(cat.Signatures()))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func runSignaturesVerify(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(globals.signatures)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	issues := catalog.Verify(cat)
	for _, issue := range issues {
		fmt.Fprintln(out, issue)
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d signature issue(s) found", len(issues))
	}
	fmt.Fprintf(out, "%d signatures verified\n", cat.Len())
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func outputSignaturesJSON(cmd *cobra.Command, sigs []*types.Signature) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(sigs)
}

func signaturesTable(sigs []*types.Signature) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Name", "Rarity", "Tags"})

	for _, sig := range sigs {
		tw.AppendRow(table.Row{
			sig.Name,
			strconv.FormatFloat(sig.Rarity, 'f', -1, 64),
			strings.Join(sig.Tags, ", "),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
