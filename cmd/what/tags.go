package main

import (
	"github.com/spf13/cobra"
)

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List available tags",
		Long:  "Print the tag vocabulary of the loaded signatures. Tags can be passed to --include and --exclude.",
		Args:  cobra.NoArgs,
		RunE:  runTags,
	}
}

func runTags(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(globals.signatures)
	if err != nil {
		return err
	}
	return printTags(cmd, cat.Tags())
}
