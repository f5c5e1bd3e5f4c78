package main

import (
	"github.com/praetorian-inc/what/pkg/filter"
	"github.com/praetorian-inc/what/pkg/logging"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	signatures string
	config     string
	logLevel   string
	color      string
}

// identifyFlags are the flags of the root identify command.
type identifyFlags struct {
	rarity   string
	include  string
	exclude  string
	bRarity  string
	bInclude string
	bExclude string

	onlyText      bool
	key           string
	reverse       bool
	tags          bool
	format        string
	db            string
	extract       []string
	includeHidden bool
	maxBlobSize   int
}

var globals globalFlags

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	flags := &identifyFlags{}

	cmd := &cobra.Command{
		Use:   "what [flags] <text-or-path>",
		Short: "Identify what something is",
		Long: `what identifies anything: email addresses, IP addresses, hashes,
credentials, wallet addresses and more.

The input is treated as a path when it exists on disk, otherwise as text.
Files are read recursively; --only-text forces the input to be treated as text.`,
		Example: `  what 'HTB{this is a flag}'
  what --include Credentials -k rarity ./logs
  what -r 0.5: --format json 'James:SecretPassword'`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(cmd.ErrOrStderr(), globals.logLevel, globals.color == "never")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdentify(cmd, args, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&globals.signatures, "signatures", "", "Path to a custom signature file or directory")
	pf.StringVar(&globals.config, "config", "", "Path to a TOML config file (default $WHAT_CONFIG)")
	pf.StringVar(&globals.logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error, fatal")
	pf.StringVar(&globals.color, "color", "auto", "Color output: auto, always, never")

	f := cmd.Flags()
	f.StringVarP(&flags.rarity, "rarity", "r", filter.DefaultRange, "Rarity range of bounded matches ('min:max', either side optional)")
	f.StringVarP(&flags.include, "include", "i", "", "Only show matches with one of these tags (comma-separated)")
	f.StringVarP(&flags.exclude, "exclude", "e", "", "Hide matches with any of these tags (comma-separated)")
	f.StringVar(&flags.bRarity, "br", filter.DefaultRange, "Rarity range of boundaryless matches")
	f.StringVar(&flags.bInclude, "bi", "", "Tags to include for boundaryless matches")
	f.StringVar(&flags.bExclude, "be", "", "Tags to exclude for boundaryless matches")
	f.BoolVarP(&flags.onlyText, "only-text", "o", false, "Treat the input as text even if it names a file")
	f.StringVarP(&flags.key, "key", "k", "", "Sort by: name, rarity, matched, none")
	f.BoolVar(&flags.reverse, "reverse", false, "Reverse the sort order")
	f.BoolVarP(&flags.tags, "tags", "t", false, "Print the available tags and exit")
	f.StringVar(&flags.format, "format", "human", "Output format: human, json, sarif")
	f.StringVar(&flags.db, "db", "", "Also store the results in this SQLite database")
	f.StringSliceVar(&flags.extract, "extract", nil, "Extract text from documents: pdf, docx, xlsx, all")
	f.BoolVar(&flags.includeHidden, "include-hidden", false, "Include hidden files and directories")
	f.IntVar(&flags.maxBlobSize, "max-blob-size", 0, "Scan at most this many bytes of each input (0 = no limit)")

	// Long spellings of --br, --bi and --be.
	f.StringVar(&flags.bRarity, "boundaryless-rarity", filter.DefaultRange, "Rarity range of boundaryless matches (short: --br)")
	f.StringVar(&flags.bInclude, "boundaryless-include", "", "Tags to include for boundaryless matches (short: --bi)")
	f.StringVar(&flags.bExclude, "boundaryless-exclude", "", "Tags to exclude for boundaryless matches (short: --be)")

	cmd.AddCommand(newTagsCmd())
	cmd.AddCommand(newSignaturesCmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
