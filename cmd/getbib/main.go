// Command getbib finds a publication on Crossref and prints its BibTeX entry.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/henrybloomingdale/getbib/internal/clipboard"
	"github.com/henrybloomingdale/getbib/internal/config"
	"github.com/henrybloomingdale/getbib/internal/crossref"
	"github.com/henrybloomingdale/getbib/internal/logging"
	"github.com/henrybloomingdale/getbib/internal/lookup"
	"github.com/henrybloomingdale/getbib/internal/output"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	flagAuthor     string
	flagKeywords   string
	flagNumMatches int
	flagClipboard  bool
	flagSelect     int
	flagHuman      bool
	flagJSON       bool
	flagMailto     string
	flagTimeout    time.Duration
	flagConfig     string
	flagVerbose    bool
)

// errReported marks failures whose message was already shown to the user.
var errReported = errors.New("reported")

// newClipboard is swapped out in tests.
var newClipboard = func() lookup.Clipboard { return clipboard.System{} }

const usageExamples = `  Search for works by author 'John Doe' and print the top 20 matches,
  then choose one to print its BibTeX entry:
    getbib -a 'John Doe'

  Narrow the search with keywords from the title:
    getbib -a 'John Doe' -k 'machine learning'

  Show only 10 matches:
    getbib -a 'John Doe' -k 'machine learning' -m 10

  Copy the BibTeX entry to the clipboard:
    getbib -a 'John Doe' -k 'machine learning' -m 10 -c

  Already know which match you want (e.g. the second)? Skip the prompt:
    getbib -a 'John Doe' -k 'machine learning' -m 10 -c -s 2`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// newRootCmd builds the command and resets every flag to its default.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "getbib",
		Short:         "Fetch BibTeX entries from Crossref",
		Long:          `Search Crossref for works by author and title keywords, choose a match, and print or copy its BibTeX entry.`,
		Example:       usageExamples,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PreRunE:       validateFlags,
		RunE:          run,
	}

	f := cmd.Flags()
	f.StringVarP(&flagAuthor, "author", "a", "", "(parts of) the author's names")
	f.StringVarP(&flagKeywords, "keywords", "k", "", "keywords from the title of the paper to search for")
	f.IntVarP(&flagNumMatches, "num_matches", "m", crossref.DefaultMaxMatches, "number of matches to show")
	f.BoolVarP(&flagClipboard, "clipboard", "c", false, "copy the BibTeX entry to the clipboard")
	f.IntVarP(&flagSelect, "select", "s", 0, "match to select (1-based); prompts when omitted")
	f.BoolVarP(&flagHuman, "human", "H", false, "render the match list as a table")
	f.BoolVar(&flagJSON, "json", false, "print the matches as JSON instead of selecting one")
	f.StringVar(&flagMailto, "mailto", "", "contact address for the Crossref polite pool (or GETBIB_CROSSREF_MAILTO)")
	f.DurationVar(&flagTimeout, "timeout", 0, "HTTP timeout (default from config, 30s)")
	f.StringVar(&flagConfig, "config", "", "config file (default: ./getbib.yaml or $XDG_CONFIG_HOME/getbib/getbib.yaml)")
	f.BoolVarP(&flagVerbose, "verbose", "v", false, "log requests to stderr")

	return cmd
}

func validateFlags(cmd *cobra.Command, _ []string) error {
	if flagNumMatches < 1 {
		return fmt.Errorf("--num_matches must be at least 1, got %d", flagNumMatches)
	}
	if flagJSON && flagHuman {
		return fmt.Errorf("--json and --human are mutually exclusive")
	}
	if flagJSON && cmd.Flags().Changed("select") {
		return fmt.Errorf("--json lists matches and cannot be combined with --select")
	}
	if cmd.Flags().Changed("timeout") && flagTimeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %s", flagTimeout)
	}
	return nil
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	logCfg := logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if flagVerbose {
		logCfg.Level = "debug"
	}
	logger := logging.New(logCfg, cmd.ErrOrStderr())

	opts := lookup.Options{
		Query:     crossref.NewSearchQuery(flagAuthor, flagKeywords, flagNumMatches),
		Clipboard: flagClipboard,
		Output:    output.Config{JSON: flagJSON, Human: flagHuman},
	}
	if cmd.Flags().Changed("select") {
		choice := flagSelect
		opts.Choice = &choice
	}

	deps := lookup.Deps{
		Fetcher:   newCrossrefClient(cfg, logger),
		Clipboard: newClipboard(),
		In:        cmd.InOrStdin(),
		Out:       cmd.OutOrStdout(),
		Err:       cmd.ErrOrStderr(),
		Logger:    logger,
	}

	if _, err := lookup.Run(cmd.Context(), opts, deps); err != nil {
		logger.Debug().Err(err).Msg("lookup failed")
		fmt.Fprintln(cmd.ErrOrStderr(), lookup.Message(err))
		return fmt.Errorf("%w: %w", errReported, err)
	}
	return nil
}

// applyFlagOverrides lets explicit flags win over file and environment.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("mailto") {
		cfg.Crossref.Mailto = flagMailto
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Crossref.Timeout = flagTimeout
	}
}

func newCrossrefClient(cfg *config.Config, logger zerolog.Logger) *crossref.Client {
	return crossref.NewClient(
		crossref.WithBaseURL(cfg.Crossref.BaseURL),
		crossref.WithMailto(cfg.Crossref.Mailto),
		crossref.WithUserAgent(crossref.DefaultUserAgent+"/"+version),
		crossref.WithTimeout(cfg.Crossref.Timeout),
		crossref.WithRate(cfg.Crossref.Rate),
		crossref.WithMaxResponseBytes(cfg.Crossref.MaxBytes),
		crossref.WithLogger(logger),
	)
}
