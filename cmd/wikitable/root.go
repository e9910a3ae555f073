package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/spicery/wikitext-table/pkg/tokenizer"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	verbose   bool
	rulesFile string
	logger    *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{logger: slog.New(slog.DiscardHandler)}

	rootCmd := &cobra.Command{
		Use:   "wikitable",
		Short: "wikitable - A streaming parser for MediaWiki tables",
		Long: `wikitable reads MediaWiki markup and turns the {| ... |} tables it contains
into a stream of structural events, or into rendered tables.

Commands:
  tokenize  - structural or cell tokens, one JSON object per line
  parse     - the table event stream as JSON lines, YAML or text
  extract   - the tables as a grid, markdown, CSV, JSON or YAML
  export    - save the tables of an input to a SQLite database
  imports   - list the imports saved in a database
  show      - render the tables of a saved import
  rules     - print the marker vocabulary as a rules file

Input is read from stdin unless --input is given; output goes to stdout
unless --output is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")
	rootCmd.PersistentFlags().StringVar(&opts.rulesFile, "rules", "", "YAML or TOML rules file overriding the marker vocabulary")

	rootCmd.AddCommand(
		newTokenizeCmd(opts),
		newParseCmd(opts),
		newExtractCmd(opts),
		newExportCmd(opts),
		newImportsCmd(opts),
		newShowCmd(opts),
		newRulesCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

// loadRules returns the default rules, or the defaults with the overrides of
// --rules applied.
func (o *rootOptions) loadRules() (*tokenizer.Rules, error) {
	if o.rulesFile == "" {
		return tokenizer.DefaultRules(), nil
	}

	rules, err := tokenizer.LoadRulesFile(o.rulesFile)
	if err != nil {
		return nil, fmt.Errorf("loading rules file '%s': %w", o.rulesFile, err)
	}

	tokenizerRules, err := tokenizer.ApplyRulesToDefaults(rules)
	if err != nil {
		return nil, fmt.Errorf("applying rules: %w", err)
	}
	o.logger.Debug("loaded rules", "file", o.rulesFile,
		"structural", len(tokenizerRules.Structural), "cell", len(tokenizerRules.Cell))
	return tokenizerRules, nil
}

// tokenizers returns the structural and cell tokenizers for the active rules.
func (o *rootOptions) tokenizers() (*tokenizer.Tokenizer, *tokenizer.Tokenizer, error) {
	rules, err := o.loadRules()
	if err != nil {
		return nil, nil, err
	}
	table, cell, err := rules.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("building tokenizers: %w", err)
	}
	return table, cell, nil
}
