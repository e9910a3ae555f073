package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spicery/wikitext-table/pkg/parser"
	"github.com/spicery/wikitext-table/pkg/render"
)

// parseOptions holds the flags that configure the table parser.
type parseOptions struct {
	raw      bool
	noNoWiki bool
	exit0    bool
}

func addParseFlags(flags *pflag.FlagSet, o *parseOptions) {
	flags.BoolVar(&o.raw, "raw", false, "Emit cell text verbatim without splitting off the cell style")
	flags.BoolVar(&o.noNoWiki, "no-nowiki", false, "Treat <nowiki> as ordinary text")
	flags.BoolVar(&o.exit0, "exit0", false, "Exit with code 0 even when a table is not closed")
}

func (o *parseOptions) parserOptions() []parser.Option {
	return []parser.Option{
		parser.WithCleanCellText(!o.raw),
		parser.WithNoWiki(!o.noNoWiki),
	}
}

// unclosedTableError reports tables that were opened but never closed.
type unclosedTableError struct {
	opened int
	closed int
}

func (e *unclosedTableError) Error() string {
	return fmt.Sprintf("%d of %d tables not closed", e.opened-e.closed, e.opened)
}

// check returns an unclosedTableError for unterminated input unless --exit0
// is set.
func (o *parseOptions) check(events []parser.Event, closed int) error {
	opened := 0
	for _, e := range events {
		if e.Type == parser.TableStart {
			opened++
		}
	}
	if opened == closed || o.exit0 {
		return nil
	}
	return &unclosedTableError{opened: opened, closed: closed}
}

// parseInput reads the input and returns its events and the number of
// tables that were closed.
func parseInput(cmd *cobra.Command, root *rootOptions, ioOpts *ioOptions, parseOpts *parseOptions) ([]parser.Event, int, error) {
	input, err := ioOpts.readInput(cmd)
	if err != nil {
		return nil, 0, err
	}

	table, cell, err := root.tokenizers()
	if err != nil {
		return nil, 0, err
	}

	p := parser.New(table, cell, input, parseOpts.parserOptions()...)
	events := p.Drain()
	root.logger.Debug("parsed input", "source", ioOpts.sourceName(),
		"tokens", p.TokenCount(), "events", len(events), "tables_closed", p.TablesClosed())
	return events, p.TablesClosed(), nil
}

func newParseCmd(root *rootOptions) *cobra.Command {
	var ioOpts ioOptions
	var parseOpts parseOptions
	var format string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Print the table event stream of the input",
		Long: `Parses the tables of the input and prints their events in order.

Formats:
  json  - one JSON event object per line (default)
  yaml  - a YAML list of events
  text  - one event per line, e.g. ColEnd("Cell A")

Examples:
  wikitable parse --input page.wiki
  wikitable parse --format text --raw < page.wiki`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, closed, err := parseInput(cmd, root, &ioOpts, &parseOpts)
			if err != nil {
				return err
			}

			// Output events even if a table was left open
			err = ioOpts.withOutput(cmd, func(w io.Writer) error {
				switch format {
				case "json":
					return render.JSONLines(w, slices.Values(events))
				case "yaml":
					return render.YAML(w, events)
				case "text":
					return render.Text(w, slices.Values(events))
				}
				return fmt.Errorf("unknown format '%s' (expected json, yaml or text)", format)
			})
			if err != nil {
				return err
			}

			return parseOpts.check(events, closed)
		},
	}

	addIOFlags(cmd.Flags(), &ioOpts)
	addParseFlags(cmd.Flags(), &parseOpts)
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml or text")
	return cmd
}
