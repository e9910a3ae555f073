package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spicery/wikitext-table/pkg/render"
	"github.com/spicery/wikitext-table/pkg/table"
)

// renderOptions holds the flags that control table rendering.
type renderOptions struct {
	format string
	width  int
	plain  bool
}

func addRenderFlags(flags *pflag.FlagSet, o *renderOptions) {
	formats := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		formats[i] = string(f)
	}
	flags.StringVarP(&o.format, "format", "f", string(render.FormatGrid), "Output format: "+strings.Join(formats, ", "))
	flags.IntVarP(&o.width, "width", "w", 0, "Grid width (0 uses terminal width if available)")
	flags.BoolVar(&o.plain, "plain", false, "Convert cell markup to plain text")
}

// write renders tables to w.
func (o *renderOptions) write(w io.Writer, tables []*table.Table) error {
	format, err := render.ParseFormat(o.format)
	if err != nil {
		return err
	}

	width := o.width
	if width <= 0 && isTerminal(w) {
		width = terminalWidth(w, defaultWidth)
	}
	return render.Tables(w, tables, format, render.GridOptions{Width: width, Plain: o.plain})
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	var ioOpts ioOptions
	var parseOpts parseOptions
	var renderOpts renderOptions

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Render the tables of the input",
		Long: `Parses the tables of the input and renders them.

Examples:
  wikitable extract --input page.wiki
  wikitable extract --format markdown --plain < page.wiki
  wikitable extract --format csv --output table.csv --input page.wiki`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, closed, err := parseInput(cmd, root, &ioOpts, &parseOpts)
			if err != nil {
				return err
			}

			tables := table.BuildSlice(events)
			root.logger.Debug("built tables", "tables", len(tables))

			if err := ioOpts.withOutput(cmd, func(w io.Writer) error {
				return renderOpts.write(w, tables)
			}); err != nil {
				return err
			}

			return parseOpts.check(events, closed)
		},
	}

	addIOFlags(cmd.Flags(), &ioOpts)
	addParseFlags(cmd.Flags(), &parseOpts)
	addRenderFlags(cmd.Flags(), &renderOpts)
	return cmd
}
