package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/spicery/wikitext-table/pkg/render"
)

func newTokenizeCmd(root *rootOptions) *cobra.Command {
	var ioOpts ioOptions
	var cell bool

	cmd := &cobra.Command{
		Use:   "tokenize",
		Short: "Print the marker tokens of the input",
		Long: `Splits the input into marker and literal tokens and prints one JSON token
object per line. The structural vocabulary is used unless --cell is given.

Examples:
  wikitable tokenize --input page.wiki
  echo '[[a|b]]' | wikitable tokenize --cell`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := ioOpts.readInput(cmd)
			if err != nil {
				return err
			}

			table, cellTokenizer, err := root.tokenizers()
			if err != nil {
				return err
			}
			t := table
			if cell {
				t = cellTokenizer
			}

			tokens := t.Tokenize(input)
			root.logger.Debug("tokenized input", "source", ioOpts.sourceName(), "tokens", len(tokens), "cell", cell)

			return ioOpts.withOutput(cmd, func(w io.Writer) error {
				if err := render.JSONLines(w, slices.Values(tokens)); err != nil {
					return fmt.Errorf("writing tokens: %w", err)
				}
				return nil
			})
		},
	}

	addIOFlags(cmd.Flags(), &ioOpts)
	cmd.Flags().BoolVar(&cell, "cell", false, "Use the cell content vocabulary")
	return cmd
}
