package main

import (
	"io"

	"github.com/spf13/cobra"
)

func newRulesCmd(root *rootOptions) *cobra.Command {
	var ioOpts ioOptions
	var asTOML bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the marker vocabulary as a rules file",
		Long: `Prints the default marker vocabulary in the rules file format, or the
vocabulary that results from applying --rules to the defaults. The output
can be edited and passed back with --rules.

Examples:
  wikitable rules > rules.yaml
  wikitable rules --toml > rules.toml
  wikitable rules --rules custom.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := root.loadRules()
			if err != nil {
				return err
			}

			rulesFile := rules.RulesFile()
			data, err := rulesFile.YAML()
			if asTOML {
				data, err = rulesFile.TOML()
			}
			if err != nil {
				return err
			}

			return ioOpts.withOutput(cmd, func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&ioOpts.output, "output", "o", "", "Output file (defaults to stdout)")
	cmd.Flags().BoolVar(&asTOML, "toml", false, "Print TOML instead of YAML")
	return cmd
}
