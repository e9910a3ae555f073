package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/spicery/wikitext-table/pkg/render"
	"github.com/spicery/wikitext-table/pkg/store"
	"github.com/spicery/wikitext-table/pkg/table"
)

const defaultDBPath = "./data/tables.db"

func addDBFlag(flags *pflag.FlagSet, path *string) {
	flags.StringVar(path, "db", defaultDBPath, "SQLite database file")
}

func openStore(root *rootOptions, path string) (*store.Store, error) {
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database '%s': %w", path, err)
	}
	root.logger.Debug("opened database", "path", path)
	return s, nil
}

func newExportCmd(root *rootOptions) *cobra.Command {
	var ioOpts ioOptions
	var parseOpts parseOptions
	var dbPath, source string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Save the tables of the input to a SQLite database",
		Long: `Parses the tables of the input and saves them to a SQLite database as one
import. The import ID is printed on success.

Examples:
  wikitable export --input page.wiki
  wikitable export --db tables.db --source "Solar System" < page.wiki`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, closed, err := parseInput(cmd, root, &ioOpts, &parseOpts)
			if err != nil {
				return err
			}
			if err := parseOpts.check(events, closed); err != nil {
				return err
			}
			tables := table.BuildSlice(events)

			s, err := openStore(root, dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if source == "" {
				source = ioOpts.sourceName()
			}
			id, err := s.SaveTables(commandContext(cmd), source, tables)
			if err != nil {
				return fmt.Errorf("saving tables: %w", err)
			}
			root.logger.Info("saved import", "id", id, "source", source, "tables", len(tables))

			return ioOpts.withOutput(cmd, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, id)
				return err
			})
		},
	}

	addIOFlags(cmd.Flags(), &ioOpts)
	addParseFlags(cmd.Flags(), &parseOpts)
	addDBFlag(cmd.Flags(), &dbPath)
	cmd.Flags().StringVar(&source, "source", "", "Name recorded for the import (defaults to the input file)")
	return cmd
}

func newImportsCmd(root *rootOptions) *cobra.Command {
	var dbPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "imports",
		Short: "List the imports saved in a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(root, dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			imports, err := s.ListImports(commandContext(cmd))
			if err != nil {
				return fmt.Errorf("listing imports: %w", err)
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return render.JSONLines(w, slices.Values(imports))
			}
			for _, imp := range imports {
				fmt.Fprintf(w, "%s  %s  %3d  %s\n", imp.ID, imp.CreatedAt.Local().Format(time.DateTime), imp.Tables, imp.Source)
			}
			return nil
		},
	}

	addDBFlag(cmd.Flags(), &dbPath)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per import")
	return cmd
}

func newShowCmd(root *rootOptions) *cobra.Command {
	var ioOpts ioOptions
	var renderOpts renderOptions
	var dbPath string

	cmd := &cobra.Command{
		Use:   "show <import-id>",
		Short: "Render the tables of a saved import",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(root, dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			tables, err := s.LoadTables(commandContext(cmd), args[0])
			if err != nil {
				return fmt.Errorf("loading import: %w", err)
			}

			return ioOpts.withOutput(cmd, func(w io.Writer) error {
				return renderOpts.write(w, tables)
			})
		},
	}

	cmd.Flags().StringVarP(&ioOpts.output, "output", "o", "", "Output file (defaults to stdout)")
	addRenderFlags(cmd.Flags(), &renderOpts)
	addDBFlag(cmd.Flags(), &dbPath)
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
