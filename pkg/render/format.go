package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spicery/wikitext-table/pkg/table"
)

// Format names an output format for extracted tables.
type Format string

const (
	FormatGrid     Format = "grid"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists the supported table formats.
var Formats = []Format{FormatGrid, FormatMarkdown, FormatCSV, FormatJSON, FormatYAML}

// ParseFormat returns the format with the given name, ignoring case.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if f == "md" {
		return FormatMarkdown, nil
	}
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("unknown format '%s' (expected one of %s)", name, joinFormats())
	}
	return f, nil
}

func joinFormats() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Tables writes tables to w in the given format. Grid, markdown and CSV
// tables are separated by a blank line; JSON is written one table per line.
func Tables(w io.Writer, tables []*table.Table, format Format, opts GridOptions) error {
	switch format {
	case FormatJSON:
		return JSONLines(w, slices.Values(tables))
	case FormatYAML:
		return YAML(w, tables)
	}

	for i, t := range tables {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		var err error
		switch format {
		case FormatGrid:
			_, err = io.WriteString(w, Grid(t, opts))
		case FormatMarkdown:
			_, err = io.WriteString(w, Markdown(t, opts.Plain))
		case FormatCSV:
			err = CSV(w, t, opts.Plain)
		default:
			err = fmt.Errorf("unknown format '%s'", format)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
