package table

import (
	"iter"
	"slices"

	"github.com/spicery/wikitext-table/pkg/parser"
)

// Table represents a wiki table with its rows and cells in source order.
type Table struct {
	Style      string `json:"style,omitempty" yaml:"style,omitempty"`
	Caption    string `json:"caption,omitempty" yaml:"caption,omitempty"`
	HasCaption bool   `json:"has_caption,omitempty" yaml:"has_caption,omitempty"`
	Rows       []Row  `json:"rows" yaml:"rows"`
	Closed     bool   `json:"closed" yaml:"closed"` // whether the table end marker was seen
}

// Row represents a table row.
type Row struct {
	Style string `json:"style,omitempty" yaml:"style,omitempty"`
	Cells []Cell `json:"cells" yaml:"cells"`
}

// Cell represents a table cell
type Cell struct {
	Kind  parser.CellKind `json:"kind" yaml:"kind"`
	Style string          `json:"style,omitempty" yaml:"style,omitempty"`
	Text  string          `json:"text" yaml:"text"`
}

// IsHeader reports whether the cell was written with !.
func (c Cell) IsHeader() bool {
	return c.Kind == parser.HeaderCell
}

// Build folds an event stream into tables. A row is kept once its RowEnd is
// seen and a cell once its ColEnd is seen, so the trailing part of an
// unterminated table is dropped. Unterminated tables are returned with
// Closed set to false.
func Build(events iter.Seq[parser.Event]) []*Table {
	var tables []*Table
	var current *Table
	var row *Row
	var cell *Cell

	for e := range events {
		switch e.Type {
		case parser.TableStart:
			current = &Table{}
			tables = append(tables, current)
			row, cell = nil, nil
		case parser.TableStyle:
			if current != nil {
				current.Style = e.Text
			}
		case parser.TableCaptionStart:
			if current != nil {
				current.HasCaption = true
			}
		case parser.TableCaption:
			if current != nil {
				current.HasCaption = true
				current.Caption = e.Text
			}
		case parser.RowStart:
			row, cell = &Row{}, nil
		case parser.RowStyle:
			if row != nil {
				row.Style = e.Text
			}
		case parser.ColStart:
			cell = &Cell{Kind: e.Cell}
		case parser.ColStyle:
			if cell != nil {
				cell.Style = e.Text
			}
		case parser.ColEnd:
			if row != nil && cell != nil {
				cell.Text = e.Text
				row.Cells = append(row.Cells, *cell)
			}
			cell = nil
		case parser.RowEnd:
			if current != nil && row != nil {
				current.Rows = append(current.Rows, *row)
			}
			row, cell = nil, nil
		case parser.TableEnd:
			if current != nil {
				current.Closed = true
			}
			current, row, cell = nil, nil, nil
		}
	}

	return tables
}

// BuildSlice is Build over a slice of events.
func BuildSlice(events []parser.Event) []*Table {
	return Build(slices.Values(events))
}

// Extract parses text with the default vocabularies and returns its tables.
func Extract(text string, opts ...parser.Option) []*Table {
	return Build(parser.NewDefault(text, opts...).All())
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnCount returns the number of cells of the widest row.
func (t *Table) ColumnCount() int {
	n := 0
	for _, row := range t.Rows {
		n = max(n, len(row.Cells))
	}
	return n
}

// HeaderRow returns the first row when every one of its cells is a header
// cell, and false otherwise.
func (t *Table) HeaderRow() (Row, bool) {
	if len(t.Rows) == 0 || len(t.Rows[0].Cells) == 0 {
		return Row{}, false
	}
	for _, c := range t.Rows[0].Cells {
		if !c.IsHeader() {
			return Row{}, false
		}
	}
	return t.Rows[0], true
}

// Matrix returns the cell texts with every row padded to ColumnCount. When
// plain is set the texts are passed through PlainText.
func (t *Table) Matrix(plain bool) [][]string {
	cols := t.ColumnCount()
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]string, cols)
		for j, c := range row.Cells {
			if plain {
				out[i][j] = PlainText(c.Text)
			} else {
				out[i][j] = c.Text
			}
		}
	}
	return out
}
