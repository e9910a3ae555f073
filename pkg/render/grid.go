package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/spicery/wikitext-table/pkg/table"
)

const minCellWidth = 4

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
)

// Styles
var (
	captionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// GridOptions controls how Grid lays out a table.
type GridOptions struct {
	// Width is the total width available to the table. Zero means unlimited.
	Width int
	// Plain renders cell text through table.PlainText.
	Plain bool
}

// Grid draws a table with box borders. When the first row is made of header
// cells it is drawn as the header. Cells are word wrapped so the table fits
// in opts.Width; words longer than a column are truncated.
func Grid(t *table.Table, opts GridOptions) string {
	rows := t.Matrix(opts.Plain)
	cols := t.ColumnCount()

	var sb strings.Builder
	if t.HasCaption && t.Caption != "" {
		caption := t.Caption
		if opts.Plain {
			caption = table.PlainText(caption)
		}
		sb.WriteString(captionStyle.Render(caption))
		sb.WriteString("\n")
	}
	if cols == 0 {
		return sb.String()
	}

	if limit := cellWidth(opts.Width, cols); limit > 0 {
		for _, row := range rows {
			for j, text := range row {
				row[j] = fit(text, limit)
			}
		}
	}

	grid := lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	if _, ok := t.HeaderRow(); ok {
		grid = grid.Headers(rows[0]...)
		rows = rows[1:]
	}
	grid = grid.Rows(rows...)

	sb.WriteString(grid.Render())
	sb.WriteString("\n")
	return sb.String()
}

// cellWidth returns the text width of one column when cols columns with
// their borders and padding share width, or 0 when there is no limit.
func cellWidth(width, cols int) int {
	if width <= 0 {
		return 0
	}
	// one border per column plus the closing one, one space of padding each side
	available := (width-(cols+1))/cols - 2
	return max(available, minCellWidth)
}

// fit wraps text at word boundaries and truncates lines still wider than limit.
func fit(text string, limit int) string {
	wrapped := wordwrap.String(text, limit)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		if ansi.PrintableRuneWidth(line) > limit {
			lines[i] = truncate.StringWithTail(line, uint(limit), "…")
		}
	}
	return strings.Join(lines, "\n")
}
