package render

import (
	"strings"

	"github.com/spicery/wikitext-table/pkg/table"
)

// Markdown converts the table to a GitHub flavoured markdown table. The first
// row is always used as the markdown header row; the caption, if any, is
// written as an emphasised line above the table.
func Markdown(t *table.Table, plain bool) string {
	rows := t.Matrix(plain)
	if len(rows) == 0 || t.ColumnCount() == 0 {
		return ""
	}

	var sb strings.Builder
	if t.HasCaption && t.Caption != "" {
		caption := t.Caption
		if plain {
			caption = table.PlainText(caption)
		}
		sb.WriteString("*")
		sb.WriteString(markdownEscape(caption))
		sb.WriteString("*\n\n")
	}

	writeMarkdownRow(&sb, rows[0])

	// Separator
	for range rows[0] {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")

	for _, row := range rows[1:] {
		writeMarkdownRow(&sb, row)
	}

	return sb.String()
}

func writeMarkdownRow(sb *strings.Builder, row []string) {
	for _, text := range row {
		sb.WriteString("| ")
		sb.WriteString(markdownEscape(text))
		sb.WriteString(" ")
	}
	sb.WriteString("|\n")
}

var markdownReplacer = strings.NewReplacer(
	"|", `\|`,
	"\r\n", "<br>",
	"\n", "<br>",
)

func markdownEscape(text string) string {
	return markdownReplacer.Replace(text)
}
