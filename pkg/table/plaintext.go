package table

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/spicery/wikitext-table/pkg/tokenizer"
)

var cellTokenizer = tokenizer.NewCell()

// PlainText converts the content of a cell to readable text. Links are
// replaced by their label, bold and italic quotes are removed, inline HTML
// tags are dropped with <br> kept as a line break, and the result is NFC
// normalised. Templates are kept as written.
func PlainText(text string) string {
	text = unwrapLinks(text)
	text = strings.ReplaceAll(text, "'''", "")
	text = strings.ReplaceAll(text, "''", "")
	text = stripTags(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return norm.NFC.String(strings.TrimSpace(strings.Join(lines, "\n")))
}

// unwrapLinks replaces each top level [[target|label]] by label and each
// [[target]] by target. An unclosed link is kept verbatim.
func unwrapLinks(text string) string {
	var out, link strings.Builder
	depth := 0
	labelAt := -1 // offset in link after the last top level separator

	for _, tok := range cellTokenizer.Tokenize(text) {
		if depth == 0 {
			if tok.Kind == tokenizer.LinkStart {
				depth = 1
				link.Reset()
				labelAt = -1
				continue
			}
			out.WriteString(tok.Text)
			continue
		}

		switch tok.Kind {
		case tokenizer.LinkStart, tokenizer.TemplateStart:
			depth++
		case tokenizer.LinkEnd, tokenizer.TemplateEnd:
			depth--
		case tokenizer.Separator:
			if depth == 1 {
				labelAt = link.Len() + len(tok.Text)
			}
		}
		if depth == 0 {
			inner := link.String()
			if labelAt >= 0 {
				inner = inner[labelAt:]
			}
			out.WriteString(inner)
			continue
		}
		link.WriteString(tok.Text)
	}

	if depth > 0 {
		out.WriteString("[[")
		out.WriteString(link.String())
	}
	return out.String()
}

// stripTags drops HTML tags and decodes entities, keeping <br> as a newline.
func stripTags(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return text
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				sb.WriteString("\n")
			}
		}
	}
}
