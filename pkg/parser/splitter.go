package parser

import (
	"strings"

	"github.com/spicery/wikitext-table/pkg/tokenizer"
)

// CellSplitter separates the style attribute of a cell from its content.
type CellSplitter struct {
	tokenizer *tokenizer.Tokenizer
}

// NewCellSplitter returns a splitter that scans cells with the given
// cell-content tokenizer.
func NewCellSplitter(cell *tokenizer.Tokenizer) *CellSplitter {
	return &CellSplitter{tokenizer: cell}
}

// Split returns the trimmed text before the first separator that is not inside
// a [[link]] or {{template}} as style, and the trimmed text after it as content.
// Without such a separator style is empty and content is the whole cell.
func (s *CellSplitter) Split(raw string) (style, content string) {
	return s.splitBefore(raw, len(raw))
}

// splitBefore is Split with the separator search limited to raw[:limit].
func (s *CellSplitter) splitBefore(raw string, limit int) (style, content string) {
	depth := 0
	offset := 0
	for _, tok := range s.tokenizer.Tokenize(raw) {
		if offset >= limit {
			break
		}
		switch tok.Kind {
		case tokenizer.LinkStart, tokenizer.TemplateStart:
			depth++
		case tokenizer.LinkEnd, tokenizer.TemplateEnd:
			if depth > 0 {
				depth--
			}
		case tokenizer.Separator:
			if depth == 0 {
				return strings.TrimSpace(raw[:offset]), strings.TrimSpace(raw[offset+len(tok.Text):])
			}
		}
		offset += len(tok.Text)
	}
	return "", strings.TrimSpace(raw)
}
