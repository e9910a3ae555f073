package tokenizer

import "strings"

// Kind identifies what a token is: one of the marker kinds of a vocabulary,
// or Literal for a single character that is not part of a marker.
type Kind string

const (
	// Literal tokens carry exactly one character of input text.
	Literal Kind = "literal"

	// Structural markers, scanned over the whole table text.
	TableStart       Kind = "table_start"        // \n{|
	TableCaption     Kind = "table_caption"      // \n|+
	TableRow         Kind = "table_row"          // \n|-
	HeaderCell       Kind = "header_cell"        // \n!
	HeaderCellInline Kind = "header_cell_inline" // !!
	DataCell         Kind = "data_cell"          // \n|
	DataCellInline   Kind = "data_cell_inline"   // ||
	TableEnd         Kind = "table_end"          // \n|}
	NoWikiStart      Kind = "nowiki_start"       // <nowiki>
	NoWikiEnd        Kind = "nowiki_end"         // </nowiki>

	// Cell-content markers, scanned over the raw text of one cell.
	LinkStart     Kind = "link_start"     // [[
	LinkEnd       Kind = "link_end"       // ]]
	TemplateStart Kind = "template_start" // {{
	TemplateEnd   Kind = "template_end"   // }}
	Separator     Kind = "separator"      // |
	StyleWord     Kind = "style_word"     // style
)

// Token is one element of a tokenized text. Tokens carry no position; the
// order of the slice returned by Tokenize is the only relationship between them.
type Token struct {
	Text string `json:"text" yaml:"text"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// IsMarker reports whether the token matched a vocabulary entry.
func (t Token) IsMarker() bool {
	return t.Kind != Literal
}

// Is reports whether the token is a marker of any of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// Join concatenates the text of the tokens. For the output of Tokenize this
// reproduces the original input.
func Join(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

// Texts returns the text of every token, in order.
func Texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}
