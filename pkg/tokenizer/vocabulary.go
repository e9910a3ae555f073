package tokenizer

// Marker pairs a marker kind with the text that spells it in the source.
type Marker struct {
	Kind Kind   `yaml:"kind" toml:"kind"`
	Text string `yaml:"text" toml:"text"`
}

// Vocabulary is an ordered list of markers a Tokenizer recognises.
type Vocabulary []Marker

// Wiki table markup, see https://en.wikipedia.org/wiki/Help:Table#Basic_table_markup.
// Line-start markers include the preceding newline so that a `|` or `!` in the
// middle of a line is not mistaken for a cell boundary.
var structuralMarkers = Vocabulary{
	{TableStart, "\n{|"},
	{TableCaption, "\n|+"},
	{TableRow, "\n|-"},
	{HeaderCell, "\n!"},
	{HeaderCellInline, "!!"},
	{DataCell, "\n|"},
	{DataCellInline, "||"},
	{TableEnd, "\n|}"},
	{NoWikiStart, "<nowiki>"},
	{NoWikiEnd, "</nowiki>"},
}

var cellMarkers = Vocabulary{
	{LinkStart, "[["},
	{LinkEnd, "]]"},
	{TemplateStart, "{{"},
	{TemplateEnd, "}}"},
	{Separator, "|"},
	{StyleWord, "style"},
}

// StructuralVocabulary returns the markers used to scan a whole table.
// The result is a fresh copy; changing it does not affect other callers.
func StructuralVocabulary() Vocabulary {
	return structuralMarkers.Clone()
}

// CellVocabulary returns the markers used to re-scan the raw text of a cell.
func CellVocabulary() Vocabulary {
	return cellMarkers.Clone()
}

// Clone returns a copy of the vocabulary.
func (v Vocabulary) Clone() Vocabulary {
	out := make(Vocabulary, len(v))
	copy(out, v)
	return out
}

// Kinds returns the distinct kinds of the vocabulary in first-seen order.
func (v Vocabulary) Kinds() []Kind {
	seen := make(map[Kind]bool, len(v))
	var kinds []Kind
	for _, m := range v {
		if !seen[m.Kind] {
			seen[m.Kind] = true
			kinds = append(kinds, m.Kind)
		}
	}
	return kinds
}

// Has reports whether the vocabulary declares the given kind.
func (v Vocabulary) Has(kind Kind) bool {
	for _, m := range v {
		if m.Kind == kind {
			return true
		}
	}
	return false
}
