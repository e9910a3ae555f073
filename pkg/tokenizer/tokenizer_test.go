package tokenizer

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStructuralTokenisation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"Empty input", "", []string{}},
		{"Plain text", "abc", []string{"a", "b", "c"}},
		{"Table markers", "\n{|123||\n|}", []string{"\n{|", "1", "2", "3", "||", "\n|}"}},
		{"Nowiki markers", "\n{|123||\n|}<><nowiki>", []string{"\n{|", "1", "2", "3", "||", "\n|}", "<", ">", "<nowiki>"}},
		{"Row and caption", "\n|+Cap\n|-", []string{"\n|+", "C", "a", "p", "\n|-"}},
		{"Header cells", "\n!A!!B", []string{"\n!", "A", "!!", "B"}},
		{"Single bang is literal", "Wow!", []string{"W", "o", "w", "!"}},
		{"Triple pipe", "|||", []string{"||", "|"}},
		{"Single pipe is literal", "a|b", []string{"a", "|", "b"}},
		{"Newline without marker", "\n\n{|", []string{"\n", "\n{|"}},
		{"Partial nowiki", "<now", []string{"<", "n", "o", "w"}},
		{"Multibyte literals", "\n|ü€", []string{"\n|", "ü", "€"}},
	}

	tokenizer := NewStructural()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := tokenizer.Tokenize(tt.input)
			got := Texts(tokens)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d tokens %q, got %d %q", len(tt.expected), tt.expected, len(got), got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Token %d: expected %q, got %q", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestTokenKinds(t *testing.T) {
	tokens := NewStructural().Tokenize("\n{|\n|+\n|-\n!!!\n|||\n|}</nowiki>x")
	expected := []Kind{
		TableStart, TableCaption, TableRow, HeaderCell, HeaderCellInline,
		DataCell, DataCellInline, TableEnd, NoWikiEnd, Literal,
	}

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %q", len(expected), len(tokens), Texts(tokens))
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d (%q): expected kind %s, got %s", i, tok.Text, expected[i], tok.Kind)
		}
	}
}

func TestCellTokenisation(t *testing.T) {
	tokens := NewCell().Tokenize(`style="x"|[[a|b]]{{t}}`)
	expected := []struct {
		text string
		kind Kind
	}{
		{"style", StyleWord},
		{"=", Literal},
		{`"`, Literal},
		{"x", Literal},
		{`"`, Literal},
		{"|", Separator},
		{"[[", LinkStart},
		{"a", Literal},
		{"|", Separator},
		{"b", Literal},
		{"]]", LinkEnd},
		{"{{", TemplateStart},
		{"t", Literal},
		{"}}", TemplateEnd},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d: %q", len(expected), len(tokens), Texts(tokens))
	}
	for i, tok := range tokens {
		if tok.Text != expected[i].text || tok.Kind != expected[i].kind {
			t.Errorf("Token %d: expected %q/%s, got %q/%s", i, expected[i].text, expected[i].kind, tok.Text, tok.Kind)
		}
	}
}

func TestGreedyScanDoesNotBacktrack(t *testing.T) {
	// "ab" stops on a marker and is committed even though "bc" could have
	// matched from the second character.
	tokenizer, err := New(Vocabulary{{"k1", "ab"}, {"k2", "bc"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	got := Texts(tokenizer.Tokenize("abc"))
	expected := []string{"ab", "c"}
	if strings.Join(got, "/") != strings.Join(expected, "/") {
		t.Errorf("Expected %q, got %q", expected, got)
	}

	// A partial match of "abd" fails on "x"; its characters become literals
	// and are not rescanned for "bc".
	tokenizer, err = New(Vocabulary{{"k1", "abd"}, {"k2", "bc"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	tokens := tokenizer.Tokenize("abcx")
	got = Texts(tokens)
	expected = []string{"a", "b", "c", "x"}
	if strings.Join(got, "/") != strings.Join(expected, "/") {
		t.Errorf("Expected %q, got %q", expected, got)
	}
	for _, tok := range tokens {
		if tok.IsMarker() {
			t.Errorf("Expected only literals, got marker %q", tok.Text)
		}
	}
}

func TestLosslessTokenisation(t *testing.T) {
	inputs := []string{
		"",
		"\n",
		"{| class=\"wikitable\"\n|+ Caption\n|-\n! A !! B\n|-\n| 1 || 2\n|}",
		"<nowiki>||</nowiki>\n|}\n{|{|\n\n",
		"!!!!||||\n!\n|\n|-\n|+\n|}",
		"ünïcödé [[Link|label]] {{tmpl|a=b}}",
		"broken utf8 \xff\xfe end",
		"<nowiki",
	}

	tokenizers := map[string]*Tokenizer{
		"structural": NewStructural(),
		"cell":       NewCell(),
	}
	for name, tokenizer := range tokenizers {
		for _, input := range inputs {
			if got := Join(tokenizer.Tokenize(input)); got != input {
				t.Errorf("%s tokenizer is not lossless: expected %q, got %q", name, input, got)
			}
		}
	}
}

func TestLiteralTokensAreSingleCharacters(t *testing.T) {
	for _, tok := range NewStructural().Tokenize("a <now |x !y\n") {
		if tok.Kind == Literal && len([]rune(tok.Text)) != 1 {
			t.Errorf("Expected single-character literal, got %q", tok.Text)
		}
	}
}

func TestNewRejectsInvalidVocabulary(t *testing.T) {
	tests := []struct {
		name  string
		vocab Vocabulary
		err   error
	}{
		{"Duplicate text", Vocabulary{{DataCell, "\n|"}, {DataCellInline, "\n|"}}, ErrDuplicateMarker},
		{"Same kind twice", Vocabulary{{Separator, "|"}, {Separator, "|"}}, ErrDuplicateMarker},
		{"Empty text", Vocabulary{{Separator, ""}}, ErrEmptyMarker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.vocab)
			if !errors.Is(err, tt.err) {
				t.Errorf("Expected %v, got %v", tt.err, err)
			}
		})
	}

	if _, err := New(Vocabulary{{Literal, "x"}}); err == nil {
		t.Errorf("Expected error for literal kind marker")
	}
}

func TestPrefixSharingMarkers(t *testing.T) {
	// "\n|" is both a marker and the prefix of "\n|-", "\n|+" and "\n|}".
	tokenizer, err := New(Vocabulary{{DataCell, "\n|"}, {TableRow, "\n|-"}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	tokens := tokenizer.Tokenize("\n|-\n|x")
	if len(tokens) != 3 {
		t.Fatalf("Expected 3 tokens, got %q", Texts(tokens))
	}
	if tokens[0].Kind != TableRow || tokens[1].Kind != DataCell || tokens[2].Kind != Literal {
		t.Errorf("Unexpected kinds: %s %s %s", tokens[0].Kind, tokens[1].Kind, tokens[2].Kind)
	}
}

func TestVocabularyIsCopied(t *testing.T) {
	vocab := StructuralVocabulary()
	vocab[0].Text = "changed"
	if StructuralVocabulary()[0].Text != "\n{|" {
		t.Errorf("Default vocabulary was modified through a returned copy")
	}

	tokenizer := NewCell()
	got := tokenizer.Vocabulary()
	got[0].Text = "changed"
	if tokenizer.Vocabulary()[0].Text != "[[" {
		t.Errorf("Tokenizer vocabulary was modified through a returned copy")
	}
}

func TestJSONSerialization(t *testing.T) {
	tokens := NewStructural().Tokenize("\n{|a")
	jsonBytes, err := json.Marshal(tokens[0])
	if err != nil {
		t.Fatalf("Failed to serialize token: %v", err)
	}
	if string(jsonBytes) != `{"text":"\n{|","kind":"table_start"}` {
		t.Errorf("Unexpected JSON: %s", jsonBytes)
	}

	var back Token
	if err := json.Unmarshal(jsonBytes, &back); err != nil {
		t.Fatalf("Failed to deserialize token: %v", err)
	}
	if back != tokens[0] {
		t.Errorf("Expected %+v after round-trip, got %+v", tokens[0], back)
	}
}

func TestLoadRulesFileYAML(t *testing.T) {
	rulesContent := `structural:
  - kind: data_cell
    text: "\n|"
  - kind: data_cell
    text: "\r\n|"
cell:
  - kind: style_word
    text: "stil"`

	tmpFile := filepath.Join(t.TempDir(), "rules.yaml")
	if err := writeFile(tmpFile, rulesContent); err != nil {
		t.Fatalf("Failed to create temp rules file: %v", err)
	}

	rules, err := LoadRulesFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to load rules file: %v", err)
	}

	if len(rules.Structural) != 2 || rules.Structural[1].Text != "\r\n|" {
		t.Errorf("Expected two data_cell rules, got %+v", rules.Structural)
	}
	if len(rules.Cell) != 1 || rules.Cell[0].Kind != StyleWord || rules.Cell[0].Text != "stil" {
		t.Errorf("Expected style_word rule with text 'stil', got %+v", rules.Cell)
	}

	applied, err := ApplyRulesToDefaults(rules)
	if err != nil {
		t.Fatalf("Failed to apply rules: %v", err)
	}
	table, cell, err := applied.Build()
	if err != nil {
		t.Fatalf("Failed to build tokenizers: %v", err)
	}

	tokens := table.Tokenize("\r\n|x")
	if tokens[0].Kind != DataCell || tokens[0].Text != "\r\n|" {
		t.Errorf("Expected custom data cell marker, got %+v", tokens[0])
	}
	tokens = cell.Tokenize("stil")
	if len(tokens) != 1 || tokens[0].Kind != StyleWord {
		t.Errorf("Expected custom style word, got %+v", tokens)
	}
	tokens = cell.Tokenize("style")
	if len(tokens) != 5 {
		t.Errorf("Expected default style word to be replaced, got %+v", tokens)
	}
}

func TestLoadRulesFileTOML(t *testing.T) {
	rulesContent := `[[structural]]
kind = "table_end"
text = "\n|}"

[[structural]]
kind = "table_end"
text = "\n|)"
`
	tmpFile := filepath.Join(t.TempDir(), "rules.toml")
	if err := writeFile(tmpFile, rulesContent); err != nil {
		t.Fatalf("Failed to create temp rules file: %v", err)
	}

	rules, err := LoadRulesFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to load rules file: %v", err)
	}
	if len(rules.Structural) != 2 || rules.Structural[1].Text != "\n|)" {
		t.Fatalf("Expected two table_end rules, got %+v", rules.Structural)
	}

	applied, err := ApplyRulesToDefaults(rules)
	if err != nil {
		t.Fatalf("Failed to apply rules: %v", err)
	}
	table, _, err := applied.Build()
	if err != nil {
		t.Fatalf("Failed to build tokenizers: %v", err)
	}
	tokens := table.Tokenize("\n|)")
	if len(tokens) != 1 || tokens[0].Kind != TableEnd {
		t.Errorf("Expected alternative table end marker, got %+v", tokens)
	}
}

func TestApplyRulesErrors(t *testing.T) {
	tests := []struct {
		name  string
		rules *RulesFile
	}{
		{"Unknown kind", &RulesFile{Structural: []MarkerRule{{Kind: "table_middle", Text: "x"}}}},
		{"Cell kind in structural section", &RulesFile{Structural: []MarkerRule{{Kind: LinkStart, Text: "(("}}}},
		{"Conflicting marker", &RulesFile{Structural: []MarkerRule{{Kind: DataCellInline, Text: "!!"}}}},
		{"Empty marker", &RulesFile{Cell: []MarkerRule{{Kind: Separator, Text: ""}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ApplyRulesToDefaults(tt.rules); err == nil {
				t.Errorf("Expected error, got nil")
			}
		})
	}
}

func TestLoadRulesFileErrors(t *testing.T) {
	if _, err := LoadRulesFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Expected error for missing file")
	}

	tmpFile := filepath.Join(t.TempDir(), "bad.yaml")
	if err := writeFile(tmpFile, "structural: [: bad"); err != nil {
		t.Fatalf("Failed to create temp rules file: %v", err)
	}
	if _, err := LoadRulesFile(tmpFile); err == nil {
		t.Errorf("Expected YAML parse error")
	}
}

func TestDefaultRulesRoundTrip(t *testing.T) {
	rf := DefaultRules().RulesFile()

	for _, format := range []string{"yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			var data []byte
			var err error
			if format == "yaml" {
				data, err = rf.YAML()
			} else {
				data, err = rf.TOML()
			}
			if err != nil {
				t.Fatalf("Failed to render rules: %v", err)
			}

			tmpFile := filepath.Join(t.TempDir(), "rules."+format)
			if err := os.WriteFile(tmpFile, data, 0o644); err != nil {
				t.Fatalf("Failed to write rules: %v", err)
			}
			loaded, err := LoadRulesFile(tmpFile)
			if err != nil {
				t.Fatalf("Failed to load rendered rules: %v", err)
			}
			applied, err := ApplyRulesToDefaults(loaded)
			if err != nil {
				t.Fatalf("Failed to apply rendered rules: %v", err)
			}

			defaults := DefaultRules()
			if len(applied.Structural) != len(defaults.Structural) || len(applied.Cell) != len(defaults.Cell) {
				t.Fatalf("Expected default vocabularies, got %+v", applied)
			}
			for i, m := range defaults.Structural {
				if applied.Structural[i] != m {
					t.Errorf("Structural marker %d: expected %+v, got %+v", i, m, applied.Structural[i])
				}
			}
		})
	}
}

// Helper function for writing test files
func writeFile(filename, content string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(content)
	return err
}
