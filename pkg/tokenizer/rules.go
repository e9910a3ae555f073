package tokenizer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// RulesFile represents the structure of a rules file. Each list overrides the
// marker text of the kinds it mentions; kinds it does not mention keep their
// default text. A kind may be listed more than once to give it several spellings.
type RulesFile struct {
	Structural []MarkerRule `yaml:"structural" toml:"structural"`
	Cell       []MarkerRule `yaml:"cell" toml:"cell"`
}

// MarkerRule represents a single marker override.
type MarkerRule struct {
	Kind Kind   `yaml:"kind" toml:"kind"`
	Text string `yaml:"text" toml:"text"`
}

// Rules holds the two vocabularies a table parser needs.
type Rules struct {
	Structural Vocabulary
	Cell       Vocabulary
}

// DefaultRules returns the default wiki table vocabularies.
func DefaultRules() *Rules {
	rules := &Rules{
		Structural: StructuralVocabulary(),
		Cell:       CellVocabulary(),
	}

	// Default rules should never have conflicts, so we panic if there's an error
	if _, _, err := rules.Build(); err != nil {
		panic(fmt.Sprintf("Invalid default rules: %v", err))
	}

	return rules
}

// LoadRulesFile loads and parses a rules file. Files ending in .toml are read
// as TOML; anything else is read as YAML.
func LoadRulesFile(filename string) (*RulesFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file '%s': %w", filename, err)
	}

	var rules RulesFile
	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		if err := toml.Unmarshal(data, &rules); err != nil {
			return nil, fmt.Errorf("failed to parse TOML in rules file '%s': %w", filename, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &rules); err != nil {
			return nil, fmt.Errorf("failed to parse YAML in rules file '%s': %w", filename, err)
		}
	}

	return &rules, nil
}

// ApplyRulesToDefaults applies the overrides of a RulesFile to the default
// vocabularies. Returns an error for unknown kinds and for conflicting markers.
func ApplyRulesToDefaults(rules *RulesFile) (*Rules, error) {
	tokenizerRules := DefaultRules()

	structural, err := applyOverrides(tokenizerRules.Structural, rules.Structural, "structural")
	if err != nil {
		return nil, err
	}
	cell, err := applyOverrides(tokenizerRules.Cell, rules.Cell, "cell")
	if err != nil {
		return nil, err
	}
	tokenizerRules.Structural = structural
	tokenizerRules.Cell = cell

	if _, _, err := tokenizerRules.Build(); err != nil {
		return nil, err
	}
	return tokenizerRules, nil
}

// applyOverrides replaces every default entry of an overridden kind with the
// rule texts, keeping the position of the first default entry of that kind.
func applyOverrides(defaults Vocabulary, overrides []MarkerRule, section string) (Vocabulary, error) {
	if len(overrides) == 0 {
		return defaults, nil
	}

	replacement := make(map[Kind][]string)
	for _, rule := range overrides {
		if !defaults.Has(rule.Kind) {
			return nil, fmt.Errorf("unknown %s marker kind '%s'", section, rule.Kind)
		}
		replacement[rule.Kind] = append(replacement[rule.Kind], rule.Text)
	}

	out := make(Vocabulary, 0, len(defaults)+len(overrides))
	done := make(map[Kind]bool)
	for _, m := range defaults {
		texts, ok := replacement[m.Kind]
		if !ok {
			out = append(out, m)
			continue
		}
		if done[m.Kind] {
			continue
		}
		done[m.Kind] = true
		for _, text := range texts {
			out = append(out, Marker{Kind: m.Kind, Text: text})
		}
	}
	return out, nil
}

// Build returns the structural and cell tokenizers for the rules.
func (rules *Rules) Build() (*Tokenizer, *Tokenizer, error) {
	table, err := New(rules.Structural)
	if err != nil {
		return nil, nil, fmt.Errorf("structural vocabulary: %w", err)
	}
	cell, err := New(rules.Cell)
	if err != nil {
		return nil, nil, fmt.Errorf("cell vocabulary: %w", err)
	}
	return table, cell, nil
}

// RulesFile converts the rules back to the file format, listing every marker.
func (rules *Rules) RulesFile() *RulesFile {
	rf := &RulesFile{}
	for _, m := range rules.Structural {
		rf.Structural = append(rf.Structural, MarkerRule(m))
	}
	for _, m := range rules.Cell {
		rf.Cell = append(rf.Cell, MarkerRule(m))
	}
	return rf
}

// YAML renders the rules file as YAML.
func (rf *RulesFile) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rf); err != nil {
		return nil, fmt.Errorf("failed to marshal rules to YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal rules to YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// TOML renders the rules file as TOML.
func (rf *RulesFile) TOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(rf); err != nil {
		return nil, fmt.Errorf("failed to marshal rules to TOML: %w", err)
	}
	return buf.Bytes(), nil
}
