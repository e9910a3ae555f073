package tokenizer

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrEmptyMarker is returned by New for a vocabulary entry with no text.
	ErrEmptyMarker = errors.New("empty marker")
	// ErrDuplicateMarker is returned by New when two entries spell the same text.
	ErrDuplicateMarker = errors.New("duplicate marker")
)

// Tokenizer splits text into markers of a fixed vocabulary and single-character
// literals. A Tokenizer is immutable once built and safe for concurrent use.
type Tokenizer struct {
	root  *trieNode
	vocab Vocabulary
}

// New builds a tokenizer over the vocabulary. Empty and duplicate marker texts
// are rejected.
func New(vocab Vocabulary) (*Tokenizer, error) {
	root := newTrieNode()
	for _, m := range vocab {
		if err := root.insert(m); err != nil {
			return nil, err
		}
	}
	return &Tokenizer{root: root, vocab: vocab.Clone()}, nil
}

// MustNew is like New but panics if the vocabulary is invalid.
func MustNew(vocab Vocabulary) *Tokenizer {
	t, err := New(vocab)
	if err != nil {
		panic(fmt.Sprintf("Invalid vocabulary: %v", err))
	}
	return t
}

// NewStructural returns a tokenizer over the default structural vocabulary.
func NewStructural() *Tokenizer {
	return MustNew(StructuralVocabulary())
}

// NewCell returns a tokenizer over the default cell-content vocabulary.
func NewCell() *Tokenizer {
	return MustNew(CellVocabulary())
}

// Vocabulary returns a copy of the markers this tokenizer was built from.
func (t *Tokenizer) Vocabulary() Vocabulary {
	return t.vocab.Clone()
}

// Tokenize scans text once from left to right.
//
// While the current rune extends the pending match it is consumed. When it does
// not, the pending match is committed and the rune is looked up again from the
// root. The scan never backtracks: a pending match that stopped on a marker is
// emitted as that marker even if a longer marker could have started inside it,
// and one that stopped part-way through a marker is emitted as literals.
func (t *Tokenizer) Tokenize(text string) []Token {
	tokens := make([]Token, 0, len(text))
	node := t.root
	start := -1 // byte offset of the pending match, -1 when none

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])

		if child, ok := node.child(r); ok {
			if start < 0 {
				start = i
			}
			node = child
			i += size
			continue
		}

		if start >= 0 {
			tokens = commit(tokens, text[start:i], node)
			start = -1
			node = t.root
		}

		if child, ok := node.child(r); ok {
			start = i
			node = child
		} else {
			tokens = append(tokens, Token{Text: text[i : i+size], Kind: Literal})
		}
		i += size
	}

	if start >= 0 {
		tokens = commit(tokens, text[start:], node)
	}
	return tokens
}

// commit appends the pending match that ended at node.
func commit(tokens []Token, match string, node *trieNode) []Token {
	if node.terminal() {
		return append(tokens, Token{Text: match, Kind: node.kind})
	}
	for i := 0; i < len(match); {
		_, size := utf8.DecodeRuneInString(match[i:])
		tokens = append(tokens, Token{Text: match[i : i+size], Kind: Literal})
		i += size
	}
	return tokens
}
