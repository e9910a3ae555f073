package tokenizer

import "fmt"

// trieNode is one character position in a vocabulary. Children are owned
// exclusively by their parent; the tree is never modified after New returns.
type trieNode struct {
	children map[rune]*trieNode
	kind     Kind // empty unless a marker ends here
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

// insert adds the marker text below n, extending any existing branch that
// already spells a prefix of it.
func (n *trieNode) insert(m Marker) error {
	if m.Text == "" {
		return fmt.Errorf("%w: kind %s", ErrEmptyMarker, m.Kind)
	}
	if m.Kind == "" || m.Kind == Literal {
		return fmt.Errorf("invalid marker kind %q for %q", m.Kind, m.Text)
	}

	node := n
	for _, r := range m.Text {
		child, ok := node.children[r]
		if !ok {
			child = newTrieNode()
			node.children[r] = child
		}
		node = child
	}

	if node.kind != "" {
		return fmt.Errorf("%w: %q is defined for both %s and %s", ErrDuplicateMarker, m.Text, node.kind, m.Kind)
	}
	node.kind = m.Kind
	return nil
}

func (n *trieNode) child(r rune) (*trieNode, bool) {
	c, ok := n.children[r]
	return c, ok
}

func (n *trieNode) terminal() bool {
	return n.kind != ""
}
