package render

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"gopkg.in/yaml.v3"
)

// JSONLines writes each item as one JSON object per line.
func JSONLines[T any](w io.Writer, items iter.Seq[T]) error {
	for item := range items {
		jsonBytes, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("JSON encoding error: %w", err)
		}
		if _, err := fmt.Fprintln(w, string(jsonBytes)); err != nil {
			return err
		}
	}
	return nil
}

// YAML writes v as a YAML document with two space indentation.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

// Text writes the String form of each item on its own line.
func Text[T fmt.Stringer](w io.Writer, items iter.Seq[T]) error {
	for item := range items {
		if _, err := fmt.Fprintln(w, item.String()); err != nil {
			return err
		}
	}
	return nil
}
