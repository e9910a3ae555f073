package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/spicery/wikitext-table/pkg/table"
)

// CSV writes the rows of the table as CSV records, padded to the column count.
func CSV(w io.Writer, t *table.Table, plain bool) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Matrix(plain)); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
