package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/spicery/wikitext-table/pkg/parser"
	"github.com/spicery/wikitext-table/pkg/table"
)

// ErrImportNotFound is returned for an import ID the store does not hold.
var ErrImportNotFound = errors.New("import not found")

// Import describes one batch of tables saved from a single source.
type Import struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Tables    int       `json:"tables"`
}

// Store persists extracted tables in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps :memory: databases alive between calls
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates the necessary tables
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS imports (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		table_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS wiki_tables (
		import_id TEXT NOT NULL REFERENCES imports(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		style TEXT NOT NULL,
		caption TEXT NOT NULL,
		has_caption INTEGER NOT NULL,
		closed INTEGER NOT NULL,
		PRIMARY KEY (import_id, position)
	);

	CREATE TABLE IF NOT EXISTS wiki_rows (
		import_id TEXT NOT NULL REFERENCES imports(id) ON DELETE CASCADE,
		table_pos INTEGER NOT NULL,
		position INTEGER NOT NULL,
		style TEXT NOT NULL,
		PRIMARY KEY (import_id, table_pos, position)
	);

	CREATE TABLE IF NOT EXISTS wiki_cells (
		import_id TEXT NOT NULL REFERENCES imports(id) ON DELETE CASCADE,
		table_pos INTEGER NOT NULL,
		row_pos INTEGER NOT NULL,
		position INTEGER NOT NULL,
		kind TEXT NOT NULL,
		style TEXT NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (import_id, table_pos, row_pos, position)
	);

	CREATE INDEX IF NOT EXISTS idx_imports_created_at ON imports(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_cells_text ON wiki_cells(text);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTables stores tables as a new import and returns its ID.
func (s *Store) SaveTables(ctx context.Context, source string, tables []*table.Table) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New().String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO imports (id, source, created_at, table_count)
		VALUES (?, ?, ?, ?)
	`, id, source, time.Now().UTC(), len(tables))
	if err != nil {
		return "", fmt.Errorf("failed to insert import: %w", err)
	}

	tableStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO wiki_tables (import_id, position, style, caption, has_caption, closed)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer tableStmt.Close()

	rowStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO wiki_rows (import_id, table_pos, position, style)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer rowStmt.Close()

	cellStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO wiki_cells (import_id, table_pos, row_pos, position, kind, style, text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer cellStmt.Close()

	for ti, t := range tables {
		if _, err := tableStmt.ExecContext(ctx, id, ti, t.Style, t.Caption, t.HasCaption, t.Closed); err != nil {
			return "", fmt.Errorf("failed to insert table %d: %w", ti, err)
		}
		for ri, row := range t.Rows {
			if _, err := rowStmt.ExecContext(ctx, id, ti, ri, row.Style); err != nil {
				return "", fmt.Errorf("failed to insert row %d of table %d: %w", ri, ti, err)
			}
			for ci, c := range row.Cells {
				if _, err := cellStmt.ExecContext(ctx, id, ti, ri, ci, string(c.Kind), c.Style, c.Text); err != nil {
					return "", fmt.Errorf("failed to insert cell %d of row %d of table %d: %w", ci, ri, ti, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// LoadTables returns the tables of an import in their original order.
func (s *Store) LoadTables(ctx context.Context, importID string) ([]*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT table_count FROM imports WHERE id = ?`, importID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrImportNotFound, importID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query import: %w", err)
	}

	tables := make([]*table.Table, 0, count)
	rows, err := s.db.QueryContext(ctx, `
		SELECT style, caption, has_caption, closed FROM wiki_tables
		WHERE import_id = ? ORDER BY position
	`, importID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	for rows.Next() {
		t := &table.Table{}
		if err := rows.Scan(&t.Style, &t.Caption, &t.HasCaption, &t.Closed); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", err)
	}

	if err := s.loadRows(ctx, importID, tables); err != nil {
		return nil, err
	}
	if err := s.loadCells(ctx, importID, tables); err != nil {
		return nil, err
	}

	return tables, nil
}

func (s *Store) loadRows(ctx context.Context, importID string, tables []*table.Table) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT table_pos, style FROM wiki_rows
		WHERE import_id = ? ORDER BY table_pos, position
	`, importID)
	if err != nil {
		return fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tablePos int
		var row table.Row
		if err := rows.Scan(&tablePos, &row.Style); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		if tablePos < 0 || tablePos >= len(tables) {
			return fmt.Errorf("row refers to missing table %d", tablePos)
		}
		tables[tablePos].Rows = append(tables[tablePos].Rows, row)
	}
	return rows.Err()
}

func (s *Store) loadCells(ctx context.Context, importID string, tables []*table.Table) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT table_pos, row_pos, kind, style, text FROM wiki_cells
		WHERE import_id = ? ORDER BY table_pos, row_pos, position
	`, importID)
	if err != nil {
		return fmt.Errorf("failed to query cells: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tablePos, rowPos int
		var kind string
		var c table.Cell
		if err := rows.Scan(&tablePos, &rowPos, &kind, &c.Style, &c.Text); err != nil {
			return fmt.Errorf("failed to scan cell: %w", err)
		}
		if tablePos < 0 || tablePos >= len(tables) || rowPos < 0 || rowPos >= len(tables[tablePos].Rows) {
			return fmt.Errorf("cell refers to missing row %d of table %d", rowPos, tablePos)
		}
		c.Kind = parser.CellKind(kind)
		row := &tables[tablePos].Rows[rowPos]
		row.Cells = append(row.Cells, c)
	}
	return rows.Err()
}

// ListImports returns every import, newest first.
func (s *Store) ListImports(ctx context.Context) ([]Import, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, created_at, table_count FROM imports
		ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	defer rows.Close()

	var imports []Import
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.ID, &imp.Source, &imp.CreatedAt, &imp.Tables); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}

// DeleteImport removes an import and all of its tables.
func (s *Store) DeleteImport(ctx context.Context, importID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM imports WHERE id = ?`, importID)
	if err != nil {
		return fmt.Errorf("failed to delete import: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrImportNotFound, importID)
	}
	return nil
}
