// Package store persists authored form definitions for the builder
// preview server. Definitions are stored as JSON documents keyed by
// form id; the runtime treats them as immutable snapshots.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wizardformz/formkit/pkg/definition"
)

// ErrNotFound is returned when a form id has no stored definition.
var ErrNotFound = errors.New("form not found")

// Summary is a list entry for the dashboard.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Steps     int       `json:"steps"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is a sqlite-backed definition store. Use ":memory:" as the path
// for an ephemeral store.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS forms (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		definition TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or replaces a definition. The definition is validated
// before it is written; malformed definitions never reach storage.
func (s *Store) Put(ctx context.Context, def *definition.FormDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	doc, err := def.Encode()
	if err != nil {
		return fmt.Errorf("encode definition: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO forms (id, title, definition, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			definition = excluded.definition,
			updated_at = excluded.updated_at`,
		def.ID, def.Title, string(doc), now, now)
	if err != nil {
		return fmt.Errorf("store definition: %w", err)
	}
	return nil
}

// Get loads one definition by id.
func (s *Store) Get(ctx context.Context, id string) (*definition.FormDefinition, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT definition FROM forms WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load definition: %w", err)
	}
	return definition.Parse([]byte(doc))
}

// List returns summaries of all stored forms, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, definition, updated_at
		FROM forms ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var doc string
		if err := rows.Scan(&sum.ID, &sum.Title, &doc, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan form row: %w", err)
		}
		if def, err := definition.Parse([]byte(doc)); err == nil {
			sum.Steps = len(def.Steps)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a stored definition.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM forms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}
