package main

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/iafilatov/libfprint-sub001/templates"
)

// Gallery is the sqlite store of enrolled fingerprint templates.
type Gallery struct {
	db *sql.DB
}

type GalleryEntry struct {
	ID       int64
	Subject  string
	Template *templates.Template
}

func OpenGallery(path string) (*Gallery, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gallery database: %w", err)
	}
	schema := `CREATE TABLE IF NOT EXISTS fingerprints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subject TEXT NOT NULL,
		template BLOB NOT NULL,
		enrolled_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create gallery schema: %w", err)
	}
	return &Gallery{db: db}, nil
}

func (g *Gallery) Close() error {
	return g.db.Close()
}

// Enroll stores a serialized template under a subject name and returns the
// new row id.
func (g *Gallery) Enroll(subject string, template []byte) (int64, error) {
	res, err := g.db.Exec(
		"INSERT INTO fingerprints (subject, template) VALUES (?, ?)",
		subject, template,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to enroll fingerprint: %w", err)
	}
	return res.LastInsertId()
}

// All loads and decodes every enrolled template.
func (g *Gallery) All() ([]GalleryEntry, error) {
	rows, err := g.db.Query("SELECT id, subject, template FROM fingerprints ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query gallery: %w", err)
	}
	defer rows.Close()

	var entries []GalleryEntry
	for rows.Next() {
		var (
			e    GalleryEntry
			blob []byte
		)
		if err := rows.Scan(&e.ID, &e.Subject, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan gallery row: %w", err)
		}
		e.Template, err = templates.Unmarshal(blob)
		if err != nil {
			return nil, fmt.Errorf("failed to decode template %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
