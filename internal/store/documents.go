package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// LoadDocument decodes the document stored under key into v. It reports
// false (and leaves v untouched) when no document exists.
func (db *DB) LoadDocument(key string, v any) (bool, error) {
	var body string
	err := db.QueryRow("SELECT body FROM documents WHERE key = ?", key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load document %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return false, fmt.Errorf("decode document %q: %w", key, err)
	}
	return true, nil
}

// SaveDocument replaces the document stored under key with v.
func (db *DB) SaveDocument(key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode document %q: %w", key, err)
	}
	_, err = db.Exec(`
		INSERT INTO documents (key, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, key, string(body), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save document %q: %w", key, err)
	}
	return nil
}

// UpdateDocument loads the document under key into v, calls fn, and saves v
// back unless fn returns an error. Updates are serialized within the process.
// fn sees v untouched (its zero or caller-prepared value) when no document
// exists yet, with found set to false.
func (db *DB) UpdateDocument(key string, v any, fn func(found bool) error) error {
	db.docMu.Lock()
	defer db.docMu.Unlock()

	found, err := db.LoadDocument(key, v)
	if err != nil {
		return err
	}
	if err := fn(found); err != nil {
		return err
	}
	return db.SaveDocument(key, v)
}

// DeleteDocument removes the document under key, if any.
func (db *DB) DeleteDocument(key string) error {
	if _, err := db.Exec("DELETE FROM documents WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete document %q: %w", key, err)
	}
	return nil
}
