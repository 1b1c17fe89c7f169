package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Prophecy is a pre-rendered manifest entry.
type Prophecy struct {
	ID       string `json:"id"`
	Caption  string `json:"caption"`
	Filename string `json:"filename,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Posted   bool   `json:"posted"`
}

// ImportProphecies inserts manifest entries, skipping IDs already present.
// It returns the number of new entries.
func (db *DB) ImportProphecies(entries []Prophecy) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, p := range entries {
		if p.ID == "" {
			return 0, fmt.Errorf("manifest entry without id")
		}
		res, err := tx.Exec(`
			INSERT INTO prophecies (id, caption, filename, image_url, posted)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, p.ID, p.Caption, p.Filename, p.ImageURL, p.Posted)
		if err != nil {
			return 0, fmt.Errorf("insert prophecy %s: %w", p.ID, err)
		}
		n, _ := res.RowsAffected()
		added += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

// NextUnposted returns the first manifest entry not yet posted, or nil.
func (db *DB) NextUnposted() (*Prophecy, error) {
	var p Prophecy
	err := db.QueryRow(`
		SELECT id, caption, filename, image_url, posted FROM prophecies
		WHERE posted = 0 ORDER BY seq LIMIT 1
	`).Scan(&p.ID, &p.Caption, &p.Filename, &p.ImageURL, &p.Posted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next unposted: %w", err)
	}
	return &p, nil
}

// MarkProphecyPosted flags the manifest entry with the given ID as posted.
func (db *DB) MarkProphecyPosted(id string) error {
	res, err := db.Exec("UPDATE prophecies SET posted = 1, posted_at = ? WHERE id = ?",
		time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("mark posted: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("prophecy %s not found", id)
	}
	return nil
}

// ListProphecies returns every manifest entry in import order.
func (db *DB) ListProphecies() ([]Prophecy, error) {
	rows, err := db.Query("SELECT id, caption, filename, image_url, posted FROM prophecies ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("list prophecies: %w", err)
	}
	defer rows.Close()

	var out []Prophecy
	for rows.Next() {
		var p Prophecy
		if err := rows.Scan(&p.ID, &p.Caption, &p.Filename, &p.ImageURL, &p.Posted); err != nil {
			return nil, fmt.Errorf("scan prophecy: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
