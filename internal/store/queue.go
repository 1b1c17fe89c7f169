package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Captions holds the three caption lengths generated for a queue item.
type Captions struct {
	Short  string `json:"short"`
	Medium string `json:"medium"`
	Long   string `json:"long"`
}

// QueueItem is a generated, not yet published post.
type QueueItem struct {
	ID           string   `json:"id"`
	Kind         string   `json:"kind"`
	ProphecyText string   `json:"prophecyText"`
	Captions     Captions `json:"captions"`
	CTA          string   `json:"cta"`
	Hashtags     string   `json:"hashtags"`
	CardURL      string   `json:"cardUrl,omitempty"`
	CardPath     string   `json:"cardPath,omitempty"`
	CreatedAt    int64    `json:"createdAt"`
}

const queueColumns = "id, kind, prophecy_text, captions, cta, hashtags, card_url, card_path, created_at"

// AddQueueItem appends item to the tail of the queue. A missing ID or
// CreatedAt is filled in.
func (db *DB) AddQueueItem(item *QueueItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().UnixMilli()
	}
	captions, err := json.Marshal(item.Captions)
	if err != nil {
		return fmt.Errorf("encode captions: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO queue_items (id, kind, prophecy_text, captions, cta, hashtags, card_url, card_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.Kind, item.ProphecyText, string(captions), item.CTA, item.Hashtags,
		item.CardURL, item.CardPath, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert queue item: %w", err)
	}
	return nil
}

// ListQueue returns every queued item, head first.
func (db *DB) ListQueue() ([]QueueItem, error) {
	rows, err := db.Query("SELECT " + queueColumns + " FROM queue_items ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	defer rows.Close()

	items := []QueueItem{}
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// PeekQueue returns the head of the queue without removing it, or nil when
// the queue is empty.
func (db *DB) PeekQueue() (*QueueItem, error) {
	row := db.QueryRow("SELECT " + queueColumns + " FROM queue_items ORDER BY seq LIMIT 1")
	item, err := scanQueueItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return item, err
}

// RemoveQueueHead removes and returns the head of the queue, or nil when
// the queue is empty.
func (db *DB) RemoveQueueHead() (*QueueItem, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow("SELECT " + queueColumns + " FROM queue_items ORDER BY seq LIMIT 1")
	item, err := scanQueueItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec("DELETE FROM queue_items WHERE id = ?", item.ID); err != nil {
		return nil, fmt.Errorf("delete queue head: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return item, nil
}

// RemoveQueueItem removes the item with the given ID. It reports whether an
// item was removed.
func (db *DB) RemoveQueueItem(id string) (bool, error) {
	res, err := db.Exec("DELETE FROM queue_items WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete queue item: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ClearQueue removes every queued item and returns how many were removed.
func (db *DB) ClearQueue() (int, error) {
	res, err := db.Exec("DELETE FROM queue_items")
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// QueueLength returns the number of queued items.
func (db *DB) QueueLength() (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM queue_items").Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQueueItem(s scanner) (*QueueItem, error) {
	var (
		item     QueueItem
		captions string
	)
	err := s.Scan(&item.ID, &item.Kind, &item.ProphecyText, &captions, &item.CTA, &item.Hashtags,
		&item.CardURL, &item.CardPath, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan queue item: %w", err)
	}
	if err := json.Unmarshal([]byte(captions), &item.Captions); err != nil {
		return nil, fmt.Errorf("decode captions: %w", err)
	}
	return &item, nil
}
