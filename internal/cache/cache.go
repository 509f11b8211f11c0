// Package cache keeps the desk's last known order list on local disk so the
// console keeps working while the order store is unreachable.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/racketdesk/stringdesk/internal/models"
)

const slotPrefix = "racketOrders"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS slots (
    name       TEXT PRIMARY KEY,
    payload    TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// SlotName is the slot holding the order list of one store.
func SlotName(storeID int64) string {
	return slotPrefix + ":" + strconv.FormatInt(storeID, 10)
}

// LocalCache stores whole order lists under named slots. A slot is always
// replaced as a whole, never merged.
type LocalCache struct {
	db *sql.DB
}

func Open(path string) (*LocalCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &LocalCache{db: db}, nil
}

// Load returns an empty list when the slot was never written.
func (c *LocalCache) Load(ctx context.Context, slot string) ([]models.Order, error) {
	var payload string
	err := c.db.QueryRowContext(ctx, `SELECT payload FROM slots WHERE name = ?`, slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", slot, err)
	}

	orders := []models.Order{}
	if err := json.Unmarshal([]byte(payload), &orders); err != nil {
		return nil, fmt.Errorf("slot %s is corrupted: %w", slot, err)
	}
	return orders, nil
}

func (c *LocalCache) Save(ctx context.Context, slot string, orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	payload, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to encode slot %s: %w", slot, err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO slots (name, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		slot, string(payload))
	if err != nil {
		return fmt.Errorf("failed to write slot %s: %w", slot, err)
	}
	return nil
}

func (c *LocalCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}
