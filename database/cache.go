package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// Cache is the local fallback copy of every board, keyed by the board's
// cache key. It has no expiry; each Set overwrites the previous value.
type Cache struct {
	db *sql.DB
}

func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db}
}

func (c *Cache) Get(key string) ([]byte, bool, error) {
	var data string
	err := c.db.QueryRow("SELECT data FROM cache_entries WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cache entry: %w", err)
	}
	return []byte(data), true, nil
}

func (c *Cache) Set(key string, data []byte) error {
	_, err := c.db.Exec(`
		INSERT INTO cache_entries (key, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP
	`, key, string(data))
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
