package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// CacheEntry is one cached registry listing.
type CacheEntry struct {
	Key       string
	Values    []string
	FetchedAt time.Time
}

// RegistryCache keeps scraped registry listings (model names, tags per
// model) so reopening the install picker does not re-scrape every time.
type RegistryCache struct {
	db  *sql.DB
	now func() time.Time
}

func NewRegistryCache(dataDir string) (*RegistryCache, error) {
	dbPath := filepath.Join(dataDir, "registry-cache.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	cache := &RegistryCache{db: db, now: time.Now}

	if err := cache.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cache, nil
}

func (rc *RegistryCache) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS registry_cache (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		fetched_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_registry_cache_fetched ON registry_cache(fetched_at);
	`

	_, err := rc.db.Exec(schema)
	return err
}

// Get returns the cached values for key when they are younger than maxAge.
// A miss is (nil, false, nil).
func (rc *RegistryCache) Get(key string, maxAge time.Duration) ([]string, bool, error) {
	entry, err := rc.Load(key)
	if err != nil || entry == nil {
		return nil, false, err
	}

	if maxAge <= 0 || rc.now().Sub(entry.FetchedAt) > maxAge {
		return nil, false, nil
	}

	return entry.Values, true, nil
}

func (rc *RegistryCache) Load(key string) (*CacheEntry, error) {
	query := `
	SELECT key, payload, fetched_at
	FROM registry_cache
	WHERE key = ?
	`

	var (
		entry     CacheEntry
		payload   string
		fetchedAt int64
	)
	err := rc.db.QueryRow(query, key).Scan(&entry.Key, &payload, &fetchedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(payload), &entry.Values); err != nil {
		return nil, fmt.Errorf("corrupt cache entry %q: %w", key, err)
	}
	entry.FetchedAt = time.Unix(fetchedAt, 0)

	return &entry, nil
}

func (rc *RegistryCache) Put(key string, values []string) error {
	payload, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO registry_cache (key, payload, fetched_at)
	VALUES (?, ?, ?)
	`

	_, err = rc.db.Exec(query, key, string(payload), rc.now().Unix())
	return err
}

func (rc *RegistryCache) Delete(key string) error {
	query := `DELETE FROM registry_cache WHERE key = ?`
	_, err := rc.db.Exec(query, key)
	return err
}

// Clear removes every entry and reports how many were dropped.
func (rc *RegistryCache) Clear() (int64, error) {
	result, err := rc.db.Exec(`DELETE FROM registry_cache`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear registry cache: %w", err)
	}
	return result.RowsAffected()
}

// Prune removes entries older than maxAge and reports how many were dropped.
func (rc *RegistryCache) Prune(maxAge time.Duration) (int64, error) {
	cutoff := rc.now().Add(-maxAge).Unix()

	result, err := rc.db.Exec(`DELETE FROM registry_cache WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune registry cache: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}

	return rows, nil
}

func (rc *RegistryCache) Close() error {
	if rc.db != nil {
		return rc.db.Close()
	}
	return nil
}
