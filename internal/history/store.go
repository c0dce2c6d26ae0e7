package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultLimit is used by List when limit is not positive
const DefaultLimit = 50

// Entry is one action sent to a device
type Entry struct {
	ID        int64     `json:"id"`
	DeviceID  string    `json:"device_id"`
	Type      string    `json:"type"`
	Action    string    `json:"action"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps the action history in SQLite
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the history database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates the database tables
func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS actions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			device_id TEXT NOT NULL,
			type TEXT NOT NULL,
			action TEXT NOT NULL,
			success INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL -- unix milliseconds
		)`,
		`CREATE INDEX IF NOT EXISTS idx_actions_device_id ON actions(device_id, created_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// Record stores entry and returns it with ID and timestamp filled in
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC().Truncate(time.Millisecond)

	query := `INSERT INTO actions (device_id, type, action, success, error, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	result, err := s.db.ExecContext(ctx, query,
		entry.DeviceID, entry.Type, entry.Action, entry.Success, entry.Error, entry.CreatedAt.UnixMilli())
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record action: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("failed to get action ID: %w", err)
	}
	entry.ID = id

	return entry, nil
}

// List returns the newest entries first. An empty deviceID lists every
// device.
func (s *Store) List(ctx context.Context, deviceID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `SELECT id, device_id, type, action, success, error, created_at FROM actions`
	args := []any{}
	if deviceID != "" {
		query += ` WHERE device_id = ?`
		args = append(args, deviceID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			entry     Entry
			createdAt int64
		)
		if err := rows.Scan(&entry.ID, &entry.DeviceID, &entry.Type, &entry.Action,
			&entry.Success, &entry.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		entry.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}

	return entries, nil
}

// Prune deletes entries older than before and returns how many were removed
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM actions WHERE created_at < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune actions: %w", err)
	}
	return result.RowsAffected()
}
