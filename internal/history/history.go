// Package history records finished requests in a SQLite database.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/studiowebux/todoui/internal/migrations"
	"github.com/studiowebux/todoui/internal/types"
)

const timestampLayout = "2006-01-02 15:04:05"

// Manager owns the history database
type Manager struct {
	db  *sql.DB
	now func() time.Time
}

// NewManager opens (creating if needed) the database at dbPath
func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db, now: time.Now}, nil
}

// Record saves a finished request. It satisfies executor.Recorder.
func (m *Manager) Record(req *types.JSONRequest, result *types.RequestResult) error {
	if req == nil || result == nil {
		return fmt.Errorf("nothing to record")
	}

	query := `
		INSERT INTO history (
			id, timestamp, method, url, body, status, response_body,
			duration_ms, request_size, response_size, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := m.db.Exec(query,
		uuid.NewString(),
		m.now().Local().Format(timestampLayout),
		req.Method,
		req.URL,
		string(req.Body),
		result.Status,
		result.Body,
		result.Duration,
		result.RequestSize,
		result.ResponseSize,
		result.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}

	return nil
}

// List returns the most recent entries first. limit <= 0 returns everything.
func (m *Manager) List(limit int) ([]types.HistoryEntry, error) {
	query := `
		SELECT id, timestamp, method, url, COALESCE(body, ''), status, response_body,
		       duration_ms, COALESCE(error, '')
		FROM history
		ORDER BY timestamp DESC, rowid DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := m.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var e types.HistoryEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Method, &e.URL, &e.Body,
			&e.Status, &e.ResponseBody, &e.Duration, &e.Error); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Clear deletes all entries
func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM history")
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// GetCount returns the number of entries
func (m *Manager) GetCount() (int, error) {
	var count int
	if err := m.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

// Close closes the database
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
