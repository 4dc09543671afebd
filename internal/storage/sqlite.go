package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parcelflow/parcelflow/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements the Storage interface using SQLite. Each mail
// account stores its tracking state as a single JSON document.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// LoadState returns the persisted tracking state for an account. A missing
// row yields a fresh empty state rather than an error.
func (s *SQLiteStorage) LoadState(ctx context.Context, account string) (*model.PersistedState, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(account, "account"); err != nil {
		return nil, err
	}

	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM account_state WHERE account = ?", account).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewPersistedState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state for %s: %w", account, err)
	}

	state := model.NewPersistedState()
	if err := json.Unmarshal([]byte(data), state); err != nil {
		return nil, fmt.Errorf("failed to decode state for %s: %w", account, err)
	}
	state.Normalize()
	return state, nil
}

// SaveState upserts the tracking state document for an account.
func (s *SQLiteStorage) SaveState(ctx context.Context, account string, state *model.PersistedState) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(account, "account"); err != nil {
		return err
	}
	if err := validateState(state); err != nil {
		return err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state for %s: %w", account, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO account_state (account, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(account) DO UPDATE SET
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP`,
		account, string(data))
	if err != nil {
		return fmt.Errorf("failed to save state for %s: %w", account, err)
	}
	return nil
}
