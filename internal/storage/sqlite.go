package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"stopword_bot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database. Each chat owns a
// single row holding the same JSON document the file backend writes.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// LoadStopwords returns the stored list for chatID.
func (s *SQLite) LoadStopwords(ctx context.Context, chatID int64) ([]string, bool, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM stopword_lists WHERE chat_id = ?`, chatID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query stopwords: %w", err)
	}
	words, err := decodeDocument([]byte(doc))
	if err != nil {
		return nil, true, err
	}
	return words, true, nil
}

// SaveStopwords upserts the full list for chatID.
func (s *SQLite) SaveStopwords(ctx context.Context, chatID int64, words []string) error {
	data, err := encodeDocument(words)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(timeLayout)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO stopword_lists (chat_id, document, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(chat_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		chatID, string(data), now,
	)
	if err != nil {
		return fmt.Errorf("save stopwords: %w", err)
	}
	return nil
}
