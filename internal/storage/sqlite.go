// Package storage implements the persistence collaborator: three named
// JSON records (residents, transactions, saved announcements) kept in a
// SQLite key-value table, obfuscated with a repeating-key XOR cipher
// plus base64 framing.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/syaprakli/bina-yonetim/internal/model"
)

// Record keys for the three persisted collections.
const (
	RecordResidents     = "residents"
	RecordTransactions  = "transactions"
	RecordAnnouncements = "savedAnnouncements"
)

// Store reads and writes the named records. Reads never fail hard: an
// unreadable record degrades to an empty collection with a warning, so
// a corrupt database never prevents the application from starting.
type Store struct {
	db     *sql.DB
	dbPath string
	key    []byte
}

// Open creates a Store backed by the SQLite file at dbPath. The
// obfuscation key may be empty, in which case DefaultKey is used.
func Open(dbPath, obfuscationKey string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}
	if obfuscationKey == "" {
		obfuscationKey = DefaultKey
	}

	// Ensure directory exists
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
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

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}

	return &Store{
		db:     db,
		dbPath: dbPath,
		key:    []byte(obfuscationKey),
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// readRecord returns the raw stored value for key, or nil when the key
// has never been written.
func (s *Store) readRecord(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) writeRecord(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write record %q: %w", key, err)
	}
	return nil
}

// decodeRecord turns a stored value back into JSON. Records written by
// current versions are obfuscated; records from legacy deployments are
// plain JSON, recognized by their leading bracket.
func (s *Store) decodeRecord(raw []byte) ([]byte, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed), true
	}

	plain, err := Deobfuscate(trimmed, s.key)
	if err == nil && json.Valid(plain) {
		return plain, true
	}

	// Deobfuscation produced garbage. Last resort: the record may be
	// plain JSON that happened not to start with a bracket after
	// manual editing.
	if json.Valid(raw) {
		return raw, true
	}
	return nil, false
}

// loadInto decodes the record for key into dst (a pointer to a slice).
// Missing or unreadable records leave dst empty: persistence corruption
// degrades, it never propagates.
func (s *Store) loadInto(ctx context.Context, key string, dst any) error {
	raw, err := s.readRecord(ctx, key)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	plain, ok := s.decodeRecord(raw)
	if !ok {
		slog.Warn("Stored record unreadable, starting with empty collection", "record", key)
		return nil
	}
	if err := json.Unmarshal(plain, dst); err != nil {
		slog.Warn("Stored record failed to parse, starting with empty collection",
			"record", key, "error", err)
	}
	return nil
}

func (s *Store) saveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record %q: %w", key, err)
	}
	return s.writeRecord(ctx, key, []byte(Obfuscate(data, s.key)))
}

// LoadResidents reads the resident directory. A missing or corrupt
// record yields an empty slice, never an error from decoding.
func (s *Store) LoadResidents(ctx context.Context) ([]model.Resident, error) {
	var residents []model.Resident
	if err := s.loadInto(ctx, RecordResidents, &residents); err != nil {
		return nil, err
	}
	return residents, nil
}

// SaveResidents writes the full resident directory.
func (s *Store) SaveResidents(ctx context.Context, residents []model.Resident) error {
	return s.saveJSON(ctx, RecordResidents, residents)
}

// LoadTransactions reads the transaction ledger.
func (s *Store) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	var txns []model.Transaction
	if err := s.loadInto(ctx, RecordTransactions, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// SaveTransactions writes the full transaction ledger.
func (s *Store) SaveTransactions(ctx context.Context, txns []model.Transaction) error {
	return s.saveJSON(ctx, RecordTransactions, txns)
}

// LoadAnnouncements reads the saved announcement templates.
func (s *Store) LoadAnnouncements(ctx context.Context) ([]model.Announcement, error) {
	var anns []model.Announcement
	if err := s.loadInto(ctx, RecordAnnouncements, &anns); err != nil {
		return nil, err
	}
	return anns, nil
}

// SaveAnnouncements writes the saved announcement templates.
func (s *Store) SaveAnnouncements(ctx context.Context, anns []model.Announcement) error {
	return s.saveJSON(ctx, RecordAnnouncements, anns)
}
