package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// Supported SQL dialects
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// SQLStorage persists key/value items in a kv_storage table.
// Works against PostgreSQL (pgx) and embedded SQLite.
type SQLStorage struct {
	db      *sql.DB
	dialect string
}

// NewSQLStorage creates a new SQLStorage for the given dialect
func NewSQLStorage(db *sql.DB, dialect string) (*SQLStorage, error) {
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return nil, fmt.Errorf("unsupported sql dialect: %s", dialect)
	}
	return &SQLStorage{db: db, dialect: dialect}, nil
}

// Ensure SQLStorage implements StorageInterface
var _ StorageInterface = (*SQLStorage)(nil)

// placeholder returns the n-th bind parameter for the dialect
func (s *SQLStorage) placeholder(n int) string {
	if s.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// EnsureSchema creates the kv_storage table if it does not exist
func (s *SQLStorage) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS kv_storage (
			item_key   TEXT PRIMARY KEY,
			item_value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		log.Printf("❌ Error creating kv_storage table: %v", err)
		return fmt.Errorf("failed to create kv_storage table: %w", err)
	}
	log.Printf("✓ kv_storage table ready (dialect=%s)", s.dialect)
	return nil
}

// GetItem retrieves a value by key
func (s *SQLStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	query := fmt.Sprintf(`SELECT item_value FROM kv_storage WHERE item_key = %s`, s.placeholder(1))

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		log.Printf("❌ Error reading key %s: %v", key, err)
		return "", false, fmt.Errorf("failed to get item: %w", err)
	}
	return value, true, nil
}

// SetItem inserts or replaces a value using ON CONFLICT
func (s *SQLStorage) SetItem(ctx context.Context, key string, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO kv_storage (item_key, item_value, updated_at)
		VALUES (%s, %s, CURRENT_TIMESTAMP)
		ON CONFLICT (item_key)
		DO UPDATE SET
			item_value = EXCLUDED.item_value,
			updated_at = CURRENT_TIMESTAMP
	`, s.placeholder(1), s.placeholder(2))

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		log.Printf("❌ Error upserting key %s: %v", key, err)
		return fmt.Errorf("failed to set item: %w", err)
	}
	return nil
}

// RemoveItem deletes a value by key
func (s *SQLStorage) RemoveItem(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM kv_storage WHERE item_key = %s`, s.placeholder(1))
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		log.Printf("❌ Error deleting key %s: %v", key, err)
		return fmt.Errorf("failed to remove item: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
