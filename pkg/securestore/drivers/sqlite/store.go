// Package sqlite is a durable securestore.Store. Values are sealed with
// AES-256-GCM before they reach the database file, bound to their key name.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aussiebroadwan/tokenkeeper/pkg/cryptox"
	"github.com/aussiebroadwan/tokenkeeper/pkg/securestore"
	_ "modernc.org/sqlite"
)

// ErrLocked is returned when the store is used before Unlock.
var ErrLocked = errors.New("sqlite store: locked")

const saltName = "kdf_salt"

type Store struct {
	db  *sql.DB
	dsn string

	mu     sync.RWMutex
	sealer *cryptox.Sealer
}

var _ securestore.Store = (*Store)(nil)

// NewStore opens the database at dsn. Call ApplyMigrations and Unlock before
// reading or writing secrets.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite only allows one writer; a single connection avoids SQLITE_BUSY
	// between our own goroutines.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

// DSN builds a modernc DSN for a database file with a busy timeout and WAL.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Unlock derives the sealing key from keyMaterial and the database's salt,
// creating the salt on first use. Unlocking with different key material than
// the values were written with makes every Load fail.
func (s *Store) Unlock(ctx context.Context, keyMaterial []byte) error {
	salt, err := s.loadOrCreateSalt(ctx)
	if err != nil {
		return fmt.Errorf("failed to load kdf salt: %w", err)
	}

	sealer, err := cryptox.NewSealer(keyMaterial, salt)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sealer = sealer
	s.mu.Unlock()
	return nil
}

func (s *Store) loadOrCreateSalt(ctx context.Context) ([]byte, error) {
	fresh, err := cryptox.NewSalt()
	if err != nil {
		return nil, err
	}

	// Only the first writer's salt sticks.
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO store_meta (name, value) VALUES (?, ?)`,
		saltName, fresh,
	); err != nil {
		return nil, err
	}

	var salt []byte
	if err := s.db.QueryRowContext(ctx,
		`SELECT value FROM store_meta WHERE name = ?`, saltName,
	).Scan(&salt); err != nil {
		return nil, err
	}
	return salt, nil
}

func (s *Store) currentSealer() (*cryptox.Sealer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sealer == nil {
		return nil, ErrLocked
	}
	return s.sealer, nil
}

func (s *Store) Save(ctx context.Context, key, value string) error {
	sealer, err := s.currentSealer()
	if err != nil {
		return err
	}

	sealed, err := sealer.Seal([]byte(value), []byte(key))
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO secrets (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, sealed, time.Now().UTC(),
	)
	return err
}

func (s *Store) Load(ctx context.Context, key string) (string, error) {
	sealer, err := s.currentSealer()
	if err != nil {
		return "", err
	}

	var sealed []byte
	err = s.db.QueryRowContext(ctx, `SELECT value FROM secrets WHERE key = ?`, key).Scan(&sealed)
	if err != nil {
		return "", mapNotFound(err)
	}

	plain, err := sealer.Open(sealed, []byte(key))
	if err != nil {
		return "", fmt.Errorf("failed to open %q: %w", key, err)
	}
	return string(plain), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM secrets WHERE key = ?`, key)
	return err
}

// Reset deletes every stored secret. Used when the store is opened with
// key material that can't match what earlier runs sealed with.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM secrets`)
	return err
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return securestore.ErrNotFound
	}
	return err
}
