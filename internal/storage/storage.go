// package storage provides the durable key-value store that backs the client session.
//
// Values are strings scoped to a namespace; the session keeps its access token and
// serialized user under fixed keys ([TokenKey], [UserKey]).
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/reelx/internal/shared"
)

const (
	DefaultNamespace = "reelx-storage"

	TokenKey = "access_token"
	UserKey  = "user_data"
)

// KV is a string key-value store scoped to a single namespace.
//
// Reads after writes on the same key observe the write. There is no atomicity across keys.
type KV interface {
	GetString(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Contains(key string) (bool, error)
	ClearAll() error
}

// Store implements [KV] on top of the kv_entries SQLite table.
type Store struct {
	db        *sql.DB
	namespace string
}

// NewStore creates a [Store] bound to namespace, falling back to [DefaultNamespace].
//
// The database must already be migrated (see [shared.OpenMigrated]).
func NewStore(db *sql.DB, namespace string) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Store{db: db, namespace: namespace}
}

// Namespace returns the namespace this store reads and writes.
func (s *Store) Namespace() string { return s.namespace }

// GetString returns the value at key and whether it was present.
func (s *Store) GetString(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		"SELECT value FROM kv_entries WHERE namespace = ? AND key = ?", s.namespace, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to read %s: %v", shared.ErrStorage, key, err)
	}
	return value, true, nil
}

// Set writes value at key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	query := `
		INSERT INTO kv_entries (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, s.namespace, key, value, time.Now()); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv_entries WHERE namespace = ? AND key = ?", s.namespace, key); err != nil {
		return fmt.Errorf("%w: failed to delete %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

// Contains reports whether key is present.
func (s *Store) Contains(key string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM kv_entries WHERE namespace = ? AND key = ?)", s.namespace, key,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: failed to check %s: %v", shared.ErrStorage, key, err)
	}
	return exists, nil
}

// ClearAll removes every key in this store's namespace and nothing else.
func (s *Store) ClearAll() error {
	if _, err := s.db.Exec("DELETE FROM kv_entries WHERE namespace = ?", s.namespace); err != nil {
		return fmt.Errorf("%w: failed to clear namespace %s: %v", shared.ErrStorage, s.namespace, err)
	}
	return nil
}

// Clear wipes the whole namespace behind kv, including keys the session does not own.
func Clear(kv KV) error {
	return kv.ClearAll()
}
