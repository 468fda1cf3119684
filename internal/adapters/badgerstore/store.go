// Package badgerstore persists profiles and sessions in BadgerDB, an
// embedded ordered key-value store. Records are JSON-encoded under
// typed key prefixes; the session counter lives under a meta key and is
// bumped inside the same transaction as the insert it pairs with.
package badgerstore

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const (
	profilePrefix = "profile:"
	sessionPrefix = "session:"
	sessionSeqKey = "meta:session_seq"
)

// Store wraps one BadgerDB instance and hands out the repositories
// backed by it.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a persistent store at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(badgerLogger{logger}).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger store at %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a throwaway store with no disk persistence.
// Used by tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening in-memory badger store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Profiles returns the profile repository backed by this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Sessions returns the session repository backed by this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// countPrefix counts keys under a prefix without loading values.
func countPrefix(db *badger.DB, prefix []byte) (uint64, error) {
	var n uint64
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// badgerLogger adapts slog to BadgerDB's Logger interface. Badger's
// internal chatter goes to debug; only real errors surface at error
// level.
type badgerLogger struct {
	logger *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
