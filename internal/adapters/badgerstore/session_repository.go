package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/solacehq/solace/internal/domain"
)

// SessionRepository implements ports.SessionRepository on BadgerDB.
type SessionRepository struct {
	db *badger.DB
}

func sessionKey(id string) []byte {
	return []byte(sessionPrefix + id)
}

// FormatSessionID renders a counter value as a session identifier.
// The counter is zero-padded so that lexicographic key order equals
// issuance order; without padding "session_10" would sort before
// "session_2" in the store's byte ordering.
func FormatSessionID(seq uint64) string {
	return fmt.Sprintf("session_%012d", seq)
}

// Insert bumps the session counter and writes the record in a single
// transaction, so no reader can observe a counter value without its
// session.
func (r *SessionRepository) Insert(ctx context.Context, session *domain.TherapySession) (string, error) {
	var id string

	err := r.db.Update(func(txn *badger.Txn) error {
		seq, err := nextSeq(txn)
		if err != nil {
			return err
		}

		id = FormatSessionID(seq)
		session.ID = id

		val, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("encoding session %s: %w", id, err)
		}
		return txn.Set(sessionKey(id), val)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.TherapySession, error) {
	var session domain.TherapySession

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
			}
			return fmt.Errorf("reading session %s: %w", id, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.TherapySession) error {
	key := sessionKey(session.ID)

	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("session %s: %w", session.ID, domain.ErrNotFound)
			}
			return fmt.Errorf("checking session %s: %w", session.ID, err)
		}

		val, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("encoding session %s: %w", session.ID, err)
		}
		return txn.Set(key, val)
	})
}

// ListByPrincipal scans the session keyspace in key order and keeps the
// records owned by principal. Key order equals creation order, see
// FormatSessionID.
func (r *SessionRepository) ListByPrincipal(ctx context.Context, principal string) ([]*domain.TherapySession, error) {
	sessions := []*domain.TherapySession{}
	prefix := []byte(sessionPrefix)

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var session domain.TherapySession
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &session)
			})
			if err != nil {
				return fmt.Errorf("decoding session %s: %w", it.Item().Key(), err)
			}
			if session.Principal == principal {
				sessions = append(sessions, &session)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) Count(ctx context.Context) (uint64, error) {
	return countPrefix(r.db, []byte(sessionPrefix))
}

// nextSeq increments the session counter inside txn and returns the new
// value. The counter starts at 1 for a fresh store.
func nextSeq(txn *badger.Txn) (uint64, error) {
	key := []byte(sessionSeqKey)

	var seq uint64
	item, err := txn.Get(key)
	switch {
	case err == nil:
		err = item.Value(func(val []byte) error {
			parsed, perr := strconv.ParseUint(string(val), 10, 64)
			if perr != nil {
				return fmt.Errorf("corrupt session counter %q: %w", val, perr)
			}
			seq = parsed
			return nil
		})
		if err != nil {
			return 0, err
		}
	case errors.Is(err, badger.ErrKeyNotFound):
		seq = 0
	default:
		return 0, fmt.Errorf("reading session counter: %w", err)
	}

	seq++
	if err := txn.Set(key, []byte(strconv.FormatUint(seq, 10))); err != nil {
		return 0, fmt.Errorf("writing session counter: %w", err)
	}
	return seq, nil
}
