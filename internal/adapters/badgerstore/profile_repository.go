package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/solacehq/solace/internal/domain"
)

// ProfileRepository implements ports.ProfileRepository on BadgerDB.
type ProfileRepository struct {
	db *badger.DB
}

func profileKey(principal string) []byte {
	return []byte(profilePrefix + principal)
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	key := profileKey(profile.Principal)

	return r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return fmt.Errorf("profile %s: %w", profile.Principal, domain.ErrAlreadyExists)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("checking profile %s: %w", profile.Principal, err)
		}

		val, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("encoding profile %s: %w", profile.Principal, err)
		}
		return txn.Set(key, val)
	})
}

func (r *ProfileRepository) Get(ctx context.Context, principal string) (*domain.UserProfile, error) {
	var profile domain.UserProfile

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(principal))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("profile %s: %w", principal, domain.ErrNotFound)
			}
			return fmt.Errorf("reading profile %s: %w", principal, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	key := profileKey(profile.Principal)

	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("profile %s: %w", profile.Principal, domain.ErrNotFound)
			}
			return fmt.Errorf("checking profile %s: %w", profile.Principal, err)
		}

		val, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("encoding profile %s: %w", profile.Principal, err)
		}
		return txn.Set(key, val)
	})
}

func (r *ProfileRepository) Count(ctx context.Context) (uint64, error) {
	return countPrefix(r.db, []byte(profilePrefix))
}
