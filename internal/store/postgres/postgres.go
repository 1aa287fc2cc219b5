// Package postgres is the durable store implementation backed by GORM.
package postgres

import (
	"errors"

	"gorm.io/gorm"

	"jua_kazi/internal/store"
)

// Store bundles the per-entity stores over one GORM handle.
type Store struct {
	Users        *UserStore
	Jobs         *JobStore
	Applications *ApplicationStore
	Reviews      *ReviewStore
}

func New(db *gorm.DB) *Store {
	return &Store{
		Users:        &UserStore{db: db},
		Jobs:         &JobStore{db: db},
		Applications: &ApplicationStore{db: db},
		Reviews:      &ReviewStore{db: db},
	}
}

// translate maps driver errors onto the store sentinels. Unique-violation
// mapping relies on the connection's TranslateError option, which turns
// Postgres 23505 into gorm.ErrDuplicatedKey.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrDuplicateKey
	}
	return err
}
