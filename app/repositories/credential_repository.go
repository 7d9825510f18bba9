package repositories

import (
	"context"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCredentialRepository implements CredentialRepository using BadgerDB
type BadgerCredentialRepository struct {
	db *badger.DB
}

// NewBadgerCredentialRepository creates a new BadgerCredentialRepository
func NewBadgerCredentialRepository(db *badger.DB) *BadgerCredentialRepository {
	return &BadgerCredentialRepository{db: db}
}

// Create stores a credential; an email may only be registered once.
func (r *BadgerCredentialRepository) Create(ctx context.Context, cred *Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cred.Email = NormalizeEmail(cred.Email)
	return updateWithRetry(r.db, func(txn *badger.Txn) error {
		_, err := txn.Get(credentialKey(cred.Email))
		if err == nil {
			return ErrAlreadyExists
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		return setEntity(txn, credentialKey(cred.Email), cred)
	})
}

// GetByEmail looks a credential up by its normalized email
func (r *BadgerCredentialRepository) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var cred Credential
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, credentialKey(email), &cred)
	})
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// Delete removes the credential registered for email
func (r *BadgerCredentialRepository) Delete(ctx context.Context, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := credentialKey(NormalizeEmail(email))
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}
