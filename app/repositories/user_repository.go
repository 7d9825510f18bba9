package repositories

import (
	"context"

	"contenthub/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create stores a profile under the provider-issued id. Profiles are
// written once.
func (r *BadgerUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(userKey(user.ID))
		if err == nil {
			return ErrAlreadyExists
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		if user.CreatedAt.IsZero() {
			user.CreatedAt = Now()
		}
		return setEntity(txn, userKey(user.ID), user)
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetMany reads all requested profiles in one transaction; unknown ids are
// absent from the result.
func (r *BadgerUserRepository) GetMany(ctx context.Context, ids []string) (map[string]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	users := make(map[string]*models.User, len(ids))
	err := r.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var user models.User
			err := getEntity(txn, userKey(id), &user)
			if err == ErrNotFound {
				continue
			}
			if err != nil {
				return err
			}
			users[id] = &user
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
