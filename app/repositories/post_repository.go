package repositories

import (
	"context"
	"fmt"

	"contenthub/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create assigns an id and creation time and saves the post
func (r *BadgerPostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		post.ID = newID()
		post.CreatedAt = Now()
		if post.Likes == nil {
			post.Likes = []string{}
		}
		return setEntity(txn, postKey(post.ID), post)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, postKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Query scans all posts, keeps those matching q and returns them ordered
// and truncated to q.Limit.
func (r *BadgerPostRepository) Query(ctx context.Context, q PostQuery) ([]*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %v", err)
			}
			if q.CreatorID != "" && post.CreatorID != q.CreatorID {
				continue
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	SortPosts(posts, q.Order)
	if q.Limit > 0 && len(posts) > q.Limit {
		posts = posts[:q.Limit]
	}
	return posts, nil
}

// Update writes only the fields present in update
func (r *BadgerPostRepository) Update(ctx context.Context, id string, update models.PostUpdate) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var post models.Post
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		if err := getEntity(txn, postKey(id), &post); err != nil {
			return err
		}
		post.Apply(update, Now())
		return setEntity(txn, postKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(id)

		// Verify post exists
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return txn.Delete(key)
	})
}

// AddLiker adds uid to the liker set inside a single transaction.
func (r *BadgerPostRepository) AddLiker(ctx context.Context, postID, uid string) ([]string, error) {
	return r.mutateLikes(ctx, postID, func(likes []string) []string {
		return models.AddLiker(likes, uid)
	})
}

// RemoveLiker removes uid from the liker set inside a single transaction.
func (r *BadgerPostRepository) RemoveLiker(ctx context.Context, postID, uid string) ([]string, error) {
	return r.mutateLikes(ctx, postID, func(likes []string) []string {
		return models.RemoveLiker(likes, uid)
	})
}

func (r *BadgerPostRepository) mutateLikes(ctx context.Context, postID string, fn func([]string) []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var likes []string
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		var post models.Post
		if err := getEntity(txn, postKey(postID), &post); err != nil {
			return err
		}
		post.Likes = fn(post.Likes)
		likes = post.Likes
		return setEntity(txn, postKey(postID), &post)
	})
	if err != nil {
		return nil, err
	}
	return likes, nil
}

// AdjustCommentCount adds delta to the denormalized comment count, never
// going below zero.
func (r *BadgerPostRepository) AdjustCommentCount(ctx context.Context, postID string, delta int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return updateWithRetry(r.db, func(txn *badger.Txn) error {
		var post models.Post
		if err := getEntity(txn, postKey(postID), &post); err != nil {
			return err
		}
		post.Comments += delta
		if post.Comments < 0 {
			post.Comments = 0
		}
		return setEntity(txn, postKey(postID), &post)
	})
}
