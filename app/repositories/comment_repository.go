package repositories

import (
	"context"
	"fmt"

	"contenthub/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB.
// Comments live under comment:<postID>:<id> so a thread is one prefix scan;
// commentidx:<id> maps an id back to its post.
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create creates a new comment
func (r *BadgerCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		comment.ID = newID()
		comment.CreatedAt = Now()
		comment.UpdatedAt = comment.CreatedAt

		if err := setEntity(txn, commentKey(comment.PostID, comment.ID), comment); err != nil {
			return err
		}
		return txn.Set(commentIndexKey(comment.ID), []byte(comment.PostID))
	})
}

// lookupKey resolves a comment id to its storage key.
func lookupKey(txn *badger.Txn, id string) ([]byte, error) {
	item, err := txn.Get(commentIndexKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	postID, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	return commentKey(string(postID), id), nil
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var comment models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		key, err := lookupKey(txn, id)
		if err != nil {
			return err
		}
		return getEntity(txn, key, &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *BadgerCommentRepository) scanPost(txn *badger.Txn, postID string, fn func(item *badger.Item) error) error {
	opts := badger.DefaultIteratorOptions
	it := txn.NewIterator(opts)
	defer it.Close()

	prefix := []byte(fmt.Sprintf("%s%s:", CommentKeyPrefix, postID))
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := fn(it.Item()); err != nil {
			return err
		}
	}
	return nil
}

// ListByPost retrieves all comments for a post, newest first
func (r *BadgerCommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	comments := []*models.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		return r.scanPost(txn, postID, func(item *badger.Item) error {
			var comment models.Comment
			err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &comment)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal comment: %v", err)
			}
			comments = append(comments, &comment)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	SortComments(comments)
	return comments, nil
}

// CountByPost counts a post's comments without decoding them
func (r *BadgerCommentRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		return r.scanPost(txn, postID, func(*badger.Item) error {
			count++
			return nil
		})
	})
	return count, err
}

// Update replaces the comment text
func (r *BadgerCommentRepository) Update(ctx context.Context, id, text string) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var comment models.Comment
	err := updateWithRetry(r.db, func(txn *badger.Txn) error {
		key, err := lookupKey(txn, id)
		if err != nil {
			return err
		}
		if err := getEntity(txn, key, &comment); err != nil {
			return err
		}
		comment.Text = text
		comment.UpdatedAt = Now()
		return setEntity(txn, key, &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		key, err := lookupKey(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(commentIndexKey(id))
	})
}

// DeleteByPost removes a post's whole thread
func (r *BadgerCommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	comments, err := r.ListByPost(ctx, postID)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		for _, c := range comments {
			if err := txn.Delete(commentKey(postID, c.ID)); err != nil {
				return err
			}
			if err := txn.Delete(commentIndexKey(c.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}
