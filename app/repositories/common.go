package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"contenthub/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix       = "post:"
	CommentKeyPrefix    = "comment:"
	CommentIndexPrefix  = "commentidx:"
	UserKeyPrefix       = "user:"
	ReportKeyPrefix     = "report:"
	CredentialKeyPrefix = "cred:"

	conflictRetries = 5
)

// Now stamps server-assigned timestamps. Tests may replace it.
var Now = func() time.Time { return time.Now().UTC() }

// newID returns an opaque document id.
func newID() string {
	return uuid.NewString()
}

func postKey(id string) []byte {
	return []byte(PostKeyPrefix + id)
}

func commentKey(postID, id string) []byte {
	return []byte(CommentKeyPrefix + postID + ":" + id)
}

func commentIndexKey(id string) []byte {
	return []byte(CommentIndexPrefix + id)
}

func userKey(id string) []byte {
	return []byte(UserKeyPrefix + id)
}

func reportKey(postID, id string) []byte {
	return []byte(ReportKeyPrefix + postID + ":" + id)
}

func credentialKey(email string) []byte {
	return []byte(CredentialKeyPrefix + NormalizeEmail(email))
}

// NormalizeEmail folds an address to the form credentials are keyed by.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %v", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %v", err)
	}
	return nil
}

// getEntity loads key into entity, mapping a missing key to ErrNotFound.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// setEntity marshals entity and stores it under key.
func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// updateWithRetry runs fn in a read-write transaction, retrying when a
// concurrent writer touched the same keys.
func updateWithRetry(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// SortPosts orders posts in place.
func SortPosts(posts []*models.Post, order PostOrder) {
	switch order {
	case OrderOldest:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedAt.Before(posts[j].CreatedAt)
		})
	case OrderPopular:
		sort.SliceStable(posts, func(i, j int) bool {
			if posts[i].LikeCount() != posts[j].LikeCount() {
				return posts[i].LikeCount() > posts[j].LikeCount()
			}
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		})
	default:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		})
	}
}

// SortComments orders a thread the way it is displayed.
func SortComments(comments []*models.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
}
