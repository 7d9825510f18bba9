package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"contenthub/app/models"
	"contenthub/app/objectstore"
	"contenthub/app/repositories"
	"contenthub/app/repositories/mock"

	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

var (
	alice = &models.Identity{UID: "alice", DisplayName: "Alice", PhotoURL: "https://img/alice.png"}
	bob   = &models.Identity{UID: "bob", DisplayName: "Bob"}
)

type stubUploader struct {
	mu      sync.Mutex
	url     string
	err     error
	uploads int
	deleted []string
}

func (u *stubUploader) Upload(ctx context.Context, img objectstore.Image) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.uploads++
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

func (u *stubUploader) Delete(ctx context.Context, url string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deleted = append(u.deleted, url)
	return nil
}

var errBoom = errors.New("boom")

// steppedClock makes repository timestamps strictly increasing.
func steppedClock(t *testing.T) {
	t.Helper()
	var mu sync.Mutex
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	old := repositories.Now
	repositories.Now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
	t.Cleanup(func() { repositories.Now = old })
}

func newSet(t *testing.T) repositories.Set {
	t.Helper()
	steppedClock(t)
	return mock.NewSet()
}

func seedPost(t *testing.T, set repositories.Set, creator string, likes ...string) *models.Post {
	t.Helper()
	post := &models.Post{Title: "Seeded post", Body: "seeded body", CreatorID: creator, Likes: likes}
	require.NoError(t, set.Posts.Create(context.Background(), post))
	return post
}

func validDraft() *models.Draft {
	return &models.Draft{
		Title:    "My Five Word Title",
		Body:     "Go makes concurrent programs pleasant to write and to read again.",
		Category: "Technology",
		Tags:     []string{},
	}
}
