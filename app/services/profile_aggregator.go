package services

import (
	"context"
	"log"
	"time"

	"contenthub/app/models"
	"contenthub/app/repositories"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/errgroup"
)

// UnknownCreator is shown when a creator profile cannot be loaded.
const UnknownCreator = "Unknown User"

const countFanOut = 8

// FeedItem is a post with its creator and counters resolved for display.
type FeedItem struct {
	*models.Post
	CreatorName   string `json:"creatorName"`
	CreatorAvatar string `json:"creatorAvatar,omitempty"`
	LikeCount     int    `json:"likeCount"`
	CommentCount  int    `json:"commentCount"`
	Posted        string `json:"posted"`
}

// ProfileAggregator resolves creators and counters for a page of posts in
// one batch. Profiles are cached for ttl; a miss or expiry refetches.
type ProfileAggregator struct {
	users    repositories.UserRepository
	comments repositories.CommentRepository
	cache    *ristretto.Cache[string, *models.User]
	ttl      time.Duration
}

// NewProfileAggregator creates a new ProfileAggregator
func NewProfileAggregator(users repositories.UserRepository, comments repositories.CommentRepository, ttl time.Duration) (*ProfileAggregator, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *models.User]{
		NumCounters: 1e5,
		MaxCost:     1e4,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ProfileAggregator{users: users, comments: comments, cache: cache, ttl: ttl}, nil
}

// Close releases the cache.
func (a *ProfileAggregator) Close() {
	a.cache.Close()
}

// Invalidate forgets the cached profile of uid.
func (a *ProfileAggregator) Invalidate(uid string) {
	a.cache.Del(uid)
}

// Enrich builds feed items for posts, preserving their order. Lookup
// failures degrade to placeholders and stored counters; they never fail
// the page.
func (a *ProfileAggregator) Enrich(ctx context.Context, posts []*models.Post) []*FeedItem {
	profiles := a.profiles(ctx, posts)
	now := time.Now()

	items := make([]*FeedItem, len(posts))
	for i, p := range posts {
		item := &FeedItem{
			Post:         p,
			CreatorName:  UnknownCreator,
			LikeCount:    p.LikeCount(),
			CommentCount: p.Comments,
			Posted:       models.TimeAgo(p.CreatedAt, now),
		}
		if u, ok := profiles[p.CreatorID]; ok {
			if u.DisplayName != "" {
				item.CreatorName = u.DisplayName
			}
			item.CreatorAvatar = u.PhotoURL
		}
		items[i] = item
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(countFanOut)
	for _, item := range items {
		g.Go(func() error {
			n, err := a.comments.CountByPost(gctx, item.ID)
			if err != nil {
				log.Printf("Failed to count comments for %s: %v", item.ID, err)
				return nil
			}
			item.CommentCount = n
			return nil
		})
	}
	_ = g.Wait()
	return items
}

func (a *ProfileAggregator) profiles(ctx context.Context, posts []*models.Post) map[string]*models.User {
	found := make(map[string]*models.User)
	var missing []string
	seen := make(map[string]bool)
	for _, p := range posts {
		if p.CreatorID == "" || seen[p.CreatorID] {
			continue
		}
		seen[p.CreatorID] = true
		if u, ok := a.cache.Get(p.CreatorID); ok {
			found[p.CreatorID] = u
			continue
		}
		missing = append(missing, p.CreatorID)
	}
	if len(missing) == 0 {
		return found
	}

	fetched, err := a.users.GetMany(ctx, missing)
	if err != nil {
		log.Printf("Failed to load creator profiles: %v", err)
		return found
	}
	for id, u := range fetched {
		found[id] = u
		a.cache.SetWithTTL(id, u, 1, a.ttl)
	}
	return found
}
