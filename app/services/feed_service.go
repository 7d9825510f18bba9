package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"contenthub/app/models"
	"contenthub/app/repositories"
)

// DefaultFeedLimit caps a feed page.
const DefaultFeedLimit = 50

// FeaturedCount is the size of the home page list.
const FeaturedCount = 6

// FeedService serves the public feed.
type FeedService struct {
	posts      repositories.PostRepository
	comments   repositories.CommentRepository
	reports    repositories.ReportRepository
	aggregator *ProfileAggregator
	limit      int
}

// NewFeedService creates a new FeedService
func NewFeedService(posts repositories.PostRepository, comments repositories.CommentRepository, reports repositories.ReportRepository, aggregator *ProfileAggregator, limit int) *FeedService {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return &FeedService{
		posts:      posts,
		comments:   comments,
		reports:    reports,
		aggregator: aggregator,
		limit:      limit,
	}
}

func orderFor(filter models.FeedFilter) repositories.PostOrder {
	switch filter {
	case models.FilterPopular:
		return repositories.OrderPopular
	case models.FilterOldest:
		return repositories.OrderOldest
	}
	return repositories.OrderRecent
}

// Fetch returns one page of the feed in the order filter selects.
func (s *FeedService) Fetch(ctx context.Context, filter models.FeedFilter) ([]*FeedItem, error) {
	posts, err := s.posts.Query(ctx, repositories.PostQuery{Order: orderFor(filter), Limit: s.limit})
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	return s.aggregator.Enrich(ctx, posts), nil
}

// Featured returns the newest posts for the home page.
func (s *FeedService) Featured(ctx context.Context) ([]*FeedItem, error) {
	posts, err := s.posts.Query(ctx, repositories.PostQuery{Order: repositories.OrderRecent, Limit: FeaturedCount})
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return s.aggregator.Enrich(ctx, posts), nil
}

// Search keeps items whose title, body or creator name contains term,
// ignoring case.
func Search(items []*FeedItem, term string) []*FeedItem {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	out := []*FeedItem{}
	for _, it := range items {
		if containsFold(it.Title, term) || containsFold(it.Body, term) || containsFold(it.CreatorName, term) {
			out = append(out, it)
		}
	}
	return out
}

// Report files a pending report against postID on behalf of who.
func (s *FeedService) Report(ctx context.Context, who *models.Identity, postID string) (*models.Report, error) {
	if who == nil {
		return nil, ErrUnauthenticated
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	report := &models.Report{PostID: postID, ReporterID: who.UID}
	if err := report.Validate(); err != nil {
		return nil, err
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to report post: %w", err)
	}
	return report, nil
}

// ShareLink is what a client hands to a native share sheet, or copies to
// the clipboard as Text followed by URL.
type ShareLink struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// Clipboard is the fallback payload when no share sheet exists.
func (l ShareLink) Clipboard() string {
	return l.Text + " " + l.URL
}

// Share builds the share payload for item.
func Share(item *FeedItem, baseURL string) ShareLink {
	link := strings.TrimRight(baseURL, "/") + "/public-content?post=" + url.QueryEscape(item.ID)
	return ShareLink{
		Title: item.Title,
		Text:  fmt.Sprintf("Check out %q by %s", item.Title, item.CreatorName),
		URL:   link,
	}
}

// PostDetail is the full view of a post with its comment thread.
type PostDetail struct {
	*FeedItem
	Thread []*models.Comment `json:"thread"`
}

// Detail loads one post, its creator and its comments.
func (s *FeedService) Detail(ctx context.Context, postID string) (*PostDetail, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	items := s.aggregator.Enrich(ctx, []*models.Post{post})
	thread, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return &PostDetail{FeedItem: items[0], Thread: thread}, nil
}

// Item loads a single enriched post.
func (s *FeedService) Item(ctx context.Context, postID string) (*FeedItem, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.aggregator.Enrich(ctx, []*models.Post{post})[0], nil
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}
