package services

import (
	"context"
	"testing"
	"time"

	"contenthub/app/models"
	"contenthub/app/repositories"
	"contenthub/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeed(t *testing.T, set repositories.Set) (*FeedService, *ProfileAggregator) {
	t.Helper()
	agg, err := NewProfileAggregator(set.Users, set.Comments, time.Minute)
	require.NoError(t, err)
	t.Cleanup(agg.Close)
	return NewFeedService(set.Posts, set.Comments, set.Reports, agg, 0), agg
}

func TestFetchPopularOrder(t *testing.T) {
	set := newSet(t)
	feed, _ := newFeed(t, set)

	three := seedPost(t, set, "alice", "a", "b", "c")
	zero := seedPost(t, set, "alice")
	seven := seedPost(t, set, "bob", "a", "b", "c", "d", "e", "f", "g")

	items, err := feed.Fetch(context.Background(), models.FilterPopular)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, seven.ID, items[0].ID)
	assert.Equal(t, three.ID, items[1].ID)
	assert.Equal(t, zero.ID, items[2].ID)
	assert.Equal(t, 7, items[0].LikeCount)

	items, err = feed.Fetch(context.Background(), models.FilterOldest)
	require.NoError(t, err)
	assert.Equal(t, three.ID, items[0].ID)

	items, err = feed.Fetch(context.Background(), models.FilterRecent)
	require.NoError(t, err)
	assert.Equal(t, seven.ID, items[0].ID)
}

func TestFetchLimit(t *testing.T) {
	set := newSet(t)
	feed, _ := newFeed(t, set)
	for i := 0; i < DefaultFeedLimit+5; i++ {
		seedPost(t, set, "alice")
	}

	items, err := feed.Fetch(context.Background(), models.FilterRecent)
	require.NoError(t, err)
	assert.Len(t, items, DefaultFeedLimit)

	featured, err := feed.Featured(context.Background())
	require.NoError(t, err)
	assert.Len(t, featured, FeaturedCount)
	assert.Equal(t, items[0].ID, featured[0].ID)
}

func TestFetchResolvesCreators(t *testing.T) {
	ctx := context.Background()
	set := newSet(t)
	feed, _ := newFeed(t, set)
	require.NoError(t, set.Users.Create(ctx, &models.User{ID: "alice", DisplayName: "Alice", PhotoURL: "https://img/a.png"}))

	known := seedPost(t, set, "alice")
	ghost := seedPost(t, set, "ghost")
	require.NoError(t, set.Comments.Create(ctx, &models.Comment{PostID: known.ID, UserID: "bob", Text: "hi"}))

	items, err := feed.Fetch(ctx, models.FilterRecent)
	require.NoError(t, err)
	byID := map[string]*FeedItem{}
	for _, it := range items {
		byID[it.ID] = it
	}
	assert.Equal(t, "Alice", byID[known.ID].CreatorName)
	assert.Equal(t, "https://img/a.png", byID[known.ID].CreatorAvatar)
	assert.Equal(t, 1, byID[known.ID].CommentCount)
	assert.Equal(t, UnknownCreator, byID[ghost.ID].CreatorName)
	assert.Empty(t, byID[ghost.ID].CreatorAvatar)
}

func TestFetchDegradesOnLookupFailure(t *testing.T) {
	ctx := context.Background()
	steppedClock(t)
	users := mock.NewUserRepository()
	comments := mock.NewCommentRepository()
	posts := mock.NewPostRepository()
	require.NoError(t, users.Create(ctx, &models.User{ID: "alice", DisplayName: "Alice"}))

	agg, err := NewProfileAggregator(users, comments, time.Minute)
	require.NoError(t, err)
	defer agg.Close()
	feed := NewFeedService(posts, comments, mock.NewReportRepository(), agg, 0)

	post := &models.Post{Title: "t", CreatorID: "alice", Comments: 4}
	require.NoError(t, posts.Create(ctx, post))

	users.Fail = errBoom
	comments.Fail = errBoom
	items, err := feed.Fetch(ctx, models.FilterRecent)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, UnknownCreator, items[0].CreatorName)
	assert.Equal(t, 4, items[0].CommentCount, "stored counter is used when counting fails")
}

func TestProfileCache(t *testing.T) {
	ctx := context.Background()
	set := newSet(t)
	feed, agg := newFeed(t, set)
	users := set.Users.(*mock.UserRepository)
	require.NoError(t, users.Create(ctx, &models.User{ID: "alice", DisplayName: "Alice"}))
	seedPost(t, set, "alice")

	_, err := feed.Fetch(ctx, models.FilterRecent)
	require.NoError(t, err)
	agg.cache.Wait()

	// Served from cache while the store is down.
	users.Fail = errBoom
	items, err := feed.Fetch(ctx, models.FilterRecent)
	require.NoError(t, err)
	assert.Equal(t, "Alice", items[0].CreatorName)

	agg.Invalidate("alice")
	items, err = feed.Fetch(ctx, models.FilterRecent)
	require.NoError(t, err)
	assert.Equal(t, UnknownCreator, items[0].CreatorName)
}

func TestSearch(t *testing.T) {
	items := []*FeedItem{
		{Post: &models.Post{ID: "1", Title: "Learning Go", Body: "x"}, CreatorName: "Ann"},
		{Post: &models.Post{ID: "2", Title: "Bread", Body: "sourdough tips"}, CreatorName: "Ben"},
		{Post: &models.Post{ID: "3", Title: "Hiking", Body: "alps"}, CreatorName: "Gopher Gus"},
	}
	ids := func(in []*FeedItem) []string {
		out := []string{}
		for _, it := range in {
			out = append(out, it.ID)
		}
		return out
	}
	assert.Equal(t, []string{"1", "3"}, ids(Search(items, "go")))
	assert.Equal(t, []string{"2"}, ids(Search(items, "SOURDOUGH")))
	assert.Equal(t, []string{"2"}, ids(Search(items, "ben")))
	assert.Len(t, Search(items, ""), 3)
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	set := newSet(t)
	feed, _ := newFeed(t, set)
	post := seedPost(t, set, "alice")

	_, err := feed.Report(ctx, nil, post.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = feed.Report(ctx, bob, "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	report, err := feed.Report(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportPending, report.Status)

	stored, err := set.Reports.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "bob", stored[0].ReporterID)
}

func TestShare(t *testing.T) {
	item := &FeedItem{Post: &models.Post{ID: "p1", Title: "Hello"}, CreatorName: "Alice"}
	link := Share(item, "https://contenthub.example/")
	assert.Equal(t, `Check out "Hello" by Alice`, link.Text)
	assert.Equal(t, "https://contenthub.example/public-content?post=p1", link.URL)
	assert.Equal(t, `Check out "Hello" by Alice https://contenthub.example/public-content?post=p1`, link.Clipboard())
}

func TestDetail(t *testing.T) {
	ctx := context.Background()
	set := newSet(t)
	feed, _ := newFeed(t, set)
	post := seedPost(t, set, "alice")
	require.NoError(t, set.Comments.Create(ctx, &models.Comment{PostID: post.ID, UserID: "bob", Text: "first"}))
	require.NoError(t, set.Comments.Create(ctx, &models.Comment{PostID: post.ID, UserID: "bob", Text: "second"}))

	detail, err := feed.Detail(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, detail.ID)
	require.Len(t, detail.Thread, 2)
	assert.Equal(t, "second", detail.Thread[0].Text)

	_, err = feed.Detail(ctx, "missing")
	assert.True(t, IsNotFound(err))
}
