package services

import (
	"context"
	"testing"
	"time"

	"contenthub/app/models"
	"contenthub/app/objectstore"
	"contenthub/app/repositories"
	"contenthub/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestListMine(t *testing.T) {
	set := newSet(t)
	svc := NewOwnerContentService(set.Posts, set.Comments, nil, objectstore.PolicyKeep)
	first := seedPost(t, set, "alice")
	seedPost(t, set, "bob")
	second := seedPost(t, set, "alice")

	posts, err := svc.ListMine(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)

	_, err = svc.ListMine(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSearchAndSortOwn(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := []*models.Post{
		{ID: "a", Title: "Go tips", Body: "channels", Tags: []string{"golang"}, CreatedAt: base, Likes: []string{"x"}, Comments: 5},
		{ID: "b", Title: "Cooking", Body: "Pasta with GARLIC", CreatedAt: base.Add(time.Hour), Likes: []string{"x", "y", "z"}, Comments: 1},
		{ID: "c", Title: "Travel", Body: "Lisbon", Tags: []string{"Portugal"}, CreatedAt: base.Add(2 * time.Hour)},
	}
	ids := func(ps []*models.Post) []string {
		out := []string{}
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"a"}, ids(SearchOwn(posts, "GOLANG")))
	assert.Equal(t, []string{"b"}, ids(SearchOwn(posts, "garlic")))
	assert.Equal(t, []string{"c"}, ids(SearchOwn(posts, "portu")))
	assert.Len(t, SearchOwn(posts, "  "), 3)

	assert.Equal(t, []string{"c", "b", "a"}, ids(SortOwn(posts, models.SortRecent)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(SortOwn(posts, models.SortOldest)))
	assert.Equal(t, []string{"b", "a", "c"}, ids(SortOwn(posts, models.SortLikes)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(SortOwn(posts, models.SortComments)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(posts), "input is not reordered")

	assert.Equal(t, []string{"a", "c"}, ids(WithoutPost(posts, "b")))
}

func TestEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("owner edits title and body", func(t *testing.T) {
		set := newSet(t)
		svc := NewOwnerContentService(set.Posts, set.Comments, nil, objectstore.PolicyKeep)
		post := seedPost(t, set, "alice")

		updated, err := svc.Edit(ctx, alice, post.ID, models.PostUpdate{Title: strPtr("New title"), Body: strPtr("one two three")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, 3, updated.WordCount)
		assert.NotNil(t, updated.UpdatedAt)
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		set := newSet(t)
		svc := NewOwnerContentService(set.Posts, set.Comments, nil, objectstore.PolicyKeep)
		post := seedPost(t, set, "alice")

		_, err := svc.Edit(ctx, bob, post.ID, models.PostUpdate{Title: strPtr("Hijack"), Body: strPtr("x")}, nil)
		assert.ErrorIs(t, err, ErrForbidden)
		got, _ := set.Posts.GetByID(ctx, post.ID)
		assert.Equal(t, "Seeded post", got.Title)
	})

	t.Run("blank fields rejected", func(t *testing.T) {
		set := newSet(t)
		svc := NewOwnerContentService(set.Posts, set.Comments, nil, objectstore.PolicyKeep)
		post := seedPost(t, set, "alice")

		_, err := svc.Edit(ctx, alice, post.ID, models.PostUpdate{Title: strPtr("  "), Body: strPtr("x")}, nil)
		var verrs models.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "Title and body cannot be empty", verrs["title"])
	})

	t.Run("replacement image applies policy", func(t *testing.T) {
		for _, tc := range []struct {
			policy  objectstore.Policy
			deleted []string
		}{
			{objectstore.PolicyKeep, nil},
			{objectstore.PolicyDelete, []string{"https://cdn/old.png"}},
		} {
			set := newSet(t)
			up := &stubUploader{url: "https://cdn/new.png"}
			svc := NewOwnerContentService(set.Posts, set.Comments, up, tc.policy)
			post := &models.Post{Title: "t", Body: "b", CreatorID: "alice", Image: "https://cdn/old.png"}
			require.NoError(t, set.Posts.Create(ctx, post))

			updated, err := svc.Edit(ctx, alice, post.ID, models.PostUpdate{Title: strPtr("t"), Body: strPtr("b")}, &objectstore.Image{Data: pngHeader})
			require.NoError(t, err)
			assert.Equal(t, "https://cdn/new.png", updated.Image)
			assert.Equal(t, tc.deleted, up.deleted, string(tc.policy))
		}
	})

	t.Run("missing post", func(t *testing.T) {
		set := newSet(t)
		svc := NewOwnerContentService(set.Posts, set.Comments, nil, objectstore.PolicyKeep)
		_, err := svc.Edit(ctx, alice, "missing", models.PostUpdate{Title: strPtr("t"), Body: strPtr("b")}, nil)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("without confirmation nothing changes", func(t *testing.T) {
		set := newSet(t)
		svc := NewOwnerContentService(set.Posts, set.Comments, nil, objectstore.PolicyKeep)
		post := seedPost(t, set, "alice")

		assert.ErrorIs(t, svc.Delete(ctx, alice, post.ID, false), ErrNotConfirmed)
		_, err := set.Posts.GetByID(ctx, post.ID)
		assert.NoError(t, err)
	})

	t.Run("confirmed delete cascades comments", func(t *testing.T) {
		set := newSet(t)
		up := &stubUploader{}
		svc := NewOwnerContentService(set.Posts, set.Comments, up, objectstore.PolicyDelete)
		post := &models.Post{Title: "t", CreatorID: "alice", Image: "https://cdn/img.png"}
		require.NoError(t, set.Posts.Create(ctx, post))
		require.NoError(t, set.Comments.Create(ctx, &models.Comment{PostID: post.ID, UserID: "bob", Text: "hi"}))

		require.NoError(t, svc.Delete(ctx, alice, post.ID, true))
		_, err := set.Posts.GetByID(ctx, post.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		n, err := set.Comments.CountByPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, []string{"https://cdn/img.png"}, up.deleted)
	})

	t.Run("non owner is forbidden", func(t *testing.T) {
		set := newSet(t)
		svc := NewOwnerContentService(set.Posts, set.Comments, nil, objectstore.PolicyKeep)
		post := seedPost(t, set, "alice")

		assert.ErrorIs(t, svc.Delete(ctx, bob, post.ID, true), ErrForbidden)
		_, err := set.Posts.GetByID(ctx, post.ID)
		assert.NoError(t, err)
	})

	t.Run("failed post delete keeps thread", func(t *testing.T) {
		set := newSet(t)
		up := &stubUploader{}
		posts := &undeletablePosts{PostRepository: set.Posts}
		svc := NewOwnerContentService(posts, set.Comments, up, objectstore.PolicyDelete)
		post := &models.Post{Title: "t", CreatorID: "alice", Image: "https://cdn/img.png"}
		require.NoError(t, set.Posts.Create(ctx, post))
		require.NoError(t, set.Comments.Create(ctx, &models.Comment{PostID: post.ID, UserID: "bob", Text: "hi"}))

		assert.ErrorIs(t, svc.Delete(ctx, alice, post.ID, true), errBoom)
		_, err := set.Posts.GetByID(ctx, post.ID)
		assert.NoError(t, err)
		n, err := set.Comments.CountByPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Empty(t, up.deleted)
	})

	t.Run("failed comment cascade still deletes post", func(t *testing.T) {
		set := newSet(t)
		svc := NewOwnerContentService(set.Posts, set.Comments, nil, objectstore.PolicyKeep)
		post := seedPost(t, set, "alice")
		set.Comments.(*mock.CommentRepository).Fail = errBoom

		require.NoError(t, svc.Delete(ctx, alice, post.ID, true))
		_, err := set.Posts.GetByID(ctx, post.ID)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

// undeletablePosts fails every Delete.
type undeletablePosts struct {
	repositories.PostRepository
}

func (undeletablePosts) Delete(ctx context.Context, id string) error {
	return errBoom
}
