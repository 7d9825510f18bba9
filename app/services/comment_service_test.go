package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"contenthub/app/live"
	"contenthub/app/models"
	"contenthub/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommentService(t *testing.T) (*CommentService, repositories.Set, *live.Hub) {
	t.Helper()
	set := newSet(t)
	hub := live.NewHub()
	return NewCommentService(set.Comments, set.Posts, hub), set, hub
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	svc, set, _ := newCommentService(t)
	post := seedPost(t, set, "bob")

	t.Run("requires identity", func(t *testing.T) {
		_, err := svc.Add(ctx, nil, post.ID, "hello")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("rejects blank text", func(t *testing.T) {
		_, err := svc.Add(ctx, alice, post.ID, "   ")
		var verrs models.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "Please enter a comment", verrs["text"])
	})

	t.Run("parent must exist", func(t *testing.T) {
		_, err := svc.Add(ctx, alice, "missing", "hello")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("snapshots author and bumps count", func(t *testing.T) {
		c, err := svc.Add(ctx, alice, post.ID, "  hello  ")
		require.NoError(t, err)
		assert.Equal(t, "hello", c.Text)
		assert.Equal(t, "alice", c.UserID)
		assert.Equal(t, "Alice", c.UserName)
		assert.Equal(t, "https://img/alice.png", c.UserPhoto)

		got, err := set.Posts.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Comments)
	})

	t.Run("anonymous display name", func(t *testing.T) {
		c, err := svc.Add(ctx, &models.Identity{UID: "nameless"}, post.ID, "hi")
		require.NoError(t, err)
		assert.Equal(t, "Anonymous", c.UserName)
	})
}

func TestThreadOrderAndPermissions(t *testing.T) {
	ctx := context.Background()
	svc, set, _ := newCommentService(t)
	post := seedPost(t, set, "bob")

	first, err := svc.Add(ctx, alice, post.ID, "first")
	require.NoError(t, err)
	second, err := svc.Add(ctx, bob, post.ID, "second")
	require.NoError(t, err)

	thread, err := svc.Thread(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, second.ID, thread[0].ID)
	assert.Equal(t, first.ID, thread[1].ID)

	views, err := svc.ThreadView(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.Equal(t, CommentControls{CanEdit: true, CanDelete: true}, views[0].Controls)
	assert.Equal(t, CommentControls{}, views[1].Controls, "bob gets no controls on alice's comment")

	anon, err := svc.ThreadView(ctx, nil, post.ID)
	require.NoError(t, err)
	assert.Equal(t, CommentControls{}, anon[0].Controls)
}

func TestEditAndDeleteComment(t *testing.T) {
	ctx := context.Background()
	svc, set, _ := newCommentService(t)
	post := seedPost(t, set, "bob")
	c, err := svc.Add(ctx, alice, post.ID, "original")
	require.NoError(t, err)

	_, err = svc.Edit(ctx, bob, c.ID, "hijack")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, bob, c.ID), ErrForbidden)

	_, err = svc.Edit(ctx, alice, c.ID, " ")
	assert.Error(t, err)

	edited, err := svc.Edit(ctx, alice, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Text)

	require.NoError(t, svc.Delete(ctx, alice, c.ID))
	_, err = set.Comments.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	got, _ := set.Posts.GetByID(ctx, post.ID)
	assert.Zero(t, got.Comments)

	assert.ErrorIs(t, svc.Delete(ctx, alice, c.ID), repositories.ErrNotFound)
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	ctx := context.Background()
	svc, set, hub := newCommentService(t)
	post := seedPost(t, set, "bob")

	_, err := svc.Subscribe(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	sub, err := svc.Subscribe(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, <-sub.Updates())

	_, err = svc.Add(ctx, alice, post.ID, "live")
	require.NoError(t, err)

	select {
	case snap := <-sub.Updates():
		require.Len(t, snap, 1)
		assert.Equal(t, "live", snap[0].Text)
	case <-time.After(time.Second):
		t.Fatal("no snapshot after add")
	}

	sub.Cancel()
	assert.Zero(t, hub.Count(post.ID))
}

// hookedComments runs onFirstList right after the first thread read.
type hookedComments struct {
	repositories.CommentRepository
	once        sync.Once
	onFirstList func()
}

func (h *hookedComments) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	comments, err := h.CommentRepository.ListByPost(ctx, postID)
	h.once.Do(h.onFirstList)
	return comments, err
}

func TestSubscribeSeesCommentAddedDuringInitialLoad(t *testing.T) {
	ctx := context.Background()
	set := newSet(t)
	post := seedPost(t, set, "bob")

	added := make(chan error, 1)
	comments := &hookedComments{CommentRepository: set.Comments}
	svc := NewCommentService(comments, set.Posts, live.NewHub())
	comments.onFirstList = func() {
		go func() {
			_, err := svc.Add(ctx, alice, post.ID, "raced in")
			added <- err
		}()
	}

	sub, err := svc.Subscribe(ctx, post.ID)
	require.NoError(t, err)
	defer sub.Cancel()
	require.NoError(t, <-added)

	select {
	case snap := <-sub.Updates():
		require.Len(t, snap, 1)
		assert.Equal(t, "raced in", snap[0].Text)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}
