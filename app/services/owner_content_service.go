package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"contenthub/app/models"
	"contenthub/app/objectstore"
	"contenthub/app/repositories"
)

// OwnerContentService manages the posts of the signed-in identity.
type OwnerContentService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	uploader objectstore.Uploader
	policy   objectstore.Policy
}

// NewOwnerContentService creates a new OwnerContentService
func NewOwnerContentService(posts repositories.PostRepository, comments repositories.CommentRepository, uploader objectstore.Uploader, policy objectstore.Policy) *OwnerContentService {
	return &OwnerContentService{
		posts:    posts,
		comments: comments,
		uploader: uploader,
		policy:   policy,
	}
}

// ListMine returns every post created by who, newest first.
func (s *OwnerContentService) ListMine(ctx context.Context, who *models.Identity) ([]*models.Post, error) {
	if who == nil {
		return nil, ErrUnauthenticated
	}
	return s.posts.Query(ctx, repositories.PostQuery{CreatorID: who.UID, Order: repositories.OrderRecent})
}

// SearchOwn keeps posts whose title, body or any tag contains term,
// ignoring case.
func SearchOwn(posts []*models.Post, term string) []*models.Post {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return posts
	}
	out := []*models.Post{}
	for _, p := range posts {
		if containsFold(p.Title, term) || containsFold(p.Body, term) || anyContainsFold(p.Tags, term) {
			out = append(out, p)
		}
	}
	return out
}

// SortOwn returns a sorted copy of posts.
func SortOwn(posts []*models.Post, by models.SortOption) []*models.Post {
	out := make([]*models.Post, len(posts))
	copy(out, posts)
	switch by {
	case models.SortLikes:
		sort.SliceStable(out, func(i, j int) bool { return out[i].LikeCount() > out[j].LikeCount() })
	case models.SortComments:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Comments > out[j].Comments })
	case models.SortOldest:
		repositories.SortPosts(out, repositories.OrderOldest)
	default:
		repositories.SortPosts(out, repositories.OrderRecent)
	}
	return out
}

// WithoutPost drops id from a listing already held by the caller.
func WithoutPost(posts []*models.Post, id string) []*models.Post {
	out := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// Edit applies update to a post owned by who. img, when present, replaces
// the post image.
func (s *OwnerContentService) Edit(ctx context.Context, who *models.Identity, id string, update models.PostUpdate, img *objectstore.Image) (*models.Post, error) {
	if who == nil {
		return nil, ErrUnauthenticated
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(who.UID) {
		return nil, ErrForbidden
	}

	if img != nil {
		if err := objectstore.EditRules.Check(img); err != nil {
			return nil, models.ValidationErrors{"image": err.Error()}
		}
		if s.uploader == nil {
			return nil, uploadErr(fmt.Errorf("no uploader configured"))
		}
		url, err := s.uploader.Upload(ctx, *img)
		if err != nil {
			log.Printf("Image upload error: %v", err)
			return nil, uploadErr(err)
		}
		update.Image = &url
	}

	updated, err := s.posts.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if update.Image != nil && post.Image != "" && post.Image != *update.Image {
		s.discard(ctx, post.Image)
	}
	return updated, nil
}

// Delete removes a post owned by who along with its comments. Without
// confirmation nothing changes.
func (s *OwnerContentService) Delete(ctx context.Context, who *models.Identity, id string, confirmed bool) error {
	if who == nil {
		return ErrUnauthenticated
	}
	if !confirmed {
		return ErrNotConfirmed
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !post.OwnedBy(who.UID) {
		return ErrForbidden
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if err := s.comments.DeleteByPost(ctx, id); err != nil {
		log.Printf("Failed to delete comments of post %s: %v", id, err)
	}
	s.discard(ctx, post.Image)
	return nil
}

func (s *OwnerContentService) discard(ctx context.Context, url string) {
	if s.uploader == nil {
		return
	}
	if err := objectstore.Discard(ctx, s.policy, s.uploader, url); err != nil {
		log.Printf("Failed to delete image %s: %v", url, err)
	}
}

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}

func anyContainsFold(values []string, lowerTerm string) bool {
	for _, v := range values {
		if containsFold(v, lowerTerm) {
			return true
		}
	}
	return false
}
