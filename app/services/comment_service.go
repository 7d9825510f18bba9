package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"contenthub/app/live"
	"contenthub/app/models"
	"contenthub/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	hub         *live.Hub
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, hub *live.Hub) *CommentService {
	if hub == nil {
		hub = live.NewHub()
	}
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		hub:         hub,
	}
}

// CommentControls says which controls a viewer gets on a comment.
type CommentControls struct {
	CanEdit   bool `json:"canEdit"`
	CanDelete bool `json:"canDelete"`
}

// CommentView is a comment as rendered for one viewer.
type CommentView struct {
	*models.Comment
	Controls CommentControls `json:"controls"`
}

// Permissions returns the controls who may use on c. Only the author gets
// any.
func Permissions(who *models.Identity, c *models.Comment) CommentControls {
	if who == nil || !c.OwnedBy(who.UID) {
		return CommentControls{}
	}
	return CommentControls{CanEdit: true, CanDelete: true}
}

// Thread lists a post's comments newest first.
func (s *CommentService) Thread(ctx context.Context, postID string) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

// ThreadView lists a post's comments with the controls who may use.
func (s *CommentService) ThreadView(ctx context.Context, who *models.Identity, postID string) ([]CommentView, error) {
	comments, err := s.Thread(ctx, postID)
	if err != nil {
		return nil, err
	}
	views := make([]CommentView, len(comments))
	for i, c := range comments {
		views[i] = CommentView{Comment: c, Controls: Permissions(who, c)}
	}
	return views, nil
}

// Subscribe opens a live view of postID's thread. The caller must Cancel
// the subscription when done.
func (s *CommentService) Subscribe(ctx context.Context, postID string) (*live.Subscription, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(postID, s.loader(ctx, postID))
}

// Add posts text on postID as who. The author's name and photo are copied
// into the comment.
func (s *CommentService) Add(ctx context.Context, who *models.Identity, postID, text string) (*models.Comment, error) {
	if who == nil {
		return nil, ErrUnauthenticated
	}
	comment := &models.Comment{PostID: postID, Text: strings.TrimSpace(text)}
	comment.SnapshotAuthor(*who)
	if err := comment.Validate(); err != nil {
		return nil, err
	}

	// Verify post exists
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	if err := s.postRepo.AdjustCommentCount(ctx, postID, 1); err != nil {
		log.Printf("Failed to update comment count for %s: %v", postID, err)
	}
	s.publish(ctx, postID)
	return comment, nil
}

// Edit replaces the text of a comment written by who.
func (s *CommentService) Edit(ctx context.Context, who *models.Identity, id, text string) (*models.Comment, error) {
	if who == nil {
		return nil, ErrUnauthenticated
	}
	existing, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.OwnedBy(who.UID) {
		return nil, ErrForbidden
	}
	check := models.Comment{PostID: existing.PostID, UserID: existing.UserID, Text: text}
	if err := check.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.commentRepo.Update(ctx, id, strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	s.publish(ctx, existing.PostID)
	return updated, nil
}

// Delete removes a comment written by who.
func (s *CommentService) Delete(ctx context.Context, who *models.Identity, id string) error {
	if who == nil {
		return ErrUnauthenticated
	}
	existing, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.OwnedBy(who.UID) {
		return ErrForbidden
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if err := s.postRepo.AdjustCommentCount(ctx, existing.PostID, -1); err != nil {
		log.Printf("Failed to update comment count for %s: %v", existing.PostID, err)
	}
	s.publish(ctx, existing.PostID)
	return nil
}

func (s *CommentService) loader(ctx context.Context, postID string) live.Loader {
	return func() ([]*models.Comment, error) {
		return s.Thread(ctx, postID)
	}
}

func (s *CommentService) publish(ctx context.Context, postID string) {
	if err := s.hub.Refresh(postID, s.loader(ctx, postID)); err != nil {
		log.Printf("Failed to refresh comments for %s: %v", postID, err)
	}
}
