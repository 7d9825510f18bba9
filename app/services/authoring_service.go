package services

import (
	"context"
	"fmt"
	"log"

	"contenthub/app/models"
	"contenthub/app/objectstore"
	"contenthub/app/repositories"
)

// AuthoringService turns validated drafts into posts.
type AuthoringService struct {
	posts    repositories.PostRepository
	uploader objectstore.Uploader
}

// NewAuthoringService creates a new AuthoringService
func NewAuthoringService(posts repositories.PostRepository, uploader objectstore.Uploader) *AuthoringService {
	return &AuthoringService{posts: posts, uploader: uploader}
}

// Submit validates draft, uploads img when present and creates the post.
// Nothing is written unless validation and the upload both succeed. The
// draft is reset only on success.
func (s *AuthoringService) Submit(ctx context.Context, who *models.Identity, draft *models.Draft, img *objectstore.Image) (*models.Post, error) {
	if who == nil {
		return nil, ErrUnauthenticated
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	imageURL := ""
	if img != nil {
		if err := objectstore.AuthoringRules.Check(img); err != nil {
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
		imageURL = url
	}

	post := draft.ToPost(who.UID, imageURL)
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	draft.Reset()
	return post, nil
}
