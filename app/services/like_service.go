package services

import (
	"context"

	"contenthub/app/models"
	"contenthub/app/repositories"
)

// LikeState is a post's liker count and whether the caller is a liker.
type LikeState struct {
	Liked bool `json:"liked"`
	Count int  `json:"count"`
}

// LikeService toggles membership in a post's liker set.
type LikeService struct {
	posts repositories.PostRepository
}

// NewLikeService creates a new LikeService
func NewLikeService(posts repositories.PostRepository) *LikeService {
	return &LikeService{posts: posts}
}

// Status reads the liker set. who may be nil.
func (s *LikeService) Status(ctx context.Context, who *models.Identity, postID string) (LikeState, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return LikeState{}, err
	}
	return stateFor(post.Likes, who), nil
}

// Toggle adds who to the liker set, or removes them if already present.
// The write is an atomic set operation, so concurrent toggles by
// different identities never drop one another.
func (s *LikeService) Toggle(ctx context.Context, who *models.Identity, postID string) (LikeState, error) {
	if who == nil {
		return LikeState{}, ErrUnauthenticated
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return LikeState{}, err
	}

	var likes []string
	if post.LikedBy(who.UID) {
		likes, err = s.posts.RemoveLiker(ctx, postID, who.UID)
	} else {
		likes, err = s.posts.AddLiker(ctx, postID, who.UID)
	}
	if err != nil {
		return LikeState{}, err
	}
	return stateFor(likes, who), nil
}

func stateFor(likes []string, who *models.Identity) LikeState {
	p := models.Post{Likes: likes}
	state := LikeState{Count: p.LikeCount()}
	if who != nil {
		state.Liked = p.LikedBy(who.UID)
	}
	return state
}
