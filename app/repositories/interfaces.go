package repositories

import (
	"context"

	"contenthub/app/models"
)

// PostOrder selects how a post query is sorted.
type PostOrder string

const (
	OrderRecent  PostOrder = "recent"
	OrderOldest  PostOrder = "oldest"
	OrderPopular PostOrder = "popular"
)

// PostQuery filters and orders a post listing. A zero Limit means no limit.
type PostQuery struct {
	CreatorID string
	Order     PostOrder
	Limit     int
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Query(ctx context.Context, q PostQuery) ([]*models.Post, error)
	Update(ctx context.Context, id string, update models.PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	// AddLiker and RemoveLiker are atomic set operations and return the
	// resulting liker set.
	AddLiker(ctx context.Context, postID, uid string) ([]string, error)
	RemoveLiker(ctx context.Context, postID, uid string) ([]string, error)
	AdjustCommentCount(ctx context.Context, postID string, delta int) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	// ListByPost returns the post's comments newest first.
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	CountByPost(ctx context.Context, postID string) (int, error)
	Update(ctx context.Context, id, text string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) error
}

// UserRepository stores signup profiles.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetMany returns the users that exist, keyed by id.
	GetMany(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// ReportRepository stores moderation reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ListByPost(ctx context.Context, postID string) ([]*models.Report, error)
}

// Credential is the login secret stored for an email address.
type Credential struct {
	Email        string `json:"email" bson:"_id"`
	UID          string `json:"uid" bson:"uid"`
	PasswordHash string `json:"passwordHash" bson:"passwordHash"`
}

// CredentialRepository stores password hashes keyed by email.
type CredentialRepository interface {
	Create(ctx context.Context, cred *Credential) error
	GetByEmail(ctx context.Context, email string) (*Credential, error)
	Delete(ctx context.Context, email string) error
}
