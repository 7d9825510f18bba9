package mongostore

import (
	"context"

	"contenthub/app/models"
	"contenthub/app/repositories"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// UserRepository stores signup profiles keyed by uid.
type UserRepository struct {
	col *mongo.Collection
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = repositories.Now()
	}
	_, err := r.col.InsertOne(ctx, user)
	return mapErr(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r *UserRepository) GetMany(ctx context.Context, ids []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []*models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// ReportRepository stores moderation reports.
type ReportRepository struct {
	col *mongo.Collection
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	report.ID = newID()
	report.CreatedAt = repositories.Now()
	report.BeforeCreate()
	_, err := r.col.InsertOne(ctx, report)
	return mapErr(err)
}

func (r *ReportRepository) ListByPost(ctx context.Context, postID string) ([]*models.Report, error) {
	cur, err := r.col.Find(ctx, bson.M{"postId": postID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	reports := []*models.Report{}
	if err := cur.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// CredentialRepository stores password hashes with the normalized email as
// the document id.
type CredentialRepository struct {
	col *mongo.Collection
}

func (r *CredentialRepository) Create(ctx context.Context, cred *repositories.Credential) error {
	cred.Email = repositories.NormalizeEmail(cred.Email)
	_, err := r.col.InsertOne(ctx, cred)
	return mapErr(err)
}

func (r *CredentialRepository) Delete(ctx context.Context, email string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": repositories.NormalizeEmail(email)})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*repositories.Credential, error) {
	var cred repositories.Credential
	err := r.col.FindOne(ctx, bson.M{"_id": repositories.NormalizeEmail(email)}).Decode(&cred)
	if err != nil {
		return nil, mapErr(err)
	}
	return &cred, nil
}
