package mongostore

import (
	"context"

	"contenthub/app/models"
	"contenthub/app/repositories"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CommentRepository stores comments with a postId back-reference.
type CommentRepository struct {
	col *mongo.Collection
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = newID()
	comment.CreatedAt = repositories.Now()
	comment.UpdatedAt = comment.CreatedAt
	_, err := r.col.InsertOne(ctx, comment)
	return mapErr(err)
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, mapErr(err)
	}
	return &comment, nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	findOpt := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"postId": postID}, findOpt)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	comments := []*models.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"postId": postID})
	return int(n), err
}

func (r *CommentRepository) Update(ctx context.Context, id, text string) (*models.Comment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"text": text, "updatedAt": repositories.Now()}}
	var comment models.Comment
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&comment); err != nil {
		return nil, mapErr(err)
	}
	return &comment, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"postId": postID})
	return err
}
