package mongostore

import (
	"context"
	"strings"
	"time"

	"contenthub/app/models"
	"contenthub/app/repositories"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// PostRepository stores posts in the content collection.
type PostRepository struct {
	col *mongo.Collection
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	post.ID = newID()
	post.CreatedAt = repositories.Now()
	if post.Likes == nil {
		post.Likes = []string{}
	}
	_, err := r.col.InsertOne(ctx, post)
	return mapErr(err)
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, mapErr(err)
	}
	return &post, nil
}

// Query sorts on the server. Popular order needs the size of the liker
// array, so it runs as an aggregation.
func (r *PostRepository) Query(ctx context.Context, q repositories.PostQuery) ([]*models.Post, error) {
	filter := bson.M{}
	if q.CreatorID != "" {
		filter["creatorId"] = q.CreatorID
	}

	var (
		cur *mongo.Cursor
		err error
	)
	if q.Order == repositories.OrderPopular {
		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: filter}},
			{{Key: "$addFields", Value: bson.M{
				"likeCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}},
			}}},
			{{Key: "$sort", Value: bson.D{{Key: "likeCount", Value: -1}, {Key: "createdAt", Value: -1}}}},
		}
		if q.Limit > 0 {
			pipeline = append(pipeline, bson.D{{Key: "$limit", Value: q.Limit}})
		}
		cur, err = r.col.Aggregate(ctx, pipeline)
	} else {
		direction := -1
		if q.Order == repositories.OrderOldest {
			direction = 1
		}
		findOpt := options.Find().SetSort(bson.D{{Key: "createdAt", Value: direction}})
		if q.Limit > 0 {
			findOpt.SetLimit(int64(q.Limit))
		}
		cur, err = r.col.Find(ctx, filter, findOpt)
	}
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := []*models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) Update(ctx context.Context, id string, update models.PostUpdate) (*models.Post, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$set": updateFields(update, repositories.Now())})
}

// updateFields builds the $set document for update, normalized the same way
// as models.Post.Apply.
func updateFields(update models.PostUpdate, at time.Time) bson.M {
	set := bson.M{"updatedAt": at}
	if update.Title != nil {
		set["title"] = strings.TrimSpace(*update.Title)
	}
	if update.Body != nil {
		body := strings.TrimSpace(*update.Body)
		set["body"] = body
		set["wordCount"] = models.WordCount(body)
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}
	return set
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *PostRepository) AddLiker(ctx context.Context, postID, uid string) ([]string, error) {
	post, err := r.findOneAndUpdate(ctx, postID, bson.M{"$addToSet": bson.M{"likes": uid}})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (r *PostRepository) RemoveLiker(ctx context.Context, postID, uid string) ([]string, error) {
	post, err := r.findOneAndUpdate(ctx, postID, bson.M{"$pull": bson.M{"likes": uid}})
	if err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (r *PostRepository) AdjustCommentCount(ctx context.Context, postID string, delta int) error {
	if _, err := r.findOneAndUpdate(ctx, postID, bson.M{"$inc": bson.M{"comments": delta}}); err != nil {
		return err
	}
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": postID, "comments": bson.M{"$lt": 0}},
		bson.M{"$set": bson.M{"comments": 0}})
	return err
}

func (r *PostRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&post); err != nil {
		return nil, mapErr(err)
	}
	if post.Likes == nil {
		post.Likes = []string{}
	}
	return &post, nil
}
