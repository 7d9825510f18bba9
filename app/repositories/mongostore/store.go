package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contenthub/app/repositories"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	postsCollection       = "content"
	commentsCollection    = "comments"
	usersCollection       = "users"
	reportsCollection     = "reports"
	credentialsCollection = "credentials"
)

// Connect dials uri, pings the primary and returns the repositories backed
// by database dbName.
func Connect(ctx context.Context, uri, dbName string) (repositories.Set, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	client, err := mongo.Connect(opts)
	if err != nil {
		return repositories.Set{}, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return repositories.Set{}, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return repositories.Set{}, err
	}

	return repositories.Set{
		Posts:       &PostRepository{col: db.Collection(postsCollection)},
		Comments:    &CommentRepository{col: db.Collection(commentsCollection)},
		Users:       &UserRepository{col: db.Collection(usersCollection)},
		Reports:     &ReportRepository{col: db.Collection(reportsCollection)},
		Credentials: &CredentialRepository{col: db.Collection(credentialsCollection)},
		Close: func() error {
			return client.Disconnect(context.Background())
		},
	}, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		postsCollection: {
			Keys: bson.D{{Key: "creatorId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		commentsCollection: {
			Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		usersCollection: {
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		reportsCollection: {
			Keys: bson.D{{Key: "postId", Value: 1}},
		},
	}
	for name, model := range indexes {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

// mapErr translates driver errors to the repository sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repositories.ErrAlreadyExists
	}
	return err
}
