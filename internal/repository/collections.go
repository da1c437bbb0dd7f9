package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names in the catalog database.
const (
	GenresCollection = "genres"
	MoviesCollection = "movies"
	ActorsCollection = "actors"
)

// listProjection drops bookkeeping fields from list responses.
var listProjection = bson.D{{Key: "updatedAt", Value: 0}, {Key: "__v", Value: 0}}

var byCreatedDesc = bson.D{{Key: "createdAt", Value: -1}}

// EnsureIndexes creates the unique slug indexes. Freshly created documents
// carry an empty slug until an admin fills it in, so the indexes only cover
// non-empty slugs.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{GenresCollection, MoviesCollection, ActorsCollection} {
		idx := mongo.IndexModel{
			Keys: bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().
				SetName("slug_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"slug": bson.M{"$gt": ""}}),
		}
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, idx); err != nil {
			return errors.Wrapf(err, "failed to create slug index on %s", name)
		}
	}
	movies := db.Collection(MoviesCollection)
	for _, key := range []string{"genres", "actors", "countOpened"} {
		if _, err := movies.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}}); err != nil {
			return errors.Wrapf(err, "failed to create %s index on movies", key)
		}
	}
	return nil
}

// translateWriteErr maps driver errors of a single-document write onto the
// package sentinels.
func translateWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrConflict
	}
	return errors.Wrap(err, "catalog write failed")
}
