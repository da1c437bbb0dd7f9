package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// GenreRepo encapsulates all queries against the genres collection.
type GenreRepo struct {
	coll *mongo.Collection
}

// NewGenreRepo constructs a GenreRepo bound to the catalog database.
func NewGenreRepo(db *mongo.Database) *GenreRepo {
	return &GenreRepo{coll: db.Collection(GenresCollection)}
}

// List returns genres whose name, slug or description contains term, newest
// first. An empty term lists every genre.
func (r *GenreRepo) List(ctx context.Context, term string) ([]model.Genre, error) {
	cur, err := r.coll.Find(ctx, GenreSearchFilter(term), genreListOptions())
	if err != nil {
		return nil, errors.Wrap(err, "failed to query genres")
	}
	out := []model.Genre{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "failed to decode genres")
	}
	return out, nil
}

func genreListOptions() *options.FindOptionsBuilder {
	return options.Find().SetSort(byCreatedDesc).SetProjection(listProjection)
}

// FindBySlug fetches the genre with the exact slug.
func (r *GenreRepo) FindBySlug(ctx context.Context, slug string) (*model.Genre, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

// FindByID fetches a genre by its id.
func (r *GenreRepo) FindByID(ctx context.Context, id bson.ObjectID) (*model.Genre, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *GenreRepo) findOne(ctx context.Context, filter bson.M) (*model.Genre, error) {
	var g model.Genre
	if err := r.coll.FindOne(ctx, filter).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to fetch genre")
	}
	return &g, nil
}

// Create inserts a genre built from in and returns its id.
func (r *GenreRepo) Create(ctx context.Context, in model.GenreInput) (bson.ObjectID, error) {
	now := time.Now().UTC()
	g := model.Genre{
		ID:          bson.NewObjectID(),
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Icon:        in.Icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, g); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bson.ObjectID{}, ErrConflict
		}
		return bson.ObjectID{}, errors.Wrap(err, "failed to insert genre")
	}
	return g.ID, nil
}

// Update overwrites the editable fields of a genre and returns the stored
// document after the write.
func (r *GenreRepo) Update(ctx context.Context, id bson.ObjectID, in model.GenreInput) (*model.Genre, error) {
	update := setUpdate(in)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var g model.Genre
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&g)
	if err = translateWriteErr(err); err != nil {
		return nil, err
	}
	return &g, nil
}

// Delete removes a genre and returns the removed document. Movies referencing
// the genre are left untouched.
func (r *GenreRepo) Delete(ctx context.Context, id bson.ObjectID) (*model.Genre, error) {
	var g model.Genre
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&g)
	if err = translateWriteErr(err); err != nil {
		return nil, err
	}
	return &g, nil
}
