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

// MovieRepo encapsulates all queries against the movies collection.
type MovieRepo struct {
	coll *mongo.Collection
}

// NewMovieRepo constructs a MovieRepo bound to the catalog database.
func NewMovieRepo(db *mongo.Database) *MovieRepo {
	return &MovieRepo{coll: db.Collection(MoviesCollection)}
}

func lookupStage(from, field string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: field},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: field},
	}}}
}

// populate resolves actor and genre ids into their documents.
var populate = []bson.D{
	lookupStage(ActorsCollection, "actors"),
	lookupStage(GenresCollection, "genres"),
}

func bySlugPipeline(slug string) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"slug": slug}}},
		{{Key: "$limit", Value: 1}},
	}
	return append(p, populate...)
}

func listPipeline(term string) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: MovieSearchFilter(term)}},
		{{Key: "$sort", Value: byCreatedDesc}},
		{{Key: "$project", Value: listProjection}},
	}
	return append(p, populate...)
}

// popularPipeline resolves genres only; actor ids are dropped because the
// detail shape holds resolved actors.
func popularPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"countOpened": bson.M{"$gt": 0}}}},
		{{Key: "$sort", Value: bson.D{{Key: "countOpened", Value: -1}}}},
		lookupStage(GenresCollection, "genres"),
		{{Key: "$project", Value: bson.D{{Key: "actors", Value: 0}, {Key: "__v", Value: 0}}}},
	}
}

func incrementOpenedUpdate() bson.M {
	return bson.M{
		"$inc":         bson.M{"countOpened": 1},
		"$currentDate": bson.M{"updatedAt": true},
	}
}

// setUpdate sets fields and stamps updatedAt.
func setUpdate(fields any) bson.M {
	return bson.M{
		"$set":         fields,
		"$currentDate": bson.M{"updatedAt": true},
	}
}

// claimAnnouncement matches only a movie not yet announced.
func claimAnnouncement(id bson.ObjectID) (filter, update bson.M) {
	return bson.M{"_id": id, "isSendTelegram": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"isSendTelegram": true}}
}

func releaseAnnouncement(id bson.ObjectID) (filter, update bson.M) {
	return bson.M{"_id": id}, bson.M{"$set": bson.M{"isSendTelegram": false}}
}

func (r *MovieRepo) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]model.MovieDetail, error) {
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate movies")
	}
	out := []model.MovieDetail{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "failed to decode movies")
	}
	return out, nil
}

func (r *MovieRepo) find(ctx context.Context, filter bson.M) ([]model.Movie, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query movies")
	}
	out := []model.Movie{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "failed to decode movies")
	}
	return out, nil
}

// FindBySlug fetches the movie with the exact slug, actors and genres
// resolved.
func (r *MovieRepo) FindBySlug(ctx context.Context, slug string) (*model.MovieDetail, error) {
	out, err := r.aggregate(ctx, bySlugPipeline(slug))
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

// FindByActor returns every movie the actor appears in.
func (r *MovieRepo) FindByActor(ctx context.Context, actorID bson.ObjectID) ([]model.Movie, error) {
	return r.find(ctx, bson.M{"actors": actorID})
}

// FindByGenres returns movies tagged with at least one of genreIDs.
func (r *MovieRepo) FindByGenres(ctx context.Context, genreIDs []bson.ObjectID) ([]model.Movie, error) {
	return r.find(ctx, bson.M{"genres": bson.M{"$in": genreIDs}})
}

// List returns movies whose title contains term, newest first, with actors
// and genres resolved.
func (r *MovieRepo) List(ctx context.Context, term string) ([]model.MovieDetail, error) {
	return r.aggregate(ctx, listPipeline(term))
}

// ListPopular returns movies opened at least once, most opened first, with
// genres resolved.
func (r *MovieRepo) ListPopular(ctx context.Context) ([]model.MovieDetail, error) {
	return r.aggregate(ctx, popularPipeline())
}

// IncrementOpened atomically adds one to countOpened of the movie with slug.
func (r *MovieRepo) IncrementOpened(ctx context.Context, slug string) (*model.Movie, error) {
	return r.findOneAndUpdate(ctx, bson.M{"slug": slug}, incrementOpenedUpdate())
}

// SetRating overwrites the rating of a movie.
func (r *MovieRepo) SetRating(ctx context.Context, id bson.ObjectID, rating float64) (*model.Movie, error) {
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, setUpdate(bson.M{"rating": rating}))
}

// Update overwrites the editable fields of a movie.
func (r *MovieRepo) Update(ctx context.Context, id bson.ObjectID, in model.MovieInput) (*model.Movie, error) {
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, setUpdate(in))
}

func (r *MovieRepo) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*model.Movie, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m model.Movie
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&m)
	if err = translateWriteErr(err); err != nil {
		return nil, err
	}
	return &m, nil
}

// ClaimAnnouncement flips isSendTelegram from false to true. It reports
// whether this call performed the flip, so exactly one caller announces a
// movie.
func (r *MovieRepo) ClaimAnnouncement(ctx context.Context, id bson.ObjectID) (bool, error) {
	filter, update := claimAnnouncement(id)
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, errors.Wrap(err, "failed to claim announcement")
	}
	return res.ModifiedCount == 1, nil
}

// ReleaseAnnouncement resets isSendTelegram after a failed announcement.
func (r *MovieRepo) ReleaseAnnouncement(ctx context.Context, id bson.ObjectID) error {
	filter, update := releaseAnnouncement(id)
	_, err := r.coll.UpdateOne(ctx, filter, update)
	return errors.Wrap(err, "failed to release announcement")
}

// FindByID fetches a movie by id.
func (r *MovieRepo) FindByID(ctx context.Context, id bson.ObjectID) (*model.Movie, error) {
	var m model.Movie
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to fetch movie")
	}
	return &m, nil
}

// Create inserts a movie built from in and returns its id. New movies start
// unopened, unrated and unannounced.
func (r *MovieRepo) Create(ctx context.Context, in model.MovieInput) (bson.ObjectID, error) {
	now := time.Now().UTC()
	m := model.Movie{
		ID:         bson.NewObjectID(),
		Title:      in.Title,
		Slug:       in.Slug,
		Poster:     in.Poster,
		BigPoster:  in.BigPoster,
		VideoURL:   in.VideoURL,
		Parameters: in.Parameters,
		Actors:     in.Actors,
		Genres:     in.Genres,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bson.ObjectID{}, ErrConflict
		}
		return bson.ObjectID{}, errors.Wrap(err, "failed to insert movie")
	}
	return m.ID, nil
}

// Delete removes a movie and returns the removed document.
func (r *MovieRepo) Delete(ctx context.Context, id bson.ObjectID) (*model.Movie, error) {
	var m model.Movie
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&m)
	if err = translateWriteErr(err); err != nil {
		return nil, err
	}
	return &m, nil
}
