package service

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
)

// GenreStore is the persistence GenreService needs. *repository.GenreRepo
// implements it.
type GenreStore interface {
	List(ctx context.Context, term string) ([]model.Genre, error)
	FindBySlug(ctx context.Context, slug string) (*model.Genre, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*model.Genre, error)
	Create(ctx context.Context, in model.GenreInput) (bson.ObjectID, error)
	Update(ctx context.Context, id bson.ObjectID, in model.GenreInput) (*model.Genre, error)
	Delete(ctx context.Context, id bson.ObjectID) (*model.Genre, error)
}

// MoviesByGenre looks up the movies of a set of genres. *MovieService
// implements it.
type MoviesByGenre interface {
	ByGenres(ctx context.Context, genreIDs []bson.ObjectID) ([]model.Movie, error)
}

// GenreService serves genre listings, lookups, collections and admin edits.
type GenreService struct {
	store  GenreStore
	movies MoviesByGenre
	events EventPublisher

	// placeholder is the collection image of genres without movies.
	placeholder string
}

// NewGenreService wires a GenreService. events may be nil.
func NewGenreService(store GenreStore, movies MoviesByGenre, events EventPublisher, placeholder string) *GenreService {
	return &GenreService{store: store, movies: movies, events: events, placeholder: placeholder}
}

// ListAll returns every genre when searchTerm is empty, otherwise the genres
// whose name, slug or description contains it ignoring case. Newest first.
func (s *GenreService) ListAll(ctx context.Context, searchTerm string) ([]model.Genre, error) {
	return s.store.List(ctx, searchTerm)
}

// GetBySlug returns the genre with slug or ErrNotFound.
func (s *GenreService) GetBySlug(ctx context.Context, slug string) (*model.Genre, error) {
	return s.store.FindBySlug(ctx, slug)
}

// GetPopular lists genres for the "popular" shelf.
// TODO: rank by the countOpened of each genre's movies once the front page
// defines what popular means; until then it is the plain listing.
func (s *GenreService) GetPopular(ctx context.Context) ([]model.Genre, error) {
	return s.store.List(ctx, "")
}

// GetCollections pairs every genre with the big poster of its first movie.
// Lookups run concurrently and the first failure aborts the whole call.
// Genres without movies get the placeholder image.
func (s *GenreService) GetCollections(ctx context.Context) ([]model.Collection, error) {
	genres, err := s.store.List(ctx, "")
	if err != nil {
		return nil, err
	}

	out := make([]model.Collection, len(genres))
	g, gctx := errgroup.WithContext(ctx)
	for i, genre := range genres {
		g.Go(func() error {
			movies, err := s.movies.ByGenres(gctx, []bson.ObjectID{genre.ID})
			if err != nil {
				return err
			}
			image := s.placeholder
			if len(movies) > 0 {
				image = movies[0].BigPoster
			}
			out[i] = model.Collection{
				ID:    genre.ID.Hex(),
				Title: genre.Name,
				Slug:  genre.Slug,
				Image: image,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns the genre with id or ErrNotFound.
func (s *GenreService) GetByID(ctx context.Context, id bson.ObjectID) (*model.Genre, error) {
	return s.store.FindByID(ctx, id)
}

// Create stores a genre with empty fields and returns its id. Admins fill
// it in with Update.
func (s *GenreService) Create(ctx context.Context) (bson.ObjectID, error) {
	id, err := s.store.Create(ctx, model.GenreInput{})
	if err != nil {
		return id, err
	}
	publish(ctx, s.events, queue.CatalogEvent{Type: queue.GenreCreated, ID: id.Hex()})
	return id, nil
}

// Update overwrites the editable fields of a genre and returns the result.
func (s *GenreService) Update(ctx context.Context, id bson.ObjectID, in model.GenreInput) (*model.Genre, error) {
	g, err := s.store.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, queue.CatalogEvent{Type: queue.GenreUpdated, ID: g.ID.Hex(), Slug: g.Slug, Title: g.Name})
	return g, nil
}

// Delete removes a genre and returns it. Movies keep their reference.
func (s *GenreService) Delete(ctx context.Context, id bson.ObjectID) (*model.Genre, error) {
	g, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, queue.CatalogEvent{Type: queue.GenreDeleted, ID: g.ID.Hex(), Slug: g.Slug, Title: g.Name})
	return g, nil
}
