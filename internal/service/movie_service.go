package service

import (
	"context"
	"fmt"
	"html"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/notify"
	"github.com/iliyamo/movie-catalog/internal/queue"
)

// MovieStore is the persistence MovieService needs. *repository.MovieRepo
// implements it.
type MovieStore interface {
	FindBySlug(ctx context.Context, slug string) (*model.MovieDetail, error)
	FindByActor(ctx context.Context, actorID bson.ObjectID) ([]model.Movie, error)
	FindByGenres(ctx context.Context, genreIDs []bson.ObjectID) ([]model.Movie, error)
	List(ctx context.Context, term string) ([]model.MovieDetail, error)
	ListPopular(ctx context.Context) ([]model.MovieDetail, error)
	IncrementOpened(ctx context.Context, slug string) (*model.Movie, error)
	SetRating(ctx context.Context, id bson.ObjectID, rating float64) (*model.Movie, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*model.Movie, error)
	Create(ctx context.Context, in model.MovieInput) (bson.ObjectID, error)
	Update(ctx context.Context, id bson.ObjectID, in model.MovieInput) (*model.Movie, error)
	ClaimAnnouncement(ctx context.Context, id bson.ObjectID) (bool, error)
	ReleaseAnnouncement(ctx context.Context, id bson.ObjectID) error
	Delete(ctx context.Context, id bson.ObjectID) (*model.Movie, error)
}

// Notifier posts announcements to a chat. *notify.Telegram implements it.
type Notifier interface {
	SendPhoto(ctx context.Context, url string) error
	SendMessage(ctx context.Context, text string, buttons ...notify.Button) error
}

// Announcement is the fixed content of movie announcements.
type Announcement struct {
	PhotoURL  string
	WatchURL  string
	WatchText string
}

// MovieService serves movie listings, lookups, counters and admin edits.
type MovieService struct {
	store    MovieStore
	notifier Notifier
	events   EventPublisher
	announce Announcement
}

// NewMovieService wires a MovieService. events may be nil.
func NewMovieService(store MovieStore, notifier Notifier, events EventPublisher, announce Announcement) *MovieService {
	return &MovieService{store: store, notifier: notifier, events: events, announce: announce}
}

// GetBySlug returns the movie with slug, actors and genres resolved, or
// ErrNotFound.
func (s *MovieService) GetBySlug(ctx context.Context, slug string) (*model.MovieDetail, error) {
	return s.store.FindBySlug(ctx, slug)
}

// GetByActor returns the movies an actor plays in. An actor without movies is
// reported as ErrNotFound, the same as an unknown actor.
func (s *MovieService) GetByActor(ctx context.Context, actorID bson.ObjectID) ([]model.Movie, error) {
	movies, err := s.store.FindByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, errors.Wrap(ErrNotFound, "no movies for actor")
	}
	return movies, nil
}

// ByGenres returns movies tagged with any of genreIDs. No match is not an
// error.
func (s *MovieService) ByGenres(ctx context.Context, genreIDs []bson.ObjectID) ([]model.Movie, error) {
	return s.store.FindByGenres(ctx, genreIDs)
}

// ListAll returns every movie when searchTerm is empty, otherwise those whose
// title contains it ignoring case. Newest first.
func (s *MovieService) ListAll(ctx context.Context, searchTerm string) ([]model.MovieDetail, error) {
	return s.store.List(ctx, searchTerm)
}

// IncrementOpenCount records one more opening of the movie with slug.
func (s *MovieService) IncrementOpenCount(ctx context.Context, slug string) (*model.Movie, error) {
	return s.store.IncrementOpened(ctx, slug)
}

// GetMostPopular lists opened movies, most opened first.
func (s *MovieService) GetMostPopular(ctx context.Context) ([]model.MovieDetail, error) {
	return s.store.ListPopular(ctx)
}

// SetRating overwrites the rating of a movie.
func (s *MovieService) SetRating(ctx context.Context, id bson.ObjectID, rating float64) (*model.Movie, error) {
	m, err := s.store.SetRating(ctx, id, rating)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, queue.CatalogEvent{Type: queue.MovieRated, ID: m.ID.Hex(), Slug: m.Slug, Title: m.Title})
	return m, nil
}

// GetByID returns the movie with id or ErrNotFound.
func (s *MovieService) GetByID(ctx context.Context, id bson.ObjectID) (*model.Movie, error) {
	return s.store.FindByID(ctx, id)
}

// Create stores a movie with empty fields and returns its id.
func (s *MovieService) Create(ctx context.Context) (bson.ObjectID, error) {
	id, err := s.store.Create(ctx, normalizeMovieInput(model.MovieInput{}))
	if err != nil {
		return id, err
	}
	publish(ctx, s.events, queue.CatalogEvent{Type: queue.MovieCreated, ID: id.Hex()})
	return id, nil
}

// Update stores the editable fields of a movie. The first update of a movie
// also announces it: the stored isSendTelegram flag is flipped with a
// compare-and-set, so concurrent updates announce at most once. A failed
// announcement releases the flag and fails the call; the field changes stay.
func (s *MovieService) Update(ctx context.Context, id bson.ObjectID, in model.MovieInput) (*model.Movie, error) {
	m, err := s.store.Update(ctx, id, normalizeMovieInput(in))
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, queue.CatalogEvent{Type: queue.MovieUpdated, ID: m.ID.Hex(), Slug: m.Slug, Title: m.Title})

	claimed, err := s.store.ClaimAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return m, nil
	}
	if err := s.SendNotification(ctx, m); err != nil {
		if rerr := s.store.ReleaseAnnouncement(ctx, id); rerr != nil {
			log.WithError(rerr).WithField("movie", id.Hex()).Error("failed to release announcement flag")
		}
		return nil, err
	}
	m.IsSendTelegram = true
	publish(ctx, s.events, queue.CatalogEvent{Type: queue.MovieAnnounce, ID: m.ID.Hex(), Slug: m.Slug, Title: m.Title})
	return m, nil
}

// Delete removes a movie and returns it.
func (s *MovieService) Delete(ctx context.Context, id bson.ObjectID) (*model.Movie, error) {
	m, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, queue.CatalogEvent{Type: queue.MovieDeleted, ID: m.ID.Hex(), Slug: m.Slug, Title: m.Title})
	return m, nil
}

// SendNotification posts the announcement photo followed by the movie title
// and a watch button.
func (s *MovieService) SendNotification(ctx context.Context, m *model.Movie) error {
	if err := s.notifier.SendPhoto(ctx, s.announce.PhotoURL); err != nil {
		return err
	}
	return s.notifier.SendMessage(ctx, announcementText(m.Title), notify.Button{
		Text: s.announce.WatchText,
		URL:  s.announce.WatchURL,
	})
}

func announcementText(title string) string {
	return fmt.Sprintf("<b>%s</b>\n\n", html.EscapeString(title))
}

// normalizeMovieInput stores empty reference lists as arrays, not nulls.
func normalizeMovieInput(in model.MovieInput) model.MovieInput {
	if in.Actors == nil {
		in.Actors = []bson.ObjectID{}
	}
	if in.Genres == nil {
		in.Genres = []bson.ObjectID{}
	}
	return in
}
