package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/notify"
	"github.com/iliyamo/movie-catalog/internal/queue"
)

// memGenreStore is an in-memory GenreStore. clock advances one second per
// insert so creation order is observable.
type memGenreStore struct {
	mu     sync.Mutex
	genres []model.Genre
	clock  time.Time
	err    error
}

func newMemGenreStore() *memGenreStore {
	return &memGenreStore{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (s *memGenreStore) List(_ context.Context, term string) ([]model.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := []model.Genre{}
	for _, g := range s.genres {
		if term == "" || containsFold(g.Name, term) || containsFold(g.Slug, term) || containsFold(g.Description, term) {
			g.UpdatedAt = time.Time{}
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memGenreStore) find(match func(model.Genre) bool) (*model.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.genres {
		if match(g) {
			return &g, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memGenreStore) FindBySlug(_ context.Context, slug string) (*model.Genre, error) {
	return s.find(func(g model.Genre) bool { return g.Slug == slug })
}

func (s *memGenreStore) FindByID(_ context.Context, id bson.ObjectID) (*model.Genre, error) {
	return s.find(func(g model.Genre) bool { return g.ID == id })
}

func (s *memGenreStore) Create(_ context.Context, in model.GenreInput) (bson.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = s.clock.Add(time.Second)
	g := model.Genre{ID: bson.NewObjectID(), Name: in.Name, Slug: in.Slug, Description: in.Description, Icon: in.Icon, CreatedAt: s.clock, UpdatedAt: s.clock}
	s.genres = append(s.genres, g)
	return g.ID, nil
}

func (s *memGenreStore) Update(_ context.Context, id bson.ObjectID, in model.GenreInput) (*model.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.genres {
		if s.genres[i].ID == id {
			g := &s.genres[i]
			g.Name, g.Slug, g.Description, g.Icon = in.Name, in.Slug, in.Description, in.Icon
			out := *g
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memGenreStore) Delete(_ context.Context, id bson.ObjectID) (*model.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.genres {
		if g.ID == id {
			s.genres = append(s.genres[:i], s.genres[i+1:]...)
			return &g, nil
		}
	}
	return nil, ErrNotFound
}

// memMovieStore is an in-memory MovieStore.
type memMovieStore struct {
	mu     sync.Mutex
	movies []model.Movie
	clock  time.Time

	genreErr error
}

func newMemMovieStore() *memMovieStore {
	return &memMovieStore{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (s *memMovieStore) add(m model.Movie) model.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = s.clock.Add(time.Second)
	if m.ID.IsZero() {
		m.ID = bson.NewObjectID()
	}
	m.CreatedAt = s.clock
	s.movies = append(s.movies, m)
	return m
}

func detail(m model.Movie) model.MovieDetail {
	return model.MovieDetail{ID: m.ID, Title: m.Title, Slug: m.Slug, BigPoster: m.BigPoster, CountOpened: m.CountOpened, Rating: m.Rating, IsSendTelegram: m.IsSendTelegram, CreatedAt: m.CreatedAt}
}

func hasID(ids []bson.ObjectID, id bson.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func (s *memMovieStore) filter(match func(model.Movie) bool) []model.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Movie{}
	for _, m := range s.movies {
		if match(m) {
			out = append(out, m)
		}
	}
	return out
}

func (s *memMovieStore) FindBySlug(_ context.Context, slug string) (*model.MovieDetail, error) {
	found := s.filter(func(m model.Movie) bool { return m.Slug == slug })
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	d := detail(found[0])
	return &d, nil
}

func (s *memMovieStore) FindByActor(_ context.Context, actorID bson.ObjectID) ([]model.Movie, error) {
	return s.filter(func(m model.Movie) bool { return hasID(m.Actors, actorID) }), nil
}

func (s *memMovieStore) FindByGenres(_ context.Context, genreIDs []bson.ObjectID) ([]model.Movie, error) {
	if s.genreErr != nil {
		return nil, s.genreErr
	}
	return s.filter(func(m model.Movie) bool {
		for _, g := range genreIDs {
			if hasID(m.Genres, g) {
				return true
			}
		}
		return false
	}), nil
}

func (s *memMovieStore) List(_ context.Context, term string) ([]model.MovieDetail, error) {
	found := s.filter(func(m model.Movie) bool { return term == "" || containsFold(m.Title, term) })
	sort.SliceStable(found, func(i, j int) bool { return found[i].CreatedAt.After(found[j].CreatedAt) })
	out := make([]model.MovieDetail, 0, len(found))
	for _, m := range found {
		out = append(out, detail(m))
	}
	return out, nil
}

func (s *memMovieStore) ListPopular(_ context.Context) ([]model.MovieDetail, error) {
	found := s.filter(func(m model.Movie) bool { return m.CountOpened > 0 })
	sort.SliceStable(found, func(i, j int) bool { return found[i].CountOpened > found[j].CountOpened })
	out := make([]model.MovieDetail, 0, len(found))
	for _, m := range found {
		out = append(out, detail(m))
	}
	return out, nil
}

func (s *memMovieStore) mutate(match func(model.Movie) bool, fn func(*model.Movie)) (*model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.movies {
		if match(s.movies[i]) {
			fn(&s.movies[i])
			out := s.movies[i]
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memMovieStore) IncrementOpened(_ context.Context, slug string) (*model.Movie, error) {
	return s.mutate(func(m model.Movie) bool { return m.Slug == slug }, func(m *model.Movie) { m.CountOpened++ })
}

func byID(id bson.ObjectID) func(model.Movie) bool {
	return func(m model.Movie) bool { return m.ID == id }
}

func (s *memMovieStore) SetRating(_ context.Context, id bson.ObjectID, rating float64) (*model.Movie, error) {
	return s.mutate(byID(id), func(m *model.Movie) { m.Rating = rating })
}

func (s *memMovieStore) FindByID(_ context.Context, id bson.ObjectID) (*model.Movie, error) {
	return s.mutate(byID(id), func(*model.Movie) {})
}

func (s *memMovieStore) Create(_ context.Context, in model.MovieInput) (bson.ObjectID, error) {
	m := s.add(model.Movie{Title: in.Title, Slug: in.Slug, Poster: in.Poster, BigPoster: in.BigPoster, VideoURL: in.VideoURL, Actors: in.Actors, Genres: in.Genres})
	return m.ID, nil
}

func (s *memMovieStore) Update(_ context.Context, id bson.ObjectID, in model.MovieInput) (*model.Movie, error) {
	return s.mutate(byID(id), func(m *model.Movie) {
		m.Title, m.Slug, m.Poster, m.BigPoster, m.VideoURL = in.Title, in.Slug, in.Poster, in.BigPoster, in.VideoURL
		m.Actors, m.Genres, m.Parameters = in.Actors, in.Genres, in.Parameters
	})
}

func (s *memMovieStore) ClaimAnnouncement(_ context.Context, id bson.ObjectID) (bool, error) {
	claimed := false
	_, err := s.mutate(byID(id), func(m *model.Movie) {
		if !m.IsSendTelegram {
			m.IsSendTelegram = true
			claimed = true
		}
	})
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return claimed, err
}

func (s *memMovieStore) ReleaseAnnouncement(_ context.Context, id bson.ObjectID) error {
	_, err := s.mutate(byID(id), func(m *model.Movie) { m.IsSendTelegram = false })
	return err
}

func (s *memMovieStore) Delete(_ context.Context, id bson.ObjectID) (*model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.movies {
		if m.ID == id {
			s.movies = append(s.movies[:i], s.movies[i+1:]...)
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

type sentMessage struct {
	text    string
	buttons []notify.Button
}

type fakeNotifier struct {
	mu       sync.Mutex
	photos   []string
	messages []sentMessage
	err      error
}

func (n *fakeNotifier) SendPhoto(_ context.Context, url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.photos = append(n.photos, url)
	return nil
}

func (n *fakeNotifier) SendMessage(_ context.Context, text string, buttons ...notify.Button) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, sentMessage{text: text, buttons: buttons})
	return nil
}

func (n *fakeNotifier) sends() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.CatalogEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev queue.CatalogEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}
