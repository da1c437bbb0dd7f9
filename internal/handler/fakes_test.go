package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/service"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

// do runs h against a request built from method, target and body. params are
// path parameter name/value pairs.
func do(h echo.HandlerFunc, method, target, body string, params ...string) *httptest.ResponseRecorder {
	e := echo.New()
	e.Validator = NewValidator()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

type stubGenres struct {
	genres  []model.Genre
	updated model.GenreInput
	err     error
}

func (s *stubGenres) ListAll(_ context.Context, term string) ([]model.Genre, error) {
	return s.genres, s.err
}

func (s *stubGenres) GetBySlug(_ context.Context, slug string) (*model.Genre, error) {
	for _, g := range s.genres {
		if g.Slug == slug {
			return &g, nil
		}
	}
	return nil, service.ErrNotFound
}

func (s *stubGenres) GetPopular(ctx context.Context) ([]model.Genre, error) {
	return s.ListAll(ctx, "")
}

func (s *stubGenres) GetCollections(context.Context) ([]model.Collection, error) {
	out := []model.Collection{}
	for _, g := range s.genres {
		out = append(out, model.Collection{ID: g.ID.Hex(), Title: g.Name, Slug: g.Slug})
	}
	return out, s.err
}

func (s *stubGenres) GetByID(_ context.Context, id bson.ObjectID) (*model.Genre, error) {
	for _, g := range s.genres {
		if g.ID == id {
			return &g, nil
		}
	}
	return nil, service.ErrNotFound
}

func (s *stubGenres) Create(context.Context) (bson.ObjectID, error) {
	return bson.NewObjectID(), s.err
}

func (s *stubGenres) Update(ctx context.Context, id bson.ObjectID, in model.GenreInput) (*model.Genre, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.updated = in
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Name, g.Slug = in.Name, in.Slug
	return g, nil
}

func (s *stubGenres) Delete(ctx context.Context, id bson.ObjectID) (*model.Genre, error) {
	return s.GetByID(ctx, id)
}

type stubMovies struct {
	movies     []model.Movie
	genreQuery []bson.ObjectID
	rating     float64
	opened     string
}

func (s *stubMovies) GetBySlug(_ context.Context, slug string) (*model.MovieDetail, error) {
	for _, m := range s.movies {
		if m.Slug == slug {
			return &model.MovieDetail{ID: m.ID, Title: m.Title, Slug: m.Slug}, nil
		}
	}
	return nil, service.ErrNotFound
}

func (s *stubMovies) GetByActor(context.Context, bson.ObjectID) ([]model.Movie, error) {
	return nil, service.ErrNotFound
}

func (s *stubMovies) ByGenres(_ context.Context, ids []bson.ObjectID) ([]model.Movie, error) {
	s.genreQuery = ids
	return s.movies, nil
}

func (s *stubMovies) ListAll(context.Context, string) ([]model.MovieDetail, error) {
	return []model.MovieDetail{}, nil
}

func (s *stubMovies) IncrementOpenCount(_ context.Context, slug string) (*model.Movie, error) {
	s.opened = slug
	for _, m := range s.movies {
		if m.Slug == slug {
			m.CountOpened++
			return &m, nil
		}
	}
	return nil, service.ErrNotFound
}

func (s *stubMovies) GetMostPopular(context.Context) ([]model.MovieDetail, error) {
	return []model.MovieDetail{}, nil
}

func (s *stubMovies) SetRating(ctx context.Context, id bson.ObjectID, rating float64) (*model.Movie, error) {
	s.rating = rating
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Rating = rating
	return m, nil
}

func (s *stubMovies) GetByID(_ context.Context, id bson.ObjectID) (*model.Movie, error) {
	for _, m := range s.movies {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, service.ErrNotFound
}

func (s *stubMovies) Create(context.Context) (bson.ObjectID, error) {
	return bson.NewObjectID(), nil
}

func (s *stubMovies) Update(ctx context.Context, id bson.ObjectID, _ model.MovieInput) (*model.Movie, error) {
	return s.GetByID(ctx, id)
}

func (s *stubMovies) Delete(ctx context.Context, id bson.ObjectID) (*model.Movie, error) {
	return s.GetByID(ctx, id)
}

type memUsers struct {
	mu    sync.Mutex
	users []model.User
}

func (m *memUsers) Create(_ context.Context, email, password, role string, _ int) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, 4)
	if err != nil {
		return 0, err
	}
	id := uint64(len(m.users) + 1)
	m.users = append(m.users, model.User{ID: id, Email: email, PasswordHash: hash, Role: role, IsActive: true})
	return id, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

type memTokens struct {
	mu      sync.Mutex
	owner   map[string]uint64
	revoked map[string]bool
}

func newMemTokens() *memTokens {
	return &memTokens{owner: map[string]uint64{}, revoked: map[string]bool{}}
}

func (m *memTokens) StoreRefresh(_ context.Context, userID uint64, hash string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owner[hash] = userID
	return nil
}

func (m *memTokens) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.owner[hash]
	if !ok || m.revoked[hash] {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

func (m *memTokens) RevokeByHash(_ context.Context, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.owner[hash]; !ok || m.revoked[hash] {
		return false, nil
	}
	m.revoked[hash] = true
	return true, nil
}
