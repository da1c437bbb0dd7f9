package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// MovieService is what the movie endpoints need. *service.MovieService
// implements it.
type MovieService interface {
	GetBySlug(ctx context.Context, slug string) (*model.MovieDetail, error)
	GetByActor(ctx context.Context, actorID bson.ObjectID) ([]model.Movie, error)
	ByGenres(ctx context.Context, genreIDs []bson.ObjectID) ([]model.Movie, error)
	ListAll(ctx context.Context, searchTerm string) ([]model.MovieDetail, error)
	IncrementOpenCount(ctx context.Context, slug string) (*model.Movie, error)
	GetMostPopular(ctx context.Context) ([]model.MovieDetail, error)
	SetRating(ctx context.Context, id bson.ObjectID, rating float64) (*model.Movie, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Movie, error)
	Create(ctx context.Context) (bson.ObjectID, error)
	Update(ctx context.Context, id bson.ObjectID, in model.MovieInput) (*model.Movie, error)
	Delete(ctx context.Context, id bson.ObjectID) (*model.Movie, error)
}

type MovieHandler struct {
	Movies MovieService
}

func NewMovieHandler(movies MovieService) *MovieHandler {
	return &MovieHandler{Movies: movies}
}

type byGenresReq struct {
	GenreIDs []string `json:"genreIds" validate:"required,min=1"`
}

type countOpenedReq struct {
	Slug string `json:"slug" validate:"required"`
}

type ratingReq struct {
	Rating *float64 `json:"rating" validate:"required,gte=0,lte=10"`
}

// List handles GET /v1/movies?searchTerm=.
func (h *MovieHandler) List(c echo.Context) error {
	items, err := h.Movies.ListAll(c.Request().Context(), c.QueryParam("searchTerm"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MovieHandler) BySlug(c echo.Context) error {
	m, err := h.Movies.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// ByActor handles GET /v1/movies/by-actor/:actorId. An actor without movies
// is a 404.
func (h *MovieHandler) ByActor(c echo.Context) error {
	id, err := service.ParseID(c.Param("actorId"))
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.Movies.GetByActor(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// ByGenres handles POST /v1/movies/by-genres with {"genreIds": [...]}.
func (h *MovieHandler) ByGenres(c echo.Context) error {
	var req byGenresReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ids, err := service.ParseIDs(req.GenreIDs)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.Movies.ByGenres(c.Request().Context(), ids)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MovieHandler) MostPopular(c echo.Context) error {
	items, err := h.Movies.GetMostPopular(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// UpdateCountOpened handles PUT /v1/movies/update-count-opened.
func (h *MovieHandler) UpdateCountOpened(c echo.Context) error {
	var req countOpenedReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	m, err := h.Movies.IncrementOpenCount(c.Request().Context(), req.Slug)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MovieHandler) Get(c echo.Context) error {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MovieHandler) Create(c echo.Context) error {
	id, err := h.Movies.Create(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"_id": id.Hex()})
}

// Update applies an admin edit. The first update of a movie also announces
// it; a failed announcement surfaces as a 500.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	var in model.MovieInput
	if ok, err := bindValid(c, &in); !ok {
		return err
	}
	m, err := h.Movies.Update(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MovieHandler) SetRating(c echo.Context) error {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	var req ratingReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	m, err := h.Movies.SetRating(c.Request().Context(), id, *req.Rating)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	m, err := h.Movies.Delete(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}
