package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/service"
)

// GenreService is what the genre endpoints need. *service.GenreService
// implements it.
type GenreService interface {
	ListAll(ctx context.Context, searchTerm string) ([]model.Genre, error)
	GetBySlug(ctx context.Context, slug string) (*model.Genre, error)
	GetPopular(ctx context.Context) ([]model.Genre, error)
	GetCollections(ctx context.Context) ([]model.Collection, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Genre, error)
	Create(ctx context.Context) (bson.ObjectID, error)
	Update(ctx context.Context, id bson.ObjectID, in model.GenreInput) (*model.Genre, error)
	Delete(ctx context.Context, id bson.ObjectID) (*model.Genre, error)
}

type GenreHandler struct {
	Genres GenreService
}

func NewGenreHandler(genres GenreService) *GenreHandler {
	return &GenreHandler{Genres: genres}
}

// List handles GET /v1/genres?searchTerm=.
func (h *GenreHandler) List(c echo.Context) error {
	items, err := h.Genres.ListAll(c.Request().Context(), c.QueryParam("searchTerm"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// BySlug handles GET /v1/genres/by-slug/:slug.
func (h *GenreHandler) BySlug(c echo.Context) error {
	g, err := h.Genres.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GenreHandler) Popular(c echo.Context) error {
	items, err := h.Genres.GetPopular(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *GenreHandler) Collections(c echo.Context) error {
	items, err := h.Genres.GetCollections(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/admin/genres/:id.
func (h *GenreHandler) Get(c echo.Context) error {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	g, err := h.Genres.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// Create inserts an empty genre and returns its id; the admin UI fills it in
// with a follow-up update.
func (h *GenreHandler) Create(c echo.Context) error {
	id, err := h.Genres.Create(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"_id": id.Hex()})
}

func (h *GenreHandler) Update(c echo.Context) error {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	var in model.GenreInput
	if ok, err := bindValid(c, &in); !ok {
		return err
	}
	g, err := h.Genres.Update(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GenreHandler) Delete(c echo.Context) error {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	g, err := h.Genres.Delete(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}
