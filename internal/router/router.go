// Package router registers the catalog API routes on an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// Deps collects what the routes need. Redis may be nil, which disables the
// response cache and the rate limiter.
type Deps struct {
	JWTSecret string
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Ping      handler.PingFunc

	Auth   *handler.AuthHandler
	Genres *handler.GenreHandler
	Movies *handler.MovieHandler
}

// RegisterRoutes exposes the health check.
func RegisterRoutes(e *echo.Echo, ping handler.PingFunc) {
	e.GET("/healthz", handler.Health(ping))
}

// RegisterAuth registers the account endpoints. Register, login, refresh and
// logout live under /v1/auth; /v1/me requires an access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the catalog reads. They are rate limited and
// served from the response cache when Redis is available.
func RegisterPublic(e *echo.Echo, d Deps) {
	v1 := e.Group("/v1",
		middleware.NewTokenBucket(d.RateLimit, d.Redis),
		middleware.NewRedisCache(d.Cache, d.Redis),
	)

	g := v1.Group("/genres")
	g.GET("", d.Genres.List)
	g.GET("/by-slug/:slug", d.Genres.BySlug)
	g.GET("/popular", d.Genres.Popular)
	g.GET("/collections", d.Genres.Collections)

	m := v1.Group("/movies")
	m.GET("", d.Movies.List)
	m.GET("/by-slug/:slug", d.Movies.BySlug)
	m.GET("/by-actor/:actorId", d.Movies.ByActor)
	m.POST("/by-genres", d.Movies.ByGenres)
	m.GET("/most-popular", d.Movies.MostPopular)
	m.PUT("/update-count-opened", d.Movies.UpdateCountOpened)
}

// RegisterAdmin registers genre and movie editing for ADMIN users. Every
// successful write purges the response cache.
func RegisterAdmin(e *echo.Echo, d Deps) {
	admin := e.Group("/v1/admin",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleAdmin),
		middleware.PurgeCacheOnWrite(d.Cache, d.Redis),
	)

	g := admin.Group("/genres")
	g.POST("", d.Genres.Create)
	g.GET("/:id", d.Genres.Get)
	g.PUT("/:id", d.Genres.Update)
	g.DELETE("/:id", d.Genres.Delete)

	m := admin.Group("/movies")
	m.POST("", d.Movies.Create)
	m.GET("/:id", d.Movies.Get)
	m.PUT("/:id", d.Movies.Update)
	m.PUT("/:id/rating", d.Movies.SetRating)
	m.DELETE("/:id", d.Movies.Delete)
}

// Register wires every route group.
func Register(e *echo.Echo, d Deps) {
	RegisterRoutes(e, d.Ping)
	RegisterAuth(e, d.Auth, d.JWTSecret)
	RegisterPublic(e, d)
	RegisterAdmin(e, d)
}
