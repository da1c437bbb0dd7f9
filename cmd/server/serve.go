package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/notify"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
	"github.com/iliyamo/movie-catalog/internal/service"
)

func makeServeCMD() cli.Command {
	return cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serves the HTTP API",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:   "port",
				Usage:  "http listen port",
				EnvVar: "APP_PORT",
			},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	cfg := config.Load()
	if p := c.String("port"); p != "" {
		cfg.Port = p
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := database.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	sqlDB, err := database.OpenMySQL(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
	if err != nil {
		return err
	}

	var events service.EventPublisher = queue.LogPublisher{}
	if cfg.EventsEnabled {
		pub := queue.NewPublisher(cfg.AMQPURL)
		defer pub.Close()
		events = pub
	}

	movies := service.NewMovieService(repository.NewMovieRepo(db), tg, events, service.Announcement{
		PhotoURL:  cfg.Telegram.PhotoURL,
		WatchURL:  cfg.Telegram.WatchURL,
		WatchText: cfg.Telegram.WatchText,
	})
	genres := service.NewGenreService(repository.NewGenreRepo(db), movies, events, cfg.CollectionPlaceholder)

	e := newEcho()
	router.Register(e, router.Deps{
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Ping: func(ctx context.Context) error {
			return mongoClient.Ping(ctx, readpref.Primary())
		},
		Auth:   handler.NewAuthHandler(cfg, repository.NewUserRepo(sqlDB), repository.NewTokenRepo(sqlDB)),
		Genres: handler.NewGenreHandler(genres),
		Movies: handler.NewMovieHandler(movies),
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.WithFields(log.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.RequestLogger())
	e.Use(echomw.Recover())
	return e
}
