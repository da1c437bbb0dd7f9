package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

func makeCreateAdminCMD() cli.Command {
	return cli.Command{
		Name:  "create-admin",
		Usage: "Creates an ADMIN account, or promotes an existing one",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "email", Usage: "account email"},
			cli.StringFlag{Name: "password", Usage: "password for a new account", EnvVar: "ADMIN_PASSWORD"},
		},
		Action: createAdmin,
	}
}

func createAdmin(c *cli.Context) error {
	email := c.String("email")
	if email == "" {
		return errors.New("--email is required")
	}
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.OpenMySQL(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()
	users := repository.NewUserRepo(db)

	password := c.String("password")
	if password == "" {
		return promote(ctx, users, email)
	}
	if len(password) < utils.MinPasswordLength {
		return errors.Errorf("--password must be at least %d characters", utils.MinPasswordLength)
	}
	id, err := users.Create(ctx, email, password, model.RoleAdmin, cfg.BcryptCost)
	if errors.Is(err, repository.ErrEmailExists) {
		return promote(ctx, users, email)
	}
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"email": email, "id": id}).Info("admin created")
	return nil
}

func promote(ctx context.Context, users *repository.UserRepo, email string) error {
	err := users.SetRole(ctx, email, model.RoleAdmin)
	if errors.Is(err, repository.ErrNotFound) {
		return errors.Errorf("no user %s; pass --password to create one", email)
	}
	if err != nil {
		return err
	}
	log.WithField("email", email).Info("user promoted to admin")
	return nil
}
