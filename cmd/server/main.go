package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/iliyamo/movie-catalog/internal/config"
)

func main() {
	app := cli.NewApp()
	app.Name = "movie-catalog"
	app.Usage = "Movie catalog API"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "env-file",
			Usage: "dotenv file loaded before reading configuration",
			Value: ".env",
		},
	}
	app.Before = func(c *cli.Context) error {
		config.LoadEnvFile(c.GlobalString("env-file"))
		configureLogging(os.Getenv("APP_ENV"))
		return nil
	}
	app.Commands = []cli.Command{
		makeServeCMD(),
		makeConsumeEventsCMD(),
		makeCreateAdminCMD(),
	}
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("failed to run app")
	}
}

func configureLogging(env string) {
	if env == "prod" {
		log.SetFormatter(&log.JSONFormatter{})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if env == "dev" || env == "" {
		log.SetLevel(log.DebugLevel)
	}
}
