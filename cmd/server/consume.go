package main

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/queue"
)

func makeConsumeEventsCMD() cli.Command {
	return cli.Command{
		Name:    "consume-events",
		Aliases: []string{"ce"},
		Usage:   "Appends catalog events to a log file",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:   "log-dir",
				Usage:  "directory of catalog.log",
				Value:  "logs",
				EnvVar: "CATALOG_LOG_DIR",
			},
		},
		Action: consumeEvents,
	}
}

func consumeEvents(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := &queue.Consumer{URL: config.AMQPURL(), LogDir: c.String("log-dir")}
	log.WithField("queue", queue.CatalogQueue).Info("consuming catalog events")
	return consumer.Run(ctx)
}
