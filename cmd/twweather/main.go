package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/sirupsen/logrus"

	"github.com/lox/twweather/internal/api"
	"github.com/lox/twweather/internal/bot"
	"github.com/lox/twweather/internal/config"
	"github.com/lox/twweather/internal/cwa"
)

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Stdout, os.Exit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "twweather: %v\n", err)
		os.Exit(2)
	}

	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "twweather: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("exiting")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	line, err := messaging_api.NewMessagingApiAPI(cfg.ChannelAccessToken)
	if err != nil {
		return fmt.Errorf("line client: %w", err)
	}

	horizon := cfg.ForecastHorizon()
	client := cwa.NewClient(cfg.CWAOptions(logger.WithField("component", "cwa")))
	weather := bot.NewWeather(client, horizon, logger.WithField("component", "weather"))
	b := bot.New(bot.Options{
		ChannelSecret: cfg.ChannelSecret,
		Replier:       line,
		Weather:       weather,
		OpenRegions:   cfg.OpenRegions,
		Logger:        logger.WithField("component", "bot"),
	})
	server := api.NewServer(b, cfg.Port, logger.WithField("component", "api"))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.WithFields(logrus.Fields{
		"port":         cfg.Port,
		"horizon":      horizon.Name,
		"dataset":      horizon.Dataset,
		"open_regions": cfg.OpenRegions,
	}).Info("starting server")
	return server.Run(ctx)
}
