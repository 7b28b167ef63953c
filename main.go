package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/capybot/autoreact/autoreact"
	"github.com/capybot/autoreact/config"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("AUTOREACT_CONFIG"))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	client, err := autoreact.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create bot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot := autoreact.New(cfg, client, logger)
	if err := bot.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Bot error")
	}

	logger.Info().Msg("Bot stopped")
}
