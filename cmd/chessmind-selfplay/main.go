package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/hailam/chessmind/internal/config"
	"github.com/hailam/chessmind/internal/selfplay"
	"github.com/hailam/chessmind/internal/storage"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load("chessmind-selfplay", os.Args[1:]); err != nil {
		panic(err)
	}

	logger := cfg.SetupLogging(zerolog.ConsoleWriter{Out: os.Stderr})
	if dir := cfg.GetString(config.KeyCPUProfile); dir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet).Stop()
	}

	engineOpts, err := cfg.EngineOptions()
	if err != nil {
		logger.Fatal().Err(err).Msg("bad engine options")
	}

	db, err := storage.Open(cfg.GetString(config.KeyDBDir))
	if err != nil {
		logger.Fatal().Err(err).Msg("opening game database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := selfplay.NewRunner(selfplay.Options{
		Games:       cfg.GetInt(config.KeySelfPlayGames),
		Workers:     cfg.GetInt(config.KeySelfPlayWorkers),
		RandomPlies: cfg.GetInt(config.KeySelfPlayRandomPlies),
		MaxPlies:    cfg.GetInt(config.KeySelfPlayMaxPlies),
		GameTime:    cfg.GetDuration(config.KeySelfPlayGameTime),
		Increment:   cfg.GetDuration(config.KeySelfPlayIncrement),
		Engine:      engineOpts,
	}, db)

	_, summary, err := runner.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("self-play stopped")
		return
	}
	logger.Info().Str("summary", summary.String()).Msg("self-play finished")

	stats, err := db.LoadStats()
	if err != nil {
		logger.Error().Err(err).Msg("loading stats")
		return
	}
	logger.Info().
		Int("games", stats.Games).
		Float64("white_score", stats.WhiteScore()).
		Int("longest", stats.LongestGame).
		Msg("all recorded games")
}
