package main

import (
	"os"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/hailam/chessmind/internal/config"
	"github.com/hailam/chessmind/internal/uci"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load("chessmind-uci", os.Args[1:]); err != nil {
		panic(err)
	}

	logger := cfg.SetupLogging(zerolog.ConsoleWriter{Out: os.Stderr})
	if dir := cfg.GetString(config.KeyCPUProfile); dir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.Quiet).Stop()
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		logger.Fatal().Err(err).Msg("bad engine options")
	}
	logger.Debug().Interface("options", opts).Msg("engine options")

	if err := uci.New(opts, os.Stdout).Run(os.Stdin); err != nil {
		logger.Error().Err(err).Msg("reading commands")
	}
	logger.Info().Msg("bye")
}
