package config

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging installs the global logger at the configured level.
// UCI engines must keep stdout for the protocol, so w is normally stderr.
func (c *Config) SetupLogging(w io.Writer) zerolog.Logger {
	lvl := c.LogLevel()
	zerolog.SetGlobalLevel(lvl)
	logger := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}
