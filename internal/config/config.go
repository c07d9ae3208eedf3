// Package config loads chessmind settings from flags, environment variables
// (prefix CHESSMIND_) and an optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hailam/chessmind/internal/engine"
)

// Keys.
const (
	KeyConfigFile          = "config"
	KeyLogLevel            = "log-level"
	KeyCPUProfile          = "cpuprofile"
	KeyMaxDepth            = "max-depth"
	KeyReducedDepth        = "reduced-depth"
	KeyDepthReductionRatio = "depth-reduction-ratio"
	KeyPruning             = "pruning"
	KeyTimePressure        = "time-pressure"
	KeyMovesToGo           = "moves-to-go"
	KeyWeightsFile         = "weights-file"
	KeyDBDir               = "db-dir"
	KeySelfPlayGames       = "selfplay-games"
	KeySelfPlayWorkers     = "selfplay-workers"
	KeySelfPlayRandomPlies = "selfplay-random-plies"
	KeySelfPlayGameTime    = "selfplay-game-time"
	KeySelfPlayIncrement   = "selfplay-increment"
	KeySelfPlayMaxPlies    = "selfplay-max-plies"
)

type Config struct {
	viper.Viper
}

// Load reads args, the environment and the config file named by --config, in
// that order of precedence.
func (c *Config) Load(name string, args []string) error {
	c.Viper = *viper.New()

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	def := engine.DefaultOptions()

	fs.String(KeyConfigFile, "", "path to a config file (yaml, toml or json)")
	fs.String(KeyLogLevel, "info", "log level: trace, debug, info, warn, error")
	fs.String(KeyCPUProfile, "", "write a cpu profile into this directory")
	fs.Int(KeyMaxDepth, def.MaxDepth, "maximum search depth")
	fs.Int(KeyReducedDepth, def.ReducedDepth, "search depth when the clock runs low")
	fs.Float64(KeyDepthReductionRatio, def.DepthReductionRatio, "remaining/start time ratio below which the reduced depth is used")
	fs.Bool(KeyPruning, def.Pruning, "use alpha-beta pruning")
	fs.Bool(KeyTimePressure, def.TimePressure, "scale root scores by remaining/elapsed time")
	fs.Int(KeyMovesToGo, def.MovesToGo, "moves the remaining time is split across")
	fs.String(KeyWeightsFile, "", "yaml evaluation weight profile")
	fs.String(KeyDBDir, "", "game database directory (default: user data dir)")
	fs.Int(KeySelfPlayGames, 10, "self-play games to run")
	fs.Int(KeySelfPlayWorkers, 4, "self-play games run at once")
	fs.Int(KeySelfPlayRandomPlies, 4, "random opening plies per self-play game")
	fs.Duration(KeySelfPlayGameTime, time.Minute, "self-play clock per side")
	fs.Duration(KeySelfPlayIncrement, 0, "self-play increment per move")
	fs.Int(KeySelfPlayMaxPlies, 300, "self-play games are drawn after this many plies")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("chessmind")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if file := c.GetString(KeyConfigFile); file != "" {
		c.SetConfigFile(file)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", file, err)
		}
	}
	return nil
}

// LogLevel returns the configured zerolog level.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.GetString(KeyLogLevel))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// EngineOptions builds engine options, loading the weight profile if one is set.
func (c *Config) EngineOptions() (engine.Options, error) {
	opts := engine.DefaultOptions()
	opts.MaxDepth = c.GetInt(KeyMaxDepth)
	opts.ReducedDepth = c.GetInt(KeyReducedDepth)
	opts.DepthReductionRatio = c.GetFloat64(KeyDepthReductionRatio)
	opts.Pruning = c.GetBool(KeyPruning)
	opts.TimePressure = c.GetBool(KeyTimePressure)
	opts.MovesToGo = c.GetInt(KeyMovesToGo)

	if opts.MaxDepth < 1 {
		return opts, errors.New("max-depth must be at least 1")
	}
	if path := c.GetString(KeyWeightsFile); path != "" {
		w, err := engine.LoadWeights(path)
		if err != nil {
			return opts, err
		}
		opts.Weights = w
	}
	return opts, nil
}
