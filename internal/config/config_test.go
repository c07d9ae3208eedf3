package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessmind/internal/engine"
)

func TestDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Load("test", nil))

	opts, err := cfg.EngineOptions()
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultOptions(), opts)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel())
	assert.Equal(t, time.Minute, cfg.GetDuration(KeySelfPlayGameTime))
}

func TestFlagsOverrideDefaults(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Load("test", []string{"--max-depth=4", "--pruning=false", "--log-level=debug"}))

	opts, err := cfg.EngineOptions()
	require.NoError(t, err)
	assert.Equal(t, 4, opts.MaxDepth)
	assert.False(t, opts.Pruning)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())
}

func TestEnvironment(t *testing.T) {
	t.Setenv("CHESSMIND_REDUCED_DEPTH", "1")
	t.Setenv("CHESSMIND_TIME_PRESSURE", "true")

	var cfg Config
	require.NoError(t, cfg.Load("test", nil))

	opts, err := cfg.EngineOptions()
	require.NoError(t, err)
	assert.Equal(t, 1, opts.ReducedDepth)
	assert.True(t, opts.TimePressure)
}

func TestConfigFileAndWeights(t *testing.T) {
	dir := t.TempDir()
	weights := filepath.Join(dir, "weights.yaml")
	require.NoError(t, os.WriteFile(weights, []byte("mobility: 9\n"), 0o644))

	file := filepath.Join(dir, "chessmind.yaml")
	body := "moves-to-go: 40\nweights-file: " + weights + "\n"
	require.NoError(t, os.WriteFile(file, []byte(body), 0o644))

	var cfg Config
	require.NoError(t, cfg.Load("test", []string{"--config", file}))

	opts, err := cfg.EngineOptions()
	require.NoError(t, err)
	assert.Equal(t, 40, opts.MovesToGo)
	assert.Equal(t, 9.0, opts.Weights.Mobility)
	assert.Equal(t, engine.DefaultWeights().Material, opts.Weights.Material)
}

func TestInvalidValues(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Load("test", []string{"--max-depth=0"}))
	_, err := cfg.EngineOptions()
	assert.Error(t, err)

	assert.Error(t, cfg.Load("test", []string{"--no-such-flag"}))

	require.NoError(t, cfg.Load("test", []string{"--log-level=loud"}))
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel())
}
