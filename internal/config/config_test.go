package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "knowledge.json", cfg.KnowledgeFile)
	assert.Equal(t, 1, cfg.Bias)
	assert.Equal(t, 10000, cfg.Games)
	assert.Equal(t, "human", cfg.Cross)
	assert.Equal(t, "ai", cfg.Circle)
}

func TestOverlayPrecedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"MENACE_GAMES=500\nMENACE_BIAS=3\nMENACE_KNOWLEDGE=from-file.json\n",
	), 0o644))

	// Process environment wins over the file
	t.Setenv("MENACE_BIAS", "4")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Games)
	assert.Equal(t, 4, cfg.Bias)
	assert.Equal(t, "from-file.json", cfg.KnowledgeFile)

	// Flags win over both
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	cfg.BindFlags(fs)
	cfg.BindTrainFlags(fs)
	require.NoError(t, fs.Parse([]string{"-games", "7", "-workers", "2", "-runtime", "1m"}))
	assert.Equal(t, 7, cfg.Games)
	assert.Equal(t, time.Minute, cfg.Runtime)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 4, cfg.Bias)
	assert.Equal(t, "from-file.json", cfg.KnowledgeFile)
}

func TestLoadMissingEnvFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default().Games, cfg.Games)
}

func TestApplyEnvTypes(t *testing.T) {
	env := map[string]string{
		"MENACE_MOVE_DELAY": "250ms",
		"MENACE_RUNTIME":    "90s",
		"MENACE_PLAIN":      "true",
		"MENACE_X":          "ai",
		"MENACE_O":          " random ",
		"MENACE_LOG_LEVEL":  "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, 250*time.Millisecond, cfg.MoveDelay)
	assert.Equal(t, 90*time.Second, cfg.Runtime)
	assert.True(t, cfg.Plain)
	assert.Equal(t, "ai", cfg.Cross)
	assert.Equal(t, "random", cfg.Circle)
	assert.Equal(t, "info", cfg.LogLevel, "empty values are ignored")

	env["MENACE_GAMES"] = "many"
	assert.Error(t, cfg.ApplyEnv(lookup))
}

func TestValidate(t *testing.T) {
	broken := []func(*Config){
		func(c *Config) { c.KnowledgeFile = "" },
		func(c *Config) { c.Bias = 0 },
		func(c *Config) { c.Games = -1 },
		func(c *Config) { c.Workers = 0 },
		func(c *Config) { c.Opponent = "human" },
		func(c *Config) { c.Cross = "robot" },
		func(c *Config) { c.MoveDelay = -time.Second },
	}
	for i, breakIt := range broken {
		cfg := Default()
		breakIt(&cfg)
		assert.Error(t, cfg.Validate(), "case %d", i)
	}
}
