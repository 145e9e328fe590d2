package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftline/game"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, game.DefaultConfig(), s.Game)
	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, false, s.Log.Graylog.Enabled)
	assert.Equal(t, "localhost:12201", s.Log.Graylog.Address)
	assert.Equal(t, "sqlite", s.Stats.Type)
	assert.Equal(t, "driftline.db", s.Stats.SQLite.Path)
	assert.Equal(t, "5432", s.Stats.Postgres.Port)
	assert.Equal(t, false, s.Influx.Enabled)
	assert.Equal(t, time.Second, s.Influx.FlushInterval)
	assert.Equal(t, "driftline", s.Otel.ServiceName)
	assert.Equal(t, true, s.Audio.Enabled)
	assert.Equal(t, 960, s.Window.Width)
	assert.Equal(t, "sprite", s.Window.Skin)
	assert.Equal(t, false, s.Autopilot.Enabled)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"game": { "roadWidth": 24, "seed": 99 },
		"log": { "level": "debug" },
		"stats": { "type": "memory" },
		"influx": { "flushInterval": "250ms" }
	}`
	path := filepath.Join(dir, "driftline.json")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 24.0, s.Game.RoadWidth)
	assert.Equal(t, int64(99), s.Game.Seed)
	assert.Equal(t, game.DefaultConfig().Stride, s.Game.Stride)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "memory", s.Stats.Type)
	assert.Equal(t, 250*time.Millisecond, s.Influx.FlushInterval)
	assert.Equal(t, path, ConfigFileUsed())
}

func TestLoad_YAMLConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "driftline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  skin: box\nautopilot:\n  enabled: true\n"), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "box", s.Window.Skin)
	assert.True(t, s.Autopilot.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("DRIFTLINE_GAME_SPEED", "45")
	t.Setenv("DRIFTLINE_STATS_TYPE", "postgres")

	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 45.0, s.Game.Speed)
	assert.Equal(t, "postgres", s.Stats.Type)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := Load("/nonexistent/path/driftline.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestPostgresConfig_DSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: "5433", Username: "u", Password: "p", Database: "d"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=d sslmode=disable", p.DSN())
}
