package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"driftline/game"
)

// LogConfig holds logging settings
type LogConfig struct {
	Level   string        `json:"level" mapstructure:"level"`
	File    string        `json:"file" mapstructure:"file"`
	Graylog GraylogConfig `json:"graylog" mapstructure:"graylog"`
}

// GraylogConfig holds the optional GELF sink
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// StatsConfig selects and configures the stats backend
type StatsConfig struct {
	Type     string         `json:"type" mapstructure:"type"`
	SQLite   SQLiteConfig   `json:"sqlite" mapstructure:"sqlite"`
	Postgres PostgresConfig `json:"postgres" mapstructure:"postgres"`
}

// SQLiteConfig holds the SQLite file path; empty keeps the database in memory
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// PostgresConfig holds Postgres connection settings
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// DSN returns the libpq connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		p.Host, p.Port, p.Username, p.Password, p.Database)
}

// InfluxConfig holds the run reporter settings
type InfluxConfig struct {
	Enabled       bool          `json:"enabled" mapstructure:"enabled"`
	URL           string        `json:"url" mapstructure:"url"`
	Token         string        `json:"token" mapstructure:"token"`
	Org           string        `json:"org" mapstructure:"org"`
	Bucket        string        `json:"bucket" mapstructure:"bucket"`
	FlushInterval time.Duration `json:"flushInterval" mapstructure:"flushInterval"`
}

// OtelConfig holds metric settings
type OtelConfig struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`
	ServiceName string `json:"serviceName" mapstructure:"serviceName"`
}

// AudioConfig holds cue settings
type AudioConfig struct {
	Enabled    bool `json:"enabled" mapstructure:"enabled"`
	SampleRate int  `json:"sampleRate" mapstructure:"sampleRate"`
}

// WindowConfig holds desktop frontend settings
type WindowConfig struct {
	Width   int     `json:"width" mapstructure:"width"`
	Height  int     `json:"height" mapstructure:"height"`
	Title   string  `json:"title" mapstructure:"title"`
	Skin    string  `json:"skin" mapstructure:"skin"`
	Scale   float64 `json:"scale" mapstructure:"scale"`
	Minimap bool    `json:"minimap" mapstructure:"minimap"`

	// ProfileStalls captures a CPU profile when frames start hitting the delta cap
	ProfileStalls bool   `json:"profileStalls" mapstructure:"profileStalls"`
	ProfilesDir   string `json:"profilesDir" mapstructure:"profilesDir"`
}

// AutopilotConfig selects the scripted steering source
type AutopilotConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Script  string `json:"script" mapstructure:"script"`
}

// Settings is the full application configuration
type Settings struct {
	Game      game.Config     `json:"game" mapstructure:"game"`
	Log       LogConfig       `json:"log" mapstructure:"log"`
	Stats     StatsConfig     `json:"stats" mapstructure:"stats"`
	Influx    InfluxConfig    `json:"influx" mapstructure:"influx"`
	Otel      OtelConfig      `json:"otel" mapstructure:"otel"`
	Audio     AudioConfig     `json:"audio" mapstructure:"audio"`
	Window    WindowConfig    `json:"window" mapstructure:"window"`
	Autopilot AutopilotConfig `json:"autopilot" mapstructure:"autopilot"`
}

// EnvPrefix is prepended to environment overrides, e.g. DRIFTLINE_GAME_SPEED
const EnvPrefix = "DRIFTLINE"

// SetDefaults registers the default value of every key
func SetDefaults() {
	d := game.DefaultConfig()
	viper.SetDefault("game.roadWidth", d.RoadWidth)
	viper.SetDefault("game.stride", d.Stride)
	viper.SetDefault("game.wallThickness", d.WallThickness)
	viper.SetDefault("game.wallPad", d.WallPad)
	viper.SetDefault("game.maxHeading", d.MaxHeading)
	viper.SetDefault("game.initialSegments", d.InitialSegments)
	viper.SetDefault("game.lookAhead", d.LookAhead)
	viper.SetDefault("game.trailingMargin", d.TrailingMargin)
	viper.SetDefault("game.vehicleWidth", d.VehicleWidth)
	viper.SetDefault("game.vehicleLength", d.VehicleLength)
	viper.SetDefault("game.speed", d.Speed)
	viper.SetDefault("game.steerRate", d.SteerRate)
	viper.SetDefault("game.maxDelta", d.MaxDelta)
	viper.SetDefault("game.slowMoDuration", d.SlowMoDuration)
	viper.SetDefault("game.slowMoFactor", d.SlowMoFactor)
	viper.SetDefault("game.coinDivisor", d.CoinDivisor)
	viper.SetDefault("game.seed", d.Seed)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")
	viper.SetDefault("log.graylog.enabled", false)
	viper.SetDefault("log.graylog.address", "localhost:12201")

	viper.SetDefault("stats.type", "sqlite")
	viper.SetDefault("stats.sqlite.path", "driftline.db")
	viper.SetDefault("stats.postgres.host", "localhost")
	viper.SetDefault("stats.postgres.port", "5432")
	viper.SetDefault("stats.postgres.username", "postgres")
	viper.SetDefault("stats.postgres.password", "postgres")
	viper.SetDefault("stats.postgres.database", "driftline")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.url", "http://localhost:8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "driftline")
	viper.SetDefault("influx.bucket", "runs")
	viper.SetDefault("influx.flushInterval", "1s")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "driftline")

	viper.SetDefault("audio.enabled", true)
	viper.SetDefault("audio.sampleRate", 44100)

	viper.SetDefault("window.width", 960)
	viper.SetDefault("window.height", 720)
	viper.SetDefault("window.title", "driftline")
	viper.SetDefault("window.skin", "sprite")
	viper.SetDefault("window.scale", 6.0)
	viper.SetDefault("window.minimap", true)
	viper.SetDefault("window.profileStalls", false)
	viper.SetDefault("window.profilesDir", "profiles")

	viper.SetDefault("autopilot.enabled", false)
	viper.SetDefault("autopilot.script", "")
}

// Load reads configuration from the file at path, if any, on top of the
// defaults and applies DRIFTLINE_* environment overrides
func Load(path string) (Settings, error) {
	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	return s, nil
}

// ConfigFileUsed returns the file the settings were read from
func ConfigFileUsed() string {
	return viper.ConfigFileUsed()
}
