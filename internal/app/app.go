// Package app wires configuration, logging and the optional collaborators
// shared by the desktop and terminal frontends.
package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"driftline/game"
	"driftline/internal/audio"
	"driftline/internal/config"
	"driftline/internal/logging"
	"driftline/internal/script"
	"driftline/internal/stats"
	"driftline/internal/telemetry"
)

// Stack holds every collaborator built from the settings
type Stack struct {
	Settings config.Settings
	Log      zerolog.Logger

	Stats     stats.Store
	Listeners []game.RunListener
	Renderers []game.TrackRenderer

	// Autopilot is nil unless autopilot.enabled is set
	Autopilot *script.Autopilot

	closers []io.Closer
}

// Start loads the config at path, sets up logging with console as the
// console sink and builds the stack
func Start(path string, console io.Writer) (*Stack, error) {
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	opts := logging.Options{
		Level:   settings.Log.Level,
		File:    settings.Log.File,
		Console: console,
	}
	if settings.Log.Graylog.Enabled {
		opts.GraylogAddress = settings.Log.Graylog.Address
	}
	log, logCloser, err := logging.Setup(opts)
	if err != nil {
		return nil, err
	}

	s, err := Build(settings, log)
	if err != nil {
		logCloser.Close()
		return nil, err
	}
	s.closers = append([]io.Closer{logCloser}, s.closers...)

	if used := config.ConfigFileUsed(); used != "" {
		log.Info().Str("file", used).Msg("Config loaded")
	}
	return s, nil
}

// Build creates the collaborators. Optional sinks that fail to start are
// logged and skipped; a broken stats backend falls back to memory.
func Build(settings config.Settings, log zerolog.Logger) (*Stack, error) {
	s := &Stack{Settings: settings, Log: log}

	store, err := stats.New(settings.Stats, log)
	if err != nil {
		if errors.Is(err, stats.ErrUnknownBackend) {
			return nil, err
		}
		log.Error().Err(err).Str("backend", settings.Stats.Type).Msg("Failed to open stats, keeping them in memory")
		store = stats.NewMemory()
	}
	s.Stats = store
	s.closers = append(s.closers, store)

	if settings.Otel.Enabled {
		metrics, err := telemetry.NewMetrics(telemetry.Meter())
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("creating metrics: %w", err)
		}
		s.Listeners = append(s.Listeners, metrics)
		s.Renderers = append(s.Renderers, metrics)
	}

	if settings.Influx.Enabled {
		reporter, err := telemetry.NewReporter(settings.Influx, log)
		if err != nil {
			log.Warn().Err(err).Msg("InfluxDB reporter disabled")
		} else {
			s.Listeners = append(s.Listeners, reporter)
			s.closers = append(s.closers, reporter)
		}
	}

	if settings.Audio.Enabled {
		cues, err := audio.New(settings.Audio, log)
		if err != nil {
			// Non-fatal, the game runs without sound
			log.Warn().Err(err).Msg("Audio initialization failed")
		} else {
			s.Listeners = append(s.Listeners, cues)
		}
	}

	if settings.Autopilot.Enabled {
		ap, err := script.Load(settings.Autopilot.Script, log)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("loading autopilot: %w", err)
		}
		s.Autopilot = ap
		log.Info().Str("script", scriptName(settings.Autopilot.Script)).Msg("Autopilot enabled")
	}

	return s, nil
}

func scriptName(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}

// Collaborators returns the game collaborators, with extra listeners and
// renderers from the frontend appended
func (s *Stack) Collaborators(renderers []game.TrackRenderer, listeners []game.RunListener) game.Collaborators {
	return game.Collaborators{
		Renderers: append(append([]game.TrackRenderer{}, s.Renderers...), renderers...),
		Stats:     s.Stats,
		Listeners: append(append([]game.RunListener{}, s.Listeners...), listeners...),
		Logger:    s.Log,
	}
}

// Steering returns the autopilot when enabled and fallback otherwise
func (s *Stack) Steering(fallback game.SteeringSource) game.SteeringSource {
	if s.Autopilot != nil {
		return s.Autopilot
	}
	return fallback
}

// Totals reads the persisted totals, logging and zeroing on failure
func (s *Stack) Totals() stats.Totals {
	t, err := s.Stats.Totals()
	if err != nil {
		s.Log.Error().Err(err).Msg("Failed to read stats")
	}
	return t
}

// Close releases everything in reverse order of creation
func (s *Stack) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
