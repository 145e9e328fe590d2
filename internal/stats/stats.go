// Package stats persists run totals and run history.
package stats

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"driftline/game"
	"driftline/internal/config"
)

// ErrUnknownBackend is returned by New for an unsupported stats.type
var ErrUnknownBackend = errors.New("unknown stats backend")

// Totals are the scalar values kept across runs
type Totals struct {
	BestTime  float64 `json:"bestTime"`
	BestScore int     `json:"bestScore"`
	Crashes   int     `json:"crashes"`
	Attempts  int     `json:"attempts"`
	Coins     int     `json:"coins"`
}

// apply folds a crash into the totals. Forced crashes from a broken vehicle
// pose count as crashes but never set a best or pay coins.
func (t *Totals) apply(ev game.CrashEvent) {
	t.Crashes++
	if ev.Invalid {
		return
	}
	t.Coins += ev.Coins
	if ev.Elapsed > t.BestTime {
		t.BestTime = ev.Elapsed
	}
	if ev.Score > t.BestScore {
		t.BestScore = ev.Score
	}
}

// Store is the persistence collaborator of the run state machine
type Store interface {
	game.StatsRecorder

	// Totals returns the accumulated totals
	Totals() (Totals, error)

	// History returns up to limit crashes, most recent first
	History(limit int) ([]RunRecord, error)

	Close() error
}

// New creates the store selected by cfg.Type
func New(cfg config.StatsConfig, log zerolog.Logger) (Store, error) {
	log = log.With().Str("component", "stats").Str("backend", cfg.Type).Logger()

	switch cfg.Type {
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		return NewSQLite(cfg.SQLite.Path, log)
	case "postgres":
		return NewPostgres(cfg.Postgres.DSN(), log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Type)
	}
}
