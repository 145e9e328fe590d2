// Package telemetry reports run and track activity to OpenTelemetry and
// InfluxDB.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"driftline/game"
)

const instrumentationName = "driftline/internal/telemetry"

// Meter returns the meter from the global provider, a no-op unless one
// has been installed
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics counts runs and track churn. It is both a RunListener and a
// TrackRenderer so the game feeds it like any other collaborator.
type Metrics struct {
	runs     metric.Int64Counter
	crashes  metric.Int64Counter
	built    metric.Int64Counter
	disposed metric.Int64Counter
	resets   metric.Int64Counter
	distance metric.Float64Histogram
}

var (
	_ game.RunListener   = (*Metrics)(nil)
	_ game.TrackRenderer = (*Metrics)(nil)
)

// NewMetrics registers the instruments on m
func NewMetrics(m metric.Meter) (*Metrics, error) {
	var (
		x   Metrics
		err error
	)

	x.runs, err = m.Int64Counter(
		"driftline.runs.started",
		metric.WithDescription("Runs started"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	x.crashes, err = m.Int64Counter(
		"driftline.runs.crashed",
		metric.WithDescription("Runs ended by a crash"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating crashes counter: %w", err)
	}

	x.built, err = m.Int64Counter(
		"driftline.track.steps.built",
		metric.WithDescription("Track steps laid ahead of the vehicle"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating built counter: %w", err)
	}

	x.disposed, err = m.Int64Counter(
		"driftline.track.dispose.calls",
		metric.WithDescription("Trailing geometry disposal passes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating disposed counter: %w", err)
	}

	x.resets, err = m.Int64Counter(
		"driftline.track.resets",
		metric.WithDescription("Track rebuilds from the origin"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resets counter: %w", err)
	}

	x.distance, err = m.Float64Histogram(
		"driftline.run.distance",
		metric.WithDescription("Distance covered per run"),
		metric.WithUnit("m"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating distance histogram: %w", err)
	}

	return &x, nil
}

func (x *Metrics) RunStarted(int) {
	x.runs.Add(context.Background(), 1)
}

func (x *Metrics) Crashed(ev game.CrashEvent) {
	attrs := metric.WithAttributes(attribute.Bool("invalid", ev.Invalid))
	x.crashes.Add(context.Background(), 1, attrs)
	if !ev.Invalid {
		x.distance.Record(context.Background(), ev.Distance)
	}
}

func (x *Metrics) Reset() {
	x.resets.Add(context.Background(), 1)
}

func (x *Metrics) BuildStep(game.Step, game.WallPlacement, game.WallPlacement) {
	x.built.Add(context.Background(), 1)
}

func (x *Metrics) DisposeBehind(float64) {
	x.disposed.Add(context.Background(), 1)
}
