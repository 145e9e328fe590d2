package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"driftline/game"
	"driftline/internal/config"
)

// ErrInfluxUnavailable is returned when the server does not answer a ping
var ErrInfluxUnavailable = errors.New("influxdb not reachable")

type pointWriter interface {
	WritePoint(point *influxdb2_write.Point)
}

// Reporter writes one point per run start and crash to InfluxDB
type Reporter struct {
	w      pointWriter
	api    influxdb2_api.WriteAPI
	client influxdb2.Client
	log    zerolog.Logger
	now    func() time.Time
}

var _ game.RunListener = (*Reporter)(nil)

// NewReporter connects to InfluxDB and prepares a non-blocking writer
func NewReporter(cfg config.InfluxConfig, log zerolog.Logger) (*Reporter, error) {
	log = log.With().Str("component", "influx").Logger()

	flush := cfg.FlushInterval
	if flush <= 0 {
		flush = time.Second
	}

	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(100).
			SetFlushInterval(uint(flush.Milliseconds())),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	running, err := client.Ping(ctx)
	if err != nil || !running {
		client.Close()
		if err == nil {
			err = ErrInfluxUnavailable
		}
		return nil, fmt.Errorf("connecting to influx at %s: %w", cfg.URL, err)
	}

	api := client.WriteAPI(cfg.Org, cfg.Bucket)
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			log.Error().Err(writeErr).Str("bucket", cfg.Bucket).
				Msg("Error sending data to InfluxDB")
		}
	}(api.Errors())

	log.Info().Str("url", cfg.URL).Str("bucket", cfg.Bucket).Msg("InfluxDB reporter initialized")

	r := newReporter(api, log)
	r.api = api
	r.client = client
	return r, nil
}

func newReporter(w pointWriter, log zerolog.Logger) *Reporter {
	return &Reporter{w: w, log: log, now: time.Now}
}

func (r *Reporter) RunStarted(run int) {
	p := influxdb2.NewPointWithMeasurement("run_started").
		AddField("run", run).
		SetTime(r.now())
	r.w.WritePoint(p)
}

func (r *Reporter) Crashed(ev game.CrashEvent) {
	p := influxdb2.NewPointWithMeasurement("run_crashed").
		AddTag("invalid", fmt.Sprint(ev.Invalid)).
		AddField("run", ev.Run).
		AddField("elapsed", ev.Elapsed).
		AddField("distance", ev.Distance).
		AddField("score", ev.Score).
		AddField("coins", ev.Coins).
		AddField("segments", ev.Segments).
		SetTime(r.now())
	r.w.WritePoint(p)
}

// Close flushes pending points and closes the client
func (r *Reporter) Close() error {
	if r.client == nil {
		return nil
	}
	r.api.Flush()
	r.client.Close()
	r.log.Debug().Msg("InfluxDB reporter closed")
	return nil
}
