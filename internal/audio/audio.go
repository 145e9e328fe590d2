// Package audio plays short cues when a run starts and when it ends.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"driftline/game"
	"driftline/internal/config"
)

type sink interface {
	Add(s ...beep.Streamer)
}

// Cues is a RunListener that mixes a tone into the speaker on each event
type Cues struct {
	mu  sync.Mutex
	sr  beep.SampleRate
	out sink
	log zerolog.Logger
}

var _ game.RunListener = (*Cues)(nil)

// New initializes the speaker and starts the mixer
func New(cfg config.AudioConfig, log zerolog.Logger) (*Cues, error) {
	sr := beep.SampleRate(cfg.SampleRate)
	if sr <= 0 {
		sr = 44100
	}

	if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}

	mixer := &beep.Mixer{}
	speaker.Play(mixer)
	return newCues(sr, mixer, log), nil
}

func newCues(sr beep.SampleRate, out sink, log zerolog.Logger) *Cues {
	return &Cues{sr: sr, out: out, log: log.With().Str("component", "audio").Logger()}
}

// RunStarted plays a rising two-note chirp
func (c *Cues) RunStarted(int) {
	c.play(c.startCue())
}

// Crashed plays a decaying noise burst
func (c *Cues) Crashed(game.CrashEvent) {
	c.play(c.crashCue())
}

func (c *Cues) play(s beep.Streamer) {
	if s == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	speaker.Lock()
	c.out.Add(s)
	speaker.Unlock()
}

func (c *Cues) startCue() beep.Streamer {
	low, err := generators.SineTone(c.sr, 440)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to build start cue")
		return nil
	}
	high, err := generators.SineTone(c.sr, 660)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to build start cue")
		return nil
	}

	n := c.sr.N(80 * time.Millisecond)
	return &effects.Gain{
		Streamer: beep.Seq(beep.Take(n, low), beep.Take(n, high)),
		Gain:     -0.8,
	}
}

func (c *Cues) crashCue() beep.Streamer {
	return beep.Take(c.sr.N(400*time.Millisecond), newCrashGenerator(c.sr))
}

// crashGenerator is low-passed noise under an exponential decay
type crashGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed uint32
	last float64
}

func newCrashGenerator(sr beep.SampleRate) *crashGenerator {
	return &crashGenerator{sr: sr, seed: 0x2545f491}
}

func (g *crashGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// xorshift keeps the burst identical from crash to crash
		g.seed ^= g.seed << 13
		g.seed ^= g.seed >> 17
		g.seed ^= g.seed << 5
		noise := float64(g.seed)/float64(math.MaxUint32)*2 - 1

		g.last += (noise - g.last) * 0.25
		sample := g.last * math.Exp(-t*9) * 0.35

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *crashGenerator) Err() error {
	return nil
}
