package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	errCooldown  = errors.New("capture on cooldown")
	errProfiling = errors.New("already profiling")
)

// Profiler captures a CPU profile and an execution trace when frames keep
// hitting the delta cap
type Profiler struct {
	mu          sync.Mutex
	isProfiling bool
	lastCapture time.Time

	profilesDir string
	cooldown    time.Duration
	duration    time.Duration

	// threshold clamped frames inside window start a capture
	threshold int
	window    time.Duration
	stalls    []time.Time
	lastCount int

	log     zerolog.Logger
	capture func(baseName string) // replaced in tests
}

// NewProfiler creates a profiler writing into dir
func NewProfiler(dir string, log zerolog.Logger) *Profiler {
	p := &Profiler{
		profilesDir: dir,
		cooldown:    10 * time.Second,
		duration:    5 * time.Second,
		threshold:   5,
		window:      2 * time.Second,
		log:         log.With().Str("component", "profiler").Logger(),
	}
	p.capture = p.captureAll
	return p
}

// Observe is called once per frame with the loop's clamped frame counter
func (p *Profiler) Observe(now time.Time, clamped int) {
	if clamped > p.lastCount {
		for i := p.lastCount; i < clamped; i++ {
			p.stalls = append(p.stalls, now)
		}
	}
	p.lastCount = clamped

	k := 0
	for _, t := range p.stalls {
		if now.Sub(t) <= p.window {
			p.stalls[k] = t
			k++
		}
	}
	p.stalls = p.stalls[:k]

	if len(p.stalls) < p.threshold {
		return
	}
	if err := p.CaptureProfile(now, "stall"); err != nil {
		p.log.Debug().Err(err).Msg("Skipped profile capture")
		return
	}
	p.stalls = p.stalls[:0]
}

// CaptureProfile starts a background capture unless one is running or the
// last one was too recent
func (p *Profiler) CaptureProfile(now time.Time, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.lastCapture.IsZero() && now.Sub(p.lastCapture) < p.cooldown {
		return fmt.Errorf("%w: last capture was %v ago", errCooldown, now.Sub(p.lastCapture))
	}
	if p.isProfiling {
		return errProfiling
	}

	p.isProfiling = true
	p.lastCapture = now
	baseName := fmt.Sprintf("%s-%s", reason, now.Format("20060102-150405"))

	go func() {
		defer func() {
			p.mu.Lock()
			p.isProfiling = false
			p.mu.Unlock()
		}()
		p.capture(baseName)
	}()
	return nil
}

// IsProfiling returns whether a capture is in progress
func (p *Profiler) IsProfiling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isProfiling
}

func (p *Profiler) captureAll(baseName string) {
	if err := os.MkdirAll(p.profilesDir, 0755); err != nil {
		p.log.Error().Err(err).Msg("Failed to create profiles dir")
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := p.captureCPUProfile(baseName); err != nil {
			p.log.Error().Err(err).Msg("Error capturing CPU profile")
		}
	}()
	go func() {
		defer wg.Done()
		if err := p.captureTrace(baseName); err != nil {
			p.log.Error().Err(err).Msg("Error capturing trace")
		}
	}()
	wg.Wait()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	p.log.Info().
		Str("profile", filepath.Join(p.profilesDir, baseName+".cpu.prof")).
		Uint64("allocKB", m.Alloc/1024).
		Uint64("sysKB", m.Sys/1024).
		Uint32("numGC", m.NumGC).
		Msg("Stall profile captured")
}

func (p *Profiler) captureCPUProfile(baseName string) error {
	path := filepath.Join(p.profilesDir, baseName+".cpu.prof")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create profile file: %w", err)
	}
	defer file.Close()

	if err := pprof.StartCPUProfile(file); err != nil {
		return fmt.Errorf("failed to start CPU profile: %w", err)
	}
	time.Sleep(p.duration)
	pprof.StopCPUProfile()
	return nil
}

func (p *Profiler) captureTrace(baseName string) error {
	path := filepath.Join(p.profilesDir, baseName+".trace")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	defer file.Close()

	if err := trace.Start(file); err != nil {
		return fmt.Errorf("failed to start trace: %w", err)
	}
	time.Sleep(p.duration)
	trace.Stop()
	return nil
}
