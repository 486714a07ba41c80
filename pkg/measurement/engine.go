package measurement

import (
	"io"
	"log/slog"
	"math"
)

// Engine computes and validates measurements. It holds only read-only
// configuration and may be shared by concurrent sessions.
type Engine struct {
	cfg     *Config
	logger  *slog.Logger
	factors map[string]float64
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for per-measurement failures
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine. A nil config selects DefaultConfig.
func New(cfg *Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	e := &Engine{
		cfg:     cfg,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		factors: make(map[string]float64, len(cfg.GeodesicFactors)),
	}
	for _, f := range cfg.GeodesicFactors {
		e.factors[pairKey(f.Start, f.End)] = f.Factor
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine configuration
func (e *Engine) Config() *Config {
	return e.cfg
}

// GeodesicFactor returns the calibration factor for an unordered landmark
// pair. ok is false when the pair is uncalibrated and the factor is 1.
func (e *Engine) GeodesicFactor(a, b string) (factor float64, ok bool) {
	if f, found := e.factors[pairKey(a, b)]; found {
		return f, true
	}
	return 1.0, false
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// roundTenth rounds half-up at 0.1 resolution. The nudge absorbs binary
// representation error so that 102.35 rounds up.
func roundTenth(v float64) float64 {
	return math.Floor(v*10+0.5+1e-9) / 10
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
