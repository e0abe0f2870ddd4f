package simulation

import (
	"log/slog"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/telemetry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Frame is the input polled by the driver for one tick.
type Frame struct {
	Cursor  geometry.Vector2D
	Nudge   geometry.Vector2D
	Repel   bool // the cursor is a threat this frame
	Press   bool // a spawn drag starts at the cursor
	Release bool // the spawn drag ends at the cursor
}

// StatsSink receives telemetry samples.
type StatsSink interface {
	Write(stats telemetry.FrameStats) error
}

// Session owns the world bounds and the flock, and turns driver input into flock operations.
type Session struct {
	cfg    *Config
	bounds *flock.Bounds
	flock  *flock.Flock
	logger *slog.Logger
	sink   StatsSink
	frames int

	spawnPending bool
	spawnOrigin  geometry.Vector2D
}

type Option func(*Session)

// WithLogger sets the session logger (slog.Default otherwise).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithTelemetry samples flock statistics into sink every cfg.TelemetryEvery frames.
func WithTelemetry(sink StatsSink) Option {
	return func(s *Session) { s.sink = sink }
}

// NewSession scatters cfg.InitialAgents agents over the configured world.
// rng may be nil for a random seed.
func NewSession(cfg *Config, rng *rand.Rand, opts ...Option) *Session {
	bounds := cfg.Bounds()
	s := &Session{
		cfg:    cfg,
		bounds: &bounds,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.flock = flock.NewScattered(cfg.Params(), s.bounds, rng, cfg.InitialAgents)
	s.logger.Info("flock created",
		"agents", s.flock.Len(),
		"width", bounds.Width,
		"height", bounds.Height)
	return s
}

// Step runs one frame: spawn gesture, then the flock update, then telemetry.
func (s *Session) Step(in Frame) {
	if in.Press {
		s.spawnOrigin = in.Cursor
		s.spawnPending = true
	}
	if in.Release && s.spawnPending {
		a := s.flock.Spawn(s.spawnOrigin.X, s.spawnOrigin.Y)
		a.ApplyForce(in.Cursor.Sub(s.spawnOrigin))
		s.spawnPending = false
		s.logger.Debug("agent spawned",
			"id", a.ID(),
			"origin", s.spawnOrigin.String(),
			"release", in.Cursor.String())
	}

	threat := flock.NoThreat
	if in.Repel {
		threat = flock.ThreatAt(in.Cursor)
	}
	s.flock.Update(flock.Input{Nudge: in.Nudge, Threat: threat})
	s.frames++

	s.sample(threat.Active)
}

func (s *Session) sample(threatened bool) {
	if s.sink == nil || s.cfg.TelemetryEvery <= 0 || s.frames%s.cfg.TelemetryEvery != 0 {
		return
	}
	stats := telemetry.Compute(s.frames, s.flock.Snapshot(), *s.bounds, threatened)
	if err := s.sink.Write(stats); err != nil {
		s.logger.Error("telemetry disabled", "error", err)
		s.sink = nil
	}
}

// Resize changes the world bounds; the flock sees them on the next Step.
// Non-positive sizes (minimised window) are ignored.
func (s *Session) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == s.bounds.Width && height == s.bounds.Height {
		return
	}
	s.bounds.Width, s.bounds.Height = width, height
	s.logger.Info("world resized", "width", width, "height", height)
}

// Reset replaces the flock by a fresh scatter of cfg.InitialAgents agents.
func (s *Session) Reset() {
	s.flock.Clear()
	s.flock.Scatter(s.cfg.InitialAgents)
	s.spawnPending = false
	s.logger.Info("flock reset", "agents", s.flock.Len())
}

// Tune swaps the flock physics; used by the live tuning panel.
func (s *Session) Tune(p flock.Params) {
	s.flock.SetParams(p)
}

// PendingSpawn returns the origin of an unfinished spawn drag.
func (s *Session) PendingSpawn() (geometry.Vector2D, bool) {
	return s.spawnOrigin, s.spawnPending
}

func (s *Session) Flock() *flock.Flock { return s.flock }

func (s *Session) Bounds() flock.Bounds { return *s.bounds }

func (s *Session) Frames() int { return s.frames }

func (s *Session) Config() *Config { return s.cfg }

// NudgeFromKeys turns held arrow keys into a push of the given force per axis.
func NudgeFromKeys(left, right, up, down bool, force float64) geometry.Vector2D {
	var v geometry.Vector2D
	if right {
		v.X += force
	}
	if left {
		v.X -= force
	}
	if down {
		v.Y += force
	}
	if up {
		v.Y -= force
	}
	return v
}
