package flock

import "github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"

// Bounds is the size of the world. It belongs to the driver, which may
// change it between two updates (window resize); the flock only reads it.
type Bounds struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Contains reports whether p lies inside [0, Width] x [0, Height].
func (b Bounds) Contains(p geometry.Vector2D) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

// Threat is an optional repulsion point. Its presence switches the agents
// into their threatened weighting for the frame.
type Threat struct {
	Point  geometry.Vector2D
	Active bool
}

// NoThreat is the calm mode.
var NoThreat = Threat{}

// ThreatAt returns an active threat located at p.
func ThreatAt(p geometry.Vector2D) Threat {
	return Threat{Point: p, Active: true}
}

// State is the read-only view of an agent used for neighbour scans.
type State struct {
	ID       int
	Position geometry.Vector2D
	Velocity geometry.Vector2D
}

// Input is what the driver feeds into a single Flock.Update.
type Input struct {
	Nudge  geometry.Vector2D // applied to every agent before steering, ignored when zero
	Threat Threat
}

// Renderer draws one agent. Implementations must not mutate it.
type Renderer interface {
	DrawAgent(a *Agent)
}
