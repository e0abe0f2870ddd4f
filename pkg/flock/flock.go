package flock

import (
	"iter"
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Flock owns a dense collection of agents and advances them frame by frame.
type Flock struct {
	agents []*Agent
	params *Params
	bounds *Bounds
	rng    *rand.Rand
	nextID int

	// reused between frames to avoid reallocating the snapshot
	snapshot []State
}

// New returns an empty flock. bounds is read on every update and may be
// changed by the caller between updates. A nil rng gets a random seed.
func New(params Params, bounds *Bounds, rng *rand.Rand) *Flock {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Flock{
		params: &params,
		bounds: bounds,
		rng:    rng,
	}
}

// NewScattered creates count agents at random positions inside bounds.
func NewScattered(params Params, bounds *Bounds, rng *rand.Rand, count int) *Flock {
	f := New(params, bounds, rng)
	f.Scatter(count)
	return f
}

// NewGathered creates count agents on origin with random headings.
func NewGathered(params Params, bounds *Bounds, rng *rand.Rand, origin geometry.Vector2D, count int) *Flock {
	f := New(params, bounds, rng)
	f.Gather(origin, count)
	return f
}

// Scatter appends count agents uniformly spread over the current bounds.
func (f *Flock) Scatter(count int) {
	for i := 0; i < count; i++ {
		x := f.rng.Float64() * f.bounds.Width
		y := f.rng.Float64() * f.bounds.Height
		f.add(x, y, f.randomHeading())
	}
}

// Gather appends count agents at origin, each with its own random heading.
func (f *Flock) Gather(origin geometry.Vector2D, count int) {
	for i := 0; i < count; i++ {
		f.add(origin.X, origin.Y, f.randomHeading())
	}
}

// Spawn appends one agent at (x, y) heading along +x and returns it so the
// caller can give it a launch force before the next update.
func (f *Flock) Spawn(x, y float64) *Agent {
	return f.add(x, y, 0)
}

func (f *Flock) add(x, y, angle float64) *Agent {
	a := NewAgent(f.nextID, x, y, angle, f.params)
	f.nextID++
	f.agents = append(f.agents, a)
	return a
}

func (f *Flock) randomHeading() float64 {
	return f.rng.Float64() * 2 * math.Pi
}

// Update advances every agent by one frame.
// All forces are computed against the same snapshot before any agent moves,
// so the result does not depend on the order of the agents.
func (f *Flock) Update(in Input) {
	snapshot := f.Snapshot()
	bounds := *f.bounds
	nudge := !in.Nudge.IsZero()

	for _, a := range f.agents {
		if nudge {
			a.ApplyForce(in.Nudge)
		}
		a.accumulate(snapshot, bounds, in.Threat)
	}
	for _, a := range f.agents {
		a.integrate()
	}
}

// Snapshot copies the state of every agent. The returned slice is reused by
// the next call.
func (f *Flock) Snapshot() []State {
	f.snapshot = f.snapshot[:0]
	for _, a := range f.agents {
		f.snapshot = append(f.snapshot, a.State())
	}
	return f.snapshot
}

// Draw hands every agent to r, in creation order.
func (f *Flock) Draw(r Renderer) {
	for _, a := range f.agents {
		r.DrawAgent(a)
	}
}

// All iterates over the agents in creation order.
func (f *Flock) All() iter.Seq[*Agent] {
	return func(yield func(*Agent) bool) {
		for _, a := range f.agents {
			if !yield(a) {
				return
			}
		}
	}
}

// Len is the number of agents.
func (f *Flock) Len() int { return len(f.agents) }

// At returns the i-th agent in creation order.
func (f *Flock) At(i int) *Agent { return f.agents[i] }

// Params returns a copy of the current tuning.
func (f *Flock) Params() Params { return *f.params }

// SetParams retunes every agent of the flock at once.
func (f *Flock) SetParams(p Params) { *f.params = p }

// Bounds returns the world size the flock currently confines to.
func (f *Flock) Bounds() Bounds { return *f.bounds }

// Clear drops every agent. Calling it on an empty flock does nothing.
// Ids keep increasing afterwards so they stay unique for the flock lifetime.
func (f *Flock) Clear() {
	clear(f.agents)
	f.agents = f.agents[:0]
	f.snapshot = f.snapshot[:0]
}
