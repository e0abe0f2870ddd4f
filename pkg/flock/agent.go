package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Agent is one boid. Its id only serves to skip itself during neighbour scans.
type Agent struct {
	id           int
	position     geometry.Vector2D
	velocity     geometry.Vector2D
	acceleration geometry.Vector2D
	params       *Params
}

// NewAgent creates an agent at (x, y) heading at angle radians, moving at
// params.MaxSpeed. The params pointer is shared with the owning flock.
func NewAgent(id int, x, y, angle float64, params *Params) *Agent {
	return &Agent{
		id:       id,
		position: geometry.Vector2D{X: x, Y: y},
		velocity: geometry.NewVectorPolar(1, angle).Mul(params.MaxSpeed),
		params:   params,
	}
}

func (a *Agent) ID() int { return a.id }

func (a *Agent) Position() geometry.Vector2D { return a.position }

func (a *Agent) SetPosition(p geometry.Vector2D) { a.position = p }

func (a *Agent) Velocity() geometry.Vector2D { return a.velocity }

func (a *Agent) Acceleration() geometry.Vector2D { return a.acceleration }

// State returns a copy of the kinematic state for neighbour scans.
func (a *Agent) State() State {
	return State{ID: a.id, Position: a.position, Velocity: a.velocity}
}

// ApplyForce adds force to the acceleration consumed by the next update,
// e.g. a keyboard nudge or the launch force of a freshly spawned agent.
func (a *Agent) ApplyForce(force geometry.Vector2D) {
	a.acceleration = a.acceleration.Add(force)
}

// Heading is the sprite rotation in degrees: the velocity angle plus 90,
// since sprites are drawn pointing up.
func (a *Agent) Heading() float64 {
	return a.velocity.Angle()*180/math.Pi + 90
}

// Update steers the agent against neighbors, then moves it one step.
// neighbors may include the agent itself; it is skipped by id.
func (a *Agent) Update(neighbors []State, bounds Bounds, threat Threat) {
	a.accumulate(neighbors, bounds, threat)
	a.integrate()
}

// accumulate adds the weighted steering forces to the acceleration.
// It only reads neighbors, so all agents of a frame can run it on one snapshot.
func (a *Agent) accumulate(neighbors []State, bounds Bounds, threat Threat) {
	w := a.params.weights(threat.Active)

	avoid := a.avoid(neighbors).Mul(w.Avoid)
	align := a.align(neighbors).Mul(w.Align)
	cohere := a.cohere(neighbors).Mul(w.Cohere)
	confine := a.confine(bounds).Mul(w.Confine)

	if !threat.Active {
		a.ApplyForce(avoid.Add(align).Add(cohere).Add(confine))
		return
	}

	evade := a.seek(threat.Point).Mul(w.Evade)
	flocking := avoid.Add(align).Add(cohere).Add(evade)
	a.ApplyForce(flocking.Add(confine))
	if a.params.DoubleThreatForces {
		a.ApplyForce(flocking)
	}
}

// integrate applies the acceleration, keeps the speed at MaxSpeed and moves.
func (a *Agent) integrate() {
	next := a.velocity.Add(a.acceleration)
	if next.IsZero() {
		// forces cancelled the motion exactly: keep the previous heading
		next = a.velocity
	}
	a.velocity = next.WithLength(a.params.MaxSpeed)
	a.position = a.position.Add(a.velocity)
	a.acceleration = geometry.Zero
}

// avoid pushes away from every neighbour within DesiredSeparation, closer ones harder.
func (a *Agent) avoid(neighbors []State) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0

	for _, other := range neighbors {
		if other.ID == a.id {
			continue
		}
		away := a.position.Sub(other.Position)
		distance := away.Len()
		// coincident agents have no direction to flee along
		if distance > a.params.DesiredSeparation || distance < geometry.Epsilon {
			continue
		}
		sum = sum.Add(away.Normalize().Mul(1 / distance))
		count++
	}

	mean, ok := sum.Div(float64(count))
	if !ok {
		return geometry.Zero
	}
	return a.steerToward(mean)
}

// align steers toward the mean velocity of the neighbours within NearbyValue.
func (a *Agent) align(neighbors []State) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0

	for _, other := range neighbors {
		if other.ID == a.id || a.position.DistanceTo(other.Position) >= a.params.NearbyValue {
			continue
		}
		sum = sum.Add(other.Velocity)
		count++
	}

	mean, ok := sum.Div(float64(count))
	if !ok {
		return geometry.Zero
	}
	return a.steerToward(mean)
}

// cohere seeks the centre of the neighbours within NearbyValue.
func (a *Agent) cohere(neighbors []State) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0

	for _, other := range neighbors {
		if other.ID == a.id || a.position.DistanceTo(other.Position) >= a.params.NearbyValue {
			continue
		}
		sum = sum.Add(other.Position)
		count++
	}

	centre, ok := sum.Div(float64(count))
	if !ok {
		return geometry.Zero
	}
	return a.seek(centre)
}

// confine pushes back inside the bounds. Only the first offending side in the
// order left, right, top, bottom is corrected on a given frame.
func (a *Agent) confine(bounds Bounds) geometry.Vector2D {
	var push geometry.Vector2D
	p := a.position

	switch {
	case p.X < 0:
		push.X = a.params.ConfinePush
	case p.X > bounds.Width:
		push.X = -a.params.ConfinePush
	case p.Y < 0:
		push.Y = a.params.ConfinePush
	case p.Y > bounds.Height:
		push.Y = -a.params.ConfinePush
	default:
		return geometry.Zero
	}
	return a.steerToward(push)
}

// seek steers toward target. A target on top of the agent gives no force.
func (a *Agent) seek(target geometry.Vector2D) geometry.Vector2D {
	return a.steerToward(target.Sub(a.position))
}

// steerToward turns a desired direction into a steering force of length
// MaxSteerForce. Degenerate directions give the zero vector.
func (a *Agent) steerToward(desired geometry.Vector2D) geometry.Vector2D {
	if desired.IsZero() {
		return geometry.Zero
	}
	steer := desired.WithLength(a.params.MaxSpeed).Sub(a.velocity)
	return steer.WithLength(a.params.MaxSteerForce)
}
