// Package flock implements a Reynolds style flock: every agent steers with
// separation, alignment and cohesion against its neighbours, is pushed back
// inside the world bounds and, while a threat point is active, flees from it.
//
// The package is rendering agnostic and single threaded. A Flock owns its
// agents and advances them in two phases, so every agent of a frame sees the
// same snapshot of its neighbours.
package flock

// Weights scales each steering force before it is added to the acceleration.
type Weights struct {
	Avoid   float64 `json:"avoid" yaml:"avoid"`
	Align   float64 `json:"align" yaml:"align"`
	Cohere  float64 `json:"cohere" yaml:"cohere"`
	Confine float64 `json:"confine" yaml:"confine"`
	Evade   float64 `json:"evade" yaml:"evade"`
}

// Params controls the physics of a flock. Every agent of a flock reads the
// same Params, so two flocks can run side by side with different tunings.
type Params struct {
	MaxSpeed          float64 `json:"maxSpeed" yaml:"max_speed"`
	MaxSteerForce     float64 `json:"maxSteerForce" yaml:"max_steer_force"`
	DesiredSeparation float64 `json:"desiredSeparation" yaml:"desired_separation"` // avoidance radius, inclusive
	NearbyValue       float64 `json:"nearbyValue" yaml:"nearby_value"`             // alignment/cohesion radius, exclusive
	ConfinePush       float64 `json:"confinePush" yaml:"confine_push"`             // raw push applied on the offending axis

	Calm       Weights `json:"calm" yaml:"calm"`
	Threatened Weights `json:"threatened" yaml:"threatened"`

	// DoubleThreatForces adds the weighted avoid, align, cohere and evade
	// forces a second time while threatened, like the original boids1 demo.
	DoubleThreatForces bool `json:"doubleThreatForces" yaml:"double_threat_forces"`
}

// DefaultParams returns the classic tuning of the boids demo.
func DefaultParams() Params {
	return Params{
		MaxSpeed:          3.0,
		MaxSteerForce:     0.04,
		DesiredSeparation: 128.0,
		NearbyValue:       256.0,
		ConfinePush:       10.0,
		Calm: Weights{
			Avoid:   3,
			Align:   1,
			Cohere:  5,
			Confine: 1,
		},
		Threatened: Weights{
			Avoid:   2,
			Align:   1,
			Cohere:  2,
			Confine: 5,
			Evade:   -5,
		},
	}
}

// weights picks the weight set for the current mode.
func (p *Params) weights(threatened bool) Weights {
	if threatened {
		return p.Threatened
	}
	return p.Calm
}
