// Package telemetry samples aggregate flock statistics and writes them to CSV.
package telemetry

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
)

// FrameStats is one telemetry row.
type FrameStats struct {
	Frame      int  `csv:"frame"`
	Agents     int  `csv:"agents"`
	Threatened bool `csv:"threatened"`

	CentroidX float64 `csv:"centroid_x"`
	CentroidY float64 `csv:"centroid_y"`
	// Mean and standard deviation of the distance to the centroid.
	Spread       float64 `csv:"spread"`
	SpreadStdDev float64 `csv:"spread_stddev"`

	MeanSpeed float64 `csv:"mean_speed"`
	// Polarization is the length of the mean unit heading: 1 when every agent
	// flies the same way, close to 0 for random headings.
	Polarization float64 `csv:"polarization"`

	OutOfBounds int `csv:"out_of_bounds"`
}

// Compute summarises a flock snapshot. An empty snapshot gives a zero row.
func Compute(frame int, states []flock.State, bounds flock.Bounds, threatened bool) FrameStats {
	s := FrameStats{
		Frame:      frame,
		Agents:     len(states),
		Threatened: threatened,
	}
	n := len(states)
	if n == 0 {
		return s
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	speeds := make([]float64, n)
	hx := make([]float64, n)
	hy := make([]float64, n)
	for i, st := range states {
		xs[i], ys[i] = st.Position.X, st.Position.Y
		speeds[i] = st.Velocity.Len()
		h := st.Velocity.Normalize()
		hx[i], hy[i] = h.X, h.Y
		if !bounds.Contains(st.Position) {
			s.OutOfBounds++
		}
	}

	s.CentroidX = stat.Mean(xs, nil)
	s.CentroidY = stat.Mean(ys, nil)
	s.MeanSpeed = stat.Mean(speeds, nil)
	s.Polarization = math.Hypot(floats.Sum(hx), floats.Sum(hy)) / float64(n)

	dist := make([]float64, n)
	for i := range states {
		dist[i] = math.Hypot(xs[i]-s.CentroidX, ys[i]-s.CentroidY)
	}
	s.Spread = stat.Mean(dist, nil)
	if n > 1 {
		s.SpreadStdDev = stat.StdDev(dist, nil)
	}
	return s
}
