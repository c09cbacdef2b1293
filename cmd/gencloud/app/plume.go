package app

import "math"

// Plume is the synthetic pollution model. The value is e inside the
// footprint along each horizontal axis, decays exponentially outside it, and
// decays exponentially with height from the ground.
type Plume struct {
	x0, x1   float64
	y0, y1   float64
	distance float64
}

func NewPlume(p Pollution) Plume {
	return Plume{
		x0:       p.CenterX - p.Width/2,
		x1:       p.CenterX + p.Width/2,
		y0:       p.CenterY - p.Length/2,
		y1:       p.CenterY + p.Length/2,
		distance: p.Distance,
	}
}

// Value returns the simulated sensor reading at (x, y, z)
func (p Plume) Value(x, y, z float64) float64 {
	valX := p.along(x, p.x0, p.x1)
	valY := p.along(y, p.y0, p.y1)
	valZ := math.Exp(-z / p.distance)
	return (valX * valY * valZ) / 2
}

// along is e^1 on [lo, hi), falling by a factor e for every decay distance
// outside of it.
func (p Plume) along(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return math.Exp((v - (lo - p.distance)) / p.distance)
	case v < hi:
		return math.E
	default:
		return math.Exp(((hi + p.distance) - v) / p.distance)
	}
}
