package app

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/roman-kulish/drone-pointcloud/internal/colormap"
	"github.com/roman-kulish/drone-pointcloud/internal/pointcloud"
)

// PointSink receives generated points in traversal order
type PointSink interface {
	Write(pointcloud.Point) error
}

// Generator walks the scan grid and evaluates the plume at every point
type Generator struct {
	settings Settings
	plume    Plume
	color    colormap.Mapper
	rng      *rand.Rand
}

func NewGenerator(settings Settings, colorMode colormap.Mode, rng *rand.Rand) *Generator {
	return &Generator{
		settings: settings,
		plume:    NewPlume(settings.Pollution),
		color:    colormap.New(colorMode),
		rng:      rng,
	}
}

// gridCoord interpolates index i of steps intervals over [lo, hi]. A zero
// step count collapses the axis onto lo.
func gridCoord(lo, hi float64, i, steps int) float64 {
	if steps == 0 {
		return lo
	}
	return lo + float64(i)*(hi-lo)/float64(steps)
}

// jitter draws a uniform offset in [-magnitude, magnitude), centered on the
// grid node. Older generators drew from the one-sided [-magnitude, 0).
func (g *Generator) jitter(magnitude float64) float64 {
	if magnitude == 0 {
		return 0
	}
	return (g.rng.Float64()*2 - 1) * magnitude
}

// Point computes the point at grid index (i, j, k)
func (g *Generator) Point(i, j, k int) pointcloud.Point {
	zone, steps, prec := g.settings.ScanZone, g.settings.Steps, g.settings.Precision

	x := gridCoord(zone.XMin, zone.XMax, i, steps.X) + g.jitter(prec.Horizontal)
	y := gridCoord(zone.YMin, zone.YMax, j, steps.Y) + g.jitter(prec.Horizontal)
	z := gridCoord(zone.ZMin, zone.ZMax, k, steps.Z) + g.jitter(prec.Vertical)

	value := g.plume.Value(x, y, z)
	return pointcloud.Point{
		X:     x,
		Y:     y,
		Z:     z,
		Value: value,
		Color: g.color(value),
	}
}

// Generate writes every grid point to sink, x outermost and z innermost
func (g *Generator) Generate(ctx context.Context, sink PointSink) error {
	steps := g.settings.Steps

	for i := 0; i <= steps.X; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for j := 0; j <= steps.Y; j++ {
			for k := 0; k <= steps.Z; k++ {
				if err := sink.Write(g.Point(i, j, k)); err != nil {
					return fmt.Errorf("writing point (%d, %d, %d): %w", i, j, k, err)
				}
			}
		}
	}
	return nil
}
