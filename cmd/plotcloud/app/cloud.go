package app

import (
	"math"

	"github.com/roman-kulish/drone-pointcloud/internal/pointcloud"
)

// Bounds tracks the range of one coordinate
type Bounds struct {
	Min, Max float64
}

func NewBounds() Bounds {
	return Bounds{Min: math.Inf(1), Max: math.Inf(-1)}
}

func (b *Bounds) Update(v float64) {
	b.Min = min(b.Min, v)
	b.Max = max(b.Max, v)
}

// Span is Max - Min, or 0 when nothing was tracked
func (b Bounds) Span() float64 {
	if b.Max < b.Min {
		return 0
	}
	return b.Max - b.Min
}

// Ratio places v on [0, 1] within the bounds. A flat range maps to 0.
func (b Bounds) Ratio(v float64) float64 {
	span := b.Span()
	if span == 0 {
		return 0
	}
	return (v - b.Min) / span
}

// CloudData is a point cloud loaded for plotting, with its extents
type CloudData struct {
	Points  []pointcloud.Point
	X, Y, Z Bounds
	Skipped int64
}

func NewCloudData() *CloudData {
	return &CloudData{
		X: NewBounds(),
		Y: NewBounds(),
		Z: NewBounds(),
	}
}

func (c *CloudData) Update(p pointcloud.Point) {
	c.X.Update(p.X)
	c.Y.Update(p.Y)
	c.Z.Update(p.Z)
	c.Points = append(c.Points, p)
}

func (c *CloudData) Len() int {
	return len(c.Points)
}
