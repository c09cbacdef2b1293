package app

import (
	"fmt"
	"strings"

	"github.com/roman-kulish/drone-pointcloud/internal/pointcloud"
)

const (
	TopView   View = "top"   // Looking down: east across, north up
	FrontView View = "front" // Looking north: east across, up up
	SideView  View = "side"  // Looking west: north across, up up
)

// View is the 2D projection used to plot the cloud
type View string

// Projection maps a point to plot coordinates (u, v) and a depth. Where
// points overlap, the greatest depth is nearest to the viewer.
type Projection func(p pointcloud.Point) (u, v, depth float64)

// axes describes a projection by the labels and bounds of its axes
type axes struct {
	U, V       string
	UOf, VOf   func(c *CloudData) Bounds
	Projection Projection
}

func ParseView(name string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(name))); v {
	case "":
		return TopView, nil
	case TopView, FrontView, SideView:
		return v, nil
	default:
		return "", fmt.Errorf("invalid view: %s", name)
	}
}

func (v View) axes() axes {
	switch v {
	case FrontView:
		return axes{
			U: "East (m)", V: "Up (m)",
			UOf: func(c *CloudData) Bounds { return c.X },
			VOf: func(c *CloudData) Bounds { return c.Z },
			Projection: func(p pointcloud.Point) (float64, float64, float64) {
				return p.X, p.Z, -p.Y
			},
		}
	case SideView:
		return axes{
			U: "North (m)", V: "Up (m)",
			UOf: func(c *CloudData) Bounds { return c.Y },
			VOf: func(c *CloudData) Bounds { return c.Z },
			Projection: func(p pointcloud.Point) (float64, float64, float64) {
				return p.Y, p.Z, p.X
			},
		}
	default:
		return axes{
			U: "East (m)", V: "North (m)",
			UOf: func(c *CloudData) Bounds { return c.X },
			VOf: func(c *CloudData) Bounds { return c.Y },
			Projection: func(p pointcloud.Point) (float64, float64, float64) {
				return p.X, p.Y, p.Z
			},
		}
	}
}
