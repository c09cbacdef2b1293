package app

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/roman-kulish/drone-pointcloud/internal/pointcloud"
)

const (
	pixelsPerInch = 96 // vgimg default resolution
	glyphRadius   = 1.5
)

var errEmptyCloud = errors.New("point cloud is empty")

// pixels converts an image size in pixels to a plot length
func pixels(px int) vg.Length {
	return vg.Length(px) * vg.Inch / pixelsPerInch
}

// depthOrder returns the points sorted so the nearest to the viewer come last
// and are drawn on top.
func depthOrder(points []pointcloud.Point, proj Projection) []pointcloud.Point {
	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, func(a, b pointcloud.Point) int {
		_, _, da := proj(a)
		_, _, db := proj(b)
		return cmp.Compare(da, db)
	})
	return sorted
}

// NewScatterPlot plots the projection of the cloud, one glyph per point in
// the point's own color.
func NewScatterPlot(cloud *CloudData, view View) (*plot.Plot, error) {
	if cloud.Len() == 0 {
		return nil, errEmptyCloud
	}

	ax := view.axes()
	points := depthOrder(cloud.Points, ax.Projection)

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		u, v, _ := ax.Projection(pt)
		xys[i] = plotter.XY{X: u, Y: v}
	}

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("creating scatter: %w", err)
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  points[i].Color,
			Radius: vg.Points(glyphRadius),
			Shape:  draw.CircleGlyph{},
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Point cloud, %s view, %s points", view, humanize.Comma(int64(cloud.Len())))
	p.X.Label.Text = ax.U
	p.Y.Label.Text = ax.V
	p.Add(plotter.NewGrid(), sc)

	return p, nil
}

// SaveScatter writes the plot to file, the format follows the extension
func SaveScatter(p *plot.Plot, width, height int, file string) error {
	if err := p.Save(pixels(width), pixels(height), file); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	return nil
}
