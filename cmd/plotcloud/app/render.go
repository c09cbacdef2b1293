package app

import (
	"fmt"
	"image"
	"image/draw"
	"math"
)

const (
	defaultWidth  = 800
	defaultHeight = 600

	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 80
	defaultBottomBorder = 40
	defaultRightBorder  = 40
)

// BorderConfig defines the sizes of white space around the cloud
type BorderConfig struct {
	Top    int // Space for the horizontal scale
	Left   int // Space for the vertical scale
	Bottom int // Space for the information bar
	Right  int // Right padding
}

// RenderConfig holds the raster renderer options
type RenderConfig struct {
	Width, Height int     // Size of the plotted area, one cell per pixel
	FontSize      float64 // Font size in points
	View          View
	BorderConfig  BorderConfig
}

// RasterRenderer paints a cloud projection onto an image, one pixel per
// cell. Each cell takes the color of the point nearest to the viewer, which
// is the highest point in the top view.
type RasterRenderer struct {
	config RenderConfig
}

func NewRasterRenderer(config RenderConfig) *RasterRenderer {
	// Set defaults for zero values
	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.Height == 0 {
		config.Height = defaultHeight
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.View == "" {
		config.View = TopView
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultLeftBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}

	return &RasterRenderer{config: config}
}

// Render creates an image of the cloud with annotations
func (r *RasterRenderer) Render(cloud *CloudData) (*image.RGBA, error) {
	if cloud.Len() == 0 {
		return nil, errEmptyCloud
	}

	borders := r.config.BorderConfig
	fullWidth := r.config.Width + borders.Left + borders.Right
	fullHeight := r.config.Height + borders.Top + borders.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	area := image.Rect(
		borders.Left,
		borders.Top,
		borders.Left+r.config.Width,
		borders.Top+r.config.Height,
	)

	ann, err := newAnnotator(annotatorConfig{
		FontSize: r.config.FontSize,
		Borders:  borders,
		View:     r.config.View,
	})
	if err != nil {
		return nil, fmt.Errorf("creating annotator: %w", err)
	}
	defer ann.Close()

	if err = ann.annotate(img, area, cloud); err != nil {
		return nil, fmt.Errorf("drawing annotations: %w", err)
	}

	r.renderCloud(img, area, cloud)

	return img, nil
}

// cell maps a ratio on [0, 1] to one of n cells
func cell(ratio float64, n int) int {
	return min(max(int(ratio*float64(n)), 0), n-1)
}

func (r *RasterRenderer) renderCloud(img *image.RGBA, area image.Rectangle, cloud *CloudData) {
	ax := r.config.View.axes()
	uBounds, vBounds := ax.UOf(cloud), ax.VOf(cloud)

	w, h := area.Dx(), area.Dy()
	depth := make([]float64, w*h)
	for i := range depth {
		depth[i] = math.Inf(-1)
	}

	for _, p := range cloud.Points {
		u, v, d := ax.Projection(p)
		col := cell(uBounds.Ratio(u), w)
		row := h - 1 - cell(vBounds.Ratio(v), h)

		idx := row*w + col
		if d < depth[idx] {
			continue
		}
		depth[idx] = d
		img.Set(area.Min.X+col, area.Min.Y+row, p.Color)
	}
}
