package app

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	dpi            = 72.0
	fontSize       = 12.0
	tickMarkHeight = 5
	pixelsPerLabel = 150.0
)

type annotatorConfig struct {
	FontSize float64
	Borders  BorderConfig
	View     View
}

type annotator struct {
	context  *freetype.Context
	config   annotatorConfig
	fontFace font.Face
}

func newAnnotator(config annotatorConfig) (*annotator, error) {
	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, area image.Rectangle, cloud *CloudData) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	ax := a.config.View.axes()

	ops := []struct {
		msg string
		fn  func() error
	}{
		{"drawing horizontal scale", func() error { return a.drawHorizontalScale(img, area, ax.UOf(cloud)) }},
		{"drawing vertical scale", func() error { return a.drawVerticalScale(img, area, ax.VOf(cloud)) }},
		{"drawing info bar", func() error { return a.drawInfoBar(img, area, cloud, ax) }},
	}
	for _, op := range ops {
		if err := op.fn(); err != nil {
			return fmt.Errorf("%s: %w", op.msg, err)
		}
	}

	return nil
}

// ticks lists the label positions within b
func ticks(b Bounds, pixels int) []float64 {
	span := b.Span()
	if span == 0 {
		return []float64{b.Min}
	}

	step := niceStep(span, pixels)
	start := math.Ceil(b.Min/step) * step

	var out []float64
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v > b.Max+step*1e-9 {
			break
		}
		out = append(out, v)
	}
	return out
}

func (a *annotator) drawHorizontalScale(img *image.RGBA, area image.Rectangle, b Bounds) error {
	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := area.Min.Y - tickMarkHeight - (a.config.Borders.Top-tickMarkHeight-fontHeight)/2 - metrics.Descent.Round()

	step := niceStep(b.Span(), area.Dx())
	for _, v := range ticks(b, area.Dx()) {
		x := area.Min.X + cell(b.Ratio(v), area.Dx())

		for y := area.Min.Y - tickMarkHeight; y < area.Min.Y; y++ {
			img.Set(x, y, color.Black)
		}

		label := formatMeters(v, step)
		width := font.MeasureString(a.fontFace, label)
		pt := freetype.Pt(x-(width.Round()/2), textY)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawVerticalScale(img *image.RGBA, area image.Rectangle, b Bounds) error {
	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	step := niceStep(b.Span(), area.Dy())
	for _, v := range ticks(b, area.Dy()) {
		y := area.Max.Y - 1 - cell(b.Ratio(v), area.Dy())

		for x := area.Min.X - tickMarkHeight; x < area.Min.X; x++ {
			img.Set(x, y, color.Black)
		}

		label := formatMeters(v, step)
		width := font.MeasureString(a.fontFace, label)
		textY := y + fontHeight/2 - metrics.Descent.Round()
		pt := freetype.Pt(area.Min.X-tickMarkHeight-3-width.Round(), textY)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawInfoBar(img *image.RGBA, area image.Rectangle, cloud *CloudData, ax axes) error {
	u, v := ax.UOf(cloud), ax.VOf(cloud)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Points: %s", humanize.Comma(int64(cloud.Len()))))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("%s: %s to %s", ax.U, humanize.FtoaWithDigits(u.Min, 2), humanize.FtoaWithDigits(u.Max, 2)))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("%s: %s to %s", ax.V, humanize.FtoaWithDigits(v.Min, 2), humanize.FtoaWithDigits(v.Max, 2)))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("1px = %s m", humanize.FtoaWithDigits(u.Span()/float64(area.Dx()), 3)))

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := img.Bounds().Max.Y - (a.config.Borders.Bottom-fontHeight)/2 - metrics.Descent.Round()

	pt := freetype.Pt(a.config.Borders.Left, textY)
	if _, err := a.context.DrawString(sb.String(), pt); err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}
	return nil
}

// niceStep picks a 1, 2 or 5 times power of ten step giving roughly one
// label every pixelsPerLabel pixels.
func niceStep(span float64, pixels int) float64 {
	if span <= 0 {
		return 1
	}

	desired := max(float64(pixels)/pixelsPerLabel, 1)
	rough := span / desired
	magnitude := math.Pow(10, math.Floor(math.Log10(rough)))

	for _, m := range []float64{1, 2, 5} {
		if step := m * magnitude; step >= rough {
			return step
		}
	}
	return 10 * magnitude
}

// formatMeters prints v with as many decimals as step needs
func formatMeters(v, step float64) string {
	decimals := max(0, int(-math.Floor(math.Log10(step))))
	v = math.Round(v/step) * step
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return humanize.FtoaWithDigits(v, decimals)
}
