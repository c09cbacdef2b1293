package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roman-kulish/drone-pointcloud/internal/colormap"
	"github.com/roman-kulish/drone-pointcloud/internal/geodesy"
	"github.com/roman-kulish/drone-pointcloud/internal/pointcloud"
	"github.com/roman-kulish/drone-pointcloud/internal/telemetry"
)

// PointSink receives extracted points in input order
type PointSink interface {
	Write(pointcloud.Point) error
}

// Extractor turns accepted fixes into points. It holds the run-wide choices:
// coordinate mode, color mapping, and the lazily resolved reference origin.
type Extractor struct {
	mode      CoordinateMode
	color     colormap.Mapper
	reference *geodesy.Reference
	logger    *slog.Logger
}

func NewExtractor(mode CoordinateMode, colorMode colormap.Mode, origin geodesy.OriginOverride, logger *slog.Logger) *Extractor {
	return &Extractor{
		mode:      mode,
		color:     colormap.New(colorMode),
		reference: geodesy.NewReference(origin),
		logger:    logger,
	}
}

// Point converts one fix into an output point
func (e *Extractor) Point(fix *telemetry.Fix) pointcloud.Point {
	p := pointcloud.Point{
		Value: fix.SensorValue,
		Color: e.color(fix.SensorValue),
	}

	switch e.mode {
	case ModeRaw:
		p.X, p.Y, p.Z = fix.RawLongitude, fix.RawLatitude, fix.Altitude

	case ModeScaled:
		p.X, p.Y, p.Z = fix.Longitude, fix.Latitude, fix.Altitude

	default:
		enu := e.reference.ToENU(fix.Position())
		p.X, p.Y, p.Z = enu.East, enu.North, enu.Up
	}

	return p
}

// Origin returns the reference origin once it has been resolved
func (e *Extractor) Origin() (geodesy.Geodetic, bool) {
	return e.reference.Origin()
}

// Extract streams the log in r into sink, one point per accepted fix.
// Rejected lines are skipped; only read and write errors abort.
func (e *Extractor) Extract(ctx context.Context, r io.Reader, sink PointSink) (telemetry.ScanStats, error) {
	scanner := telemetry.NewScanner(r, telemetry.WithRejectHook(func(lineNo int64, err error) {
		e.logger.Debug("skipping line", slog.Int64("line", lineNo), slog.String("reason", err.Error()))
	}))

	for scanner.Next() {
		if err := ctx.Err(); err != nil {
			return scanner.Stats(), err
		}

		if err := sink.Write(e.Point(scanner.Current())); err != nil {
			return scanner.Stats(), fmt.Errorf("writing point: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return scanner.Stats(), err
	}

	return scanner.Stats(), nil
}
