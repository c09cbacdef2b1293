package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/drone-pointcloud/internal/pointcloud"
)

// seedStream keeps the second PCG word fixed so a single -seed value is
// enough to reproduce a run.
const seedStream = 0x9e3779b97f4a7c15

func newRand(seed *uint64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(*seed, seedStream))
}

func Run(ctx context.Context, config *Config, logger *slog.Logger) (err error) {
	settings, err := LoadSettings(config.SettingsFile)
	if err != nil {
		return err
	}

	out, err := pointcloud.Create(config.OutBase)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := out.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("closing output files: %w", cErr)
		}
	}()

	xyzPath, rgbPath := pointcloud.Paths(config.OutBase)
	attrs := []any{
		slog.String("settings", config.SettingsFile),
		slog.Group("output",
			slog.String("xyz", xyzPath),
			slog.String("xyzrgb", rgbPath),
		),
		slog.String("colors", string(config.ColorMode)),
		slog.String("points", humanize.Comma(settings.PointCount())),
	}
	if config.Seed != nil {
		attrs = append(attrs, slog.Uint64("seed", *config.Seed))
	}
	logger.Info("generating simulated point cloud", attrs...)

	logger.Debug("scan zone",
		slog.Float64("xmin", settings.ScanZone.XMin),
		slog.Float64("xmax", settings.ScanZone.XMax),
		slog.Float64("ymin", settings.ScanZone.YMin),
		slog.Float64("ymax", settings.ScanZone.YMax),
		slog.Float64("zmin", settings.ScanZone.ZMin),
		slog.Float64("zmax", settings.ScanZone.ZMax),
	)

	gen := NewGenerator(*settings, config.ColorMode, newRand(config.Seed))
	if err = gen.Generate(ctx, out); err != nil {
		return err
	}

	logger.Info("finished generating",
		slog.Group("stats",
			slog.String("points", humanize.Comma(out.Count())),
			slog.String("written", humanize.Bytes(uint64(out.Bytes()))),
		))

	return nil
}
