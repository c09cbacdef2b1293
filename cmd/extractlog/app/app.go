package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/drone-pointcloud/internal/pointcloud"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) (err error) {
	if _, err = os.Stat(config.InFile); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("log file '%s' does not exist: %w", config.InFile, err)
	}

	in, err := os.Open(config.InFile)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer in.Close()

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
	logger.Info("extracting payload log",
		slog.String("input", config.InFile),
		slog.Group("output",
			slog.String("xyz", xyzPath),
			slog.String("xyzrgb", rgbPath),
		),
		slog.String("coordinates", string(config.CoordinateMode)),
		slog.String("colors", string(config.ColorMode)),
	)

	extractor := NewExtractor(config.CoordinateMode, config.ColorMode, config.Origin, logger)
	stats, err := extractor.Extract(ctx, in, out)
	if err != nil {
		return err
	}

	if origin, ok := extractor.Origin(); ok && config.CoordinateMode == ModeENU {
		logger.Info("reference origin",
			slog.Float64("lat", origin.Lat),
			slog.Float64("lon", origin.Lon),
			slog.Float64("alt", origin.Alt),
		)
	}

	logger.Info("finished extracting",
		slog.Group("stats",
			slog.String("lines", humanize.Comma(stats.Lines)),
			slog.String("points", humanize.Comma(out.Count())),
			slog.String("ignored", humanize.Comma(stats.Ignored)),
			slog.String("wrongFieldCount", humanize.Comma(stats.FieldCount)),
			slog.String("invalidFix", humanize.Comma(stats.InvalidFix)),
			slog.String("malformed", humanize.Comma(stats.Malformed)),
			slog.String("written", humanize.Bytes(uint64(out.Bytes()))),
		))

	if out.Count() == 0 {
		logger.Warn("no valid fix found in log file", slog.String("input", config.InFile))
	}

	return nil
}
