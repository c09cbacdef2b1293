package app

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/drone-pointcloud/internal/pointcloud"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	in := config.InputFile()
	if _, err := os.Stat(in); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("point cloud file '%s' does not exist: %w", in, err)
	}

	cloud, err := readCloud(ctx, in)
	if err != nil {
		return err
	}

	logger.Info("finished reading points",
		slog.Group("stats",
			slog.String("points", humanize.Comma(int64(cloud.Len()))),
			slog.String("skipped", humanize.Comma(cloud.Skipped)),
			slog.String("x", fmt.Sprintf("%0.2fm..%0.2fm", cloud.X.Min, cloud.X.Max)),
			slog.String("y", fmt.Sprintf("%0.2fm..%0.2fm", cloud.Y.Min, cloud.Y.Max)),
			slog.String("z", fmt.Sprintf("%0.2fm..%0.2fm", cloud.Z.Min, cloud.Z.Max)),
		))

	if cloud.Len() == 0 {
		return fmt.Errorf("%s: %w", in, errEmptyCloud)
	}

	logger.Info("rendering point cloud",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("renderer", string(config.Renderer)),
			slog.String("view", string(config.View)),
			slog.Int("width", config.Width),
			slog.Int("height", config.Height),
		))

	switch config.Renderer {
	case RendererRaster:
		renderer := NewRasterRenderer(RenderConfig{
			Width:  config.Width,
			Height: config.Height,
			View:   config.View,
		})
		img, err := renderer.Render(cloud)
		if err != nil {
			return fmt.Errorf("rendering point cloud: %w", err)
		}
		return saveImage(img, config.OutputFile)

	default:
		p, err := NewScatterPlot(cloud, config.View)
		if err != nil {
			return fmt.Errorf("plotting point cloud: %w", err)
		}
		return SaveScatter(p, config.Width, config.Height, config.OutputFile)
	}
}

func readCloud(ctx context.Context, path string) (*CloudData, error) {
	cloud := NewCloudData()
	skipped, err := pointcloud.ReadXYZRGBFile(ctx, path, cloud.Update)
	if err != nil {
		return nil, fmt.Errorf("reading point cloud: %w", err)
	}
	cloud.Skipped = skipped

	return cloud, nil
}

func saveImage(img image.Image, path string) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeWithError(out, &err)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	default:
		err = png.Encode(out, img)
	}
	return err
}

func closeWithError(c io.Closer, err *error) {
	if cErr := c.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
