package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roman-kulish/drone-pointcloud/internal/pointcloud"
)

const (
	RendererScatter Renderer = "scatter" // gonum/plot scatter, png, svg or pdf
	RendererRaster  Renderer = "raster"  // One pixel per cell, png or jpeg

	defaultInBase = "simu"
)

type Renderer string

// validFormats lists the output extensions each renderer can write
var validFormats = map[Renderer]map[string]struct{}{
	RendererScatter: {".png": {}, ".svg": {}, ".pdf": {}, ".jpg": {}, ".jpeg": {}},
	RendererRaster:  {".png": {}, ".jpg": {}, ".jpeg": {}},
}

type Config struct {
	InBase     string
	OutputFile string
	Renderer   Renderer
	View       View
	Width      int
	Height     int
	Verbose    bool
}

func NewConfig() *Config {
	return &Config{
		InBase:   defaultInBase,
		Renderer: RendererScatter,
		View:     TopView,
		Width:    defaultWidth,
		Height:   defaultHeight,
	}
}

// InputFile is the .XYZRGB file read for the base name
func (c *Config) InputFile() string {
	_, rgb := pointcloud.Paths(c.InBase)
	return rgb
}

func NewConfigFromCLI() (*Config, error) {
	return NewConfigFromArgs(os.Args[0], os.Args[1:])
}

func NewConfigFromArgs(name string, args []string) (*Config, error) {
	c := NewConfig()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	var renderer, view string
	fs.StringVar(&c.InBase, "i", defaultInBase, "Point cloud base name, reads <base>"+pointcloud.ExtXYZRGB)
	fs.StringVar(&c.OutputFile, "o", "", "Path to the output image, defaults to <base>.png")
	fs.StringVar(&renderer, "renderer", string(RendererScatter), "Renderer. [scatter, raster]")
	fs.StringVar(&view, "view", string(TopView), "Projection. [top, front, side]")
	fs.IntVar(&c.Width, "width", defaultWidth, "Image width in pixels")
	fs.IntVar(&c.Height, "height", defaultHeight, "Image height in pixels")
	fs.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	c.Renderer = Renderer(strings.ToLower(renderer))
	if c.OutputFile == "" {
		c.OutputFile = c.InBase + ".png"
	}

	var err error
	formats, ok := validFormats[c.Renderer]
	if c.InBase == "" {
		err = errors.New("input base name is required")
	} else if !ok {
		err = fmt.Errorf("invalid renderer: %s", renderer)
	} else if c.Width <= 0 || c.Height <= 0 {
		err = errors.New("image size must be positive")
	} else if _, ok = formats[strings.ToLower(filepath.Ext(c.OutputFile))]; !ok {
		err = fmt.Errorf("%s renderer cannot write %s", c.Renderer, c.OutputFile)
	} else {
		c.View, err = ParseView(view)
	}

	if err != nil {
		fs.Usage()
		return nil, err
	}

	return c, nil
}
