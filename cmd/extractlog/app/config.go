package app

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/drone-pointcloud/internal/colormap"
	"github.com/roman-kulish/drone-pointcloud/internal/geodesy"
)

const (
	defaultInFile  = "GPSLOG.TXT"
	defaultOutBase = "Test"
)

// CoordinateMode selects what is written as x y z
type CoordinateMode string

const (
	ModeRaw    CoordinateMode = "raw"    // Longitude, latitude as logged (ddmm.mmmm), altitude
	ModeScaled CoordinateMode = "scaled" // Longitude, latitude in decimal degrees, altitude
	ModeENU    CoordinateMode = "enu"    // East, north, up in meters from the reference origin
)

var validCoordinateModes = map[CoordinateMode]struct{}{
	ModeRaw:    {},
	ModeScaled: {},
	ModeENU:    {},
}

type Config struct {
	InFile         string
	OutBase        string
	ColorMode      colormap.Mode
	CoordinateMode CoordinateMode
	Origin         geodesy.OriginOverride
	Verbose        bool
}

// Settings is the optional YAML settings file. Command line flags take
// precedence over it.
type Settings struct {
	InFile    string             `yaml:"infile"`
	OutFile   string             `yaml:"outfile"`
	Linear    bool               `yaml:"linear"`
	Colors    string             `yaml:"colors"` // discrete or linear, overrides linear
	Mode      string             `yaml:"mode"`
	Reference *ReferenceSettings `yaml:"reference"`
}

type ReferenceSettings struct {
	Lat *float64 `yaml:"lat"`
	Lon *float64 `yaml:"lon"`
	Alt *float64 `yaml:"alt"`
}

func NewConfig() *Config {
	return &Config{
		InFile:         defaultInFile,
		OutBase:        defaultOutBase,
		ColorMode:      colormap.Discrete,
		CoordinateMode: ModeENU,
	}
}

// LoadSettings reads an extractor settings file. Unknown keys are rejected
// and an empty file yields empty settings.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return &s, nil
}

func NewConfigFromCLI() (*Config, error) {
	return NewConfigFromArgs(os.Args[0], os.Args[1:])
}

// NewConfigFromArgs parses and validates the command line. No file other
// than the optional settings file is touched.
func NewConfigFromArgs(name string, args []string) (*Config, error) {
	c := NewConfig()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	var settingsPath, coordMode string
	var linear bool
	var lat0, lon0, alt0 float64
	fs.StringVar(&settingsPath, "c", "", "Path to an optional YAML settings file")
	fs.StringVar(&c.InFile, "i", defaultInFile, "Path to the payload log file")
	fs.StringVar(&c.OutBase, "o", defaultOutBase, "Output files base name, without extension")
	fs.BoolVar(&linear, "linear", false, "Use the linear color ramp instead of the discrete table")
	fs.StringVar(&coordMode, "mode", string(ModeENU), "Coordinate mode. [raw, scaled, enu]")
	fs.Float64Var(&lat0, "lat0", 0, "Reference origin latitude in decimal degrees [-90, 90]")
	fs.Float64Var(&lon0, "lon0", 0, "Reference origin longitude in decimal degrees [-180, 180]")
	fs.Float64Var(&alt0, "alt0", 0, "Reference origin altitude in meters")
	fs.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	if settingsPath != "" {
		s, err := LoadSettings(settingsPath)
		if err != nil {
			return nil, err
		}
		if err = c.applySettings(s, set); err != nil {
			fs.Usage()
			return nil, err
		}
	}

	if set["lat0"] {
		c.Origin.Lat = &lat0
	}
	if set["lon0"] {
		c.Origin.Lon = &lon0
	}
	if set["alt0"] {
		c.Origin.Alt = &alt0
	}
	if set["linear"] {
		c.ColorMode = colormap.ModeFromFlag(linear)
	}
	if set["mode"] {
		c.CoordinateMode = CoordinateMode(strings.ToLower(coordMode))
	}

	var err error
	if c.InFile == "" {
		err = errors.New("input file is required")
	} else if c.OutBase == "" {
		err = errors.New("output base name is required")
	} else if _, ok := validCoordinateModes[c.CoordinateMode]; !ok {
		err = fmt.Errorf("invalid coordinate mode: %s", c.CoordinateMode)
	} else if vErr := c.Origin.Validate(); vErr != nil {
		err = vErr
	}

	if err != nil {
		fs.Usage()
		return nil, err
	}

	return c, nil
}

func (c *Config) applySettings(s *Settings, set map[string]bool) error {
	if s.InFile != "" && !set["i"] {
		c.InFile = s.InFile
	}
	if s.OutFile != "" && !set["o"] {
		c.OutBase = s.OutFile
	}
	if s.Linear {
		c.ColorMode = colormap.Linear
	}
	if s.Colors != "" {
		mode, err := colormap.ParseMode(s.Colors)
		if err != nil {
			return fmt.Errorf("settings: %w", err)
		}
		c.ColorMode = mode
	}
	if s.Mode != "" {
		c.CoordinateMode = CoordinateMode(strings.ToLower(s.Mode))
	}
	if s.Reference != nil {
		c.Origin.Lat = s.Reference.Lat
		c.Origin.Lon = s.Reference.Lon
		c.Origin.Alt = s.Reference.Alt
	}
	return nil
}
