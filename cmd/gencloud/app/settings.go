package app

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings describes the simulated scan: the volume flown, the grid density,
// the positioning noise and the pollution plume.
type Settings struct {
	ScanZone  ScanZone
	Steps     Steps
	Precision Precision
	Pollution Pollution
}

// ScanZone is the bounding box of the scan, in meters
type ScanZone struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

// Steps is the number of grid intervals per axis. A grid has Steps+1 points
// along each axis.
type Steps struct {
	X, Y, Z int
}

// Precision holds the jitter magnitudes, in meters
type Precision struct {
	Horizontal float64 // Applied to x and y
	Vertical   float64 // Applied to z
}

// Pollution describes the plume footprint and its decay length
type Pollution struct {
	CenterX  float64
	CenterY  float64
	Width    float64 // Extent along x
	Length   float64 // Extent along y
	Distance float64 // Decay distance, > 0
}

// settingsFile mirrors the YAML layout. Pointers tell a missing key from a
// zero value, every key is required.
type settingsFile struct {
	ScanZone struct {
		XMin *float64 `yaml:"xmin"`
		XMax *float64 `yaml:"xmax"`
		YMin *float64 `yaml:"ymin"`
		YMax *float64 `yaml:"ymax"`
		ZMin *float64 `yaml:"zmin"`
		ZMax *float64 `yaml:"zmax"`
	} `yaml:"scanZone"`
	Steps struct {
		X *int `yaml:"x"`
		Y *int `yaml:"y"`
		Z *int `yaml:"z"`
	} `yaml:"steps"`
	Precision struct {
		Horizontal *float64 `yaml:"horizontal"`
		Vertical   *float64 `yaml:"vertical"`
	} `yaml:"precision"`
	Pollution struct {
		CenterX  *float64 `yaml:"centerX"`
		CenterY  *float64 `yaml:"centerY"`
		Width    *float64 `yaml:"width"`
		Length   *float64 `yaml:"length"`
		Distance *float64 `yaml:"distance"`
	} `yaml:"pollution"`
}

// LoadSettings reads and validates a settings file
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes and validates YAML settings
func ParseSettings(data []byte) (*Settings, error) {
	var f settingsFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	var missing []string
	float := func(key string, v *float64) float64 {
		if v == nil {
			missing = append(missing, key)
			return 0
		}
		return *v
	}
	integer := func(key string, v *int) int {
		if v == nil {
			missing = append(missing, key)
			return 0
		}
		return *v
	}

	s := Settings{
		ScanZone: ScanZone{
			XMin: float("scanZone.xmin", f.ScanZone.XMin),
			XMax: float("scanZone.xmax", f.ScanZone.XMax),
			YMin: float("scanZone.ymin", f.ScanZone.YMin),
			YMax: float("scanZone.ymax", f.ScanZone.YMax),
			ZMin: float("scanZone.zmin", f.ScanZone.ZMin),
			ZMax: float("scanZone.zmax", f.ScanZone.ZMax),
		},
		Steps: Steps{
			X: integer("steps.x", f.Steps.X),
			Y: integer("steps.y", f.Steps.Y),
			Z: integer("steps.z", f.Steps.Z),
		},
		Precision: Precision{
			Horizontal: float("precision.horizontal", f.Precision.Horizontal),
			Vertical:   float("precision.vertical", f.Precision.Vertical),
		},
		Pollution: Pollution{
			CenterX:  float("pollution.centerX", f.Pollution.CenterX),
			CenterY:  float("pollution.centerY", f.Pollution.CenterY),
			Width:    float("pollution.width", f.Pollution.Width),
			Length:   float("pollution.length", f.Pollution.Length),
			Distance: float("pollution.distance", f.Pollution.Distance),
		},
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing settings: %s", strings.Join(missing, ", "))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks value ranges
func (s *Settings) Validate() error {
	var errs []error

	if s.ScanZone.XMax < s.ScanZone.XMin {
		errs = append(errs, errors.New("scanZone: xmax < xmin"))
	}
	if s.ScanZone.YMax < s.ScanZone.YMin {
		errs = append(errs, errors.New("scanZone: ymax < ymin"))
	}
	if s.ScanZone.ZMax < s.ScanZone.ZMin {
		errs = append(errs, errors.New("scanZone: zmax < zmin"))
	}
	if s.Steps.X < 0 || s.Steps.Y < 0 || s.Steps.Z < 0 {
		errs = append(errs, errors.New("steps: must not be negative"))
	}
	if s.Precision.Horizontal < 0 || s.Precision.Vertical < 0 {
		errs = append(errs, errors.New("precision: must not be negative"))
	}
	if s.Pollution.Width < 0 || s.Pollution.Length < 0 {
		errs = append(errs, errors.New("pollution: width and length must not be negative"))
	}
	if s.Pollution.Distance <= 0 {
		errs = append(errs, errors.New("pollution: distance must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid settings: %w", errors.Join(errs...))
	}
	return nil
}

// PointCount is the number of grid points the settings produce
func (s *Settings) PointCount() int64 {
	return int64(s.Steps.X+1) * int64(s.Steps.Y+1) * int64(s.Steps.Z+1)
}
