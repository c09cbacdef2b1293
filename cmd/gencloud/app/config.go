package app

import (
	"errors"
	"flag"
	"os"

	"github.com/roman-kulish/drone-pointcloud/internal/colormap"
)

const (
	defaultSettingsFile = "simu.yaml"
	defaultOutBase      = "simu"
)

type Config struct {
	SettingsFile string
	OutBase      string
	ColorMode    colormap.Mode
	Seed         *uint64 // Nil seeds from the runtime
	Verbose      bool
}

func NewConfig() *Config {
	return &Config{
		SettingsFile: defaultSettingsFile,
		OutBase:      defaultOutBase,
		ColorMode:    colormap.Discrete,
	}
}

func NewConfigFromCLI() (*Config, error) {
	return NewConfigFromArgs(os.Args[0], os.Args[1:])
}

func NewConfigFromArgs(name string, args []string) (*Config, error) {
	c := NewConfig()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	var linear bool
	var seed uint64
	fs.StringVar(&c.SettingsFile, "s", defaultSettingsFile, "Path to the simulation settings file")
	fs.StringVar(&c.OutBase, "o", defaultOutBase, "Output files base name, without extension")
	fs.BoolVar(&linear, "linear", false, "Use the linear color ramp instead of the discrete table")
	fs.Uint64Var(&seed, "seed", 0, "Random seed for reproducible jitter")
	fs.BoolVar(&c.Verbose, "verbose", false, "Enable more verbose output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	c.ColorMode = colormap.ModeFromFlag(linear)
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			c.Seed = &seed
		}
	})

	var err error
	if c.SettingsFile == "" {
		err = errors.New("settings file is required")
	} else if c.OutBase == "" {
		err = errors.New("output base name is required")
	}

	if err != nil {
		fs.Usage()
		return nil, err
	}

	return c, nil
}
