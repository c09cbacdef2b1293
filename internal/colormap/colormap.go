package colormap

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects how a sensor value is turned into a color. A run uses exactly
// one mode:
// - Discrete: fixed bucket table from blue to red
// - Linear: blue ramps to magenta up to 2.5, then magenta fades to red up to 5.0
type Mode string

const (
	Discrete Mode = "discrete" // Bucket table, default
	Linear   Mode = "linear"   // Linear ramp

	// LinearMidpoint is the value at which the linear ramp stops adding red
	// and starts removing blue.
	LinearMidpoint = 2.5

	// LinearMax is the value at which the linear ramp reaches pure red.
	LinearMax = 5.0
)

// RGB is a color triple. Components are plain ints: the linear ramp is not
// clamped, so inputs outside [0, 5] produce components outside [0, 255].
type RGB struct {
	R, G, B int
}

// String formats the color the way it is written to point files, "R G B".
func (c RGB) String() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(c.R))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(c.G))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(c.B))
	return sb.String()
}

// Mapper turns a sensor value into a color
type Mapper func(value float64) RGB

var (
	Blue = RGB{R: 0, G: 0, B: 255}
	Red  = RGB{R: 255, G: 0, B: 0}
)

type bucket struct {
	upper float64 // exclusive
	color RGB
}

// discreteTable is evaluated in ascending order, the first bound strictly
// greater than the value wins.
var discreteTable = []bucket{
	{0.2, Blue},
	{0.4, RGB{63, 0, 255}},
	{0.6, RGB{127, 0, 255}},
	{0.8, RGB{191, 0, 255}},
	{1.0, RGB{255, 0, 255}},
	{1.5, RGB{255, 0, 191}},
	{2.0, RGB{255, 0, 127}},
	{3.5, RGB{255, 0, 63}},
}

// DiscreteColor returns the bucket color for value. Everything at or above
// 3.5 is pure red.
func DiscreteColor(value float64) RGB {
	for _, b := range discreteTable {
		if value < b.upper {
			return b.color
		}
	}
	return Red
}

// LinearColor returns the ramp color for value. Components are truncated
// toward zero and never clamped.
func LinearColor(value float64) RGB {
	if value < LinearMidpoint {
		return RGB{
			R: int(255 * value / LinearMidpoint),
			G: 0,
			B: 255,
		}
	}
	return RGB{
		R: 255,
		G: 0,
		B: int(255 * (LinearMax - value) / LinearMidpoint),
	}
}

// ParseMode parses a mode name, case-insensitively. An empty name selects
// Discrete.
func ParseMode(name string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case "", Discrete:
		return Discrete, nil
	case Linear:
		return Linear, nil
	default:
		return "", fmt.Errorf("invalid color mode: %s", name)
	}
}

// ModeFromFlag maps the -linear command line switch onto a Mode.
func ModeFromFlag(linear bool) Mode {
	if linear {
		return Linear
	}
	return Discrete
}

// New returns the mapper for mode. Unknown modes fall back to Discrete.
func New(mode Mode) Mapper {
	switch mode {
	case Linear:
		return LinearColor
	default:
		return DiscreteColor
	}
}
