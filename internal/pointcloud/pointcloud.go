// Package pointcloud reads and writes the flat text point files consumed by
// point-cloud viewers.
//
// Every run produces two files sharing a base name:
//
//	<base>.XYZ     x y z value
//	<base>.XYZRGB  x y z r g b
//
// Fields are separated by a single space, one point per line, no header.
package pointcloud

import (
	"strconv"

	"github.com/roman-kulish/drone-pointcloud/internal/colormap"
)

const (
	ExtXYZ    = ".XYZ"
	ExtXYZRGB = ".XYZRGB"
)

// Point is one output point in local coordinates
type Point struct {
	X, Y, Z float64
	Value   float64      // Raw sensor value
	Color   colormap.RGB // Color of Value under the run's mapping
}

// Paths returns the two output file names for base
func Paths(base string) (xyz, xyzrgb string) {
	return base + ExtXYZ, base + ExtXYZRGB
}

// FormatFloat formats v with the fewest digits that parse back to v, never
// in exponent form. Negative zero is written as "0".
func FormatFloat(v float64) string {
	if v == 0 {
		v = 0 // drops the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func appendCoords(b []byte, p Point) []byte {
	b = append(b, FormatFloat(p.X)...)
	b = append(b, ' ')
	b = append(b, FormatFloat(p.Y)...)
	b = append(b, ' ')
	b = append(b, FormatFloat(p.Z)...)
	return b
}

// XYZLine returns the .XYZ line of p, without the trailing newline
func XYZLine(p Point) string {
	b := appendCoords(make([]byte, 0, 64), p)
	b = append(b, ' ')
	b = append(b, FormatFloat(p.Value)...)
	return string(b)
}

// XYZRGBLine returns the .XYZRGB line of p, without the trailing newline
func XYZRGBLine(p Point) string {
	b := appendCoords(make([]byte, 0, 64), p)
	b = append(b, ' ')
	b = append(b, p.Color.String()...)
	return string(b)
}
