package pointcloud

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/roman-kulish/drone-pointcloud/internal/colormap"
)

// ParseXYZRGBLine parses one "x y z r g b" line. Color components are read
// as numbers and truncated, so "255.0" is accepted.
func ParseXYZRGBLine(line string) (Point, error) {
	fields := strings.Fields(line)
	if len(fields) != 6 {
		return Point{}, fmt.Errorf("expected 6 fields, got %d", len(fields))
	}

	var vals [6]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Point{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		vals[i] = v
	}

	return Point{
		X: vals[0],
		Y: vals[1],
		Z: vals[2],
		Color: colormap.RGB{
			R: int(vals[3]),
			G: int(vals[4]),
			B: int(vals[5]),
		},
	}, nil
}

// Reader streams points out of a .XYZRGB file. Malformed lines are skipped
// and counted.
type Reader struct {
	scanner *bufio.Scanner
	current Point
	lines   int64
	skipped int64
	err     error
}

// NewReader creates a Reader over r
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next advances to the next well-formed point
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}

	for r.scanner.Scan() {
		r.lines++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}

		p, err := ParseXYZRGBLine(line)
		if err != nil {
			r.skipped++
			continue
		}
		r.current = p
		return true
	}

	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("reading line %d: %w", r.lines+1, err)
	}
	return false
}

// Current returns the point found by the last call to Next
func (r *Reader) Current() Point {
	return r.current
}

// Err returns the read error that stopped the reader, if any
func (r *Reader) Err() error {
	return r.err
}

// Skipped is the number of malformed lines seen so far
func (r *Reader) Skipped() int64 {
	return r.skipped
}

// ReadXYZRGBFile streams every well-formed point of a .XYZRGB file into fn,
// in file order, and returns the number of malformed lines skipped.
func ReadXYZRGBFile(ctx context.Context, path string, fn func(Point)) (skipped int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer closeWithError(f, &err)

	r := NewReader(f)
	for r.Next() {
		if err = ctx.Err(); err != nil {
			return r.Skipped(), err
		}
		fn(r.Current())
	}
	return r.Skipped(), r.Err()
}
