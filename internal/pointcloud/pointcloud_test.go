package pointcloud

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/roman-kulish/drone-pointcloud/internal/colormap"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1.23, "1.23"},
		{-12.5, "-12.5"},
		{1e-7, "0.0000001"},
		{3.694528049465325, "3.694528049465325"},
	}

	for _, tt := range tests {
		if got := FormatFloat(tt.in); got != tt.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLines(t *testing.T) {
	p := Point{X: 1.5, Y: -2, Z: 0, Value: 1.23, Color: colormap.RGB{R: 255, G: 0, B: 191}}

	if got := XYZLine(p); got != "1.5 -2 0 1.23" {
		t.Errorf("XYZLine = %q", got)
	}
	if got := XYZRGBLine(p); got != "1.5 -2 0 255 0 191" {
		t.Errorf("XYZRGBLine = %q", got)
	}
}

func TestWriter_Lockstep(t *testing.T) {
	var xyz, rgb bytes.Buffer
	w := NewWriter(&xyz, &rgb)

	points := []Point{
		{X: 0, Y: 0, Z: 0, Value: 0.1, Color: colormap.DiscreteColor(0.1)},
		{X: 1, Y: 2, Z: 3, Value: 4, Color: colormap.DiscreteColor(4)},
	}
	for _, p := range points {
		if err := w.Write(p); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if got, want := xyz.String(), "0 0 0 0.1\n1 2 3 4\n"; got != want {
		t.Errorf(".XYZ content %q, want %q", got, want)
	}
	if got, want := rgb.String(), "0 0 0 0 0 255\n1 2 3 255 0 0\n"; got != want {
		t.Errorf(".XYZRGB content %q, want %q", got, want)
	}
	if w.Count() != 2 {
		t.Errorf("expected 2 points, got %d", w.Count())
	}
	if w.Bytes() != int64(xyz.Len()+rgb.Len()) {
		t.Errorf("byte count %d, want %d", w.Bytes(), xyz.Len()+rgb.Len())
	}
	if err := w.Write(points[0]); err == nil {
		t.Errorf("expected error writing after close")
	}
}

func TestCreate_FilesAndReadBack(t *testing.T) {
	base := filepath.Join(t.TempDir(), "cloud")

	w, err := Create(base)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := []Point{
		{X: 1.25, Y: -3, Z: 10, Color: colormap.RGB{R: 63, G: 0, B: 255}},
		{X: 0, Y: 0, Z: 0, Color: colormap.RGB{R: 255, G: 0, B: -102}},
	}
	for _, p := range want {
		p.Value = 1
		if err := w.Write(p); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	xyzPath, rgbPath := Paths(base)
	if _, err := os.Stat(xyzPath); err != nil {
		t.Fatalf("missing %s: %v", xyzPath, err)
	}

	var got []Point
	skipped, err := ReadXYZRGBFile(context.Background(), rgbPath, func(p Point) {
		got = append(got, p)
	})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if skipped != 0 {
		t.Errorf("expected no skipped lines, got %d", skipped)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("points (-want +got):\n%s", diff)
	}
}

func TestReadXYZRGBFile_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloud"+ExtXYZRGB)
	if err := os.WriteFile(path, []byte("1 2 3 255 0 0\n4 5 6 0 0 255\n"), 0o644); err != nil {
		t.Fatalf("writing: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := 0
	_, err := ReadXYZRGBFile(ctx, path, func(Point) { n++ })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n != 0 {
		t.Errorf("no point should be delivered after cancellation, got %d", n)
	}
}

func TestCreate_MissingDirectory(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "cloud"))
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestReader_SkipsMalformed(t *testing.T) {
	input := strings.Join([]string{
		"1 2 3 255 0 0",
		"",
		"1 2 3",
		"a b c 1 2 3",
		"4 5 6 0.0 0 255.0",
	}, "\n")

	r := NewReader(strings.NewReader(input))
	var got []Point
	for r.Next() {
		got = append(got, r.Current())
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	want := []Point{
		{X: 1, Y: 2, Z: 3, Color: colormap.RGB{R: 255}},
		{X: 4, Y: 5, Z: 6, Color: colormap.RGB{B: 255}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("points (-want +got):\n%s", diff)
	}
	if r.Skipped() != 2 {
		t.Errorf("expected 2 skipped, got %d", r.Skipped())
	}
}
