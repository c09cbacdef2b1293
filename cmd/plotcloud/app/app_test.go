package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/roman-kulish/drone-pointcloud/internal/colormap"
	"github.com/roman-kulish/drone-pointcloud/internal/pointcloud"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	blue  = colormap.RGB{R: 0, G: 0, B: 255}
	green = colormap.RGB{R: 0, G: 255, B: 0}
)

func testCloud() *CloudData {
	cloud := NewCloudData()
	for _, p := range []pointcloud.Point{
		{X: 0, Y: 0, Z: 1, Color: colormap.Red},
		{X: 0, Y: 0, Z: 5, Color: blue},
		{X: 0, Y: 0, Z: 2, Color: colormap.Red},
		{X: 10, Y: 10, Z: 0, Color: green},
	} {
		cloud.Update(p)
	}
	return cloud
}

func writeCloud(t *testing.T, cloud *CloudData) string {
	t.Helper()
	base := filepath.Join(t.TempDir(), "cloud")
	w, err := pointcloud.Create(base)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, p := range cloud.Points {
		if err = w.Write(p); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err = w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return base
}

func TestCloudData_Bounds(t *testing.T) {
	cloud := testCloud()

	want := [3]Bounds{{0, 10}, {0, 10}, {0, 5}}
	if diff := cmp.Diff(want, [3]Bounds{cloud.X, cloud.Y, cloud.Z}); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
	if cloud.Len() != 4 {
		t.Errorf("expected 4 points, got %d", cloud.Len())
	}

	empty := NewBounds()
	if empty.Span() != 0 || empty.Ratio(3) != 0 {
		t.Errorf("empty bounds should have no span")
	}
	if got := (Bounds{2, 2}).Ratio(2); got != 0 {
		t.Errorf("flat bounds ratio = %v", got)
	}
}

func TestParseView(t *testing.T) {
	tests := []struct {
		in      string
		want    View
		wantErr bool
	}{
		{"", TopView, false},
		{"TOP", TopView, false},
		{"front", FrontView, false},
		{" side", SideView, false},
		{"oblique", "", true},
	}

	for _, tt := range tests {
		got, err := ParseView(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseView(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseView(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestView_Projection(t *testing.T) {
	p := pointcloud.Point{X: 1, Y: 2, Z: 3}

	tests := []struct {
		view                View
		wantU, wantV, wantD float64
	}{
		{TopView, 1, 2, 3},
		{FrontView, 1, 3, -2},
		{SideView, 2, 3, 1},
	}

	for _, tt := range tests {
		u, v, d := tt.view.axes().Projection(p)
		if u != tt.wantU || v != tt.wantV || d != tt.wantD {
			t.Errorf("%s view: got (%v, %v, %v)", tt.view, u, v, d)
		}
	}
}

func TestNiceStep(t *testing.T) {
	tests := []struct {
		span   float64
		pixels int
		want   float64
	}{
		{100, 600, 50},  // 4 labels, rough 25
		{100, 300, 50},  // 2 labels, rough 50
		{10, 800, 2},    // rough 1.875
		{1, 150, 1},     // single label
		{0.3, 450, 0.1}, // rough 0.1
		{0, 800, 1},
	}

	for _, tt := range tests {
		if got := niceStep(tt.span, tt.pixels); !scalar.EqualWithinAbsOrRel(got, tt.want, 1e-12, 1e-12) {
			t.Errorf("niceStep(%v, %d) = %v, want %v", tt.span, tt.pixels, got, tt.want)
		}
	}
}

func TestTicks(t *testing.T) {
	got := ticks(Bounds{-12, 88}, 600)
	want := []float64{0, 50}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ticks mismatch (-want +got):\n%s", diff)
	}

	if got = ticks(Bounds{7, 7}, 600); len(got) != 1 || got[0] != 7 {
		t.Errorf("flat bounds should give a single tick, got %v", got)
	}
}

func TestFormatMeters(t *testing.T) {
	tests := []struct {
		v, step float64
		want    string
	}{
		{50, 50, "50"},
		{0.30000000000000004, 0.1, "0.3"},
		{-1e-17, 0.1, "0"},
		{1500, 500, "1500"},
	}

	for _, tt := range tests {
		if got := formatMeters(tt.v, tt.step); got != tt.want {
			t.Errorf("formatMeters(%v, %v) = %q, want %q", tt.v, tt.step, got, tt.want)
		}
	}
}

func TestRasterRenderer_HighestPointWins(t *testing.T) {
	r := NewRasterRenderer(RenderConfig{Width: 10, Height: 10})
	img, err := r.Render(testCloud())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	b := r.config.BorderConfig
	wantSize := image.Pt(10+b.Left+b.Right, 10+b.Top+b.Bottom)
	if img.Bounds().Size() != wantSize {
		t.Fatalf("image size %v, want %v", img.Bounds().Size(), wantSize)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"south west cell keeps the highest point", b.Left, b.Top + 9, color.RGBA{0, 0, 255, 255}},
		{"north east cell", b.Left + 9, b.Top, color.RGBA{0, 255, 0, 255}},
		{"empty cell stays white", b.Left + 5, b.Top + 5, color.RGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRasterRenderer_ClampsDisplayColor(t *testing.T) {
	cloud := NewCloudData()
	cloud.Update(pointcloud.Point{Color: colormap.LinearColor(-1)})

	r := NewRasterRenderer(RenderConfig{Width: 1, Height: 1})
	img, err := r.Render(cloud)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	b := r.config.BorderConfig
	if got := img.RGBAAt(b.Left, b.Top); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("pixel = %v", got)
	}
}

func TestRender_EmptyCloud(t *testing.T) {
	if _, err := NewRasterRenderer(RenderConfig{}).Render(NewCloudData()); err == nil {
		t.Errorf("raster: expected error")
	}
	if _, err := NewScatterPlot(NewCloudData(), TopView); err == nil {
		t.Errorf("scatter: expected error")
	}
}

func TestDepthOrder(t *testing.T) {
	sorted := depthOrder(testCloud().Points, TopView.axes().Projection)

	var zs []float64
	for _, p := range sorted {
		zs = append(zs, p.Z)
	}
	if diff := cmp.Diff([]float64{0, 1, 2, 5}, zs); diff != "" {
		t.Errorf("depth order mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_Raster(t *testing.T) {
	config := NewConfig()
	config.InBase = writeCloud(t, testCloud())
	config.OutputFile = filepath.Join(t.TempDir(), "cloud.png")
	config.Renderer = RendererRaster
	config.Width, config.Height = 64, 48

	if err := Run(context.Background(), config, discardLogger()); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(config.OutputFile)
	if err != nil {
		t.Fatalf("reading image: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding image: %v", err)
	}
	want := image.Pt(64+defaultLeftBorder+defaultRightBorder, 48+defaultTopBorder+defaultBottomBorder)
	if img.Bounds().Size() != want {
		t.Errorf("image size %v, want %v", img.Bounds().Size(), want)
	}
}

func TestRun_Scatter(t *testing.T) {
	config := NewConfig()
	config.InBase = writeCloud(t, testCloud())
	config.OutputFile = filepath.Join(t.TempDir(), "cloud.svg")
	config.View = FrontView

	if err := Run(context.Background(), config, discardLogger()); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(config.OutputFile)
	if err != nil {
		t.Fatalf("reading image: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Errorf("expected an svg document")
	}
}

func TestRun_MissingInput(t *testing.T) {
	config := NewConfig()
	config.InBase = filepath.Join(t.TempDir(), "none")
	config.OutputFile = filepath.Join(t.TempDir(), "none.png")

	if err := Run(context.Background(), config, discardLogger()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestReadCloud_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloud.XYZRGB")
	content := "1 2 3 255 0 0\nnot a point\n4 5 6 0 0 255\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing: %v", err)
	}

	cloud, err := readCloud(context.Background(), path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if cloud.Len() != 2 || cloud.Skipped != 1 {
		t.Errorf("got %d points, %d skipped", cloud.Len(), cloud.Skipped)
	}
	if !scalar.EqualWithinAbs(cloud.Z.Span(), 3, 1e-12) || math.IsInf(cloud.X.Min, 0) {
		t.Errorf("unexpected bounds %+v", cloud)
	}
}

func TestNewConfigFromArgs(t *testing.T) {
	c, err := NewConfigFromArgs("plotcloud", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.InputFile() != "simu.XYZRGB" || c.OutputFile != "simu.png" {
		t.Errorf("unexpected paths %q, %q", c.InputFile(), c.OutputFile)
	}
	if c.Renderer != RendererScatter || c.View != TopView {
		t.Errorf("unexpected defaults %+v", c)
	}

	c, err = NewConfigFromArgs("plotcloud", []string{"-i", "flight", "-o", "flight.jpg", "-renderer", "RASTER", "-view", "side"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Renderer != RendererRaster || c.View != SideView || c.OutputFile != "flight.jpg" {
		t.Errorf("unexpected config %+v", c)
	}

	for _, args := range [][]string{
		{"-renderer", "voxel"},
		{"-view", "oblique"},
		{"-width", "0"},
		{"-renderer", "raster", "-o", "out.svg"},
		{"-o", "out.gif"},
	} {
		if _, err = NewConfigFromArgs("plotcloud", args); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}
