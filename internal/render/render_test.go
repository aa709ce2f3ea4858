package render

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/roman-kulish/cmap-chooser/internal/colormap"
	"github.com/roman-kulish/cmap-chooser/internal/grid"
	"github.com/roman-kulish/cmap-chooser/internal/norm"
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func testInputs(t *testing.T) (*grid.Grid, *colormap.Colormap, norm.Normalizer) {
	t.Helper()
	g, err := grid.New([][]float64{{0, 10, math.NaN()}, {10, 0, 5}})
	if err != nil {
		t.Fatalf("Failed to create grid: %v", err)
	}
	cm, err := colormap.FromHex("bw", []string{"#000000", "#ffffff"})
	if err != nil {
		t.Fatalf("Failed to create colormap: %v", err)
	}
	n, err := norm.Build(norm.Linear, norm.Params{VMin: 0, VMax: 10})
	if err != nil {
		t.Fatalf("Failed to build norm: %v", err)
	}
	return g, cm, n
}

func TestRender_Layout(t *testing.T) {
	g, cm, n := testInputs(t)

	// 10 px per cell
	r := NewRenderer(Config{Width: 30, Height: 20})
	img, err := r.Render(g, cm, n)
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}

	wantW := defaultLeftBorder + 30 + defaultRightBorder
	wantH := defaultTopBorder + defaultColorbarHeight + tickAreaHeight + 20 + defaultBottomBorder
	if b := img.Bounds(); b.Dx() != wantW || b.Dy() != wantH {
		t.Fatalf("Expected %dx%d image, got %dx%d", wantW, wantH, b.Dx(), b.Dy())
	}

	rasterTop := defaultTopBorder + defaultColorbarHeight + tickAreaHeight
	pixel := func(col, row int) color.RGBA {
		return img.RGBAAt(defaultLeftBorder+col*10+5, rasterTop+row*10+5)
	}

	if got := pixel(0, 0); got != black {
		t.Errorf("Cell (0,0): expected black, got %v", got)
	}
	if got := pixel(1, 0); got != white {
		t.Errorf("Cell (0,1): expected white, got %v", got)
	}
	// masked cells show the background
	if got := pixel(2, 0); got != white {
		t.Errorf("Masked cell: expected the white background, got %v", got)
	}
	if got := pixel(2, 1); got.R < 0x70 || got.R > 0x90 {
		t.Errorf("Cell (1,2): expected mid gray, got %v", got)
	}

	// colorbar runs from 0 on the left to 1 on the right
	barY := defaultTopBorder + defaultColorbarHeight/2
	if got := img.RGBAAt(defaultLeftBorder, barY); got != black {
		t.Errorf("Colorbar start: expected black, got %v", got)
	}
	if got := img.RGBAAt(defaultLeftBorder+29, barY); got != white {
		t.Errorf("Colorbar end: expected white, got %v", got)
	}
}

func TestRender_Annotations(t *testing.T) {
	g, cm, n := testInputs(t)

	plain, err := NewRenderer(Config{Width: 300, NoAnnotations: true}).Render(g, cm, n)
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}
	annotated, err := NewRenderer(Config{Width: 300}).Render(g, cm, n)
	if err != nil {
		t.Fatalf("Failed to render with annotations: %v", err)
	}

	if plain.Bounds() != annotated.Bounds() {
		t.Fatalf("Annotations changed the layout: %v vs %v", plain.Bounds(), annotated.Bounds())
	}

	// the title area is blank without annotations and has text with them
	title := image.Rect(0, 0, annotated.Bounds().Dx(), defaultTopBorder)
	if countDark(plain, title) != 0 {
		t.Error("Expected an empty title area without annotations")
	}
	if countDark(annotated, title) == 0 {
		t.Error("Expected the colormap name in the title area")
	}
}

func countDark(img *image.RGBA, area image.Rectangle) int {
	count := 0
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if img.RGBAAt(x, y).R < 0x80 {
				count++
			}
		}
	}
	return count
}

func TestRender_MissingInputs(t *testing.T) {
	g, cm, n := testInputs(t)
	r := NewRenderer(Config{})

	if _, err := r.Render(nil, cm, n); err == nil {
		t.Error("Expected an error without a grid")
	}
	if _, err := r.Render(g, nil, n); err == nil {
		t.Error("Expected an error without a colormap")
	}
	if _, err := r.Render(g, cm, nil); err == nil {
		t.Error("Expected an error without a normalization")
	}
}

func TestRasterSize(t *testing.T) {
	testCases := []struct {
		name          string
		width, height int
		rows, cols    int
		wantW, wantH  int
	}{
		{"default landscape", 0, 0, 50, 100, 512, 256},
		{"default portrait", 0, 0, 100, 50, 256, 512},
		{"width only", 200, 0, 10, 40, 200, 50},
		{"height only", 0, 30, 10, 40, 120, 30},
		{"explicit", 64, 64, 10, 40, 64, 64},
		{"tiny", 0, 1, 1, 1000, 1000, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRenderer(Config{Width: tc.width, Height: tc.height})
			w, h := r.rasterSize(tc.rows, tc.cols)
			if w != tc.wantW || h != tc.wantH {
				t.Errorf("Expected %dx%d, got %dx%d", tc.wantW, tc.wantH, w, h)
			}
		})
	}
}

func TestSwatch(t *testing.T) {
	cm, err := colormap.FromHex("bw", []string{"#000000", "#ffffff"})
	if err != nil {
		t.Fatalf("Failed to create colormap: %v", err)
	}

	img := Swatch(cm, 64, 8)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 8 {
		t.Fatalf("Expected 64x8 swatch, got %dx%d", b.Dx(), b.Dy())
	}
	if got := img.RGBAAt(0, 4); got != black {
		t.Errorf("Swatch start: expected black, got %v", got)
	}
	if got := img.RGBAAt(63, 4); got != white {
		t.Errorf("Swatch end: expected white, got %v", got)
	}
}

func TestFormatTick(t *testing.T) {
	testCases := map[float64]string{
		0:          "0",
		1:          "1",
		2.5:        "2.5",
		-0.125:     "-0.12",
		1234.5:     "1234.5",
		math.NaN(): "nan",
	}
	for v, want := range testCases {
		if got := formatTick(v); got != want {
			t.Errorf("formatTick(%g): expected %q, got %q", v, want, got)
		}
	}

	if got := formatTick(25_000); got != "25 k" {
		t.Errorf("formatTick(25000): expected SI prefix, got %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	testCases := map[string]Format{
		"png":  ImagePNG,
		"PNG":  ImagePNG,
		".jpg": ImageJPEG,
		"jpeg": ImageJPEG,
		"bmp":  ImageBMP,
		"tif":  ImageTIFF,
		"TIFF": ImageTIFF,
	}
	for in, want := range testCases {
		got, err := ParseFormat(in)
		if err != nil {
			t.Errorf("ParseFormat(%q): unexpected error %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFormat(%q): expected %s, got %s", in, want, got)
		}
	}

	if _, err := ParseFormat("gif"); err == nil {
		t.Error("Expected an error for an unsupported format")
	}
	if f, err := FormatFromPath("/tmp/out.Jpg"); err != nil || f != ImageJPEG {
		t.Errorf("FormatFromPath: got %s, %v", f, err)
	}
}

func TestEncode(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 3))

	for format := range validImageFormats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, img, format); err != nil {
				t.Fatalf("Failed to encode: %v", err)
			}

			decoded, name, err := image.Decode(&buf)
			if err != nil {
				t.Fatalf("Failed to decode: %v", err)
			}
			if name != string(format) {
				t.Errorf("Expected %s, decoded as %s", format, name)
			}
			if decoded.Bounds() != img.Bounds() {
				t.Errorf("Expected bounds %v, got %v", img.Bounds(), decoded.Bounds())
			}
		})
	}

	if err := Encode(&bytes.Buffer{}, img, Format("gif")); err == nil {
		t.Error("Expected an error for an unsupported format")
	}
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := SaveFile(path, image.NewRGBA(image.Rect(0, 0, 2, 2)), ImagePNG); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}
	if err := SaveFile(filepath.Join(t.TempDir(), "missing", "out.png"), image.NewRGBA(image.Rect(0, 0, 2, 2)), ImagePNG); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}
