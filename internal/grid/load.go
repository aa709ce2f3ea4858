package grid

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

const maxLineSize = 16 * 1024 * 1024

// ReadText parses a text matrix, one row per line. Values may be separated by
// commas, semicolons, tabs or spaces. Blank lines and lines starting with '#'
// are skipped, and "nan" is accepted for missing cells.
func ReadText(r io.Reader) (*Grid, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var rows [][]float64
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ';' || unicode.IsSpace(r)
		})

		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %d: parsing %q: %w", line, i+1, f, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading matrix: %w", err)
	}

	return New(rows)
}

// FromImage converts an image to a grid of luminance values in [0,1].
func FromImage(img image.Image) (*Grid, error) {
	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	if b.Empty() {
		return nil, ErrEmpty
	}

	m := mat.NewDense(b.Dy(), b.Dx(), nil)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			// Grayscale keeps R == G == B
			m.Set(y, x, float64(gray.Pix[y*gray.Stride+x*4])/255)
		}
	}
	return FromMatrix(m)
}

// LoadFile reads a grid from path. Image files (png, jpeg, gif, bmp, tiff)
// are converted to luminance, anything else is parsed as a text matrix.
func LoadFile(path string) (*Grid, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		img, err := imaging.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening image '%s': %w", path, err)
		}
		return FromImage(img)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := ReadText(f)
	if err != nil {
		return nil, fmt.Errorf("parsing '%s': %w", path, err)
	}
	return g, nil
}
