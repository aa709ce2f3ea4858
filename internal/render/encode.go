package render

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output image format.
type Format string

const (
	ImagePNG  Format = "png"
	ImageJPEG Format = "jpeg"
	ImageBMP  Format = "bmp"
	ImageTIFF Format = "tiff"

	jpegQuality = 98
)

var validImageFormats = map[Format]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
	ImageBMP:  {},
	ImageTIFF: {},
}

var formatAliases = map[string]Format{
	"jpg": ImageJPEG,
	"tif": ImageTIFF,
}

// ParseFormat returns the format named s, ignoring case. "jpg" and "tif" are
// accepted as aliases.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if f, ok := formatAliases[s]; ok {
		return f, nil
	}
	if _, ok := validImageFormats[Format(s)]; !ok {
		return "", fmt.Errorf("invalid image format: %s", s)
	}
	return Format(s), nil
}

// FormatFromPath returns the format matching the file extension of path.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case ImagePNG:
		return png.Encode(w, img)
	case ImageJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{
			Quality: jpegQuality,
		})
	case ImageBMP:
		return bmp.Encode(w, img)
	case ImageTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("invalid image format: %s", format)
}

// SaveFile encodes img into a new file at path.
func SaveFile(path string, img image.Image, format Format) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	if err = Encode(out, img, format); err != nil {
		return fmt.Errorf("encoding '%s': %w", path, err)
	}
	return nil
}
