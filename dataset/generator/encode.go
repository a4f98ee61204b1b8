package generator

import (
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/YuminosukeSato/synthasl/pkg/errors"
)

// DefaultJPEGQuality is used when jpg output is selected without a quality.
const DefaultJPEGQuality = 95

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format, jpegQuality int) error {
	switch f {
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	default:
		return errors.NewValidationError("format", "must be png or jpg", string(f))
	}
}

// writeImage encodes img into path, replacing any existing file.
func writeImage(path string, img image.Image, f Format, jpegQuality int) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return errors.NewPersistenceError("create image", path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.NewPersistenceError("close image", path, cerr)
		}
	}()

	if err := Encode(out, img, f, jpegQuality); err != nil {
		return errors.NewPersistenceError("encode image", path, err)
	}
	return nil
}

// ensureDirs creates the dataset root and one directory per letter.
func ensureDirs(root string, dirs []string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return errors.NewPersistenceError("create directory", root, err)
	}
	for _, d := range dirs {
		p := filepath.Join(root, d)
		if err := os.MkdirAll(p, 0o755); err != nil {
			return errors.NewPersistenceError("create directory", p, err)
		}
	}
	return nil
}
