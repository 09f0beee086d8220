package capture

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"

	"photo-session/internal/exr"
)

// DirName is the screenshot folder created next to the data root.
const DirName = "Screenshots"

// JPEGQuality matches the engine's default JPEG encoder setting.
const JPEGQuality = 75

// timestampLayout renders as yyyy.MM.dd - HH.mm.ss.ff.
const timestampLayout = "2006.01.02 - 15.04.05.00"

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case JPG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case EXR:
		err = exr.Encode(w, img, nil)
	case TGA:
		err = tga.Encode(w, img)
	case WebP:
		err = nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}
	if err != nil {
		return fmt.Errorf("capture: encode %s: %w", f, err)
	}
	return nil
}

// Dir returns the screenshot directory for a data root: a Screenshots
// folder in the root's parent.
func Dir(dataRoot string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(dataRoot)), DirName)
}

// SetupDir creates dir if it does not exist.
func SetupDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("capture: create %s: %w", dir, err)
	}
	return nil
}

// Filename returns "{scene} - {yyyy.MM.dd - HH.mm.ss.ff}.{ext}".
func Filename(scene string, t time.Time, f Format) (string, error) {
	ext, err := f.Extension()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s - %s.%s", scene, t.Format(timestampLayout), ext), nil
}

// WriteFile encodes img into path.
func WriteFile(path string, img image.Image, f Format) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("capture: create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("capture: close %s: %w", path, cerr)
		}
	}()
	if err := Encode(file, img, f); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
