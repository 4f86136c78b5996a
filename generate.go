package ogimage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	// imaging registers PNG, JPEG, GIF, BMP and TIFF; WebP is the one extra.
	_ "golang.org/x/image/webp"
)

var (
	// ErrMissingInput is returned when the source logo does not exist.
	ErrMissingInput = errors.New("not found")

	// ErrUnsupportedFormat is returned when no registered decoder
	// recognizes the source bytes.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Result describes one composed OG image.
type Result struct {
	Path     string // where the PNG was written, empty for in-memory renders
	Width    int
	Height   int
	Layout   Layout
	Image    *image.RGBA
	PNG      []byte
	Checksum string // hex SHA-256 of PNG
}

// Load opens and decodes the image at path. The file is closed before
// Load returns.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s %w", path, ErrMissingInput)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return img, nil
}

// Decode reads any registered raster format: PNG, JPEG, GIF, BMP, TIFF, WebP.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Encode writes img as PNG at the highest compression level. Opaque
// images are written as RGB without an alpha channel.
func Encode(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Render loads the logo named by cfg and composes it in memory.
func Render(cfg Config) (Result, error) {
	cfg.setDefaults()
	logo, err := Load(cfg.LogoPath)
	if err != nil {
		return Result{}, err
	}
	canvas, layout, err := Compose(logo, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("compose: %w", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, canvas); err != nil {
		return Result{}, err
	}
	sum := sha256.Sum256(buf.Bytes())

	return Result{
		Width:    canvas.Bounds().Dx(),
		Height:   canvas.Bounds().Dy(),
		Layout:   layout,
		Image:    canvas,
		PNG:      buf.Bytes(),
		Checksum: hex.EncodeToString(sum[:]),
	}, nil
}

// Generate renders the OG image and writes it to cfg.OutputPath. Nothing is
// written when any step before the final write fails.
func Generate(cfg Config) (Result, error) {
	cfg.setDefaults()
	res, err := Render(cfg)
	if err != nil {
		return Result{}, err
	}
	if err := writeFile(cfg.OutputPath, res.PNG); err != nil {
		return Result{}, err
	}
	res.Path = cfg.OutputPath
	return res, nil
}

// writeFile replaces path atomically: readers see either the old file or
// the complete new one.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	tmpName := tmp.Name()
	if err := writeAndClose(tmp, data); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write image: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}

func writeAndClose(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
