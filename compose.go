package ogimage

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Compose centers src on a solid canvas described by cfg. The logo is
// converted to NRGBA, Lanczos-resized to fit the padded content area, and
// drawn with its own alpha as the mask, so the returned canvas stays opaque.
func Compose(src image.Image, cfg Config) (*image.RGBA, Layout, error) {
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, Layout{}, err
	}
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, Layout{}, err
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, Layout{}, errors.New("source image is empty")
	}

	logo := imaging.Clone(src)
	layout := Plan(b.Dx(), b.Dy(), cfg)
	resized := imaging.Resize(logo, layout.Width, layout.Height, imaging.Lanczos)

	canvas := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(canvas, layout.Rect(), resized, resized.Bounds().Min, draw.Over)

	return canvas, layout, nil
}

// Thumbnail scales img down to the given width, keeping its aspect ratio.
func Thumbnail(img image.Image, width int) *image.RGBA {
	b := img.Bounds()
	h := max(1, b.Dy()*width/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
