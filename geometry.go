package ogimage

import (
	"image"
	"math"
)

// Layout describes where the resized logo lands on the canvas.
type Layout struct {
	SourceWidth  int
	SourceHeight int
	Width        int // resized logo width
	Height       int // resized logo height
	Offset       image.Point
}

// Rect returns the canvas region covered by the resized logo.
func (l Layout) Rect() image.Rectangle {
	return image.Rect(0, 0, l.Width, l.Height).Add(l.Offset)
}

// Fit scales srcW x srcH uniformly so it fits inside maxW x maxH.
// The longer side is clamped first and the other side follows the aspect
// ratio, rounded to nearest. Images already inside the box are not enlarged.
func Fit(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	aspect := float64(srcW) / float64(srcH)

	var w, h int
	if srcW > srcH {
		w = min(srcW, maxW)
		h = roundDim(float64(w) / aspect)
		if h > maxH {
			h = maxH
			w = roundDim(float64(h) * aspect)
		}
	} else {
		h = min(srcH, maxH)
		w = roundDim(float64(h) * aspect)
		if w > maxW {
			w = maxW
			h = roundDim(float64(w) / aspect)
		}
	}
	return min(w, maxW), min(h, maxH)
}

func roundDim(v float64) int {
	return max(1, int(math.Round(v)))
}

// Center returns the top-left offset that centers a w x h box on the canvas.
func Center(canvasW, canvasH, w, h int) image.Point {
	return image.Pt((canvasW-w)/2, (canvasH-h)/2)
}

// Plan computes the layout for a source of the given size under cfg.
func Plan(srcW, srcH int, cfg Config) Layout {
	maxW, maxH := cfg.contentArea()
	w, h := Fit(srcW, srcH, maxW, maxH)
	return Layout{
		SourceWidth:  srcW,
		SourceHeight: srcH,
		Width:        w,
		Height:       h,
		Offset:       Center(cfg.Width, cfg.Height, w, h),
	}
}
