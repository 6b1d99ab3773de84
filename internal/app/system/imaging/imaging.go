// internal/app/system/imaging/imaging.go

// Package imaging validates content images before anything is sent to the
// blob store: fixed raster format (PNG), a byte-size ceiling, and an
// aspect ratio inside a tolerance band around the card layout's target
// ratio. Validation failures carry a descriptive reason and must abort
// the upload entirely, leaving any prior image untouched.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"io"

	_ "image/gif"  // registered so wrong-format uploads fail with a clear reason
	_ "image/jpeg" // registered so wrong-format uploads fail with a clear reason
	_ "image/png"
)

// Limits for content images. The target ratio matches the 4:3 content
// cards in the dashboard and marketing pages.
const (
	MaxBytes       = 2 << 20 // 2 MiB
	TargetRatio    = 4.0 / 3.0
	RatioTolerance = 0.10 // fraction of TargetRatio
)

var (
	ErrTooLarge    = errors.New("image exceeds the maximum allowed size")
	ErrWrongFormat = errors.New("image must be a PNG")
	ErrBadRatio    = errors.New("image aspect ratio is outside the allowed band")
)

// Info describes a validated image.
type Info struct {
	Width  int
	Height int
	Ratio  float64
}

// Validate checks size, format, and aspect ratio, reading only the image
// header. size is the total byte size of the upload as reported by the
// client; it is checked before any decoding happens.
func Validate(r io.Reader, size int64) (Info, error) {
	if size > MaxBytes {
		return Info{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, size, MaxBytes)
	}

	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrWrongFormat, err)
	}
	if format != "png" {
		return Info{}, fmt.Errorf("%w: got %s", ErrWrongFormat, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, fmt.Errorf("%w: empty image", ErrWrongFormat)
	}

	ratio := float64(cfg.Width) / float64(cfg.Height)
	if diff := ratio - TargetRatio; diff > TargetRatio*RatioTolerance || diff < -TargetRatio*RatioTolerance {
		return Info{}, fmt.Errorf("%w: got %.3f, want %.3f ±%.0f%%",
			ErrBadRatio, ratio, TargetRatio, RatioTolerance*100)
	}

	return Info{Width: cfg.Width, Height: cfg.Height, Ratio: ratio}, nil
}
