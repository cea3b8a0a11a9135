package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Snapshot is a rendered image encoded for transport.
type Snapshot struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop cuts the rectangle (x1,y1)-(x2,y2) out of img, scales it by scale
// and encodes it as base64 PNG. A scale of 1 or less than or equal to 0
// leaves the size unchanged.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*Snapshot, error) {
	bounds := img.Bounds()

	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	var out image.Image = imaging.Crop(img, image.Rect(x1, y1, x2, y2))
	if scale != 1.0 && scale > 0 {
		w := max(1, int(float64(out.Bounds().Dx())*scale))
		h := max(1, int(float64(out.Bounds().Dy())*scale))
		out = imaging.Resize(out, w, h, imaging.Lanczos)
	}
	return Encode(out)
}

// Encode returns img as a base64 PNG snapshot.
func Encode(img image.Image) (*Snapshot, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return &Snapshot{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// NamedRegion returns the rectangle of a named part of bounds: top-left,
// top-right, bottom-left, bottom-right, top-half, bottom-half, left-half,
// right-half, center or full.
func NamedRegion(bounds image.Rectangle, region string) (image.Rectangle, error) {
	w, h := bounds.Dx(), bounds.Dy()
	midX, midY := w/2, h/2

	var x1, y1, x2, y2 int
	switch region {
	case "", "full":
		x1, y1, x2, y2 = 0, 0, w, h
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		// middle 50% on each axis
		qW, qH := w/4, h/4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return image.Rectangle{}, fmt.Errorf("unknown region: %s", region)
	}
	return image.Rect(x1, y1, x2, y2).Add(bounds.Min), nil
}
