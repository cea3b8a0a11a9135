package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultGridColor is used when a grid color cannot be parsed.
var DefaultGridColor = color.RGBA{255, 0, 0, 255}

// DrawGrid returns a copy of img with lines every spacing pixels. With
// labels set, each crossing is tagged "col,row" in raster coordinates,
// offset by origin when img is a crop.
func DrawGrid(img image.Image, spacing int, labels bool, hex string, origin image.Point) (*image.RGBA, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %d", spacing)
	}
	gridColor := DefaultGridColor
	if hex != "" {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("grid color: %w", err)
		}
		r, g, b := c.RGB255()
		gridColor = color.RGBA{R: r, G: g, B: b, A: 255}
	}

	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)
	width, height := out.Bounds().Dx(), out.Bounds().Dy()

	for x := spacing; x < width; x += spacing {
		for y := 0; y < height; y++ {
			out.SetRGBA(x, y, gridColor)
		}
	}
	for y := spacing; y < height; y += spacing {
		for x := 0; x < width; x++ {
			out.SetRGBA(x, y, gridColor)
		}
	}

	if labels {
		fg := color.RGBA{255, 255, 255, 255}
		bg := color.RGBA{0, 0, 0, 255}
		for y := spacing; y < height; y += spacing {
			for x := spacing; x < width; x += spacing {
				drawLabel(out, x+2, y+2, fmt.Sprintf("%d,%d", origin.X+x, origin.Y+y), fg, bg)
			}
		}
	}
	return out, nil
}

// 3x5 pixel glyphs for grid labels
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	const charWidth, labelHeight = 4, 7
	set := func(px, py int, c color.RGBA) {
		if image.Pt(px, py).In(bounds) {
			img.SetRGBA(px, py, c)
		}
	}

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < len(text)*charWidth; dx++ {
			set(x+dx, y+dy, bg)
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				if pixel == '1' {
					set(cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
