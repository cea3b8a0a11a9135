package imaging

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/lucasb-eyer/go-colorful"
)

// ColormapLevels is the size of a colormap table.
const ColormapLevels = host.ColormapSize

type controlPoint struct {
	level int
	color colorful.Color
}

// LoadColormap reads a colormap file into a 256-entry table.
func LoadColormap(path string) ([]color.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open colormap: %w", err)
	}
	defer f.Close()

	table, err := ParseColormap(f)
	if err != nil {
		return nil, fmt.Errorf("colormap %s: %w", path, err)
	}
	return table, nil
}

// ParseColormap parses colormap text. Bare colors are spread evenly over
// the table; "<level> #RRGGBB" lines pin a color to a level. The two forms
// cannot be mixed.
func ParseColormap(r io.Reader) ([]color.NRGBA, error) {
	var points []controlPoint
	bare, pinned := 0, 0

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, ";") {
			continue
		}
		fields := strings.Fields(text)
		var p controlPoint
		var err error
		switch len(fields) {
		case 1:
			bare++
			p.level = -1
			p.color, err = colorful.Hex(fields[0])
		case 2:
			pinned++
			p.level, err = strconv.Atoi(fields[0])
			if err == nil && (p.level < 0 || p.level >= ColormapLevels) {
				err = fmt.Errorf("level %d outside [0, %d)", p.level, ColormapLevels)
			}
			if err == nil {
				p.color, err = colorful.Hex(fields[1])
			}
		default:
			err = fmt.Errorf("expected \"#RRGGBB\" or \"<level> #RRGGBB\"")
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, p)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	switch {
	case len(points) == 0:
		return nil, fmt.Errorf("no colors")
	case bare > 0 && pinned > 0:
		return nil, fmt.Errorf("bare colors and level entries cannot be mixed")
	case bare > 0:
		if bare == 1 {
			points[0].level = 0
			break
		}
		for i := range points {
			points[i].level = i * (ColormapLevels - 1) / (bare - 1)
		}
	default:
		sort.SliceStable(points, func(i, j int) bool { return points[i].level < points[j].level })
	}

	return interpolate(points), nil
}

// interpolate fills the table between sorted control points, holding the
// end colors flat beyond the first and last point.
func interpolate(points []controlPoint) []color.NRGBA {
	table := make([]color.NRGBA, ColormapLevels)
	next := 0
	for level := range table {
		for next < len(points) && points[next].level <= level {
			next++
		}
		var c colorful.Color
		switch {
		case next == 0:
			c = points[0].color
		case next == len(points):
			c = points[len(points)-1].color
		default:
			lo, hi := points[next-1], points[next]
			t := float64(level-lo.level) / float64(hi.level-lo.level)
			c = lo.color.BlendLab(hi.color, t).Clamped()
		}
		r, g, b := c.RGB255()
		table[level] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return table
}
