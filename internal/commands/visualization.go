package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/ironsheep/raster-bridge/internal/imaging"
)

var channelKeyword = Param{Name: "CHANNEL", Type: StringType, Description: "GRAY, RED, GREEN or BLUE. Defaults to GRAY."}

func visualizationCommands() []Command {
	target := []Param{channelKeyword, layerKeyword, windowKeyword}
	modeKeyword := Param{Name: "MODE", Type: StringType, Description: "grayscale or rgb. Defaults to the mode of CHANNEL, else the layer's display mode."}
	return []Command{
		{
			Name:        "SET_COLORMAP",
			Description: "Loads a colormap file into a raster layer's grayscale display.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        []Param{{Name: "colormap_file", Type: StringType, Description: "Colormap file. Relative paths are tried in the colormap directory first."}},
			Keywords:    []Param{layerKeyword, windowKeyword},
			Handler:     setColormap,
		},
		{
			Name:        "GET_STRETCH_VALUES",
			Description: "Reports a channel's stretch bounds, in the channel's stretch units.",
			Keywords: params(target, []Param{
				{Name: "MIN", Type: FloatType, Output: true, Description: "Lower bound."},
				{Name: "MAX", Type: FloatType, Output: true, Description: "Upper bound."},
			}),
			Handler: getStretchValues,
		},
		{
			Name:        "SET_STRETCH_VALUES",
			Description: "Sets a channel's stretch bounds. At least one of MIN and MAX is required.",
			Keywords: params(target, []Param{
				{Name: "MIN", Type: FloatType, Description: "Lower bound."},
				{Name: "MAX", Type: FloatType, Description: "Upper bound."},
			}),
			Handler: setStretchValues,
		},
		{
			Name:        "GET_STRETCH_METHOD",
			Description: "Returns the units of a channel's stretch bounds: raw, percentage, percentile or stddev.",
			Keywords:    target,
			Handler:     getStretchMethod,
		},
		{
			Name:        "SET_STRETCH_METHOD",
			Description: "Sets the units of a channel's stretch bounds.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        []Param{{Name: "method", Type: StringType, Description: "raw, percentage, percentile or stddev."}},
			Keywords:    target,
			Handler:     setStretchMethod,
		},
		{
			Name:        "GET_STRETCH_TYPE",
			Description: "Returns the stretch transfer function of a display mode.",
			Keywords:    params(target, []Param{modeKeyword}),
			Handler:     getStretchType,
		},
		{
			Name:        "SET_STRETCH_TYPE",
			Description: "Sets the stretch transfer function of a display mode.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        []Param{{Name: "stretch_type", Type: StringType, Description: "linear, logarithmic, exponential or equalization."}},
			Keywords:    params(target, []Param{modeKeyword}),
			Handler:     setStretchType,
		},
	}
}

func channelOf(c *Call) (host.Channel, error) {
	s := c.Text("CHANNEL", "")
	if s == "" {
		return host.Gray, nil
	}
	return host.ParseChannel(s)
}

// modeOf picks the display mode from MODE, then CHANNEL, then the layer.
func modeOf(c *Call, l *host.RasterLayer) (host.DisplayMode, error) {
	if s := c.Text("MODE", ""); s != "" {
		return host.ParseDisplayMode(s)
	}
	if c.Has("CHANNEL") {
		ch, err := channelOf(c)
		if err != nil {
			return 0, err
		}
		if ch == host.Gray {
			return host.GrayscaleMode, nil
		}
		return host.RGBMode, nil
	}
	return l.DisplayMode(), nil
}

// colormapPath resolves a relative colormap path against dir when the
// file exists there.
func colormapPath(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	candidate := filepath.Join(dir, path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}

func setColormap(env *Env, c *Call) (Value, error) {
	path := c.ArgString(0)
	if path == "" {
		return Null(), fmt.Errorf("%w: color map filename is invalid", ErrArgumentInvalid)
	}
	l, err := rasterLayer(env, c)
	if err != nil {
		return Null(), err
	}
	table, err := imaging.LoadColormap(colormapPath(env.ColormapDir, path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Null(), fmt.Errorf("%w: color map filename is invalid: %v", ErrArgumentInvalid, err)
		}
		return Null(), err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return status(l.SetColormap(name, table))
}

func getStretchValues(env *Env, c *Call) (Value, error) {
	l, err := rasterLayer(env, c)
	if err != nil {
		return Null(), err
	}
	ch, err := channelOf(c)
	if err != nil {
		return Null(), err
	}
	s := l.Stretch(ch)
	c.SetOutput("MIN", Float(s.Lower))
	c.SetOutput("MAX", Float(s.Upper))
	return String(Success), nil
}

func setStretchValues(env *Env, c *Call) (Value, error) {
	if !c.Has("MIN") && !c.Has("MAX") {
		return Null(), fmt.Errorf("%w: MIN or MAX is required", ErrArgumentInvalid)
	}
	l, err := rasterLayer(env, c)
	if err != nil {
		return Null(), err
	}
	ch, err := channelOf(c)
	if err != nil {
		return Null(), err
	}
	s := l.Stretch(ch)
	l.SetStretchValues(ch, c.Float("MIN", s.Lower), c.Float("MAX", s.Upper))
	return String(Success), nil
}

func getStretchMethod(env *Env, c *Call) (Value, error) {
	l, err := rasterLayer(env, c)
	if err != nil {
		return Null(), err
	}
	ch, err := channelOf(c)
	if err != nil {
		return Null(), err
	}
	return String(l.Stretch(ch).Units.String()), nil
}

func setStretchMethod(env *Env, c *Call) (Value, error) {
	l, err := rasterLayer(env, c)
	if err != nil {
		return Null(), err
	}
	ch, err := channelOf(c)
	if err != nil {
		return Null(), err
	}
	u, err := host.ParseRegionUnits(c.ArgString(0))
	if err != nil {
		return Null(), err
	}
	l.SetStretchUnits(ch, u)
	return String(Success), nil
}

func getStretchType(env *Env, c *Call) (Value, error) {
	l, err := rasterLayer(env, c)
	if err != nil {
		return Null(), err
	}
	mode, err := modeOf(c, l)
	if err != nil {
		return Null(), err
	}
	return String(l.StretchType(mode).String()), nil
}

func setStretchType(env *Env, c *Call) (Value, error) {
	l, err := rasterLayer(env, c)
	if err != nil {
		return Null(), err
	}
	mode, err := modeOf(c, l)
	if err != nil {
		return Null(), err
	}
	t, err := host.ParseStretchType(c.ArgString(0))
	if err != nil {
		return Null(), err
	}
	l.SetStretchType(mode, t)
	return String(Success), nil
}
