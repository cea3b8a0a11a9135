package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ironsheep/raster-bridge/internal/host"
)

func layerCommands() []Command {
	layerArg := []Param{{Name: "layer_name", Type: StringType, Description: "Layer name."}}
	return []Command{
		{
			Name:        "GET_CURRENT_NAME",
			Description: "Returns the name of the current dataset, its file or the current window.",
			Keywords: []Param{
				{Name: "DATASET", Type: FlagType, Description: "Return the primary raster element name. The default."},
				{Name: "FILE", Type: FlagType, Description: "Return the primary raster element's filename."},
				{Name: "WINDOW", Type: FlagType, Description: "Return the current window name."},
			},
			Handler: getCurrentName,
		},
		{
			Name:        "GET_DATA_ELEMENT_NAMES",
			Description: `Returns the names of the elements under a window's primary raster element, or every raster element when WINDOW is "all".`,
			Keywords:    []Param{windowKeyword},
			Handler:     getDataElementNames,
		},
		{
			Name:        "GET_DATA_NAME",
			Description: "Returns the name of the element a layer displays.",
			MaxArgs:     1,
			Args:        layerArg,
			Keywords: []Param{
				windowKeyword,
				{Name: "DATASET", Type: FlagType, Description: "Without a layer name, use the topmost raster layer instead of the topmost layer."},
			},
			Handler: getDataName,
		},
		{
			Name:        "GET_LAYER_NAME",
			Description: "Returns the name of the layer at a display index. A missing or negative index selects the topmost layer.",
			MaxArgs:     1,
			Args:        []Param{{Name: "position", Type: IntType, Description: "Display index, 0 being the top."}},
			Keywords: []Param{
				windowKeyword,
				{Name: "INDEX", Type: IntType, Description: "Display index, 0 being the top."},
			},
			Handler: getLayerName,
		},
		{
			Name:        "GET_LAYER_POSITION",
			Description: "Returns the display index of a layer, or -1 when it does not exist.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        layerArg,
			Keywords:    []Param{windowKeyword},
			Handler:     getLayerPosition,
		},
		{
			Name:        "SET_LAYER_POSITION",
			Description: "Moves a layer to a display index.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        layerArg,
			Keywords: []Param{
				windowKeyword,
				{Name: "INDEX", Type: IntType, Description: "New display index, 0 being the top."},
			},
			Handler: setLayerPosition,
		},
		{
			Name:        "GET_NUM_LAYERS",
			Description: "Returns the number of layers in a spatial data view.",
			Keywords:    []Param{windowKeyword},
			Handler:     getNumLayers,
		},
		{
			Name:        "SHOW_LAYER",
			Description: "Makes a layer visible.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        layerArg,
			Keywords:    []Param{windowKeyword},
			Handler:     layerVisibility(true),
		},
		{
			Name:        "HIDE_LAYER",
			Description: "Hides a layer.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        layerArg,
			Keywords:    []Param{windowKeyword},
			Handler:     layerVisibility(false),
		},
	}
}

func getCurrentName(env *Env, c *Call) (Value, error) {
	switch {
	case !c.Flag("DATASET") && c.Flag("FILE"):
		e, err := env.Host.PrimaryElement()
		if err != nil {
			return String(""), err
		}
		return String(e.Filename()), nil
	case !c.Flag("DATASET") && c.Flag("WINDOW"):
		w := env.Host.Desktop.Current()
		if w == nil {
			return String(""), fmt.Errorf("%w: no current window", ErrNotFound)
		}
		return String(w.Name()), nil
	default:
		e, err := env.Host.PrimaryElement()
		if err != nil {
			return String(""), err
		}
		return String(e.Name()), nil
	}
}

func getDataElementNames(env *Env, c *Call) (Value, error) {
	name := c.Text("WINDOW", "")
	var names []string
	_, v, err := env.Host.Desktop.ResolveSpatial(name)
	switch {
	case err == nil:
		if primary := v.PrimaryRasterElement(); primary != nil {
			for _, child := range env.Host.Model.Children(primary) {
				names = append(names, child.Name())
			}
		}
	case strings.EqualFold(name, "all"):
		for _, e := range env.Host.Model.Elements() {
			names = append(names, e.FullName())
		}
		sort.Strings(names)
	default:
		return Null(), err
	}
	if len(names) == 0 {
		return Null(), fmt.Errorf("%w: no elements matched", ErrNotFound)
	}
	return Strings(names), nil
}

func getDataName(env *Env, c *Call) (Value, error) {
	v, err := spatialView(env, c)
	if err != nil {
		return String(""), err
	}
	l, err := layerNamed(v, c.ArgString(0), c.Flag("DATASET"))
	if err != nil {
		return String(""), err
	}
	if l.Element() == nil {
		return String(""), nil
	}
	return String(l.Element().Name()), nil
}

func getLayerName(env *Env, c *Call) (Value, error) {
	index := -1
	if i, ok := c.Arg(0).AsInt(); ok {
		index = int(i)
	}
	index = c.Int("INDEX", index)

	v, err := spatialView(env, c)
	if err != nil {
		return String(""), err
	}
	var l host.Layer
	if index < 0 {
		l = v.TopMostLayer()
	} else {
		l = v.LayerAt(index)
	}
	if l == nil {
		return String(""), fmt.Errorf("%w: no layer at index %d of view %q", ErrNotFound, index, v.Name())
	}
	return String(l.Name()), nil
}

func getLayerPosition(env *Env, c *Call) (Value, error) {
	v, err := spatialView(env, c)
	if err != nil {
		return Int(-1), nil
	}
	l := v.Layer(c.ArgString(0))
	if l == nil {
		return Int(-1), nil
	}
	return Int(int64(v.DisplayIndex(l))), nil
}

func setLayerPosition(env *Env, c *Call) (Value, error) {
	if !c.Has("INDEX") {
		return Null(), fmt.Errorf("%w: INDEX is required", ErrArgumentInvalid)
	}
	v, err := spatialView(env, c)
	if err != nil {
		return Null(), err
	}
	l, err := layerNamed(v, c.ArgString(0), false)
	if err != nil {
		return Null(), err
	}
	return status(v.SetDisplayIndex(l, c.Int("INDEX", 0)))
}

func getNumLayers(env *Env, c *Call) (Value, error) {
	v, err := spatialView(env, c)
	if err != nil {
		return Int(0), err
	}
	return Int(int64(v.NumLayers())), nil
}

func layerVisibility(visible bool) Handler {
	return func(env *Env, c *Call) (Value, error) {
		v, err := spatialView(env, c)
		if err != nil {
			return Null(), err
		}
		l, err := layerNamed(v, c.ArgString(0), false)
		if err != nil {
			return Null(), err
		}
		l.SetVisible(visible)
		return String(Success), nil
	}
}
