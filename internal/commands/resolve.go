package commands

import (
	"fmt"

	"github.com/ironsheep/raster-bridge/internal/host"
)

// Keywords shared by many commands.
var (
	windowKeyword     = Param{Name: "WINDOW", Type: StringType, Description: "Window name. Defaults to the current window."}
	layerKeyword      = Param{Name: "LAYER", Type: StringType, Description: "Layer name. Defaults to the layer showing the primary raster element."}
	datasetKeyword    = Param{Name: "DATASET", Type: StringType, Description: "Element reference such as scene=>mask. Defaults to the primary raster element."}
	typeKeyword       = Param{Name: "TYPE", Type: StringType, Description: "Window type: SpatialDataWindow, ProductWindow or PlotWindow."}
	controllerKeyword = Param{Name: "CONTROLLER_NAME", Type: StringType, Description: "Animation controller. Defaults to the active controller."}
)

func status(err error) (Value, error) {
	if err != nil {
		return Null(), err
	}
	return String(Success), nil
}

// window resolves the WINDOW and TYPE keywords.
func window(env *Env, c *Call) (*host.Window, error) {
	kind := host.SpatialDataWindow
	if s := c.Text("TYPE", ""); s != "" {
		k, err := host.ParseWindowKind(s)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	return env.Host.Desktop.Resolve(c.Text("WINDOW", ""), kind)
}

func spatialView(env *Env, c *Call) (*host.SpatialDataView, error) {
	_, v, err := env.Host.Desktop.ResolveSpatial(c.Text("WINDOW", ""))
	return v, err
}

// layerNamed returns the layer called name in v. An empty name selects the
// topmost layer, or the topmost raster layer when rasterOnly is set.
func layerNamed(v *host.SpatialDataView, name string, rasterOnly bool) (host.Layer, error) {
	var l host.Layer
	switch {
	case name != "":
		l = v.Layer(name)
	case rasterOnly:
		if rl := v.TopMostRasterLayer(); rl != nil {
			l = rl
		}
	default:
		l = v.TopMostLayer()
	}
	if l == nil {
		if name == "" {
			return nil, fmt.Errorf("%w: view %q has no layers", ErrNotFound, v.Name())
		}
		return nil, fmt.Errorf("%w: layer %q in view %q", ErrNotFound, name, v.Name())
	}
	if _, ok := l.(*host.RasterLayer); rasterOnly && !ok {
		return nil, fmt.Errorf("%w: layer %q is not a raster layer", ErrArgumentInvalid, name)
	}
	return l, nil
}

// rasterLayer resolves the LAYER and WINDOW keywords. Without LAYER it
// picks the layer showing the view's primary raster element, falling back
// to the topmost raster layer.
func rasterLayer(env *Env, c *Call) (*host.RasterLayer, error) {
	return rasterLayerNamed(env, c, c.Text("LAYER", ""))
}

func rasterLayerNamed(env *Env, c *Call, name string) (*host.RasterLayer, error) {
	v, err := spatialView(env, c)
	if err != nil {
		return nil, err
	}
	if name == "" {
		if primary := v.PrimaryRasterElement(); primary != nil {
			if l := v.RasterLayerOf(primary); l != nil {
				return l, nil
			}
		}
	}
	l, err := layerNamed(v, name, true)
	if err != nil {
		return nil, err
	}
	return l.(*host.RasterLayer), nil
}

func controller(env *Env, c *Call) (*host.AnimationController, error) {
	return env.Host.Animations.Resolve(c.Text("CONTROLLER_NAME", ""))
}
