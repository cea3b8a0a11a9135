package host

import (
	"fmt"
	"strings"
)

// View is what a window displays. The implementations are
// *SpatialDataView, *ProductView and *PlotView.
type View interface {
	Name() string
	view()
}

// SpatialDataView shows raster elements as a stack of layers.
type SpatialDataView struct {
	name       string
	primary    *RasterElement
	layers     []Layer
	controller *AnimationController
}

// ProductView is a print layout view. It has no layers of its own.
type ProductView struct {
	name string
}

// PlotView shows a plot. It has no layers.
type PlotView struct {
	name string
}

func (v *SpatialDataView) Name() string { return v.name }
func (v *ProductView) Name() string     { return v.name }
func (v *PlotView) Name() string        { return v.name }

func (*SpatialDataView) view() {}
func (*ProductView) view()     {}
func (*PlotView) view()        {}

// NewSpatialDataView returns a view whose primary raster element is
// primary. The view starts with no layers.
func NewSpatialDataView(name string, primary *RasterElement) *SpatialDataView {
	return &SpatialDataView{name: name, primary: primary}
}

// PrimaryRasterElement is the element the view was opened on.
func (v *SpatialDataView) PrimaryRasterElement() *RasterElement { return v.primary }

// AnimationController returns the controller driving the view, if any.
func (v *SpatialDataView) AnimationController() *AnimationController { return v.controller }

// SetAnimationController attaches c to the view.
func (v *SpatialDataView) SetAnimationController(c *AnimationController) { v.controller = c }

// Layers returns the layers top first.
func (v *SpatialDataView) Layers() []Layer {
	return append([]Layer(nil), v.layers...)
}

// NumLayers returns the number of layers.
func (v *SpatialDataView) NumLayers() int { return len(v.layers) }

// AddLayer puts l on top of the stack. Layer names are unique per view.
func (v *SpatialDataView) AddLayer(l Layer) error {
	if v.Layer(l.Name()) != nil {
		return fmt.Errorf("%w: layer %q in view %q", ErrAlreadyExists, l.Name(), v.name)
	}
	v.layers = append([]Layer{l}, v.layers...)
	return nil
}

// CreateRasterLayer adds a raster layer for e on top of the stack.
func (v *SpatialDataView) CreateRasterLayer(e *RasterElement) (*RasterLayer, error) {
	l := NewRasterLayer(e.Name(), e)
	if err := v.AddLayer(l); err != nil {
		return nil, err
	}
	return l, nil
}

// RemoveLayersOf drops every layer displaying e.
func (v *SpatialDataView) RemoveLayersOf(e *RasterElement) {
	kept := v.layers[:0]
	for _, l := range v.layers {
		if l.Element() != e {
			kept = append(kept, l)
		}
	}
	v.layers = kept
}

// Layer returns the layer named name, or nil.
func (v *SpatialDataView) Layer(name string) Layer {
	for _, l := range v.layers {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

// LayerAt returns the layer at display index i, 0 being the top.
func (v *SpatialDataView) LayerAt(i int) Layer {
	if i < 0 || i >= len(v.layers) {
		return nil
	}
	return v.layers[i]
}

// TopMostLayer returns the top layer, or nil for an empty view.
func (v *SpatialDataView) TopMostLayer() Layer {
	return v.LayerAt(0)
}

// TopMostRasterLayer returns the highest raster layer, or nil.
func (v *SpatialDataView) TopMostRasterLayer() *RasterLayer {
	for _, l := range v.layers {
		if rl, ok := l.(*RasterLayer); ok {
			return rl
		}
	}
	return nil
}

// RasterLayerOf returns the raster layer displaying e, or nil.
func (v *SpatialDataView) RasterLayerOf(e *RasterElement) *RasterLayer {
	for _, l := range v.layers {
		if rl, ok := l.(*RasterLayer); ok && rl.element == e {
			return rl
		}
	}
	return nil
}

// DisplayIndex returns the position of l, or -1.
func (v *SpatialDataView) DisplayIndex(l Layer) int {
	for i, cur := range v.layers {
		if cur == l {
			return i
		}
	}
	return -1
}

// SetDisplayIndex moves l to position i. Indexes past the bottom clamp to
// the bottom.
func (v *SpatialDataView) SetDisplayIndex(l Layer, i int) error {
	from := v.DisplayIndex(l)
	if from < 0 {
		return fmt.Errorf("%w: layer %q in view %q", ErrNotFound, l.Name(), v.name)
	}
	if i < 0 {
		return fmt.Errorf("%w: display index %d", ErrInvalid, i)
	}
	rest := append(append([]Layer(nil), v.layers[:from]...), v.layers[from+1:]...)
	if i > len(rest) {
		i = len(rest)
	}
	v.layers = append(rest[:i], append([]Layer{l}, rest[i:]...)...)
	return nil
}

// Layer is one entry of a spatial view's layer stack. The implementations
// are *RasterLayer, *AoiLayer and *AnnotationLayer.
type Layer interface {
	Name() string
	// Element is the data the layer draws; nil for annotations.
	Element() *RasterElement
	Visible() bool
	SetVisible(bool)
	layer()
}

type layerBase struct {
	name    string
	element *RasterElement
	hidden  bool
}

func (l *layerBase) Name() string            { return l.name }
func (l *layerBase) Element() *RasterElement { return l.element }
func (l *layerBase) Visible() bool           { return !l.hidden }
func (l *layerBase) SetVisible(visible bool) { l.hidden = !visible }

// AoiLayer marks an area of interest over an element.
type AoiLayer struct {
	layerBase
}

// AnnotationLayer carries free-form drawing.
type AnnotationLayer struct {
	layerBase
}

func (*RasterLayer) layer()     {}
func (*AoiLayer) layer()        {}
func (*AnnotationLayer) layer() {}

// NewAoiLayer returns an area-of-interest layer over e.
func NewAoiLayer(name string, e *RasterElement) *AoiLayer {
	return &AoiLayer{layerBase{name: name, element: e}}
}

// NewAnnotationLayer returns an empty annotation layer.
func NewAnnotationLayer(name string) *AnnotationLayer {
	return &AnnotationLayer{layerBase{name: name}}
}

// ParseWindowKind accepts "SpatialDataWindow", "ProductWindow" or
// "PlotWindow" in any case. An empty name means a spatial data window.
func ParseWindowKind(s string) (WindowKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spatialdatawindow", "spatial_data_window", "":
		return SpatialDataWindow, nil
	case "productwindow", "product_window":
		return ProductWindow, nil
	case "plotwindow", "plot_window":
		return PlotWindow, nil
	default:
		return 0, fmt.Errorf("%w: unknown window type %q", ErrInvalid, s)
	}
}
