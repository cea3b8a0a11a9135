package host

import (
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("raster-bridge.host")

// Options configures a new Host.
type Options struct {
	// Version is what GET_VERSION(/HOST) reports.
	Version  string
	Settings map[string]any
	// Executor runs wizards. Nil selects a RecordingExecutor.
	Executor WizardExecutor
}

// Host groups the services the bridge consumes.
type Host struct {
	Model      *Model
	Desktop    *Desktop
	Animations *Animations
	Settings   *Settings
	Wizards    *Wizards

	version string
}

// New returns an empty host.
func New(opts Options) *Host {
	version := opts.Version
	if version == "" {
		version = "4.12.0"
	}
	return &Host{
		Model:      NewModel(),
		Desktop:    NewDesktop(),
		Animations: NewAnimations(),
		Settings:   NewSettings(opts.Settings),
		Wizards:    NewWizards(opts.Executor),
		version:    version,
	}
}

// Version returns the host application version.
func (h *Host) Version() string { return h.version }

// PrimaryElement returns the primary raster element of the current spatial
// data window.
func (h *Host) PrimaryElement() (*RasterElement, error) {
	w := h.Desktop.Current()
	if w == nil {
		return nil, fmt.Errorf("%w: no spatial data window selected", ErrNotFound)
	}
	v, ok := w.SpatialDataView()
	if !ok || v.PrimaryRasterElement() == nil {
		return nil, fmt.Errorf("%w: window %q has no primary raster element", ErrNotFound, w.Name())
	}
	return v.PrimaryRasterElement(), nil
}

// OpenWindow shows e in a new spatial data window named after it, with a
// single raster layer, and makes that window current.
func (h *Host) OpenWindow(e *RasterElement) (*Window, *RasterLayer, error) {
	w, err := h.Desktop.CreateWindow(e.Name(), SpatialDataWindow, e)
	if err != nil {
		return nil, nil, err
	}
	v, _ := w.SpatialDataView()
	l, err := v.CreateRasterLayer(e)
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("opened window %q", w.Name())
	return w, l, nil
}

// CloseWindow closes w. When no other window shows its primary element,
// the element and its children are destroyed, along with any layers that
// displayed them.
func (h *Host) CloseWindow(w *Window) error {
	if err := h.Desktop.Close(w); err != nil {
		return err
	}
	v, ok := w.SpatialDataView()
	if !ok || v.PrimaryRasterElement() == nil {
		return nil
	}
	primary := v.PrimaryRasterElement()
	if len(h.Desktop.ViewsShowing(primary)) > 0 {
		return nil
	}
	doomed := append([]*RasterElement{primary}, h.descendants(primary)...)
	for _, other := range h.Desktop.Windows() {
		if ov, ok := other.SpatialDataView(); ok {
			for _, e := range doomed {
				ov.RemoveLayersOf(e)
			}
		}
	}
	h.Model.Destroy(primary)
	log.Debugf("closed window %q and destroyed %d elements", w.Name(), len(doomed))
	return nil
}

func (h *Host) descendants(e *RasterElement) []*RasterElement {
	var out []*RasterElement
	for _, c := range h.Model.Children(e) {
		out = append(out, c)
		out = append(out, h.descendants(c)...)
	}
	return out
}

// LayerByRaster returns the first raster layer, in any spatial view, that
// displays e, together with its view.
func (h *Host) LayerByRaster(e *RasterElement) (*RasterLayer, *SpatialDataView) {
	for _, w := range h.Desktop.Windows() {
		if v, ok := w.SpatialDataView(); ok {
			if l := v.RasterLayerOf(e); l != nil {
				return l, v
			}
		}
	}
	return nil, nil
}
