package host

import "fmt"

// WindowKind is the type of view a window holds.
type WindowKind int

const (
	SpatialDataWindow WindowKind = iota + 1
	ProductWindow
	PlotWindow
)

func (k WindowKind) String() string {
	switch k {
	case SpatialDataWindow:
		return "SpatialDataWindow"
	case ProductWindow:
		return "ProductWindow"
	case PlotWindow:
		return "PlotWindow"
	default:
		return fmt.Sprintf("window(%d)", int(k))
	}
}

// Window is a desktop window. Its label starts out equal to its name.
type Window struct {
	name  string
	kind  WindowKind
	label string
	x, y  int
	view  View
}

func (w *Window) Name() string     { return w.name }
func (w *Window) Kind() WindowKind { return w.kind }
func (w *Window) View() View       { return w.view }
func (w *Window) Label() string    { return w.label }

func (w *Window) SetLabel(label string) { w.label = label }

// Position returns the window's top-left corner.
func (w *Window) Position() (x, y int) { return w.x, w.y }

func (w *Window) SetPosition(x, y int) { w.x, w.y = x, y }

// SpatialDataView returns the window's view when it is spatial.
func (w *Window) SpatialDataView() (*SpatialDataView, bool) {
	v, ok := w.view.(*SpatialDataView)
	return v, ok
}

// Desktop holds the open windows and tracks the current one.
type Desktop struct {
	windows []*Window
	current *Window
	next    int
}

// NewDesktop returns a desktop with no windows.
func NewDesktop() *Desktop {
	return &Desktop{}
}

// CreateWindow opens a window named name of the given kind and makes it
// current. Spatial windows show primary; other kinds ignore it.
func (d *Desktop) CreateWindow(name string, kind WindowKind, primary *RasterElement) (*Window, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: window name is empty", ErrInvalid)
	}
	if d.Window(name, kind) != nil {
		return nil, fmt.Errorf("%w: window %q", ErrAlreadyExists, name)
	}
	w := &Window{name: name, kind: kind, label: name, x: 30 * d.next, y: 30 * d.next}
	switch kind {
	case SpatialDataWindow:
		w.view = NewSpatialDataView(name, primary)
	case ProductWindow:
		w.view = &ProductView{name: name}
	case PlotWindow:
		w.view = &PlotView{name: name}
	default:
		return nil, fmt.Errorf("%w: window kind %s", ErrInvalid, kind)
	}
	d.next++
	d.windows = append(d.windows, w)
	d.current = w
	return w, nil
}

// Window returns the window of the given name and kind, or nil.
func (d *Desktop) Window(name string, kind WindowKind) *Window {
	for _, w := range d.windows {
		if w.name == name && w.kind == kind {
			return w
		}
	}
	return nil
}

// Current returns the current window, or nil when none is open.
func (d *Desktop) Current() *Window { return d.current }

// SetCurrent makes w the current window.
func (d *Desktop) SetCurrent(w *Window) { d.current = w }

// Windows returns the open windows in creation order.
func (d *Desktop) Windows() []*Window {
	return append([]*Window(nil), d.windows...)
}

// Resolve returns the named window of the given kind, or the current
// window when name is empty.
func (d *Desktop) Resolve(name string, kind WindowKind) (*Window, error) {
	if name == "" {
		if d.current == nil {
			return nil, fmt.Errorf("%w: no current window", ErrNotFound)
		}
		return d.current, nil
	}
	if w := d.Window(name, kind); w != nil {
		return w, nil
	}
	return nil, fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
}

// ResolveSpatial is Resolve restricted to spatial data windows.
func (d *Desktop) ResolveSpatial(name string) (*Window, *SpatialDataView, error) {
	w, err := d.Resolve(name, SpatialDataWindow)
	if err != nil {
		return nil, nil, err
	}
	v, ok := w.SpatialDataView()
	if !ok {
		return nil, nil, fmt.Errorf("%w: window %q has no spatial view", ErrNotFound, w.name)
	}
	return w, v, nil
}

// Close removes w. If w was current the most recently opened remaining
// window becomes current.
func (d *Desktop) Close(w *Window) error {
	for i, cur := range d.windows {
		if cur == w {
			d.windows = append(d.windows[:i], d.windows[i+1:]...)
			if d.current == w {
				d.current = nil
				if n := len(d.windows); n > 0 {
					d.current = d.windows[n-1]
				}
			}
			return nil
		}
	}
	return fmt.Errorf("%w: window %q", ErrNotFound, w.name)
}

// ViewsShowing returns the spatial views whose primary element is e.
func (d *Desktop) ViewsShowing(e *RasterElement) []*SpatialDataView {
	var out []*SpatialDataView
	for _, w := range d.windows {
		if v, ok := w.SpatialDataView(); ok && v.primary == e {
			out = append(out, v)
		}
	}
	return out
}
