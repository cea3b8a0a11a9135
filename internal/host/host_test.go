package host

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/raster-bridge/internal/encoding"
	"github.com/ironsheep/raster-bridge/internal/layout"
	"github.com/ironsheep/raster-bridge/internal/raster"
)

func newCube(t *testing.T, m *Model, name string, parent *RasterElement, il layout.Interleave) *RasterElement {
	t.Helper()
	e, err := m.CreateElement(ElementSpec{
		Name: name, Parent: parent,
		Rows: 4, Cols: 3, Bands: 2,
		Encoding: encoding.Float32, Interleave: il,
	})
	if err != nil {
		t.Fatalf("CreateElement(%s) failed: %v", name, err)
	}
	return e
}

func TestAccessor_RowViewsFollowStorage(t *testing.T) {
	tests := []struct {
		il     layout.Interleave
		stride int
	}{
		{layout.BSQ, 1},
		{layout.BIL, 1},
		{layout.BIP, 2},
	}

	for _, tt := range tests {
		t.Run(tt.il.String(), func(t *testing.T) {
			e := newCube(t, NewModel(), "cube", nil, tt.il)
			acc, err := e.OpenAccessor(raster.AccessRequest{Band: 1, RowStart: 1, RowEnd: 2, ColStart: 1, ColEnd: 2})
			if err != nil {
				t.Fatalf("OpenAccessor failed: %v", err)
			}
			if acc.Rows() != 2 {
				t.Errorf("Rows: got %d, want 2", acc.Rows())
			}
			view, err := acc.Row(1)
			if err != nil {
				t.Fatalf("Row failed: %v", err)
			}
			if view.Stride != tt.stride || view.Len != 2 {
				t.Errorf("got stride %d len %d, want stride %d len 2", view.Stride, view.Len, tt.stride)
			}
			if want := e.offset(2, 1, 1); view.Offset != want {
				t.Errorf("offset: got %d, want %d", view.Offset, want)
			}
		})
	}
}

func TestAccessor_Invalid(t *testing.T) {
	e := newCube(t, NewModel(), "cube", nil, layout.BSQ)

	if _, err := e.OpenAccessor(raster.AccessRequest{Band: 2, RowEnd: 3, ColEnd: 2}); !errors.Is(err, raster.ErrAccessorInvalid) {
		t.Errorf("expected ErrAccessorInvalid for band out of range, got %v", err)
	}

	acc, err := e.OpenAccessor(raster.AccessRequest{RowEnd: 3, ColEnd: 2})
	if err != nil {
		t.Fatalf("OpenAccessor failed: %v", err)
	}
	e.SetAvailable(false)
	if _, err := acc.Row(0); !errors.Is(err, raster.ErrAccessorInvalid) {
		t.Errorf("expected ErrAccessorInvalid for unavailable storage, got %v", err)
	}
	if _, ok := e.RawData(); ok {
		t.Error("RawData should not be exposed while storage is unavailable")
	}
}

func TestModel_Lookup(t *testing.T) {
	m := NewModel()
	parent := newCube(t, m, "scene", nil, layout.BSQ)
	child := newCube(t, m, "mask", parent, layout.BSQ)
	odd := newCube(t, m, "a=>b", nil, layout.BSQ)

	tests := []struct {
		ref  string
		want *RasterElement
	}{
		{"scene", parent},
		{"scene=>mask", child},
		{"a=>b", odd},
	}
	for _, tt := range tests {
		got, err := m.Lookup(tt.ref)
		if err != nil {
			t.Errorf("Lookup(%q) failed: %v", tt.ref, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%q): got %s", tt.ref, got.FullName())
		}
	}

	if _, err := m.Lookup("scene=>missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if child.FullName() != "scene=>mask" {
		t.Errorf("FullName: got %q", child.FullName())
	}
}

func TestModel_DuplicateAndDestroy(t *testing.T) {
	m := NewModel()
	parent := newCube(t, m, "scene", nil, layout.BSQ)
	newCube(t, m, "mask", parent, layout.BSQ)

	_, err := m.CreateElement(ElementSpec{Name: "mask", Parent: parent, Rows: 1, Cols: 1, Bands: 1, Encoding: encoding.Int8u, Interleave: layout.BSQ})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	m.Destroy(parent)
	if m.Len() != 0 {
		t.Errorf("Destroy should remove descendants, %d elements left", m.Len())
	}
}

func TestSpatialDataView_DisplayIndex(t *testing.T) {
	m := NewModel()
	a := newCube(t, m, "a", nil, layout.BSQ)
	b := newCube(t, m, "b", nil, layout.BSQ)
	v := NewSpatialDataView("a", a)
	la, _ := v.CreateRasterLayer(a)
	lb, _ := v.CreateRasterLayer(b)
	aoi := NewAoiLayer("roi", a)
	if err := v.AddLayer(aoi); err != nil {
		t.Fatalf("AddLayer failed: %v", err)
	}

	if v.TopMostLayer() != aoi || v.TopMostRasterLayer() != lb {
		t.Error("layers should stack top first")
	}
	if err := v.SetDisplayIndex(la, 0); err != nil {
		t.Fatalf("SetDisplayIndex failed: %v", err)
	}
	if v.DisplayIndex(la) != 0 || v.DisplayIndex(aoi) != 1 || v.DisplayIndex(lb) != 2 {
		t.Errorf("unexpected order after move: %d %d %d", v.DisplayIndex(la), v.DisplayIndex(aoi), v.DisplayIndex(lb))
	}
	if err := v.AddLayer(NewAnnotationLayer("a")); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists for duplicate layer name, got %v", err)
	}
}

func TestHost_CloseWindowDestroysElements(t *testing.T) {
	h := New(Options{})
	scene := newCube(t, h.Model, "scene", nil, layout.BSQ)
	newCube(t, h.Model, "mask", scene, layout.BSQ)
	other := newCube(t, h.Model, "other", nil, layout.BSQ)

	w, _, err := h.OpenWindow(scene)
	if err != nil {
		t.Fatalf("OpenWindow failed: %v", err)
	}
	if _, _, err := h.OpenWindow(other); err != nil {
		t.Fatalf("OpenWindow failed: %v", err)
	}

	if err := h.CloseWindow(w); err != nil {
		t.Fatalf("CloseWindow failed: %v", err)
	}
	if h.Model.Len() != 1 {
		t.Errorf("expected only %q to remain, have %d elements", other.Name(), h.Model.Len())
	}
	if got, _ := h.PrimaryElement(); got != other {
		t.Error("remaining window should be current")
	}
}

func TestRasterLayer_Filters(t *testing.T) {
	e := newCube(t, NewModel(), "cube", nil, layout.BSQ)
	l := NewRasterLayer("cube", e)

	if err := l.EnableFilter(FilterSharpening); err == nil {
		t.Error("filters should need GPU display")
	}
	l.EnableGpuImage(true)
	if err := l.EnableFilter(FilterSharpening); err != nil {
		t.Fatalf("EnableFilter failed: %v", err)
	}
	if err := l.EnableFilter("Posterize"); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for unsupported filter, got %v", err)
	}
	if got := l.EnabledFilters(); len(got) != 1 || got[0] != FilterSharpening {
		t.Errorf("EnabledFilters: got %v", got)
	}
	l.EnableGpuImage(false)
	if len(l.EnabledFilters()) != 0 {
		t.Error("disabling GPU display should drop filters")
	}
}

func TestParseEnums(t *testing.T) {
	if u, err := ParseRegionUnits("PERCENTILE"); err != nil || u != Percentile {
		t.Errorf("ParseRegionUnits: got %v, %v", u, err)
	}
	if s, err := ParseAnimationState("Play_Forward"); err != nil || s != PlayForward {
		t.Errorf("ParseAnimationState: got %v, %v", s, err)
	}
	if c, err := ParseAnimationCycle("repeat"); err != nil || c != Repeat {
		t.Errorf("ParseAnimationCycle: got %v, %v", c, err)
	}
	if l, err := ParseReportingLevel("errors"); err != nil || l != Errors {
		t.Errorf("ParseReportingLevel: got %v, %v", l, err)
	}
	if _, err := ParseStretchType("wobbly"); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestWizards_LoadCacheReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ratio.toml")
	writeFile(t, path, `
name = "Ratio"

[[items]]
name = "Band Math"
plugin = "Band Math"
[items.values]
Expression = "b1 / b2"
`)

	exec := &RecordingExecutor{}
	wz := NewWizards(exec)
	if err := wz.Execute(path, true); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	w, _ := wz.Load(path)
	if v, ok := w.Value("Band Math", "Expression"); !ok || v != "b1 / b2" {
		t.Errorf("Value: got %v, %v", v, ok)
	}

	writeFile(t, path, `
name = "Ratio v2"

[[items]]
name = "Prompt"
interactive = true
`)
	if again, _ := wz.Load(path); again.Name != "Ratio" {
		t.Error("Load should return the cached wizard")
	}
	if !wz.Reload(path) {
		t.Error("Reload should report a cached copy")
	}
	if err := wz.Execute(path, true); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected batch run of interactive wizard to fail, got %v", err)
	}
	if err := wz.Execute(path, false); err != nil {
		t.Fatalf("interactive Execute failed: %v", err)
	}
	if len(exec.Runs) != 2 || exec.Runs[1].Wizard != "Ratio v2" {
		t.Errorf("unexpected runs %+v", exec.Runs)
	}

	if err := wz.Execute(filepath.Join(dir, "missing.toml"), false); err == nil {
		t.Error("Execute should fail for a missing wizard file")
	}
}

func TestSettings_DisplayString(t *testing.T) {
	s := NewSettings(map[string]any{"RasterLayer/GpuImage": true, "Units/Scale": 1.5})
	if got := s.DisplayString("RasterLayer/GpuImage"); got != "true" {
		t.Errorf("got %q, want true", got)
	}
	if got := s.DisplayString("Units/Scale"); got != "1.5" {
		t.Errorf("got %q, want 1.5", got)
	}
	if got := s.DisplayString("nope"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
