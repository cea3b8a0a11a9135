package host

import (
	"fmt"
	"strings"
)

// Model is the registry of raster elements, keyed by parent and name.
type Model struct {
	elements []*RasterElement
}

// NewModel returns an empty registry.
func NewModel() *Model {
	return &Model{}
}

// CreateElement allocates an element and registers it. It fails with
// ErrAlreadyExists when the parent already has a child of that name.
func (m *Model) CreateElement(spec ElementSpec) (*RasterElement, error) {
	if m.Element(spec.Name, spec.Parent) != nil {
		return nil, fmt.Errorf("%w: element %q", ErrAlreadyExists, qualified(spec.Name, spec.Parent))
	}
	e, err := NewRasterElement(spec)
	if err != nil {
		return nil, err
	}
	m.elements = append(m.elements, e)
	return e, nil
}

func qualified(name string, parent *RasterElement) string {
	if parent == nil {
		return name
	}
	return parent.FullName() + NameSeparator + name
}

// Element returns the child of parent named name, or nil. A nil parent
// selects top-level elements.
func (m *Model) Element(name string, parent *RasterElement) *RasterElement {
	for _, e := range m.elements {
		if e.parent == parent && e.name == name {
			return e
		}
	}
	return nil
}

// Lookup walks a "parent=>child" chain from the top level. When the walk
// fails it falls back to a top-level element whose own name contains the
// separator, since names are free text.
func (m *Model) Lookup(ref string) (*RasterElement, error) {
	var cur *RasterElement
	walked := true
	for _, part := range strings.Split(ref, NameSeparator) {
		next := m.Element(part, cur)
		if next == nil {
			walked = false
			break
		}
		cur = next
	}
	if walked && cur != nil {
		return cur, nil
	}
	if strings.Contains(ref, NameSeparator) {
		for _, e := range m.elements {
			if e.name == ref {
				return e, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: element %q", ErrNotFound, ref)
}

// Children returns the direct children of parent in creation order.
func (m *Model) Children(parent *RasterElement) []*RasterElement {
	var out []*RasterElement
	for _, e := range m.elements {
		if e.parent == parent {
			out = append(out, e)
		}
	}
	return out
}

// Elements returns every registered element in creation order.
func (m *Model) Elements() []*RasterElement {
	return append([]*RasterElement(nil), m.elements...)
}

// Len returns the number of registered elements.
func (m *Model) Len() int { return len(m.elements) }

// Destroy removes e and all of its descendants.
func (m *Model) Destroy(e *RasterElement) {
	doomed := map[*RasterElement]bool{e: true}
	for changed := true; changed; {
		changed = false
		for _, c := range m.elements {
			if !doomed[c] && c.parent != nil && doomed[c.parent] {
				doomed[c] = true
				changed = true
			}
		}
	}
	kept := m.elements[:0]
	for _, c := range m.elements {
		if !doomed[c] {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(m.elements); i++ {
		m.elements[i] = nil
	}
	m.elements = kept
}
