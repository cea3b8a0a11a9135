package host

import (
	"fmt"
	"sort"
)

// Settings is the host's configuration store, keyed by slash-separated
// paths such as "RasterLayer/GpuImage".
type Settings struct {
	values map[string]any
}

// NewSettings returns a store holding a copy of values.
func NewSettings(values map[string]any) *Settings {
	s := &Settings{values: make(map[string]any, len(values))}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Setting returns the raw value at path.
func (s *Settings) Setting(path string) (any, bool) {
	v, ok := s.values[path]
	return v, ok
}

// DisplayString returns the value at path formatted for display, or "" when
// the path is unknown.
func (s *Settings) DisplayString(path string) string {
	v, ok := s.values[path]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(t)
	}
}

// Set stores v at path.
func (s *Settings) Set(path string, v any) { s.values[path] = v }

// Paths lists every known path in sorted order.
func (s *Settings) Paths() []string {
	paths := make([]string, 0, len(s.values))
	for k := range s.values {
		paths = append(paths, k)
	}
	sort.Strings(paths)
	return paths
}
