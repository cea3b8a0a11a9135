package host

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// WizardItem is one step of a wizard: a host plug-in and the values wired
// into its inputs.
type WizardItem struct {
	Name        string         `toml:"name"`
	PlugIn      string         `toml:"plugin"`
	Interactive bool           `toml:"interactive"`
	Values      map[string]any `toml:"values"`
}

// Wizard is a macro loaded from a TOML file:
//
//	name = "Band Math"
//
//	[[items]]
//	name = "Ratio"
//	plugin = "Band Math"
//	[items.values]
//	Expression = "b1 / b2"
type Wizard struct {
	Name  string       `toml:"name"`
	Items []WizardItem `toml:"items"`

	Path string `toml:"-"`
}

// Value returns the value of "item/node", or false when either part is
// unknown.
func (w *Wizard) Value(item, node string) (any, bool) {
	for _, it := range w.Items {
		if it.Name == item {
			v, ok := it.Values[node]
			return v, ok
		}
	}
	return nil, false
}

// LoadWizard reads a wizard file.
func LoadWizard(path string) (*Wizard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to find wizard file: %w", err)
	}
	var w Wizard
	if _, err := toml.Decode(string(data), &w); err != nil {
		return nil, fmt.Errorf("parsing wizard %s: %w", path, err)
	}
	if w.Name == "" {
		w.Name = filepath.Base(path)
	}
	w.Path = path
	return &w, nil
}

// WizardExecutor runs a loaded wizard. Batch mode must not prompt.
type WizardExecutor interface {
	ExecuteWizard(w *Wizard, batch bool) error
}

// WizardRun records one execution.
type WizardRun struct {
	Wizard string
	Batch  bool
}

// RecordingExecutor is the default executor: it checks that a batch run
// contains no interactive items and records the run.
type RecordingExecutor struct {
	Runs []WizardRun
}

func (r *RecordingExecutor) ExecuteWizard(w *Wizard, batch bool) error {
	if batch {
		for _, it := range w.Items {
			if it.Interactive {
				return fmt.Errorf("%w: wizard item %q needs interaction and cannot run in batch", ErrInvalid, it.Name)
			}
		}
	}
	r.Runs = append(r.Runs, WizardRun{Wizard: w.Name, Batch: batch})
	return nil
}

// Wizards caches loaded wizards by path.
type Wizards struct {
	cache    map[string]*Wizard
	executor WizardExecutor
}

// NewWizards returns an empty cache that runs wizards with exec. A nil exec
// selects a RecordingExecutor.
func NewWizards(exec WizardExecutor) *Wizards {
	if exec == nil {
		exec = &RecordingExecutor{}
	}
	return &Wizards{cache: map[string]*Wizard{}, executor: exec}
}

// Executor returns the executor wizards run through.
func (s *Wizards) Executor() WizardExecutor { return s.executor }

// Load returns the wizard at path, reading it on first use.
func (s *Wizards) Load(path string) (*Wizard, error) {
	if w, ok := s.cache[path]; ok {
		return w, nil
	}
	w, err := LoadWizard(path)
	if err != nil {
		return nil, err
	}
	s.cache[path] = w
	return w, nil
}

// Reload drops the cached copy of path so the next Load rereads it. It
// reports whether a cached copy existed.
func (s *Wizards) Reload(path string) bool {
	_, ok := s.cache[path]
	delete(s.cache, path)
	return ok
}

// Execute loads and runs the wizard at path.
func (s *Wizards) Execute(path string, batch bool) error {
	w, err := s.Load(path)
	if err != nil {
		return err
	}
	return s.executor.ExecuteWizard(w, batch)
}
