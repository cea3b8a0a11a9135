package bridge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ironsheep/raster-bridge/internal/commands"
	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("raster-bridge.bridge")

// DefaultMaxOutput is the output limit used when Config.MaxOutput is zero.
const DefaultMaxOutput = 1 << 20

// Config selects and tunes the interpreter modules.
type Config struct {
	// InstallPath holds the prelude scripts. Empty disables preludes.
	InstallPath string
	// Version is turned into the prelude tag by dropping its dots.
	Version string
	// Modules are started in order.
	Modules []string
	// Active names the module that runs scripts. Empty selects the first
	// module that started.
	Active string
	// MaxOutput bounds the text one call may emit. Negative disables the
	// limit.
	MaxOutput   int
	Interactive bool
	Timeout     time.Duration
}

// Services are the host objects handed to every module.
type Services struct {
	Env   *commands.Env
	Table *commands.Table
}

// State is a session's lifecycle position.
type State int

const (
	NotStarted State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// VersionTag turns a version such as "6.4" into the prelude tag "64".
func VersionTag(version string) string {
	return strings.ReplaceAll(strings.TrimSpace(version), ".", "")
}

// PreludePath returns <install>/<name><tag>.<ext>.
func PreludePath(install, name, version, ext string) string {
	return filepath.Join(install, name+VersionTag(version)+"."+ext)
}

// Anchor owns at most one live session. The host keeps one Anchor for
// its lifetime.
type Anchor struct {
	live *Session
}

// Open returns a new session in state NotStarted. It fails with
// ErrSessionLive until the previous session is stopped.
func (a *Anchor) Open(cfg Config, services Services, factories map[string]Factory) (*Session, error) {
	if a.live != nil {
		return nil, ErrSessionLive
	}
	if services.Env == nil || services.Table == nil {
		return nil, errors.New("bridge session needs an environment and a command table")
	}
	limit := cfg.MaxOutput
	if limit == 0 {
		limit = DefaultMaxOutput
	}
	s := &Session{
		anchor:    a,
		cfg:       cfg,
		services:  services,
		factories: factories,
		sink:      newSink(limit),
	}
	services.Env.Output = s.sink.write
	a.live = s
	return s, nil
}

// Live returns the session that has not been stopped yet, or nil.
func (a *Anchor) Live() *Session { return a.live }

// Session runs scripts through one active interpreter module. It moves
// from NotStarted to Running to Stopped and cannot be restarted.
type Session struct {
	anchor    *Anchor
	cfg       Config
	services  Services
	factories map[string]Factory

	state    State
	startErr error
	startMsg string
	modules  []Module
	active   Module
	sink     *sink
}

func (s *Session) State() State { return s.state }

// Running reports whether the session can execute scripts.
func (s *Session) Running() bool { return s.state == Running }

// StartupMessage returns the text collected while starting.
func (s *Session) StartupMessage() string { return s.startMsg }

// Interactive reports whether typed commands are allowed, as opposed to
// scripts and wizards only.
func (s *Session) Interactive() bool { return s.cfg.Interactive }

// Env returns the command environment shared by the modules.
func (s *Session) Env() *commands.Env { return s.services.Env }

// Modules returns the names of the started modules.
func (s *Session) Modules() []string {
	names := make([]string, len(s.modules))
	for i, m := range s.modules {
		names[i] = m.Name()
	}
	return names
}

// Active returns the name of the module scripts run in, or "".
func (s *Session) Active() string {
	if s.active == nil {
		return ""
	}
	return s.active.Name()
}

// Start starts every configured module and keeps those that succeed. It
// fails with ErrRuntimeStartFailed when none does; the session then stays
// out of Running for good. Starting a running session does nothing.
func (s *Session) Start() error {
	switch {
	case s.state == Running:
		return nil
	case s.state == Stopped:
		return ErrStopped
	case s.startErr != nil:
		return s.startErr
	}

	s.sink.reset()
	var problems []string
	for _, name := range s.cfg.Modules {
		m, err := s.startModule(name)
		if err != nil {
			log.Warningf("module %q: %v", name, err)
			problems = append(problems, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		s.modules = append(s.modules, m)
		log.Infof("started interpreter module %q", name)
	}
	out, errs := s.sink.drain()
	msg := out + errs
	for _, p := range problems {
		msg += p + "\n"
	}

	if len(s.modules) == 0 {
		s.startMsg = "Unable to start the interpreter. Make sure the interpreter modules and install path are configured.\n" + msg
		s.startErr = fmt.Errorf("%w: %d of %d modules started", ErrRuntimeStartFailed, 0, len(s.cfg.Modules))
		log.Errorf("%s", strings.TrimSpace(s.startMsg))
		return s.startErr
	}

	s.active = s.modules[0]
	if s.cfg.Active != "" {
		if m := s.module(s.cfg.Active); m != nil {
			s.active = m
		} else {
			log.Warningf("active module %q did not start, using %q", s.cfg.Active, s.active.Name())
		}
	}
	if !s.cfg.Interactive {
		msg = "Typing commands into the interpreter has been disabled.\n" + msg
	}
	s.startMsg = msg
	s.state = Running
	return nil
}

func (s *Session) module(name string) Module {
	for _, m := range s.modules {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

func (s *Session) startModule(name string) (Module, error) {
	f, ok := s.factories[name]
	if !ok || f == nil {
		return nil, fmt.Errorf("%w: no runtime named %q", ErrModuleLoadFailed, name)
	}
	ctx := StartContext{
		Name:    name,
		Env:     s.services.Env,
		Table:   s.services.Table,
		Output:  s.sink.write,
		Timeout: s.cfg.Timeout,
	}
	if s.cfg.InstallPath != "" {
		path := PreludePath(s.cfg.InstallPath, name, s.cfg.Version, f.Extension())
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			ctx.Prelude, ctx.PreludePath = string(data), path
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("%w: reading prelude: %v", ErrModuleLoadFailed, err)
		}
	}
	return f.Start(ctx)
}

// Execute runs text in the active module and returns what it wrote to
// the normal and error channels. progress receives REPORT_PROGRESS
// calls made during this call only. A script error is returned and its
// text is also the last line of errText.
func (s *Session) Execute(text string, progress host.Progress) (output, errText string, err error) {
	switch {
	case s.startErr != nil:
		return "", "", s.startErr
	case s.state == NotStarted:
		return "", "", ErrNotStarted
	case s.state == Stopped:
		return "", "", ErrStopped
	}
	if strings.TrimSpace(text) == "" {
		return "", "", nil
	}

	s.sink.reset()
	env := s.services.Env
	env.SetProgress(progress)
	defer env.SetProgress(nil)

	err = s.active.Execute(text)
	if err != nil {
		msg := err.Error()
		if !strings.HasSuffix(msg, "\n") {
			msg += "\n"
		}
		s.sink.write(msg, true)
	}
	output, errText = s.sink.drain()
	return output, errText, err
}

// Stop closes every started module and releases the anchor. Stopping a
// stopped session does nothing.
func (s *Session) Stop() error {
	if s.state == Stopped {
		return nil
	}
	var errs []error
	for i := len(s.modules) - 1; i >= 0; i-- {
		if err := s.modules[i].Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", s.modules[i].Name(), err))
		}
	}
	s.modules, s.active = nil, nil
	s.state = Stopped
	if s.anchor.live == s {
		s.anchor.live = nil
	}
	s.services.Env.Output = nil
	log.Info("bridge session stopped")
	return errors.Join(errs...)
}
