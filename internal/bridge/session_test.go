package bridge

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/raster-bridge/internal/commands"
	"github.com/ironsheep/raster-bridge/internal/host"
)

// fakeModule echoes scripts and runs lines of the form "CALL NAME" through
// the command table.
type fakeModule struct {
	name     string
	ctx      StartContext
	executed []string
	closed   bool
}

func (m *fakeModule) Name() string { return m.name }

func (m *fakeModule) Execute(text string) error {
	m.executed = append(m.executed, text)
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "CALL "):
			res := m.ctx.Table.Call(m.ctx.Env, commands.Call{Name: strings.TrimPrefix(line, "CALL ")})
			m.ctx.Output(res.Value.String()+"\n", false)
		case line == "FAIL":
			return errors.New("script failed")
		default:
			m.ctx.Output(m.name+": "+line+"\n", false)
		}
	}
	return nil
}

func (m *fakeModule) Close() error {
	m.closed = true
	return nil
}

type fakeFactory struct {
	ext     string
	err     error
	started []*fakeModule
}

func (f *fakeFactory) Extension() string { return f.ext }

func (f *fakeFactory) Start(ctx StartContext) (Module, error) {
	if f.err != nil {
		return nil, f.err
	}
	if ctx.Prelude != "" {
		ctx.Output("prelude: "+strings.TrimSpace(ctx.Prelude)+"\n", false)
	}
	m := &fakeModule{name: ctx.Name, ctx: ctx}
	f.started = append(f.started, m)
	return m, nil
}

func newServices() Services {
	return Services{
		Env:   commands.NewEnv(host.New(host.Options{}), "1.0.0"),
		Table: commands.Default(),
	}
}

func TestVersionTag(t *testing.T) {
	tests := []struct {
		version, want string
	}{
		{"6.4", "64"},
		{"8.8.3", "883"},
		{"", ""},
		{" 7.1 ", "71"},
	}
	for _, tt := range tests {
		if got := VersionTag(tt.version); got != tt.want {
			t.Errorf("VersionTag(%q) = %q, want %q", tt.version, got, tt.want)
		}
	}
	if got := PreludePath("/opt/bridge", "js", "6.4", "js"); got != filepath.Join("/opt/bridge", "js64.js") {
		t.Errorf("PreludePath: got %q", got)
	}
}

func TestStart_ZeroModules(t *testing.T) {
	var anchor Anchor
	factory := &fakeFactory{ext: "js"}
	s, err := anchor.Open(Config{Modules: []string{"missing"}}, newServices(), map[string]Factory{"js": factory})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	err = s.Start()
	if !errors.Is(err, ErrRuntimeStartFailed) {
		t.Fatalf("expected ErrRuntimeStartFailed, got %v", err)
	}
	if s.Running() {
		t.Error("session should not be running")
	}
	if !strings.HasPrefix(s.StartupMessage(), "Unable to start the interpreter") {
		t.Errorf("startup message: %q", s.StartupMessage())
	}
	if !strings.Contains(s.StartupMessage(), "missing") {
		t.Errorf("startup message should name the failed module: %q", s.StartupMessage())
	}

	if _, _, err := s.Execute("anything", nil); !errors.Is(err, ErrRuntimeStartFailed) {
		t.Errorf("Execute: expected ErrRuntimeStartFailed, got %v", err)
	}
	if len(factory.started) != 0 {
		t.Error("no module should have been started")
	}
	if err := s.Start(); !errors.Is(err, ErrRuntimeStartFailed) {
		t.Errorf("second Start: expected ErrRuntimeStartFailed, got %v", err)
	}
}

func TestStart_NoModulesConfigured(t *testing.T) {
	var anchor Anchor
	s, _ := anchor.Open(Config{}, newServices(), nil)
	if err := s.Start(); !errors.Is(err, ErrRuntimeStartFailed) {
		t.Fatalf("expected ErrRuntimeStartFailed, got %v", err)
	}
}

func TestStart_FactoryFailure(t *testing.T) {
	var anchor Anchor
	bad := &fakeFactory{ext: "js", err: errors.New("boom")}
	good := &fakeFactory{ext: "tengo"}
	s, _ := anchor.Open(Config{Modules: []string{"js", "tengo"}, Interactive: true}, newServices(),
		map[string]Factory{"js": bad, "tengo": good})

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if got := s.Modules(); len(got) != 1 || got[0] != "tengo" {
		t.Errorf("modules: got %v", got)
	}
	if s.Active() != "tengo" {
		t.Errorf("active: got %q", s.Active())
	}
	if !strings.Contains(s.StartupMessage(), "js: boom") {
		t.Errorf("startup message: %q", s.StartupMessage())
	}
}

func TestExecute_ActiveModule(t *testing.T) {
	var anchor Anchor
	factory := &fakeFactory{ext: "js"}
	cfg := Config{Modules: []string{"first", "second"}, Active: "first", Interactive: true}
	s, _ := anchor.Open(cfg, newServices(), map[string]Factory{"first": factory, "second": factory})
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if s.State() != Running {
		t.Fatalf("state: got %s", s.State())
	}

	out, errText, err := s.Execute("hello", nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != "first: hello\n" || errText != "" {
		t.Errorf("got out=%q err=%q", out, errText)
	}
	if len(factory.started[1].executed) != 0 {
		t.Error("only the active module should run scripts")
	}

	// Accumulators are cleared between calls.
	out, _, _ = s.Execute("again", nil)
	if out != "first: again\n" {
		t.Errorf("second call: got %q", out)
	}
}

func TestExecute_DefaultsToFirstStarted(t *testing.T) {
	var anchor Anchor
	factory := &fakeFactory{ext: "js"}
	cfg := Config{Modules: []string{"a", "b"}, Active: "nope"}
	s, _ := anchor.Open(cfg, newServices(), map[string]Factory{"a": factory, "b": factory})
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if s.Active() != "a" {
		t.Errorf("active: got %q, want a", s.Active())
	}
	if !strings.HasPrefix(s.StartupMessage(), "Typing commands") {
		t.Errorf("non-interactive startup message: %q", s.StartupMessage())
	}
	if s.Interactive() {
		t.Error("Interactive should be false")
	}
}

func TestExecute_EmptyAndErrors(t *testing.T) {
	var anchor Anchor
	s, _ := anchor.Open(Config{Modules: []string{"js"}}, newServices(), map[string]Factory{"js": &fakeFactory{ext: "js"}})

	if _, _, err := s.Execute("x", nil); !errors.Is(err, ErrNotStarted) {
		t.Errorf("before Start: expected ErrNotStarted, got %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	out, errText, err := s.Execute("  \n", nil)
	if err != nil || out != "" || errText != "" {
		t.Errorf("empty text: got %q %q %v", out, errText, err)
	}

	out, errText, err = s.Execute("one\nFAIL", nil)
	if err == nil {
		t.Fatal("expected a script error")
	}
	if out != "js: one\n" || errText != "script failed\n" {
		t.Errorf("got out=%q err=%q", out, errText)
	}

	// Command failures go to the error channel.
	out, errText, err = s.Execute("CALL NO_SUCH_COMMAND", nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "failure\n" || !strings.Contains(errText, "unknown command") {
		t.Errorf("got out=%q err=%q", out, errText)
	}
}

func TestExecute_ProgressOnlyDuringCall(t *testing.T) {
	var anchor Anchor
	services := newServices()
	s, _ := anchor.Open(Config{Modules: []string{"js"}}, services, map[string]Factory{"js": &fakeFactory{ext: "js"}})
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	rec := &host.ProgressRecorder{}
	if _, _, err := s.Execute("CALL REPORT_PROGRESS", rec); err != nil {
		t.Fatal(err)
	}
	if len(rec.Reports) != 1 {
		t.Errorf("reports: got %d, want 1", len(rec.Reports))
	}
	if services.Env.Progress() != nil {
		t.Error("progress handle should be cleared after the call")
	}
	if _, _, err := s.Execute("CALL REPORT_PROGRESS", nil); err != nil {
		t.Fatal(err)
	}
	if len(rec.Reports) != 1 {
		t.Error("a later call must not reach the earlier progress handle")
	}
}

func TestExecute_OutputOverflow(t *testing.T) {
	var anchor Anchor
	s, _ := anchor.Open(Config{Modules: []string{"js"}, MaxOutput: 16}, newServices(),
		map[string]Factory{"js": &fakeFactory{ext: "js"}})
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	out, errText, err := s.Execute("abc\nthis line is far too long\nmore", nil)
	if err != nil {
		t.Fatal(err)
	}
	if out != "js: abc\n" {
		t.Errorf("kept output: got %q", out)
	}
	if errText != overflowMessage {
		t.Errorf("error channel: got %q, want %q", errText, overflowMessage)
	}

	out, errText, _ = s.Execute("ok", nil)
	if out != "js: ok\n" || errText != "" {
		t.Errorf("overflow should not outlive the call: got %q %q", out, errText)
	}
}

func TestStart_Prelude(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "js64.js"), []byte("setup()\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var anchor Anchor
	factory := &fakeFactory{ext: "js"}
	cfg := Config{InstallPath: dir, Version: "6.4", Modules: []string{"js"}, Interactive: true}
	s, _ := anchor.Open(cfg, newServices(), map[string]Factory{"js": factory})
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if got := factory.started[0].ctx.PreludePath; got != filepath.Join(dir, "js64.js") {
		t.Errorf("prelude path: got %q", got)
	}
	if !strings.Contains(s.StartupMessage(), "prelude: setup()") {
		t.Errorf("startup output not captured: %q", s.StartupMessage())
	}
}

func TestAnchor_SingleLiveSession(t *testing.T) {
	var anchor Anchor
	factory := &fakeFactory{ext: "js"}
	factories := map[string]Factory{"js": factory}
	s, err := anchor.Open(Config{Modules: []string{"js"}}, newServices(), factories)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := anchor.Open(Config{}, newServices(), factories); !errors.Is(err, ErrSessionLive) {
		t.Errorf("second Open: expected ErrSessionLive, got %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if !factory.started[0].closed {
		t.Error("Stop should close the module")
	}
	if anchor.Live() != nil {
		t.Error("Stop should release the anchor")
	}
	if _, _, err := s.Execute("x", nil); !errors.Is(err, ErrStopped) {
		t.Errorf("Execute after Stop: expected ErrStopped, got %v", err)
	}
	if err := s.Start(); !errors.Is(err, ErrStopped) {
		t.Errorf("restart: expected ErrStopped, got %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}

	if _, err := anchor.Open(Config{}, newServices(), factories); err != nil {
		t.Errorf("Open after Stop: %v", err)
	}
}
