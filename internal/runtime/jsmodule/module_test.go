package jsmodule

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/raster-bridge/internal/bridge"
	"github.com/ironsheep/raster-bridge/internal/commands"
	"github.com/ironsheep/raster-bridge/internal/host"
)

type captured struct {
	out, errs strings.Builder
}

func (c *captured) write(text string, isError bool) {
	if isError {
		c.errs.WriteString(text)
	} else {
		c.out.WriteString(text)
	}
}

func (c *captured) reset() {
	c.out.Reset()
	c.errs.Reset()
}

func start(t *testing.T, prelude string, timeout time.Duration) (*Module, *captured) {
	t.Helper()
	sink := &captured{}
	env := commands.NewEnv(host.New(host.Options{}), "1.0.0")
	env.Output = sink.write
	m, err := Factory{}.Start(bridge.StartContext{
		Name:    "js",
		Env:     env,
		Table:   commands.Default(),
		Output:  sink.write,
		Prelude: prelude,
		Timeout: timeout,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return m.(*Module), sink
}

func TestPrint(t *testing.T) {
	m, sink := start(t, "", 0)
	err := m.Execute(`
print("a", 1, 2.5, true)
console.log({x: 1})
console.error("bad")
`)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := sink.out.String(); got != "a 1 2.5 true\n{\"x\":1}\n" {
		t.Errorf("output: got %q", got)
	}
	if got := sink.errs.String(); got != "bad\n" {
		t.Errorf("errors: got %q", got)
	}
}

func TestGlobalsPersist(t *testing.T) {
	m, sink := start(t, "var counter = 10;", 0)
	if err := m.Execute("counter += 1"); err != nil {
		t.Fatal(err)
	}
	if err := m.Execute("print(counter)"); err != nil {
		t.Fatal(err)
	}
	if sink.out.String() != "11\n" {
		t.Errorf("got %q", sink.out.String())
	}
}

func TestArrayRoundTrip(t *testing.T) {
	m, sink := start(t, "", 0)
	err := m.Execute(`
var a = make_array("float32", [3, 2], [1, 2, 3, 4, 5, 6]);
print(array_type(a), array_dims(a).join(","));
print(array_to_opticks(a, "cube", {NEW_WINDOW: true, height_end: 2, WIDTH_END: 3}));
var kw = {height_out: 0};
var b = ARRAY_TO_IDL({dataset: "cube", height_out: 0});
var c = array_to_idl(kw);
print(kw.height_out, kw.WIDTH_OUT, kw.BANDS_OUT);
print(array_values(c).join(","));
`)
	if err != nil {
		t.Fatalf("Execute failed: %v\n%s", err, sink.errs.String())
	}
	want := "float32 3,2\nsuccess\n2 3 1\n1,2,3,4,5,6\n"
	if got := sink.out.String(); got != want {
		t.Errorf("output:\ngot  %q\nwant %q", got, want)
	}
}

func TestKeywordObjectOutputs(t *testing.T) {
	m, sink := start(t, "", 0)
	if err := m.Execute(`array_to_opticks(make_array("uint8", [4, 2], [1, 2, 3, 4, 5, 6, 7, 8]), "scene", {NEW_WINDOW: true})`); err != nil {
		t.Fatalf("setup failed: %v\n%s", err, sink.errs.String())
	}
	sink.reset()

	err := m.Execute(`
var kw = {DATASET: "scene"}
var img = array_to_idl(kw)
print(array_dims(img).join("x"), kw.HEIGHT_OUT)
`)
	if err != nil {
		t.Fatalf("Execute failed: %v\n%s", err, sink.errs.String())
	}
	if got := sink.out.String(); got != "4x2 2\n" {
		t.Errorf("output: got %q, want %q", got, "4x2 2\n")
	}
}

func TestCommandFailure(t *testing.T) {
	m, sink := start(t, "", 0)
	if err := m.Execute(`print(array_to_idl({dataset: "missing"}))`); err != nil {
		t.Fatalf("a failed command must not throw: %v", err)
	}
	if sink.out.String() != "failure\n" {
		t.Errorf("output: got %q", sink.out.String())
	}
	if sink.errs.Len() == 0 {
		t.Error("failure text should reach the error channel")
	}
}

func TestExecuteErrors(t *testing.T) {
	m, sink := start(t, "", 0)
	if err := m.Execute("throw new Error('nope')"); err == nil || !strings.Contains(err.Error(), "nope") {
		t.Errorf("expected the thrown error, got %v", err)
	}
	if err := m.Execute("array_dims(5)"); err == nil {
		t.Error("array_dims on a number should throw")
	}
	if err := m.Execute(`make_array("bogus", [2])`); err == nil {
		t.Error("make_array with an unknown type should throw")
	}
	sink.reset()
	if err := m.Execute("print('still alive')"); err != nil || sink.out.String() != "still alive\n" {
		t.Errorf("runtime unusable after errors: %v %q", err, sink.out.String())
	}
}

func TestTimeout(t *testing.T) {
	m, sink := start(t, "", 50*time.Millisecond)
	err := m.Execute("for (;;) {}")
	if err == nil || !strings.Contains(err.Error(), "interrupted") {
		t.Fatalf("expected an interrupt, got %v", err)
	}
	if err := m.Execute("print('ok')"); err != nil {
		t.Fatalf("runtime should recover after a timeout: %v", err)
	}
	if sink.out.String() != "ok\n" {
		t.Errorf("got %q", sink.out.String())
	}
}

func TestPreludeFailure(t *testing.T) {
	_, err := Factory{}.Start(bridge.StartContext{
		Name:    "js",
		Env:     commands.NewEnv(host.New(host.Options{}), "1.0.0"),
		Table:   commands.Default(),
		Output:  func(string, bool) {},
		Prelude: "syntax error here (",
	})
	if !errors.Is(err, bridge.ErrModuleLoadFailed) {
		t.Errorf("expected ErrModuleLoadFailed, got %v", err)
	}
}
