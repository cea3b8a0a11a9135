package tengomodule

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

func start(t *testing.T, prelude string, timeout time.Duration) (*Module, *captured) {
	t.Helper()
	sink := &captured{}
	env := commands.NewEnv(host.New(host.Options{}), "1.0.0")
	env.Output = sink.write
	m, err := Factory{}.Start(bridge.StartContext{
		Name:    "tengo",
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
	if err := m.Execute(`print("a", 1); println(2.5, true); print_error("bad")`); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := sink.out.String(); got != "a 12.5 true\n" {
		t.Errorf("output: got %q", got)
	}
	if got := sink.errs.String(); got != "bad\n" {
		t.Errorf("errors: got %q", got)
	}
}

func TestVariablesPersist(t *testing.T) {
	m, sink := start(t, "counter := 10\nsquare := func(x) { return x * x }", 0)
	if err := m.Execute("counter = counter + 1"); err != nil {
		t.Fatal(err)
	}
	if err := m.Execute("println(counter)"); err != nil {
		t.Fatal(err)
	}
	if sink.out.String() != "11\n" {
		t.Errorf("got %q", sink.out.String())
	}
	if _, kept := m.globals["square"]; kept {
		t.Error("functions should not be carried over")
	}
}

func TestImports(t *testing.T) {
	m, sink := start(t, "", 0)
	if err := m.Execute(`math := import("math"); println(math.floor(2.7))`); err != nil {
		t.Fatal(err)
	}
	// The module binding is not kept, so importing again works.
	if err := m.Execute(`math := import("math"); println(math.abs(-3))`); err != nil {
		t.Fatal(err)
	}
	if sink.out.String() != "2\n3\n" {
		t.Errorf("got %q", sink.out.String())
	}
	if err := m.Execute(`fmt := import("fmt")`); err == nil {
		t.Error("fmt should not be importable")
	}
}

func TestArrayRoundTrip(t *testing.T) {
	m, sink := start(t, "", 0)
	err := m.Execute(`
a := make_array("uint8", [3, 2], [1, 2, 3, 4, 5, 6])
println(array_type(a), a.len, a[4])
println(array_to_opticks(a, "cube", {NEW_WINDOW: true, height_end: 2, WIDTH_END: 3}))
kw := {height_out: 0}
c := ARRAY_TO_IDL(kw)
println(kw.height_out, kw.WIDTH_OUT, kw.BANDS_OUT)
println(array_values(c))
println(array_dims(c))
`)
	if err != nil {
		t.Fatalf("Execute failed: %v\n%s", err, sink.errs.String())
	}
	want := "uint8 6 5\nsuccess\n2 3 1\n[1, 2, 3, 4, 5, 6]\n[3, 2]\n"
	if got := sink.out.String(); got != want {
		t.Errorf("output:\ngot  %q\nwant %q", got, want)
	}
}

func TestCommandFailure(t *testing.T) {
	m, sink := start(t, "", 0)
	if err := m.Execute(`println(array_to_idl({dataset: "missing"}))`); err != nil {
		t.Fatalf("a failed command must not stop the script: %v", err)
	}
	if sink.out.String() != "failure\n" {
		t.Errorf("output: got %q", sink.out.String())
	}
	if sink.errs.Len() == 0 {
		t.Error("failure text should reach the error channel")
	}
}

func TestExecuteErrors(t *testing.T) {
	m, _ := start(t, "", 0)
	tests := []struct {
		name, script, want string
	}{
		{"compile", "x := ", "compile error"},
		{"wrong type", "array_dims(5)", "runtime error"},
		{"bad type name", `make_array("bogus", [2])`, "runtime error"},
		{"map argument", `array_to_opticks({a: {}})`, "runtime error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Execute(tt.script)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want an error containing %q", err, tt.want)
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	m, _ := start(t, "", 50*time.Millisecond)
	err := m.Execute("for true {}")
	if err == nil || !strings.Contains(err.Error(), "interrupted") {
		t.Fatalf("expected an interrupt, got %v", err)
	}
}

func TestPreludeFailure(t *testing.T) {
	_, err := Factory{}.Start(bridge.StartContext{
		Name:    "tengo",
		Env:     commands.NewEnv(host.New(host.Options{}), "1.0.0"),
		Table:   commands.Default(),
		Output:  func(string, bool) {},
		Prelude: "this is not tengo",
	})
	if !errors.Is(err, bridge.ErrModuleLoadFailed) {
		t.Errorf("expected ErrModuleLoadFailed, got %v", err)
	}
}
