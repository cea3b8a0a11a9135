package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/raster-bridge/internal/commands"
	"github.com/ironsheep/raster-bridge/internal/host"
)

func TestReadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.js")
	if err := os.WriteFile(path, []byte("print('hi')"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		stdin string
		path  string
		want  string
	}{
		{"file", "", path, "print('hi')"},
		{"stdin", "print(2)", "-", "print(2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readScript(strings.NewReader(tt.stdin), tt.path)
			if err != nil {
				t.Fatalf("readScript failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := readScript(nil, filepath.Join(t.TempDir(), "missing.js")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestWriteResult(t *testing.T) {
	var out, errs bytes.Buffer
	writeResult(&out, &errs, "no newline", "boom\n")
	if out.String() != "no newline\n" {
		t.Errorf("stdout: got %q", out.String())
	}
	if !strings.Contains(errs.String(), "boom") {
		t.Errorf("stderr: got %q", errs.String())
	}

	out.Reset()
	errs.Reset()
	writeResult(&out, &errs, "", "")
	if out.Len() != 0 || errs.Len() != 0 {
		t.Errorf("empty result wrote %q and %q", out.String(), errs.String())
	}
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := progressPrinter{w: &buf}
	p.UpdateProgress("loading", 40, host.Normal)
	p.UpdateProgress("gave up", 90, host.Abort)

	got := buf.String()
	if !strings.Contains(got, "[ 40%] loading") {
		t.Errorf("normal line missing: %q", got)
	}
	if !strings.Contains(got, "ABORT") || !strings.Contains(got, "gave up") {
		t.Errorf("abort line missing: %q", got)
	}
}

func TestFormatCommands(t *testing.T) {
	var buf bytes.Buffer
	formatCommands(&buf, commands.Default(), true)
	got := buf.String()

	for _, want := range []string{"ARRAY_TO_OPTICKS", "array, [element_name]", "NEW_WINDOW", "out", "HEIGHT_OUT"} {
		if !strings.Contains(got, want) {
			t.Errorf("listing is missing %q", want)
		}
	}

	buf.Reset()
	formatCommands(&buf, commands.Default(), false)
	if strings.Contains(buf.String(), "NEW_WINDOW") {
		t.Error("keywords should only be listed on request")
	}
}
