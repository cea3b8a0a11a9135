package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[interpreter]
install_path = "scripts"
version = "6.4"
modules = ["tengo", "js"]
max_output = 4096
interactive = false
timeout_seconds = 2.5

[host]
version = "4.9.1"
images = ["data/scene.png", "/abs/other.png"]
colormap_dir = "maps"

[settings.RasterLayer]
GpuImage = true
Stretch = { Lower = 2, Upper = 98 }

[settings.Units]
Distance = "meters"
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	b := c.Bridge()
	if b.InstallPath != filepath.Join(c.Dir, "scripts") {
		t.Errorf("install path: got %q", b.InstallPath)
	}
	if b.Version != "6.4" || b.MaxOutput != 4096 || b.Interactive {
		t.Errorf("interpreter: got %+v", b)
	}
	if len(b.Modules) != 2 || b.Modules[0] != "tengo" || b.Active != "tengo" {
		t.Errorf("modules: got %v active %q", b.Modules, b.Active)
	}
	if b.Timeout != 2500*time.Millisecond {
		t.Errorf("timeout: got %s", b.Timeout)
	}

	images := c.ImagePaths()
	if images[0] != filepath.Join(c.Dir, "data", "scene.png") || images[1] != "/abs/other.png" {
		t.Errorf("images: got %v", images)
	}
	if c.ColormapDir() != filepath.Join(c.Dir, "maps") {
		t.Errorf("colormap dir: got %q", c.ColormapDir())
	}

	opts := c.HostOptions()
	if opts.Version != "4.9.1" {
		t.Errorf("host version: got %q", opts.Version)
	}
	want := map[string]any{
		"RasterLayer/GpuImage":      true,
		"RasterLayer/Stretch/Lower": int64(2),
		"RasterLayer/Stretch/Upper": int64(98),
		"Units/Distance":            "meters",
	}
	if len(opts.Settings) != len(want) {
		t.Errorf("settings: got %v", opts.Settings)
	}
	for k, v := range want {
		if opts.Settings[k] != v {
			t.Errorf("setting %s: got %v (%T), want %v", k, opts.Settings[k], opts.Settings[k], v)
		}
	}
}

func TestLoad_NestedSettingsTables(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[settings.RasterLayer]
GpuImage = false

[settings.RasterLayer.Stretch]
Lower = 5
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	settings := c.HostOptions().Settings
	if settings["RasterLayer/GpuImage"] != false {
		t.Errorf("GpuImage: got %v", settings["RasterLayer/GpuImage"])
	}
	if settings["RasterLayer/Stretch/Lower"] != int64(5) {
		t.Errorf("Stretch/Lower: got %v (%T)", settings["RasterLayer/Stretch/Lower"], settings["RasterLayer/Stretch/Lower"])
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[host]\n")

	c, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	b := c.Bridge()
	if !b.Interactive {
		t.Error("interactive should default to true")
	}
	if len(b.Modules) != 2 || b.Active != "js" {
		t.Errorf("modules: got %v active %q", b.Modules, b.Active)
	}
	if b.Timeout != 30*time.Second {
		t.Errorf("timeout: got %s", b.Timeout)
	}
	if b.InstallPath != "" {
		t.Errorf("install path should stay empty, got %q", b.InstallPath)
	}

	d := Default(dir).Bridge()
	if !d.Interactive || d.Active != "js" {
		t.Errorf("Default: got %+v", d)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[interpreter\n"},
		{"unknown key", "[interpreter]\nmodule = \"js\"\n"},
		{"unknown key next to settings", "[settings.RasterLayer]\nGpuImage = true\n\n[host]\nimage = \"a.png\"\n"},
		{"unknown table", "[viewer]\nzoom = 2\n"},
		{"wrong type", "[interpreter]\nmodules = \"js\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			if _, err := Load(dir); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := Load(t.TempDir()); err == nil {
		t.Error("missing file should fail")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[interpreter]\nactive = \"tengo\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c == nil || c.Interpreter.Active != "tengo" {
		t.Fatalf("got %+v", c)
	}
	abs, _ := filepath.Abs(root)
	if c.Dir != abs {
		t.Errorf("dir: got %q, want %q", c.Dir, abs)
	}
}
