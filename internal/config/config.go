// Package config handles raster-bridge.toml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ironsheep/raster-bridge/internal/bridge"
	"github.com/ironsheep/raster-bridge/internal/host"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "raster-bridge.toml"

// Config represents a raster-bridge.toml file.
type Config struct {
	Interpreter Interpreter    `toml:"interpreter"`
	Host        Host           `toml:"host"`
	Settings    map[string]any `toml:"settings"`

	// Dir is the directory containing the file (set at load time).
	Dir string `toml:"-"`
}

// Interpreter configures the bridge session.
type Interpreter struct {
	InstallPath    string   `toml:"install_path"`
	Version        string   `toml:"version"`
	Modules        []string `toml:"modules"`
	Active         string   `toml:"active"`
	MaxOutput      int      `toml:"max_output"`
	Interactive    bool     `toml:"interactive"`
	TimeoutSeconds float64  `toml:"timeout_seconds"`
}

// Host configures the reference host.
type Host struct {
	Version string `toml:"version"`
	// Images are imported into windows when the host starts.
	Images      []string `toml:"images"`
	ColormapDir string   `toml:"colormap_dir"`
}

// Default returns the configuration used when no file is found.
func Default(dir string) *Config {
	c := &Config{Dir: dir}
	c.Interpreter.Interactive = true
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if len(c.Interpreter.Modules) == 0 {
		c.Interpreter.Modules = []string{"js", "tengo"}
	}
	if c.Interpreter.Active == "" {
		c.Interpreter.Active = c.Interpreter.Modules[0]
	}
	if c.Interpreter.TimeoutSeconds == 0 {
		c.Interpreter.TimeoutSeconds = 30
	}
}

// Load parses raster-bridge.toml from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	// Settings is free-form; nested tables under it are never unknown.
	for _, key := range md.Undecoded() {
		if len(key) > 0 && key[0] == "settings" {
			continue
		}
		return nil, fmt.Errorf("%s: unknown key %s", path, key)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Typing commands stays enabled unless the file says otherwise.
	if !md.IsDefined("interpreter", "interactive") {
		c.Interpreter.Interactive = true
	}
	c.applyDefaults()
	return &c, nil
}

// FindAndLoad walks up from startDir to find raster-bridge.toml, then loads
// it. It returns nil when no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// resolve makes path absolute against the config directory.
func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir, path)
}

// Bridge returns the session configuration.
func (c *Config) Bridge() bridge.Config {
	in := c.Interpreter
	return bridge.Config{
		InstallPath: c.resolve(in.InstallPath),
		Version:     in.Version,
		Modules:     append([]string(nil), in.Modules...),
		Active:      in.Active,
		MaxOutput:   in.MaxOutput,
		Interactive: in.Interactive,
		Timeout:     time.Duration(in.TimeoutSeconds * float64(time.Second)),
	}
}

// HostOptions returns the options for the reference host.
func (c *Config) HostOptions() host.Options {
	return host.Options{
		Version:  c.Host.Version,
		Settings: Flatten(c.Settings),
	}
}

// ImagePaths returns the images to preload, made absolute.
func (c *Config) ImagePaths() []string {
	paths := make([]string, len(c.Host.Images))
	for i, p := range c.Host.Images {
		paths[i] = c.resolve(p)
	}
	return paths
}

// ColormapDir returns the colormap directory, made absolute.
func (c *Config) ColormapDir() string {
	return c.resolve(c.Host.ColormapDir)
}

// Flatten turns nested setting tables into Section/Key paths:
//
//	[settings.RasterLayer]
//	GpuImage = true
//
// becomes "RasterLayer/GpuImage" = true.
func Flatten(tables map[string]any) map[string]any {
	out := make(map[string]any)
	flatten("", tables, out)
	return out
}

func flatten(prefix string, table map[string]any, out map[string]any) {
	for k, v := range table {
		path := k
		if prefix != "" {
			path = prefix + "/" + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(path, sub, out)
			continue
		}
		out[path] = v
	}
}
