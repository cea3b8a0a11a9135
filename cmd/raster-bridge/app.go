package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/raster-bridge/internal/bridge"
	"github.com/ironsheep/raster-bridge/internal/commands"
	"github.com/ironsheep/raster-bridge/internal/config"
	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/ironsheep/raster-bridge/internal/imaging"
	"github.com/ironsheep/raster-bridge/internal/runtime/jsmodule"
	"github.com/ironsheep/raster-bridge/internal/runtime/tengomodule"
)

// factories are the interpreter runtimes this binary ships.
var factories = map[string]bridge.Factory{
	"js":    jsmodule.Factory{},
	"tengo": tengomodule.Factory{},
}

// app is one host with its bridge session.
type app struct {
	cfg     *config.Config
	host    *host.Host
	table   *commands.Table
	session *bridge.Session
}

func loadConfig() (*config.Config, error) {
	dir := configDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = wd
	}
	cfg, err := config.FindAndLoad(dir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		log.Debugf("no %s found from %s, using defaults", config.FileName, dir)
		cfg = config.Default(dir)
	} else {
		log.Infof("loaded %s from %s", config.FileName, cfg.Dir)
	}
	if module != "" {
		cfg.Interpreter.Active = module
	}
	return cfg, nil
}

// newApp builds the host, opens the configured images and starts the
// bridge. A session that fails to start is still returned so its startup
// message can be shown.
func newApp(anchor *bridge.Anchor) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	h := host.New(cfg.HostOptions())
	version := cfg.Interpreter.Version
	if version == "" {
		version = Version
	}
	env := commands.NewEnv(h, version)
	env.ColormapDir = cfg.ColormapDir()

	for _, path := range cfg.ImagePaths() {
		e, _, err := imaging.Import(h, env.Images, path, "")
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		if _, _, err := h.OpenWindow(e); err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
	}

	table := commands.Default()
	session, err := anchor.Open(cfg.Bridge(), bridge.Services{Env: env, Table: table}, factories)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, host: h, table: table, session: session}
	if err := session.Start(); err != nil {
		return a, err
	}
	return a, nil
}

func (a *app) close() {
	if err := a.session.Stop(); err != nil {
		log.Warningf("stopping bridge: %v", err)
	}
}
