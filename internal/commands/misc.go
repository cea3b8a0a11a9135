package commands

import (
	"fmt"

	"github.com/ironsheep/raster-bridge/internal/host"
)

func miscCommands() []Command {
	wizardArg := []Param{{Name: "wizard_file", Type: StringType, Description: "Path of the wizard file."}}
	return []Command{
		{
			Name:        "EXECUTE_WIZARD",
			Description: "Runs a wizard file. Loaded wizards are cached by path.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        wizardArg,
			Keywords:    []Param{{Name: "BATCH", Type: FlagType, Description: "Run without prompting. Fails on interactive items."}},
			Handler:     executeWizard,
		},
		{
			Name:        "RELOAD_WIZARD",
			Description: "Drops the cached copy of a wizard so the next run rereads the file.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        wizardArg,
			Handler:     reloadWizard,
		},
		{
			Name:        "REPORT_PROGRESS",
			Description: "Reports progress of the running script to the host. Ignored when nothing listens.",
			Routine:     Procedure,
			Keywords: []Param{
				{Name: "MESSAGE", Type: StringType, Description: `Message text. Defaults to "Error."`},
				{Name: "PERCENT", Type: IntType, Description: "Percent complete. Defaults to 0."},
				{Name: "REPORTING_LEVEL", Type: StringType, Description: "NORMAL, WARNING, ABORT or ERRORS. Defaults to WARNING."},
			},
			Handler: reportProgress,
		},
		{
			Name:        "GET_CONFIGURATION_SETTING",
			Description: `Returns a configuration setting as text, by path such as "RasterLayer/GpuImage".`,
			MinArgs:     1,
			MaxArgs:     1,
			Args:        []Param{{Name: "setting", Type: StringType, Description: "Setting path."}},
			Handler:     getConfigurationSetting,
		},
		{
			Name:        "GET_VERSION",
			Description: "Returns the bridge version, or the host version with /HOST.",
			Keywords:    []Param{{Name: "HOST", Type: FlagType, Description: "Return the host application version."}},
			Handler:     getVersion,
		},
	}
}

func executeWizard(env *Env, c *Call) (Value, error) {
	path := c.ArgString(0)
	if path == "" {
		return Null(), fmt.Errorf("%w: a wizard needs to be specified", ErrArgumentInvalid)
	}
	return status(env.Host.Wizards.Execute(path, c.Flag("BATCH")))
}

func reloadWizard(env *Env, c *Call) (Value, error) {
	path := c.ArgString(0)
	if path == "" {
		return Null(), fmt.Errorf("%w: a wizard needs to be specified", ErrArgumentInvalid)
	}
	env.Host.Wizards.Reload(path)
	return String(Success), nil
}

func reportProgress(env *Env, c *Call) (Value, error) {
	p := env.Progress()
	if p == nil {
		return Null(), nil
	}
	level := host.Warning
	if s := c.Text("REPORTING_LEVEL", ""); s != "" {
		l, err := host.ParseReportingLevel(s)
		if err != nil {
			return Null(), err
		}
		level = l
	}
	p.UpdateProgress(c.Text("MESSAGE", "Error."), c.Int("PERCENT", 0), level)
	return Null(), nil
}

func getConfigurationSetting(env *Env, c *Call) (Value, error) {
	path := c.ArgString(0)
	if _, ok := env.Host.Settings.Setting(path); !ok {
		return String(""), fmt.Errorf("%w: setting %q", ErrNotFound, path)
	}
	return String(env.Host.Settings.DisplayString(path)), nil
}

func getVersion(env *Env, c *Call) (Value, error) {
	if c.Flag("HOST") {
		return String(env.Host.Version()), nil
	}
	return String(env.Version), nil
}
