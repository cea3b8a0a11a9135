package bridge

import (
	"time"

	"github.com/ironsheep/raster-bridge/internal/commands"
)

// Module is a started interpreter runtime.
type Module interface {
	// Name is the configured module name.
	Name() string
	// Execute runs script text to completion. A script error is returned,
	// not printed; the session reports it on the error channel.
	Execute(text string) error
	// Close releases the runtime. The module is not used afterwards.
	Close() error
}

// Factory starts modules of one runtime kind.
type Factory interface {
	// Extension is the file extension of the runtime's scripts, without
	// the dot. It names the prelude script.
	Extension() string
	Start(ctx StartContext) (Module, error)
}

// StartContext is what a module receives when it starts.
type StartContext struct {
	// Name is the configured module name.
	Name  string
	Env   *commands.Env
	Table *commands.Table
	// Output writes to the session's normal or error channel.
	Output func(text string, isError bool)
	// Prelude is script text to run once at start, or "".
	Prelude     string
	PreludePath string
	// Timeout bounds one Execute. Zero means no limit.
	Timeout time.Duration
}
