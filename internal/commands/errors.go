package commands

import "github.com/ironsheep/raster-bridge/internal/host"

// Commands fail with the host's sentinels so a caller can test a result
// against either package.
var (
	// ErrArgumentInvalid reports a missing, extra or mistyped argument.
	ErrArgumentInvalid = host.ErrInvalid
	// ErrNotFound reports an unknown command or host object.
	ErrNotFound = host.ErrNotFound
)
