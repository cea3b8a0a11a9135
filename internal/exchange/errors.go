package exchange

import "github.com/ironsheep/raster-bridge/internal/host"

// The façade reports host lookup and validation failures with the host's
// own sentinels so callers can test either package's names.
var (
	ErrArgumentInvalid = host.ErrInvalid
	ErrNotFound        = host.ErrNotFound
	ErrAlreadyExists   = host.ErrAlreadyExists
)
