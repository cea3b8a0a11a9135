package bridge

import "errors"

var (
	// ErrModuleLoadFailed marks a configured module that has no factory or
	// whose prelude could not be read.
	ErrModuleLoadFailed = errors.New("module load failed")
	// ErrRuntimeStartFailed is returned by Start, and by every later
	// Execute, when no module started.
	ErrRuntimeStartFailed = errors.New("runtime start failed")
	ErrNotStarted         = errors.New("session not started")
	ErrStopped            = errors.New("session stopped")
	// ErrSessionLive is returned by Anchor.Open while another session of
	// the same anchor has not been stopped.
	ErrSessionLive = errors.New("a bridge session is already live")
)
