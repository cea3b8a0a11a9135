package commands

import (
	"github.com/ironsheep/raster-bridge/internal/exchange"
	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/ironsheep/raster-bridge/internal/imaging"
)

// Env is what handlers operate on. One Env belongs to one bridge session.
type Env struct {
	Host     *host.Host
	Exchange *exchange.Facade

	// Images caches decoded image files for the image commands.
	Images *imaging.ImageCache

	// Version is what GET_VERSION reports without /HOST.
	Version string

	// ColormapDir is searched first for relative SET_COLORMAP paths.
	ColormapDir string

	// Output receives text for the normal or error channel. Nil discards.
	Output func(text string, isError bool)

	progress host.Progress
}

// NewEnv returns an environment over h.
func NewEnv(h *host.Host, version string) *Env {
	return &Env{
		Host:     h,
		Exchange: exchange.New(h),
		Images:   imaging.NewImageCache(),
		Version:  version,
	}
}

// SetProgress installs the progress handle of the running script. Nil
// clears it.
func (e *Env) SetProgress(p host.Progress) { e.progress = p }

// Progress returns the installed progress handle, or nil.
func (e *Env) Progress() host.Progress { return e.progress }

func (e *Env) emit(text string, isError bool) {
	if e.Output != nil {
		e.Output(text, isError)
	}
}
