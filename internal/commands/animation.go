package commands

import (
	"fmt"

	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/ironsheep/raster-bridge/internal/layout"
)

func animationCommands() []Command {
	ctl := []Param{controllerKeyword}
	return []Command{
		{
			Name:        "CREATE_ANIMATION",
			Description: "Animates the bands of a raster element, one frame per band, on an animation controller that becomes active.",
			Keywords: []Param{
				datasetKeyword,
				{Name: "CONTROLLER_NAME", Type: StringType, Description: "Controller to use, created when missing. Defaults to " + host.DefaultControllerName + "."},
				{Name: "COPY_DATASET", Type: StringType, Description: "Element whose animation supplies frame times, band numbers and controller settings."},
				{Name: "FRAMES", Type: ArrayType, Description: "On-disk and original number of each band."},
				{Name: "TIMES", Type: ArrayType, Description: "Time of each frame."},
			},
			Handler: createAnimation,
		},
		{
			Name:        "GET_INTERVAL_MULTIPLIER",
			Description: "Returns a controller's playback speed multiplier.",
			Keywords:    ctl,
			Handler:     getIntervalMultiplier,
		},
		{
			Name:        "SET_INTERVAL_MULTIPLIER",
			Description: "Sets a controller's playback speed multiplier. It must be positive.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        []Param{{Name: "multiplier", Type: FloatType, Description: "2 plays twice as fast."}},
			Keywords:    ctl,
			Handler:     setIntervalMultiplier,
		},
		{
			Name:        "GET_ANIMATION_STATE",
			Description: "Returns a controller's playback state: stop, play_forward, play_backward, pause_forward or pause_backward.",
			Keywords:    ctl,
			Handler:     getAnimationState,
		},
		{
			Name:        "SET_ANIMATION_STATE",
			Description: "Sets a controller's playback state.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        []Param{{Name: "state", Type: StringType, Description: "stop, play_forward, play_backward, pause_forward or pause_backward."}},
			Keywords:    ctl,
			Handler:     setAnimationState,
		},
		{
			Name:        "GET_ANIMATION_CYCLE",
			Description: "Returns what a controller does after the last frame: play_once, repeat or bounce.",
			Keywords:    ctl,
			Handler:     getAnimationCycle,
		},
		{
			Name:        "SET_ANIMATION_CYCLE",
			Description: "Sets what a controller does after the last frame.",
			MinArgs:     1,
			MaxArgs:     1,
			Args:        []Param{{Name: "cycle", Type: StringType, Description: "play_once, repeat or bounce."}},
			Keywords:    ctl,
			Handler:     setAnimationCycle,
		},
		{
			Name:        "ENABLE_CAN_DROP_FRAMES",
			Description: "Lets a controller skip frames to keep up.",
			Keywords:    ctl,
			Handler:     canDropFrames(true),
		},
		{
			Name:        "DISABLE_CAN_DROP_FRAMES",
			Description: "Makes a controller show every frame.",
			Keywords:    ctl,
			Handler:     canDropFrames(false),
		},
	}
}

func createAnimation(env *Env, c *Call) (Value, error) {
	e, err := env.Exchange.Resolve(c.Text("DATASET", ""))
	if err != nil {
		return Null(), fmt.Errorf("no dataset: %w", err)
	}

	var (
		copyBands []host.DimensionDescriptor
		copyAnim  *host.Animation
		copyCtl   *host.AnimationController
	)
	if ref := c.Text("COPY_DATASET", ""); ref != "" {
		src, err := env.Exchange.Resolve(ref)
		if err != nil {
			return Null(), err
		}
		copyBands = src.Descriptors(layout.Bands)
		if l, v := env.Host.LayerByRaster(src); l != nil {
			copyAnim = l.Animation()
			copyCtl = v.AnimationController()
		}
		if copyCtl == nil {
			copyCtl = env.Host.Animations.Active()
		}
	}

	var frameNumbers, times []float64
	if v, ok := c.Keyword("FRAMES"); ok {
		frameNumbers, _ = v.Floats()
	}
	if v, ok := c.Keyword("TIMES"); ok {
		times, _ = v.Floats()
	}

	bands := e.Descriptors(layout.Bands)
	frames := make([]host.Frame, len(bands))
	newBands := make([]host.DimensionDescriptor, len(bands))
	var copyFrames []host.Frame
	if copyAnim != nil {
		copyFrames = copyAnim.Frames()
	}
	timed := false
	renumbered := false
	for i, band := range bands {
		frame := host.Frame{Name: e.Name(), Index: i}
		if i < len(copyFrames) {
			frame.Time = copyFrames[i].Time
			timed = timed || frame.Time != 0
		}
		if copyAnim != nil && i < len(copyBands) {
			band.OnDisk, band.Original = copyBands[i].OnDisk, copyBands[i].Original
			renumbered = true
		}
		if i < len(times) {
			frame.Time = times[i]
			timed = true
		}
		if i < len(frameNumbers) {
			n := int(frameNumbers[i])
			band = host.DimensionDescriptor{Active: i, OnDisk: n, Original: n}
			renumbered = true
		}
		frames[i] = frame
		newBands[i] = band
	}
	if renumbered {
		if err := e.SetBandDescriptors(newBands); err != nil {
			return Null(), err
		}
	}

	frameType := host.FrameID
	if timed {
		frameType = host.FrameTime
	}
	name := c.Text("CONTROLLER_NAME", host.DefaultControllerName)
	ctl := env.Host.Animations.Controller(name)
	if ctl == nil {
		if ctl, err = env.Host.Animations.CreateController(name, frameType); err != nil {
			return Null(), err
		}
	}
	if old := ctl.Animation(e.Name()); old != nil {
		ctl.DestroyAnimation(old)
	}
	anim, err := ctl.CreateAnimation(e.Name())
	if err != nil {
		return Null(), err
	}
	anim.SetFrames(frames)

	if l, v := env.Host.LayerByRaster(e); l != nil {
		l.SetAnimation(anim)
		v.SetAnimationController(ctl)
	}

	env.Host.Animations.SetActive(ctl)
	canDrop := false
	if copyCtl != nil && copyCtl != ctl {
		ctl.SetMinimumFrameRate(copyCtl.MinimumFrameRate())
		ctl.SetCycle(copyCtl.Cycle())
		if err := ctl.SetIntervalMultiplier(copyCtl.IntervalMultiplier()); err != nil {
			return Null(), err
		}
		canDrop = copyCtl.CanDropFrames()
	}
	ctl.SetCanDropFrames(canDrop)
	log.Debugf("animation %q on %q: %d frames, %s", anim.Name(), ctl.Name(), len(frames), frameType)
	return String(Success), nil
}

func getIntervalMultiplier(env *Env, c *Call) (Value, error) {
	ctl, err := controller(env, c)
	if err != nil {
		return Null(), err
	}
	return Float(ctl.IntervalMultiplier()), nil
}

func setIntervalMultiplier(env *Env, c *Call) (Value, error) {
	ctl, err := controller(env, c)
	if err != nil {
		return Null(), err
	}
	m, _ := c.Arg(0).AsFloat()
	return status(ctl.SetIntervalMultiplier(m))
}

func getAnimationState(env *Env, c *Call) (Value, error) {
	ctl, err := controller(env, c)
	if err != nil {
		return Null(), err
	}
	return String(ctl.State().String()), nil
}

func setAnimationState(env *Env, c *Call) (Value, error) {
	ctl, err := controller(env, c)
	if err != nil {
		return Null(), err
	}
	s, err := host.ParseAnimationState(c.ArgString(0))
	if err != nil {
		return Null(), err
	}
	ctl.SetState(s)
	return String(Success), nil
}

func getAnimationCycle(env *Env, c *Call) (Value, error) {
	ctl, err := controller(env, c)
	if err != nil {
		return Null(), err
	}
	return String(ctl.Cycle().String()), nil
}

func setAnimationCycle(env *Env, c *Call) (Value, error) {
	ctl, err := controller(env, c)
	if err != nil {
		return Null(), err
	}
	cycle, err := host.ParseAnimationCycle(c.ArgString(0))
	if err != nil {
		return Null(), err
	}
	ctl.SetCycle(cycle)
	return String(Success), nil
}

func canDropFrames(on bool) Handler {
	return func(env *Env, c *Call) (Value, error) {
		ctl, err := controller(env, c)
		if err != nil {
			return Null(), err
		}
		ctl.SetCanDropFrames(on)
		return String(Success), nil
	}
}
