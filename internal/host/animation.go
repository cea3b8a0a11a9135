package host

import (
	"fmt"
	"strings"
)

// DefaultControllerName names the controller CREATE_ANIMATION uses when
// the caller does not name one.
const DefaultControllerName = "Animation Controller 1"

// FrameType says whether frames advance by index or by time.
type FrameType int

const (
	FrameID FrameType = iota
	FrameTime
)

func (t FrameType) String() string {
	if t == FrameTime {
		return "FRAME_TIME"
	}
	return "FRAME_ID"
}

// AnimationState is a controller's playback state.
type AnimationState int

const (
	Stop AnimationState = iota
	PlayForward
	PlayBackward
	PauseForward
	PauseBackward
)

var stateNames = [...]string{"stop", "play_forward", "play_backward", "pause_forward", "pause_backward"}

func (s AnimationState) String() string {
	if s >= Stop && s <= PauseBackward {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ParseAnimationState accepts the String forms in any case.
func ParseAnimationState(s string) (AnimationState, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, name := range stateNames {
		if v == name {
			return AnimationState(i), nil
		}
	}
	return Stop, fmt.Errorf("%w: unknown animation state %q", ErrInvalid, s)
}

// AnimationCycle is what a controller does at the end of its frames.
type AnimationCycle int

const (
	PlayOnce AnimationCycle = iota
	Repeat
	Bounce
)

var cycleNames = [...]string{"play_once", "repeat", "bounce"}

func (c AnimationCycle) String() string {
	if c >= PlayOnce && c <= Bounce {
		return cycleNames[c]
	}
	return fmt.Sprintf("cycle(%d)", int(c))
}

// ParseAnimationCycle accepts the String forms in any case.
func ParseAnimationCycle(s string) (AnimationCycle, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, name := range cycleNames {
		if v == name {
			return AnimationCycle(i), nil
		}
	}
	return PlayOnce, fmt.Errorf("%w: unknown animation cycle %q", ErrInvalid, s)
}

// Frame is one step of an animation.
type Frame struct {
	Name  string
	Index int
	Time  float64
}

// Animation is a named frame sequence, usually one frame per band.
type Animation struct {
	name   string
	frames []Frame
}

func (a *Animation) Name() string { return a.name }

// Frames returns a copy of the frames in order.
func (a *Animation) Frames() []Frame { return append([]Frame(nil), a.frames...) }

// SetFrames replaces the frame list.
func (a *Animation) SetFrames(frames []Frame) { a.frames = append([]Frame(nil), frames...) }

// AnimationController plays a set of animations together.
type AnimationController struct {
	name       string
	frameType  FrameType
	animations []*Animation

	state              AnimationState
	cycle              AnimationCycle
	intervalMultiplier float64
	minFrameRate       float64
	canDropFrames      bool
}

func (c *AnimationController) Name() string         { return c.name }
func (c *AnimationController) FrameType() FrameType { return c.frameType }

// Animation returns the animation named name, or nil.
func (c *AnimationController) Animation(name string) *Animation {
	for _, a := range c.animations {
		if a.name == name {
			return a
		}
	}
	return nil
}

// Animations returns the controller's animations in creation order.
func (c *AnimationController) Animations() []*Animation {
	return append([]*Animation(nil), c.animations...)
}

// CreateAnimation adds an empty animation.
func (c *AnimationController) CreateAnimation(name string) (*Animation, error) {
	if c.Animation(name) != nil {
		return nil, fmt.Errorf("%w: animation %q in %q", ErrAlreadyExists, name, c.name)
	}
	a := &Animation{name: name}
	c.animations = append(c.animations, a)
	return a, nil
}

// DestroyAnimation removes a from the controller.
func (c *AnimationController) DestroyAnimation(a *Animation) {
	for i, cur := range c.animations {
		if cur == a {
			c.animations = append(c.animations[:i], c.animations[i+1:]...)
			return
		}
	}
}

func (c *AnimationController) State() AnimationState     { return c.state }
func (c *AnimationController) SetState(s AnimationState) { c.state = s }
func (c *AnimationController) Cycle() AnimationCycle     { return c.cycle }
func (c *AnimationController) SetCycle(v AnimationCycle) { c.cycle = v }

// IntervalMultiplier scales playback speed; 2 plays twice as fast.
func (c *AnimationController) IntervalMultiplier() float64 { return c.intervalMultiplier }

// SetIntervalMultiplier rejects non-positive multipliers.
func (c *AnimationController) SetIntervalMultiplier(m float64) error {
	if m <= 0 {
		return fmt.Errorf("%w: interval multiplier %g", ErrInvalid, m)
	}
	c.intervalMultiplier = m
	return nil
}

func (c *AnimationController) MinimumFrameRate() float64        { return c.minFrameRate }
func (c *AnimationController) SetMinimumFrameRate(rate float64) { c.minFrameRate = rate }
func (c *AnimationController) CanDropFrames() bool              { return c.canDropFrames }
func (c *AnimationController) SetCanDropFrames(ok bool)         { c.canDropFrames = ok }

// Animations owns the animation controllers and tracks the one the
// animation toolbar is showing.
type Animations struct {
	controllers []*AnimationController
	active      *AnimationController
}

// NewAnimations returns an empty controller registry.
func NewAnimations() *Animations {
	return &Animations{}
}

// Controller returns the named controller, or nil.
func (s *Animations) Controller(name string) *AnimationController {
	for _, c := range s.controllers {
		if c.name == name {
			return c
		}
	}
	return nil
}

// CreateController adds a controller in the stopped state.
func (s *Animations) CreateController(name string, ft FrameType) (*AnimationController, error) {
	if s.Controller(name) != nil {
		return nil, fmt.Errorf("%w: animation controller %q", ErrAlreadyExists, name)
	}
	c := &AnimationController{name: name, frameType: ft, intervalMultiplier: 1, cycle: PlayOnce}
	s.controllers = append(s.controllers, c)
	return c, nil
}

// Active returns the controller shown on the toolbar, or nil.
func (s *Animations) Active() *AnimationController { return s.active }

// SetActive shows c on the toolbar.
func (s *Animations) SetActive(c *AnimationController) { s.active = c }

// Resolve returns the named controller, or the active one when name is
// empty.
func (s *Animations) Resolve(name string) (*AnimationController, error) {
	if name == "" {
		if s.active == nil {
			return nil, fmt.Errorf("%w: no active animation controller", ErrNotFound)
		}
		return s.active, nil
	}
	if c := s.Controller(name); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%w: animation controller %q", ErrNotFound, name)
}
