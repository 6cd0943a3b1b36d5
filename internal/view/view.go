// Package view holds the user-adjustable display state: vertical and
// horizontal scale factors, the pause flag, and the absolute-range override
// produced by autoscaling. All transitions are total functions; no command
// can fail or leave the state invalid.
package view

// Minimum half-width applied when autoscaling a flat window, so the
// vertical range never degenerates to a single point.
const minAutoScaleHalfWidth = 0.05 // volts

const autoScalePadding = 0.2

// Command is a user-triggered view transition, abstracted from whatever UI
// widget supplies the trigger.
type Command int

const (
	IncreaseVertical Command = iota
	DecreaseVertical
	IncreaseHorizontal
	DecreaseHorizontal
	AutoScale
	TogglePause
)

var commandNames = map[Command]string{
	IncreaseVertical:   "increase_vertical",
	DecreaseVertical:   "decrease_vertical",
	IncreaseHorizontal: "increase_horizontal",
	DecreaseHorizontal: "decrease_horizontal",
	AutoScale:          "auto_scale",
	TogglePause:        "toggle_pause",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCommand maps a command name back to its Command. The second return
// is false for unrecognized names.
func ParseCommand(name string) (Command, bool) {
	for cmd, n := range commandNames {
		if n == name {
			return cmd, true
		}
	}
	return 0, false
}

// Range is an absolute display range in volts.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// State is the full view state. Scale factors stay strictly positive;
// Absolute marks that an autoscale range overrides the multiplicative
// scale factors until the next manual scale command.
type State struct {
	VerticalScale   float64 `json:"vertical_scale"`
	HorizontalScale float64 `json:"horizontal_scale"`
	Paused          bool    `json:"paused"`
	Absolute        bool    `json:"absolute"`
	VerticalRange   Range   `json:"vertical_range"`
	HorizontalSpan  int     `json:"horizontal_span"`
}

// NewState returns the default view state: unit scales, running.
func NewState() State {
	return State{
		VerticalScale:   1,
		HorizontalScale: 1,
	}
}

// Apply executes a command against the state and returns the new state.
// The snapshot is only consulted by AutoScale; other commands ignore it.
func (s State) Apply(cmd Command, snapshot []float64) State {
	switch cmd {
	case IncreaseVertical:
		s.VerticalScale *= 2
		s.Absolute = false
	case DecreaseVertical:
		s.VerticalScale /= 2
		s.Absolute = false
	case IncreaseHorizontal:
		s.HorizontalScale *= 2
		s.Absolute = false
	case DecreaseHorizontal:
		s.HorizontalScale /= 2
		s.Absolute = false
	case AutoScale:
		s = s.autoScale(snapshot)
	case TogglePause:
		s.Paused = !s.Paused
	}
	return s
}

// autoScale fits the vertical range to the window with 20% padding and
// spans the horizontal axis over the full window length.
func (s State) autoScale(snapshot []float64) State {
	if len(snapshot) == 0 {
		return s
	}

	min, max := snapshot[0], snapshot[0]
	for _, v := range snapshot[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	padding := autoScalePadding * (max - min)
	if padding == 0 {
		// Flat window: apply a fixed floor so the range keeps a width.
		padding = minAutoScaleHalfWidth
	}

	s.Absolute = true
	s.VerticalRange = Range{Min: min - padding, Max: max + padding}
	s.HorizontalSpan = len(snapshot)
	return s
}
