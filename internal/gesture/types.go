package gesture

import (
	"fmt"
)

// Mode selects which enable switch a coordinate update is evaluated under
type Mode int

const (
	// SleepMode applies while the screen is on and sweep2sleep is enabled
	SleepMode Mode = iota
	// WakeMode applies while the screen is off and sweep2wake is enabled
	WakeMode
)

func (m Mode) String() string {
	switch m {
	case SleepMode:
		return "sleep"
	case WakeMode:
		return "wake"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// Direction is the horizontal direction of travel of a sweep
type Direction int

const (
	// Forward runs from the high-X edge toward the low-X edge
	Forward Direction = iota
	// Reverse runs from the low-X edge toward the high-X edge
	Reverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// SignalKind is the kind of output produced by the Demuxer
type SignalKind int

const (
	SignalNone SignalKind = iota
	SignalReset
	SignalCoordinate
)

func (k SignalKind) String() string {
	switch k {
	case SignalNone:
		return "none"
	case SignalReset:
		return "reset"
	case SignalCoordinate:
		return "coordinate"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Signal is a lifecycle reset or a complete coordinate pair
type Signal struct {
	Kind SignalKind
	X, Y int
}

func (s Signal) String() string {
	if s.Kind == SignalCoordinate {
		return fmt.Sprintf("coordinate(%d,%d)", s.X, s.Y)
	}
	return s.Kind.String()
}
