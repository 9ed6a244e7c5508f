package touch

import (
	"fmt"

	evdev "github.com/holoplot/go-evdev"
)

// Axis identifies which multi-touch value an Event carries
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisSlot
	AxisTrackingID
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisSlot:
		return "slot"
	case AxisTrackingID:
		return "tracking_id"
	default:
		return fmt.Sprintf("unknown(%d)", int(a))
	}
}

// ReleasedTrackingID is the tracking id the kernel reports when a contact lifts.
const ReleasedTrackingID = -1

// Event is a single axis update from the touch panel
type Event struct {
	Axis  Axis
	Value int
}

func (e Event) String() string {
	return fmt.Sprintf("%s=%d", e.Axis, e.Value)
}

// ParseEvent converts a raw evdev event into an Event.
// Only the type-B multi-touch axes are of interest:
//
//	EV_ABS ABS_MT_POSITION_X  -> AxisX
//	EV_ABS ABS_MT_POSITION_Y  -> AxisY
//	EV_ABS ABS_MT_SLOT        -> AxisSlot
//	EV_ABS ABS_MT_TRACKING_ID -> AxisTrackingID
//
// Everything else (SYN, KEY, pressure, touch major...) reports ok=false.
func ParseEvent(ev *evdev.InputEvent) (Event, bool) {
	if ev == nil || ev.Type != evdev.EV_ABS {
		return Event{}, false
	}

	var axis Axis
	switch ev.Code {
	case evdev.ABS_MT_POSITION_X:
		axis = AxisX
	case evdev.ABS_MT_POSITION_Y:
		axis = AxisY
	case evdev.ABS_MT_SLOT:
		axis = AxisSlot
	case evdev.ABS_MT_TRACKING_ID:
		axis = AxisTrackingID
	default:
		return Event{}, false
	}

	return Event{Axis: axis, Value: int(ev.Value)}, true
}

// X, Y, Slot and Lift build events, mainly for tests and replay.
func X(v int) Event    { return Event{Axis: AxisX, Value: v} }
func Y(v int) Event    { return Event{Axis: AxisY, Value: v} }
func Slot(v int) Event { return Event{Axis: AxisSlot, Value: v} }
func Lift() Event      { return Event{Axis: AxisTrackingID, Value: ReleasedTrackingID} }
