package gesture

import (
	"github.com/pleimann/sweepd/internal/touch"
)

// Demuxer pairs single-axis touch events into coordinate updates and turns
// slot changes and lifts into resets. A reset discards any half-built pair,
// so an axis from one contact never pairs with the next contact's other axis.
type Demuxer struct {
	x, y         int
	xSeen, ySeen bool
}

// Feed consumes one event and returns the resulting signal, which is
// SignalNone while a pair is still incomplete.
func (d *Demuxer) Feed(ev touch.Event) Signal {
	switch ev.Axis {
	case touch.AxisSlot:
		if ev.Value > 0 {
			return d.reset()
		}
	case touch.AxisTrackingID:
		if ev.Value == touch.ReleasedTrackingID {
			return d.reset()
		}
	case touch.AxisX:
		d.x, d.xSeen = ev.Value, true
	case touch.AxisY:
		d.y, d.ySeen = ev.Value, true
	}

	if d.xSeen && d.ySeen {
		d.xSeen, d.ySeen = false, false
		return Signal{Kind: SignalCoordinate, X: d.x, Y: d.y}
	}
	return Signal{Kind: SignalNone}
}

func (d *Demuxer) reset() Signal {
	d.xSeen, d.ySeen = false, false
	return Signal{Kind: SignalReset}
}
