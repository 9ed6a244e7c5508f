package gesture

import (
	"fmt"

	"github.com/pleimann/sweepd/internal/config"
)

// Gates are the four horizontal checkpoints of one sweep direction, listed in
// the order a finger crosses them.
type Gates struct {
	Direction Direction
	Outer     int
	Mid       int
	Inner     int
	Edge      int
}

// entering reports whether x lies strictly between the outer and mid gates
func (g Gates) entering(x int) bool {
	return between(x, g.Outer, g.Mid)
}

// crossing reports whether x lies strictly between the mid and inner gates
func (g Gates) crossing(x int) bool {
	return between(x, g.Mid, g.Inner)
}

// finished reports whether x is beyond both the inner and edge gates in the
// direction of travel
func (g Gates) finished(x int) bool {
	if g.Direction == Forward {
		return x < g.Inner && x < g.Edge
	}
	return x > g.Inner && x > g.Edge
}

func (g Gates) ordered() bool {
	if g.Direction == Forward {
		return g.Outer > g.Mid && g.Mid > g.Inner && g.Inner > g.Edge
	}
	return g.Outer < g.Mid && g.Mid < g.Inner && g.Inner < g.Edge
}

func (g Gates) String() string {
	return fmt.Sprintf("%s[outer=%d mid=%d inner=%d edge=%d]", g.Direction, g.Outer, g.Mid, g.Inner, g.Edge)
}

func between(x, a, b int) bool {
	if a > b {
		a, b = b, a
	}
	return x > a && x < b
}

// Geometry is the immutable panel layout the recognizer works against
type Geometry struct {
	Width   int
	Height  int
	BandMin int
	Forward Gates
	Reverse Gates
}

// NewGeometry derives the active band and both gate sets from a resolved
// screen config. Width and Height must already be filled in.
func NewGeometry(sc config.ScreenConfig) (Geometry, error) {
	if sc.Width <= 0 || sc.Height <= 0 {
		return Geometry{}, fmt.Errorf("screen dimensions must be positive, got %dx%d", sc.Width, sc.Height)
	}
	if sc.BandMargin <= 0 || sc.BandMargin >= sc.Height {
		return Geometry{}, fmt.Errorf("band margin %d must be within (0, %d)", sc.BandMargin, sc.Height)
	}

	g := Geometry{
		Width:   sc.Width,
		Height:  sc.Height,
		BandMin: sc.Height - sc.BandMargin,
		Forward: Gates{
			Direction: Forward,
			Outer:     sc.Width - sc.EdgeMargin,
			Mid:       sc.EdgeMargin + sc.ForwardMidOffset,
			Inner:     sc.EdgeMargin + sc.ForwardInnerOffset,
			Edge:      sc.EdgeMargin,
		},
		Reverse: Gates{
			Direction: Reverse,
			Outer:     sc.EdgeMargin,
			Mid:       sc.EdgeMargin + sc.ReverseMidOffset,
			Inner:     sc.Width - sc.ReverseInnerOffset,
			Edge:      sc.Width - sc.EdgeMargin,
		},
	}

	for _, gates := range []Gates{g.Forward, g.Reverse} {
		if !gates.ordered() {
			return Geometry{}, fmt.Errorf("%s gates out of order for width %d", gates, sc.Width)
		}
	}

	return g, nil
}

// InBand reports whether y is inside the active band along the bottom edge
func (g Geometry) InBand(y int) bool {
	return y > g.BandMin
}

// Gates returns the gate set for a direction
func (g Geometry) Gates(d Direction) Gates {
	if d == Reverse {
		return g.Reverse
	}
	return g.Forward
}
