package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTrigger struct {
	count int
}

func (c *countingTrigger) Trigger() { c.count++ }

type fakeLock struct {
	held     bool
	acquires int
	releases int
	timeout  time.Duration
}

func (l *fakeLock) Acquire(timeout time.Duration) {
	l.held = true
	l.acquires++
	l.timeout = timeout
}

func (l *fakeLock) Release() {
	if l.held {
		l.releases++
	}
	l.held = false
}

type point struct{ x, y int }

func newTestRecognizer(t *testing.T) (*Recognizer, *countingTrigger, *fakeLock) {
	t.Helper()
	g, err := NewGeometry(defaultScreen())
	require.NoError(t, err)
	trigger := &countingTrigger{}
	lock := &fakeLock{}
	return NewRecognizer(g, trigger, lock, 0), trigger, lock
}

func feed(r *Recognizer, mode Mode, points ...point) {
	for _, p := range points {
		r.Update(p.x, p.y, mode)
	}
}

func TestRecognizerForwardSweep(t *testing.T) {
	r, trigger, lock := newTestRecognizer(t)

	assert.False(t, r.Update(1000, 2450, SleepMode))
	assert.True(t, r.State().Forward.Entered())
	assert.True(t, lock.held)
	assert.Equal(t, DefaultLockTimeout, lock.timeout)

	assert.False(t, r.Update(600, 2450, SleepMode))
	assert.True(t, r.State().Forward.Crossed())
	assert.Equal(t, 0, trigger.count)

	assert.True(t, r.Update(200, 2450, SleepMode))
	assert.Equal(t, 1, trigger.count)
	assert.True(t, r.State().Fired)
}

func TestRecognizerStickyGates(t *testing.T) {
	r, trigger, _ := newTestRecognizer(t)

	feed(r, SleepMode, point{1000, 2450}, point{600, 2450}, point{300, 2000}, point{200, 2450})

	assert.Equal(t, 1, trigger.count)
}

func TestRecognizerOutsideBandNeverFires(t *testing.T) {
	r, trigger, lock := newTestRecognizer(t)

	feed(r, SleepMode, point{1000, 2400}, point{600, 2300}, point{200, 2000}, point{100, 2400})

	assert.Equal(t, 0, trigger.count)
	assert.Equal(t, Progress{}, r.State().Forward)
	assert.Equal(t, Progress{}, r.State().Reverse)
	assert.Equal(t, 0, lock.acquires)
}

func TestRecognizerFinalPointMustBeInBand(t *testing.T) {
	r, trigger, _ := newTestRecognizer(t)

	feed(r, SleepMode, point{1000, 2450}, point{600, 2450}, point{200, 2000})

	assert.Equal(t, 0, trigger.count)
	assert.True(t, r.State().Forward.Crossed())
}

func TestRecognizerFiresOnceUntilReset(t *testing.T) {
	r, trigger, _ := newTestRecognizer(t)

	feed(r, SleepMode, point{1000, 2450}, point{600, 2450}, point{200, 2450})
	for i := 0; i < 5; i++ {
		assert.False(t, r.Update(200, 2450, SleepMode))
	}
	feed(r, SleepMode, point{300, 2450}, point{500, 2450}, point{1300, 2450})

	assert.Equal(t, 1, trigger.count)
	assert.Equal(t, 1300, r.State().LastX, "position is still tracked after firing")
}

func TestRecognizerResetAllowsSecondFire(t *testing.T) {
	r, trigger, lock := newTestRecognizer(t)
	sweep := []point{{1000, 2450}, {600, 2450}, {200, 2450}}

	feed(r, SleepMode, sweep...)
	require.Equal(t, 1, trigger.count)

	r.Reset()
	state := r.State()
	assert.False(t, state.Fired)
	assert.False(t, state.ContactActive)
	assert.False(t, state.HasPosition)
	assert.Equal(t, Progress{}, state.Forward)
	assert.Equal(t, Progress{}, state.Reverse)
	assert.False(t, lock.held)

	feed(r, WakeMode, sweep...)
	assert.Equal(t, 2, trigger.count)
}

func TestRecognizerReverseSweep(t *testing.T) {
	r, trigger, _ := newTestRecognizer(t)

	for _, p := range []point{{300, 2450}, {500, 2450}, {1300, 2450}} {
		r.Update(p.x, p.y, SleepMode)
		assert.Equal(t, Progress{}, r.State().Forward, "reverse path must not touch forward flags")
	}

	assert.Equal(t, 1, trigger.count)
	assert.Equal(t, Progress{true, true}, r.State().Reverse)
}

func TestRecognizerForwardDoesNotSetReverse(t *testing.T) {
	r, _, _ := newTestRecognizer(t)

	for _, p := range []point{{1000, 2450}, {800, 2450}, {600, 2450}} {
		r.Update(p.x, p.y, SleepMode)
		assert.Equal(t, Progress{}, r.State().Reverse)
	}
}

func TestRecognizerSkippedMiddleGate(t *testing.T) {
	r, trigger, _ := newTestRecognizer(t)

	// jumps straight from the first gate to the edge
	feed(r, SleepMode, point{1000, 2450}, point{200, 2450})

	assert.Equal(t, 0, trigger.count)
	assert.Equal(t, Progress{true, false}, r.State().Forward)
}

func TestRecognizerMonotonicProgress(t *testing.T) {
	r, _, _ := newTestRecognizer(t)

	var prev State
	for _, p := range []point{{1000, 2450}, {1300, 100}, {600, 2450}, {1400, 2550}, {0, 0}} {
		r.Update(p.x, p.y, SleepMode)
		cur := r.State()
		for i := range cur.Forward {
			if prev.Forward[i] {
				assert.True(t, cur.Forward[i])
			}
			if prev.Reverse[i] {
				assert.True(t, cur.Reverse[i])
			}
		}
		prev = cur
	}
}

func TestRecognizerContactID(t *testing.T) {
	r, _, _ := newTestRecognizer(t)

	r.Update(1000, 2450, SleepMode)
	first := r.State().ContactID
	require.NotEmpty(t, first)

	r.Update(900, 2450, SleepMode)
	assert.Equal(t, first, r.State().ContactID)

	r.Reset()
	r.Update(1000, 2450, SleepMode)
	assert.NotEqual(t, first, r.State().ContactID)
}

func TestRecognizerLockExtendedWhileInProgress(t *testing.T) {
	g, err := NewGeometry(defaultScreen())
	require.NoError(t, err)
	lock := &fakeLock{}
	r := NewRecognizer(g, &countingTrigger{}, lock, 500*time.Millisecond)

	feed(r, SleepMode, point{1000, 2450}, point{900, 2000}, point{800, 2450})

	assert.Equal(t, 3, lock.acquires)
	assert.Equal(t, 500*time.Millisecond, lock.timeout)
}
