package gesture

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// DefaultLockTimeout is how long the suspend lock is held after a contact
// enters the first gate.
const DefaultLockTimeout = 2 * time.Second

// ActionTrigger is invoked once per completed sweep. Trigger must not block.
type ActionTrigger interface {
	Trigger()
}

// SuspendLock keeps the system awake while a sweep is in progress.
// Acquiring a held lock extends it.
type SuspendLock interface {
	Acquire(timeout time.Duration)
	Release()
}

// Recognizer is the sweep state machine. It is not safe for concurrent use;
// the Engine serialises calls.
type Recognizer struct {
	geometry    Geometry
	trigger     ActionTrigger
	lock        SuspendLock
	lockTimeout time.Duration
	state       State
}

// NewRecognizer creates a recognizer. A zero lockTimeout uses DefaultLockTimeout.
func NewRecognizer(geometry Geometry, trigger ActionTrigger, lock SuspendLock, lockTimeout time.Duration) *Recognizer {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &Recognizer{
		geometry:    geometry,
		trigger:     trigger,
		lock:        lock,
		lockTimeout: lockTimeout,
	}
}

// Geometry returns the layout the recognizer was built with
func (r *Recognizer) Geometry() Geometry {
	return r.geometry
}

// State returns a copy of the current gesture state
func (r *Recognizer) State() State {
	return r.state
}

// Reset ends the current contact: every flag is cleared and the suspend
// lock is released.
func (r *Recognizer) Reset() {
	if r.state.ContactActive {
		log.WithFields(log.Fields{
			"contact": r.state.ContactID,
			"fired":   r.state.Fired,
		}).Debug("Contact ended")
	}
	r.state.reset()
	r.lock.Release()
}

// Update feeds one coordinate pair. Both directions are evaluated on every
// call and the action fires at most once per contact. It reports whether
// this update fired the action.
func (r *Recognizer) Update(x, y int, mode Mode) bool {
	if !r.state.ContactActive {
		r.state.ContactActive = true
		r.state.ContactID = uuid.NewString()
	}
	r.state.LastX, r.state.LastY = x, y
	r.state.HasPosition = true

	if r.state.Fired {
		return false
	}

	logger := log.WithFields(log.Fields{
		"contact": r.state.ContactID,
		"x":       x,
		"y":       y,
		"mode":    mode,
	})

	var done bool
	for _, d := range []Direction{Forward, Reverse} {
		if r.advance(r.geometry.Gates(d), x, y, logger) {
			logger.WithField("direction", d).Info("Sweep completed")
			done = true
		}
	}

	if !done {
		return false
	}

	r.state.Fired = true
	r.trigger.Trigger()
	return true
}

// advance runs the three-gate cascade for one direction
func (r *Recognizer) advance(g Gates, x, y int, logger *log.Entry) bool {
	p := r.state.progress(g.Direction)
	inBand := r.geometry.InBand(y)

	if !p[0] && !(inBand && g.entering(x)) {
		return false
	}
	if !p[0] {
		logger.WithField("direction", g.Direction).Debug("Entered first gate")
		p[0] = true
	}
	r.lock.Acquire(r.lockTimeout)

	if !p[1] && !(inBand && g.crossing(x)) {
		return false
	}
	if !p[1] {
		logger.WithField("direction", g.Direction).Debug("Crossed middle gate")
		p[1] = true
	}

	return inBand && g.finished(x)
}
