package gesture

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/pleimann/sweepd/internal/touch"
)

// Switches reports which sweep features are enabled
type Switches interface {
	SleepEnabled() bool
	WakeEnabled() bool
}

// Screen reports the current display power state
type Screen interface {
	IsOn() bool
}

// Engine feeds touch events through the demuxer and recognizer in arrival
// order, selecting the mode for each coordinate from the screen state.
type Engine struct {
	mu         sync.Mutex
	demux      Demuxer
	recognizer *Recognizer
	switches   Switches
	screen     Screen
	onSignal   []func(Signal, State)
}

// NewEngine creates a new gesture engine
func NewEngine(recognizer *Recognizer, switches Switches, screen Screen) *Engine {
	return &Engine{
		recognizer: recognizer,
		switches:   switches,
		screen:     screen,
	}
}

// OnSignal registers a handler called after every reset or coordinate
// update with the resulting state. Handlers run on the event goroutine.
func (e *Engine) OnSignal(fn func(Signal, State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onSignal = append(e.onSignal, fn)
}

// Run processes events until the channel closes or ctx is done
func (e *Engine) Run(ctx context.Context, events <-chan touch.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			e.ProcessEvent(ev)
		}
	}
}

// ProcessEvent handles a single touch event
func (e *Engine) ProcessEvent(ev touch.Event) {
	e.mu.Lock()

	sleepOn := e.switches.SleepEnabled()
	wakeOn := e.switches.WakeEnabled()
	if !sleepOn && !wakeOn {
		e.mu.Unlock()
		return
	}

	sig := e.demux.Feed(ev)
	switch sig.Kind {
	case SignalNone:
		e.mu.Unlock()
		return
	case SignalReset:
		e.recognizer.Reset()
	case SignalCoordinate:
		mode, ok := e.selectMode(sleepOn, wakeOn)
		if !ok {
			e.mu.Unlock()
			return
		}
		e.recognizer.Update(sig.X, sig.Y, mode)
	}

	state := e.recognizer.State()
	handlers := e.onSignal
	e.mu.Unlock()

	for _, fn := range handlers {
		fn(sig, state)
	}
}

func (e *Engine) selectMode(sleepOn, wakeOn bool) (Mode, bool) {
	screenOn := e.screen.IsOn()
	switch {
	case screenOn && sleepOn:
		return SleepMode, true
	case !screenOn && wakeOn:
		return WakeMode, true
	default:
		return 0, false
	}
}

// Snapshot returns a copy of the current gesture state
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recognizer.State()
}

// Geometry returns the layout in use
func (e *Engine) Geometry() Geometry {
	return e.recognizer.Geometry()
}

// Stop ends any contact in progress, releasing the suspend lock
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recognizer.Reset()
	log.Debug("Gesture engine stopped")
}
