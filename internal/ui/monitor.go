package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gosuri/uilive"

	"github.com/pleimann/sweepd/internal/gesture"
)

// LockState reports when a held suspend lock lapses
type LockState interface {
	Expires() (time.Time, bool)
}

// Monitor redraws a small gesture dashboard in place on the terminal
type Monitor struct {
	mu     sync.Mutex
	writer *uilive.Writer
	mode   gesture.Mode
	lock   LockState
	fires  int
	last   gesture.State
}

// NewMonitor creates a monitor writing to out. lock may be nil.
func NewMonitor(out io.Writer, mode gesture.Mode, lock LockState) *Monitor {
	w := uilive.New()
	w.Out = out
	return &Monitor{writer: w, mode: mode, lock: lock}
}

// Start begins drawing from the engine's current state
func (m *Monitor) Start(initial gesture.State) {
	m.writer.Start()
	m.Observe(gesture.Signal{}, initial)
}

// Stop flushes and stops drawing
func (m *Monitor) Stop() {
	m.writer.Stop()
}

// Observe redraws for an engine signal. It matches gesture.Engine.OnSignal.
func (m *Monitor) Observe(sig gesture.Signal, state gesture.State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state.Fired && !m.last.Fired {
		m.fires++
	}
	m.last = state

	lock := ""
	if m.lock != nil {
		expires, held := m.lock.Expires()
		lock = FormatLock(expires, held, time.Now())
	}

	fmt.Fprint(m.writer, FormatMonitor(m.mode, sig, state, m.fires, lock))
}

// FormatLock describes the suspend lock as seen at now
func FormatLock(expires time.Time, held bool, now time.Time) string {
	if !held {
		return "released"
	}
	left := expires.Sub(now).Round(100 * time.Millisecond)
	if left < 0 {
		left = 0
	}
	return fmt.Sprintf("held, %s left", left)
}

// FormatMonitor renders the dashboard text. An empty lock omits that line.
func FormatMonitor(mode gesture.Mode, sig gesture.Signal, state gesture.State, fires int, lock string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s  %s\n", Title("sweep monitor"), Muted("mode "+mode.String()+", ctrl+c to quit"))

	contact := Muted("none")
	if state.ContactActive {
		contact = state.ContactID
	}
	fmt.Fprintf(&sb, "  %s %s\n", Muted("contact: "), contact)

	pos := Muted("-")
	if state.HasPosition {
		pos = fmt.Sprintf("x=%d y=%d", state.LastX, state.LastY)
	}
	fmt.Fprintf(&sb, "  %s %s\n", Muted("position:"), pos)
	fmt.Fprintf(&sb, "  %s %s\n", Muted("forward: "), progress(state.Forward))
	fmt.Fprintf(&sb, "  %s %s\n", Muted("reverse: "), progress(state.Reverse))

	fired := SwitchOffStyle.Render("no")
	if state.Fired {
		fired = SwitchOnStyle.Render("yes")
	}
	fmt.Fprintf(&sb, "  %s %s  %s\n", Muted("fired:   "), fired, Muted(fmt.Sprintf("(%d total)", fires)))
	if lock != "" {
		fmt.Fprintf(&sb, "  %s %s\n", Muted("lock:    "), lock)
	}
	fmt.Fprintf(&sb, "  %s %s\n", Muted("last:    "), sig)

	return sb.String()
}

func progress(p gesture.Progress) string {
	gate := func(b bool) string {
		if b {
			return SwitchOnStyle.Render("●")
		}
		return SwitchOffStyle.Render("○")
	}
	return gate(p[0]) + " " + gate(p[1])
}
