package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pleimann/sweepd/internal/gesture"
)

func TestFormatMonitor(t *testing.T) {
	tests := []struct {
		name     string
		mode     gesture.Mode
		state    gesture.State
		fires    int
		lock     string
		contains []string
		excludes []string
	}{
		{
			name:     "idle",
			mode:     gesture.SleepMode,
			contains: []string{"mode sleep", "none", "(0 total)"},
			excludes: []string{"x=", "lock:"},
		},
		{
			name: "tracking contact",
			mode: gesture.WakeMode,
			state: gesture.State{
				LastX: 900, LastY: 2500, HasPosition: true,
				ContactActive: true, ContactID: "c0ffee",
			},
			fires:    2,
			contains: []string{"mode wake", "c0ffee", "x=900 y=2500", "(2 total)"},
		},
		{
			name:     "fired",
			mode:     gesture.SleepMode,
			state:    gesture.State{Fired: true, ContactActive: true, ContactID: "a"},
			fires:    1,
			lock:     "held, 1.5s left",
			contains: []string{"yes", "(1 total)", "lock:", "held, 1.5s left"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatMonitor(tt.mode, gesture.Signal{}, tt.state, tt.fires, tt.lock)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestMonitorCountsFiresOncePerContact(t *testing.T) {
	var buf bytes.Buffer
	m := NewMonitor(&buf, gesture.SleepMode, nil)

	fired := gesture.State{Fired: true, ContactActive: true, ContactID: "a"}
	m.Observe(gesture.Signal{Kind: gesture.SignalCoordinate, X: 100, Y: 2500}, fired)
	m.Observe(gesture.Signal{Kind: gesture.SignalCoordinate, X: 90, Y: 2500}, fired)
	m.Observe(gesture.Signal{Kind: gesture.SignalReset}, gesture.State{})
	m.Observe(gesture.Signal{Kind: gesture.SignalCoordinate, X: 100, Y: 2500}, fired)

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Equal(t, 2, m.fires)
}

func TestFormatLock(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expires time.Time
		held    bool
		want    string
	}{
		{"released", time.Time{}, false, "released"},
		{"held", now.Add(1520 * time.Millisecond), true, "held, 1.5s left"},
		{"overdue", now.Add(-time.Second), true, "held, 0s left"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLock(tt.expires, tt.held, now))
		})
	}
}

type fixedLock struct {
	expires time.Time
	held    bool
}

func (l fixedLock) Expires() (time.Time, bool) { return l.expires, l.held }

func TestMonitorShowsLock(t *testing.T) {
	var buf bytes.Buffer
	m := NewMonitor(&buf, gesture.SleepMode, fixedLock{})

	m.Start(gesture.State{LastX: 700, LastY: 2500, HasPosition: true})
	m.Stop()

	assert.Contains(t, buf.String(), "released")
	assert.Contains(t, buf.String(), "x=700 y=2500")
}
