package gesture

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleimann/sweepd/internal/config"
	"github.com/pleimann/sweepd/internal/touch"
)

type staticScreen bool

func (s staticScreen) IsOn() bool { return bool(s) }

func sweepEvents() []touch.Event {
	return []touch.Event{
		touch.Slot(0),
		{Axis: touch.AxisTrackingID, Value: 12},
		touch.X(1000), touch.Y(2450),
		touch.X(600), touch.Y(2450),
		touch.X(200), touch.Y(2450),
		touch.Lift(),
	}
}

func newTestEngine(t *testing.T, switches config.SwitchConfig, screenOn bool) (*Engine, *countingTrigger, *fakeLock) {
	t.Helper()
	r, trigger, lock := newTestRecognizer(t)
	return NewEngine(r, config.NewSwitches(switches), staticScreen(screenOn)), trigger, lock
}

func TestEngineSleepSweep(t *testing.T) {
	e, trigger, lock := newTestEngine(t, config.SwitchConfig{Sweep2Sleep: 1}, true)

	for _, ev := range sweepEvents() {
		e.ProcessEvent(ev)
	}

	assert.Equal(t, 1, trigger.count)
	assert.False(t, lock.held, "lift releases the lock")
	assert.False(t, e.Snapshot().Fired)
}

func TestEngineWakeSweep(t *testing.T) {
	e, trigger, _ := newTestEngine(t, config.SwitchConfig{Sweep2Wake: 1}, false)

	for _, ev := range sweepEvents() {
		e.ProcessEvent(ev)
	}

	assert.Equal(t, 1, trigger.count)
}

func TestEngineModeSelection(t *testing.T) {
	tests := []struct {
		name     string
		switches config.SwitchConfig
		screenOn bool
		want     int
	}{
		{"sleep enabled screen on", config.SwitchConfig{Sweep2Sleep: 1}, true, 1},
		{"sleep enabled screen off", config.SwitchConfig{Sweep2Sleep: 1}, false, 0},
		{"wake enabled screen on", config.SwitchConfig{Sweep2Wake: 1}, true, 0},
		{"wake enabled screen off", config.SwitchConfig{Sweep2Wake: 1}, false, 1},
		{"sleep locked screen on", config.SwitchConfig{Sweep2Sleep: 2, Sweep2Wake: 1}, true, 0},
		{"both disabled", config.SwitchConfig{}, true, 0},
		{"both disabled screen off", config.SwitchConfig{}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, trigger, _ := newTestEngine(t, tt.switches, tt.screenOn)
			for _, ev := range sweepEvents() {
				e.ProcessEvent(ev)
			}
			assert.Equal(t, tt.want, trigger.count)
		})
	}
}

func TestEngineBothDisabledIsNoop(t *testing.T) {
	e, trigger, lock := newTestEngine(t, config.SwitchConfig{}, true)

	var signals int
	e.OnSignal(func(Signal, State) { signals++ })

	for i := 0; i < 3; i++ {
		for _, ev := range sweepEvents() {
			e.ProcessEvent(ev)
		}
	}

	assert.Equal(t, 0, trigger.count)
	assert.Equal(t, 0, signals)
	assert.Equal(t, 0, lock.acquires)
	assert.False(t, e.Snapshot().HasPosition)
}

func TestEngineSecondContactFiresAgain(t *testing.T) {
	e, trigger, _ := newTestEngine(t, config.SwitchConfig{Sweep2Sleep: 1}, true)

	for i := 0; i < 2; i++ {
		for _, ev := range sweepEvents() {
			e.ProcessEvent(ev)
		}
	}

	assert.Equal(t, 2, trigger.count)
}

func TestEngineSecondFingerResets(t *testing.T) {
	e, trigger, _ := newTestEngine(t, config.SwitchConfig{Sweep2Sleep: 1}, true)

	events := []touch.Event{
		touch.X(1000), touch.Y(2450),
		touch.X(600), touch.Y(2450),
		touch.Slot(1),
		touch.X(200), touch.Y(2450),
	}
	for _, ev := range events {
		e.ProcessEvent(ev)
	}

	assert.Equal(t, 0, trigger.count)
	assert.True(t, e.Snapshot().HasPosition)
	assert.Equal(t, Progress{}, e.Snapshot().Forward)
}

func TestEngineOnSignal(t *testing.T) {
	e, _, _ := newTestEngine(t, config.SwitchConfig{Sweep2Sleep: 1}, true)

	var got []Signal
	var fired bool
	e.OnSignal(func(sig Signal, st State) {
		got = append(got, sig)
		fired = fired || st.Fired
	})

	for _, ev := range sweepEvents() {
		e.ProcessEvent(ev)
	}

	require.Len(t, got, 4)
	assert.Equal(t, Signal{Kind: SignalCoordinate, X: 1000, Y: 2450}, got[0])
	assert.Equal(t, SignalReset, got[3].Kind)
	assert.True(t, fired)
}

func TestEngineRun(t *testing.T) {
	e, trigger, _ := newTestEngine(t, config.SwitchConfig{Sweep2Sleep: 1}, true)

	events := make(chan touch.Event, len(sweepEvents()))
	for _, ev := range sweepEvents() {
		events <- ev
	}
	close(events)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, e.Run(ctx, events))
	assert.Equal(t, 1, trigger.count)
}

func TestEngineRunCancelled(t *testing.T) {
	e, _, _ := newTestEngine(t, config.SwitchConfig{Sweep2Sleep: 1}, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Run(ctx, make(chan touch.Event))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngineStopReleasesLock(t *testing.T) {
	e, _, lock := newTestEngine(t, config.SwitchConfig{Sweep2Sleep: 1}, true)

	e.ProcessEvent(touch.X(1000))
	e.ProcessEvent(touch.Y(2450))
	require.True(t, lock.held)

	e.Stop()
	assert.False(t, lock.held)
}
