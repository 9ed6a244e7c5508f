package config

import (
	"errors"
	"fmt"
	"sync"
)

// SleepSwitch is the tri-state sweep-to-sleep setting.
type SleepSwitch int

const (
	SleepOff SleepSwitch = iota
	SleepOn
	// SleepLocked keeps sweep-to-sleep off and refuses runtime changes.
	SleepLocked
)

func (s SleepSwitch) String() string {
	switch s {
	case SleepOff:
		return "off"
	case SleepOn:
		return "on"
	case SleepLocked:
		return "locked"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Switch names accepted by Switches.Set and UpdateSwitch.
const (
	SwitchSweep2Sleep = "sweep2sleep"
	SwitchSweep2Wake  = "sweep2wake"
)

// ErrSwitchLocked is returned when sweep2sleep is changed while locked off.
var ErrSwitchLocked = errors.New("sweep2sleep is locked off")

// Switches is the runtime store for the two enable switches. It is written by
// the settings layer (CLI, config reload) and read on every touch event.
type Switches struct {
	mu    sync.RWMutex
	sleep SleepSwitch
	wake  bool
}

// NewSwitches creates a store from the config file values
func NewSwitches(cfg SwitchConfig) *Switches {
	s := &Switches{}
	s.Apply(cfg)
	return s
}

// Apply replaces both switches, including the lock. Used on config reload.
func (s *Switches) Apply(cfg SwitchConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleep = SleepSwitch(cfg.Sweep2Sleep)
	s.wake = cfg.Sweep2Wake == 1
}

// SleepEnabled reports whether sweep-to-sleep should be evaluated
func (s *Switches) SleepEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sleep == SleepOn
}

// WakeEnabled reports whether sweep-to-wake should be evaluated
func (s *Switches) WakeEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wake
}

// Sleep returns the raw sweep-to-sleep state
func (s *Switches) Sleep() SleepSwitch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sleep
}

// Set changes one switch at runtime. Only "0" and "1" are accepted.
func (s *Switches) Set(name, value string) error {
	sw, err := switchByName(name)
	if err != nil {
		return err
	}

	var on bool
	switch value {
	case "0":
	case "1":
		on = true
	default:
		return fmt.Errorf("invalid value %q for %s: want 0 or 1", value, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch sw {
	case SwitchSweep2Sleep:
		if s.sleep == SleepLocked {
			return ErrSwitchLocked
		}
		if on {
			s.sleep = SleepOn
		} else {
			s.sleep = SleepOff
		}
	case SwitchSweep2Wake:
		s.wake = on
	}
	return nil
}

// Config returns the current switch values in file form
func (s *Switches) Config() SwitchConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := SwitchConfig{Sweep2Sleep: int(s.sleep)}
	if s.wake {
		cfg.Sweep2Wake = 1
	}
	return cfg
}

func switchByName(name string) (string, error) {
	switch name {
	case SwitchSweep2Sleep, SwitchSweep2Wake:
		return name, nil
	default:
		return "", fmt.Errorf("unknown switch: %q", name)
	}
}
