package uinput

import (
	"fmt"
	"sync"
	"syscall"
	"time"

	evdev "github.com/holoplot/go-evdev"
	log "github.com/sirupsen/logrus"

	"github.com/pleimann/sweepd/internal/action"
)

// DeviceName is the name the virtual key device registers under
const DeviceName = "sweepd-pwrkey"

// EventWriter is the subset of an evdev device used to emit events
type EventWriter interface {
	WriteOne(ev *evdev.InputEvent) error
	Close() error
}

// Keyboard is a virtual input device that can press a fixed set of keys
type Keyboard struct {
	mu     sync.Mutex
	dev    EventWriter
	keys   map[evdev.EvCode]bool
	closed bool
}

// NewKeyboard registers a uinput device able to emit the given keys.
// Requires write access to /dev/uinput.
func NewKeyboard(keys ...action.KeyPress) (*Keyboard, error) {
	codes := make([]evdev.EvCode, 0, len(keys))
	for _, k := range keys {
		codes = append(codes, k.Code)
	}

	dev, err := evdev.CreateDevice(
		DeviceName,
		evdev.InputID{
			BusType: 0x06, // BUS_VIRTUAL
			Vendor:  0x0001,
			Product: 0x0001,
			Version: 1,
		},
		map[evdev.EvType][]evdev.EvCode{
			evdev.EV_KEY: codes,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", DeviceName, err)
	}

	log.WithField("keys", keys).Debug("Created virtual key device")
	return newKeyboard(dev, keys...), nil
}

func newKeyboard(dev EventWriter, keys ...action.KeyPress) *Keyboard {
	k := &Keyboard{
		dev:  dev,
		keys: make(map[evdev.EvCode]bool, len(keys)),
	}
	for _, key := range keys {
		k.keys[key.Code] = true
	}
	return k
}

// WriteKey emits a key state change followed by a sync report
func (k *Keyboard) WriteKey(key action.KeyPress, pressed bool) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return fmt.Errorf("device closed")
	}
	if !k.keys[key.Code] {
		return fmt.Errorf("key %s was not registered with %s", key, DeviceName)
	}

	var value int32
	if pressed {
		value = 1
	}
	now := syscall.NsecToTimeval(time.Now().UnixNano())

	if err := k.dev.WriteOne(&evdev.InputEvent{
		Time:  now,
		Type:  evdev.EV_KEY,
		Code:  key.Code,
		Value: value,
	}); err != nil {
		return err
	}
	return k.dev.WriteOne(&evdev.InputEvent{
		Time:  now,
		Type:  evdev.EV_SYN,
		Code:  evdev.SYN_REPORT,
		Value: 0,
	})
}

// Close destroys the virtual device
func (k *Keyboard) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil
	}
	k.closed = true
	return k.dev.Close()
}
