package action

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	evdev "github.com/holoplot/go-evdev"
	log "github.com/sirupsen/logrus"
)

// Performer carries out the action for one completed sweep
type Performer interface {
	Perform(ctx context.Context) error
}

// Executor runs the configured Performer in the background. At most one
// action is in flight; triggers that arrive while busy are dropped.
type Executor struct {
	performer Performer
	busy      sync.Mutex
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc

	performed atomic.Uint64
	dropped   atomic.Uint64
}

// NewExecutor creates a new action executor
func NewExecutor(performer Performer) *Executor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Executor{
		performer: performer,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Trigger starts the action unless one is already running. It never blocks.
func (e *Executor) Trigger() {
	if e.ctx.Err() != nil {
		return
	}
	if !e.busy.TryLock() {
		e.dropped.Add(1)
		log.Debug("Action still running, trigger dropped")
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.busy.Unlock()

		start := time.Now()
		if err := e.performer.Perform(e.ctx); err != nil {
			log.WithError(err).Error("Action failed")
			return
		}
		e.performed.Add(1)
		log.WithField("took", time.Since(start)).Debug("Action performed")
	}()
}

// Stats returns how many actions completed and how many triggers were dropped
func (e *Executor) Stats() (performed, dropped uint64) {
	return e.performed.Load(), e.dropped.Load()
}

// Stop cancels an in-flight action and waits for it to return
func (e *Executor) Stop() {
	e.cancel()
	e.wg.Wait()
}

// KeyWriter emits key state changes on an input device
type KeyWriter interface {
	WriteKey(key KeyPress, pressed bool) error
}

// KeyPress is a named key code
type KeyPress struct {
	Name string
	Code evdev.EvCode
}

func (k KeyPress) String() string {
	return fmt.Sprintf("%s(%d)", k.Name, k.Code)
}

var namedKeys = map[string]evdev.EvCode{
	"power":      evdev.KEY_POWER,
	"sleep":      evdev.KEY_SLEEP,
	"wakeup":     evdev.KEY_WAKEUP,
	"suspend":    evdev.KEY_SUSPEND,
	"screenlock": evdev.KEY_COFFEE,
}

// ParseKey resolves a key name such as "power" or a decimal key code
func ParseKey(s string) (KeyPress, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return KeyPress{}, fmt.Errorf("no key specified")
	}

	if code, ok := namedKeys[name]; ok {
		return KeyPress{Name: name, Code: code}, nil
	}

	n, err := strconv.ParseUint(name, 10, 16)
	if err != nil {
		return KeyPress{}, fmt.Errorf("invalid key: %s", s)
	}
	if n == 0 || n >= uint64(evdev.KEY_CNT) {
		return KeyPress{}, fmt.Errorf("key code %d out of range", n)
	}
	return KeyPress{Name: name, Code: evdev.EvCode(n)}, nil
}

// KeyAction presses and releases a key, holding each state for Hold
type KeyAction struct {
	writer KeyWriter
	key    KeyPress
	hold   time.Duration
}

// NewKeyAction creates a key press performer
func NewKeyAction(writer KeyWriter, key KeyPress, hold time.Duration) *KeyAction {
	return &KeyAction{writer: writer, key: key, hold: hold}
}

// Perform writes key down, waits, writes key up, waits
func (a *KeyAction) Perform(ctx context.Context) error {
	if err := a.writer.WriteKey(a.key, true); err != nil {
		return fmt.Errorf("failed to press %s: %w", a.key.Name, err)
	}
	// the key is always released, even when cancelled mid-hold
	sleep(ctx, a.hold)
	if err := a.writer.WriteKey(a.key, false); err != nil {
		return fmt.Errorf("failed to release %s: %w", a.key.Name, err)
	}
	sleep(ctx, a.hold)
	return nil
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
