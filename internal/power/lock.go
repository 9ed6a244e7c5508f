package power

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	log "github.com/sirupsen/logrus"
)

// Inhibitor prevents the system from suspending while started.
type Inhibitor interface {
	// Start begins inhibiting suspend. Failure is logged by the caller and
	// otherwise ignored.
	Start() error

	// Stop releases the inhibition. Safe to call multiple times.
	Stop()
}

// Lock is a single-owner suspend lock with a timeout. Acquiring a held lock
// pushes its expiry out; it releases itself when the timeout elapses.
type Lock struct {
	mu        sync.Mutex
	inhibitor Inhibitor
	held      bool
	timer     *time.Timer
	expires   time.Time
	gen       uint64
}

// NewLock creates a lock backed by inhibitor
func NewLock(inhibitor Inhibitor) *Lock {
	return &Lock{inhibitor: inhibitor}
}

// Acquire takes the lock for timeout, or extends it when already held
func (l *Lock) Acquire(timeout time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.held {
		if err := l.inhibitor.Start(); err != nil {
			log.WithError(err).Warn("Failed to inhibit suspend")
		}
		l.held = true
		log.WithField("timeout", timeout).Debug("Suspend lock acquired")
	}

	if l.timer != nil {
		l.timer.Stop()
	}
	l.gen++
	gen := l.gen
	l.expires = time.Now().Add(timeout)
	l.timer = time.AfterFunc(timeout, func() { l.expire(gen) })
}

// Release drops the lock. It is a no-op when the lock is not held.
func (l *Lock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.held {
		return
	}
	l.gen++
	l.release()
	log.Debug("Suspend lock released")
}

// Held reports whether the lock is currently held
func (l *Lock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

// Expires returns when a held lock will release itself
func (l *Lock) Expires() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.expires, l.held
}

// expire runs from the timer; a stale generation means the lock was
// extended or released since the timer was armed.
func (l *Lock) expire(gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen || !l.held {
		return
	}
	l.release()
	log.Debug("Suspend lock expired")
}

func (l *Lock) release() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.held = false
	l.expires = time.Time{}
	l.inhibitor.Stop()
}

// NopInhibitor is used when no suspend inhibition backend is available
type NopInhibitor struct{}

func (NopInhibitor) Start() error { return nil }
func (NopInhibitor) Stop()        {}

const (
	logindDest = "org.freedesktop.login1"
	logindPath = dbus.ObjectPath("/org/freedesktop/login1")
)

// Logind takes a systemd-logind "sleep" delay inhibitor. Suspend requests
// wait until the inhibitor is released or logind's InhibitDelayMaxSec
// passes.
type Logind struct {
	mu   sync.Mutex
	conn *dbus.Conn
	who  string
	why  string
	fd   *os.File
}

// NewLogind connects to the system bus
func NewLogind(who, why string) (*Logind, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	return &Logind{conn: conn, who: who, why: why}, nil
}

// Start takes the inhibitor unless already held
func (l *Logind) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fd != nil {
		return nil
	}

	var fd dbus.UnixFD
	obj := l.conn.Object(logindDest, logindPath)
	err := obj.Call(logindDest+".Manager.Inhibit", 0, "sleep", l.who, l.why, "delay").Store(&fd)
	if err != nil {
		return fmt.Errorf("logind inhibit failed: %w", err)
	}

	l.fd = os.NewFile(uintptr(fd), "logind-inhibit")
	return nil
}

// Stop closes the inhibitor file descriptor, which releases it
func (l *Logind) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fd == nil {
		return
	}
	if err := l.fd.Close(); err != nil {
		log.WithError(err).Debug("Failed to close inhibitor fd")
	}
	l.fd = nil
}

// Close releases any inhibitor and disconnects from the bus
func (l *Logind) Close() error {
	l.Stop()
	return l.conn.Close()
}
