package power

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingInhibitor struct {
	mu     sync.Mutex
	starts int
	stops  int
	err    error
}

func (c *countingInhibitor) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts++
	return c.err
}

func (c *countingInhibitor) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops++
}

func (c *countingInhibitor) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starts, c.stops
}

func TestLockAcquireRelease(t *testing.T) {
	inh := &countingInhibitor{}
	l := NewLock(inh)

	assert.False(t, l.Held())
	l.Release()
	starts, stops := inh.counts()
	assert.Equal(t, 0, starts)
	assert.Equal(t, 0, stops, "release of an unheld lock is a no-op")

	l.Acquire(time.Minute)
	assert.True(t, l.Held())
	l.Acquire(time.Minute)

	starts, _ = inh.counts()
	assert.Equal(t, 1, starts, "re-acquiring only extends")

	l.Release()
	assert.False(t, l.Held())
	_, stops = inh.counts()
	assert.Equal(t, 1, stops)
}

func TestLockExpires(t *testing.T) {
	inh := &countingInhibitor{}
	l := NewLock(inh)

	l.Acquire(20 * time.Millisecond)
	require.True(t, l.Held())

	require.Eventually(t, func() bool { return !l.Held() }, time.Second, 5*time.Millisecond)
	_, stops := inh.counts()
	assert.Equal(t, 1, stops)
}

func TestLockExtendPushesExpiry(t *testing.T) {
	l := NewLock(&countingInhibitor{})

	l.Acquire(50 * time.Millisecond)
	first, _ := l.Expires()

	time.Sleep(30 * time.Millisecond)
	l.Acquire(100 * time.Millisecond)
	second, held := l.Expires()

	assert.True(t, held)
	assert.True(t, second.After(first))

	// the first timer has passed but must not release the extended lock
	time.Sleep(40 * time.Millisecond)
	assert.True(t, l.Held())

	require.Eventually(t, func() bool { return !l.Held() }, time.Second, 5*time.Millisecond)
}

func TestLockReleaseBeforeExpiry(t *testing.T) {
	inh := &countingInhibitor{}
	l := NewLock(inh)

	l.Acquire(20 * time.Millisecond)
	l.Release()
	time.Sleep(50 * time.Millisecond)

	_, stops := inh.counts()
	assert.Equal(t, 1, stops, "expired timer must not stop the inhibitor twice")
}

func TestLockInhibitorFailureStillHolds(t *testing.T) {
	l := NewLock(&countingInhibitor{err: errors.New("no logind")})

	l.Acquire(time.Minute)
	assert.True(t, l.Held())
	l.Release()
	assert.False(t, l.Held())
}

func TestNopInhibitor(t *testing.T) {
	var inh Inhibitor = NopInhibitor{}
	assert.NoError(t, inh.Start())
	inh.Stop()
}
