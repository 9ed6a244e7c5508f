package power

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// BacklightGlob matches the power node of every sysfs backlight
const BacklightGlob = "/sys/class/backlight/*/bl_power"

// DefaultScreenTTL bounds how often the backlight node is re-read
const DefaultScreenTTL = 250 * time.Millisecond

// Backlight reports screen power from a sysfs bl_power node, where 0 means
// the panel is powered. An unreadable node counts as on.
type Backlight struct {
	path string
	ttl  time.Duration

	mu     sync.Mutex
	on     bool
	readAt time.Time
	warned bool
}

// NewBacklight watches path, or the first backlight found when path is empty
func NewBacklight(path string, ttl time.Duration) (*Backlight, error) {
	if path == "" {
		found, err := DetectBacklight(BacklightGlob)
		if err != nil {
			return nil, err
		}
		path = found
	}
	return &Backlight{path: path, ttl: ttl}, nil
}

// DetectBacklight returns the first path matching pattern
func DetectBacklight(pattern string) (string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid backlight pattern: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no backlight found matching %s", pattern)
	}
	return matches[0], nil
}

// Path returns the bl_power node being read
func (b *Backlight) Path() string {
	return b.path
}

// IsOn reports whether the screen is powered
func (b *Backlight) IsOn() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.readAt.IsZero() && time.Since(b.readAt) < b.ttl {
		return b.on
	}

	b.on = b.read()
	b.readAt = time.Now()
	return b.on
}

func (b *Backlight) read() bool {
	data, err := os.ReadFile(b.path)
	if err == nil {
		var v int
		v, err = strconv.Atoi(strings.TrimSpace(string(data)))
		if err == nil {
			return v == 0
		}
	}

	if !b.warned {
		log.WithError(err).WithField("path", b.path).Warn("Cannot read backlight state, assuming screen on")
		b.warned = true
	}
	return true
}

// Static is a fixed screen state
type Static bool

func (s Static) IsOn() bool { return bool(s) }
