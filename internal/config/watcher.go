package config

import (
	"path/filepath"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// DefaultSettle is how long the watcher waits for a burst of writes to end
const DefaultSettle = 100 * time.Millisecond

// Watcher keeps the loaded config in sync with the file on disk. The parent
// directory is watched so editors that save by rename are still seen.
type Watcher struct {
	path     string
	settle   time.Duration
	fsw      *fsnotify.Watcher
	mu       sync.RWMutex
	config   *Config
	handlers []func(*Config)
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWatcher loads path and prepares to watch it. Call Start to begin.
func NewWatcher(path string) (*Watcher, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		path:   filepath.Clean(path),
		settle: DefaultSettle,
		fsw:    fsw,
		config: cfg,
		done:   make(chan struct{}),
	}, nil
}

// Start begins watching in the background
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.watch()
}

// Stop ends watching. Safe to call more than once, and before Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fsw.Close()
	})
	w.wg.Wait()
}

// OnReload registers a handler called with each changed config
func (w *Watcher) OnReload(handler func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Get returns the current config
func (w *Watcher) Get() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

func (w *Watcher) watch() {
	defer w.wg.Done()

	var settle <-chan time.Time
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				settle = time.After(w.settle)
			}
		case <-settle:
			settle = nil
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("Config watcher error")
		}
	}
}

// reload re-reads the file. A file that fails to parse keeps the previous
// config, and an unchanged one notifies nobody.
func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		log.WithError(err).WithField("path", w.path).Warn("Failed to reload config, keeping previous")
		return
	}

	w.mu.Lock()
	if reflect.DeepEqual(w.config, cfg) {
		w.mu.Unlock()
		return
	}
	w.config = cfg
	handlers := slices.Clone(w.handlers)
	w.mu.Unlock()

	log.WithField("path", w.path).Info("Config reloaded")

	for _, handler := range handlers {
		handler(cfg)
	}
}
