package conf

import (
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/teranos/vspace/errors"
	"github.com/teranos/vspace/logger"
)

// ReloadCallback is called when the config is reloaded. It receives the new
// config and returns any error.
type ReloadCallback func(*Config) error

// Watcher watches the config file for changes and triggers reload callbacks.
type Watcher struct {
	configPath     string
	watcher        *fsnotify.Watcher
	callbacks      []ReloadCallback
	mu             sync.RWMutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
}

// NewWatcher creates a watcher for the given config file.
func NewWatcher(configPath string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := watcher.Add(configPath); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "failed to watch config file %s", configPath)
	}

	return &Watcher{
		configPath:     configPath,
		watcher:        watcher,
		debouncePeriod: 500 * time.Millisecond, // Debounce rapid file changes
	}, nil
}

// OnReload registers a callback to be called when the config is reloaded.
func (w *Watcher) OnReload(callback ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching for config file changes.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops watching for config changes.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if isBackupFile(event.Name) {
				continue
			}
			logger.Logger.Infow("config change detected",
				"file", event.Name, "op", event.Op.String())
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Logger.Warnw("config watcher error", "error", err)
		}
	}
}

// scheduleReload debounces rapid file changes before reloading.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		if err := w.reload(); err != nil {
			logger.Logger.Errorw("config reload failed", "error", err)
		}
	})
}

// reload re-reads the watched file and calls all registered callbacks. The
// global cache is dropped so the next Load picks up the change too.
func (w *Watcher) reload() error {
	Reset()
	newConfig, err := LoadFromFile(w.configPath)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	logger.Logger.Infow("config reloaded", "path", w.configPath)

	w.mu.RLock()
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback(newConfig); err != nil {
			// Keep calling the remaining callbacks.
			logger.Logger.Warnw("config reload callback error", "error", err)
		}
	}
	return nil
}

func isBackupFile(name string) bool {
	return strings.Contains(name, ".back")
}
