package config

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the Manager when the config file changes on disk. Events
// are debounced because editors and orchestrators often touch the file
// several times per save.
type Watcher struct {
	manager    *Manager
	watcher    *fsnotify.Watcher
	debounce   time.Duration
	lastReload time.Time
	stop       chan struct{}
}

// NewWatcher creates a watcher over the manager's config file.
func NewWatcher(manager *Manager) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(manager.path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch config directory: %w", err)
	}

	return &Watcher{
		manager:  manager,
		watcher:  fsw,
		debounce: 500 * time.Millisecond,
		stop:     make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop ends watching and releases the underlying watcher.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
}

func (w *Watcher) loop() {
	target := filepath.Clean(w.manager.path)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if time.Since(w.lastReload) < w.debounce {
				continue
			}
			w.lastReload = time.Now()
			if err := w.manager.Reload(); err != nil {
				log.Printf("Config reload failed, keeping previous configuration: %v", err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Config watcher error: %v", err)
		case <-w.stop:
			return
		}
	}
}
