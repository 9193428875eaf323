package watcher

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler receives the path of a settled audio file ready to transcribe.
type Handler func(path string)

// Watcher monitors a folder and hands new audio files to a handler once
// writes to them have settled. Each file is handled at most once per
// watch session.
type Watcher struct {
	dir          string
	extensions   map[string]bool
	handler      Handler
	debounceTime time.Duration

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup

	mu      sync.Mutex
	pending map[string]*time.Timer
	handled map[string]bool
}

func New(dir string, extensions []string, handler Handler) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}

	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = true
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create folder watcher: %w", err)
	}

	return &Watcher{
		dir:          dir,
		extensions:   extSet,
		handler:      handler,
		debounceTime: 2 * time.Second,
		watcher:      fsWatcher,
		pending:      make(map[string]*time.Timer),
		handled:      make(map[string]bool),
	}, nil
}

func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.wg.Add(1)
	go w.watchLoop(ctx)

	log.Printf("Watcher: monitoring %s for new audio files", w.dir)
	return nil
}

func (w *Watcher) Stop() {
	w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, timer := range w.pending {
		timer.Stop()
	}
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == fsnotify.Create || event.Op&fsnotify.Write == fsnotify.Write {
				w.fileChanged(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher: error: %v", err)

		case <-ctx.Done():
			return
		}
	}
}

// fileChanged debounces bursts of write events so the handler only sees
// files whose upload/copy has finished.
func (w *Watcher) fileChanged(path string) {
	if !w.accepts(path) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.handled[path] {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.debounceTime)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounceTime, func() {
		w.settle(path)
	})
}

func (w *Watcher) settle(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	if w.handled[path] {
		w.mu.Unlock()
		return
	}
	w.handled[path] = true
	w.mu.Unlock()

	log.Printf("Watcher: new file settled: %s", path)
	w.handler(path)
}

// accepts filters by configured audio extensions.
func (w *Watcher) accepts(path string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}
