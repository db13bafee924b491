// Package watcher provides an fsnotify watch on the inbox directory, with
// debouncing, for automatic document ingestion.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Inbox watches one directory and invokes the ingest callback for files
// dropped into it. Events are debounced per path so a file still being
// written triggers a single ingestion once writes settle.
type Inbox struct {
	dir        string
	extensions []string
	onFile     func(path string)
	debounce   time.Duration
	logger     *zap.Logger

	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	debounceMap map[string]*time.Timer
	done        chan struct{}
	started     bool
	stopOnce    sync.Once
}

// NewInbox creates an inbox watcher. extensions filter which files are
// ingested (empty = all); onFile is called with the absolute path once a
// dropped file has settled.
func NewInbox(dir string, extensions []string, onFile func(path string), logger *zap.Logger) *Inbox {
	return &Inbox{
		dir:         dir,
		extensions:  extensions,
		onFile:      onFile,
		debounce:    defaultDebounce,
		logger:      logger,
		debounceMap: make(map[string]*time.Timer),
		done:        make(chan struct{}),
	}
}

// Start begins watching. It returns once the watch is established; event
// handling runs in a background goroutine until ctx is cancelled or Stop is
// called. Files already present in the inbox are ingested on startup.
func (in *Inbox) Start(ctx context.Context) error {
	in.mu.Lock()
	if in.started {
		in.mu.Unlock()
		return nil
	}
	if err := os.MkdirAll(in.dir, 0755); err != nil {
		in.mu.Unlock()
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		in.mu.Unlock()
		return err
	}
	if err := w.Add(in.dir); err != nil {
		_ = w.Close()
		in.mu.Unlock()
		return err
	}
	in.watcher = w
	in.started = true
	in.mu.Unlock()

	in.ingestExisting()

	go in.loop(ctx)
	return nil
}

// Stop stops the watcher and cancels pending debounce timers.
func (in *Inbox) Stop() {
	in.stopOnce.Do(func() {
		close(in.done)
		in.mu.Lock()
		defer in.mu.Unlock()
		for path, timer := range in.debounceMap {
			timer.Stop()
			delete(in.debounceMap, path)
		}
		if in.watcher != nil {
			_ = in.watcher.Close()
		}
	})
}

func (in *Inbox) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			in.Stop()
			return
		case <-in.done:
			return
		case event, ok := <-in.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !in.matches(event.Name) {
				continue
			}
			in.schedule(event.Name)
		case err, ok := <-in.watcher.Errors:
			if !ok {
				return
			}
			in.logger.Warn("inbox watch error", zap.Error(err))
		}
	}
}

// schedule (re)arms the debounce timer for path.
func (in *Inbox) schedule(path string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if timer, ok := in.debounceMap[path]; ok {
		timer.Stop()
	}
	in.debounceMap[path] = time.AfterFunc(in.debounce, func() {
		in.mu.Lock()
		delete(in.debounceMap, path)
		in.mu.Unlock()

		select {
		case <-in.done:
			return
		default:
		}
		in.logger.Debug("inbox file settled", zap.String("path", path))
		in.onFile(path)
	})
}

// ingestExisting picks up files that were already sitting in the inbox.
func (in *Inbox) ingestExisting() {
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		in.logger.Warn("failed to scan inbox", zap.Error(err))
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(in.dir, e.Name())
		if in.matches(path) {
			in.schedule(path)
		}
	}
}

func (in *Inbox) matches(path string) bool {
	if len(in.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range in.extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
