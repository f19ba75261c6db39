// Package dropwatch turns files appearing in a directory into drop payloads,
// for hosts without a window to drop onto.
package dropwatch

import (
	"HDRView/internal/assets"
	"HDRView/internal/dispatch"
	"HDRView/internal/logger"
	"context"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultSettle is how long a new file must go without writes before it is
// reported.
const DefaultSettle = 250 * time.Millisecond

type Watcher struct {
	Dir    string
	Settle time.Duration

	queue  *dispatch.Queue
	accept func(assets.DropPayload)
	fs     *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New watches dir. Each file created in it is posted to q as a one-file drop
// for accept once it has settled.
func New(dir string, q *dispatch.Queue, accept func(assets.DropPayload)) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}
	return &Watcher{
		Dir:     dir,
		Settle:  DefaultSettle,
		queue:   q,
		accept:  accept,
		fs:      fs,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Run delivers events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	logger.Log.Info("Watching drop folder", zap.String("dir", w.Dir))
	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				w.stopTimers()
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				w.stopTimers()
				return nil
			}
			logger.Log.Warn("Drop folder watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
	default:
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[event.Name]; ok {
		t.Reset(w.Settle)
		return
	}
	if !event.Has(fsnotify.Create) {
		// writes to files that were already there are not drops
		return
	}
	path := event.Name
	w.pending[path] = time.AfterFunc(w.Settle, func() { w.fire(path) })
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	logger.Log.Debug("Drop folder file settled", zap.String("path", path))
	payload := assets.DropPayloadFromPaths(path)
	w.queue.Post(func() { w.accept(payload) })
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}
