package session

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/easel/errors"
)

// documentWatcher watches one document file and reports external writes,
// debounced, so the shell can offer a reload. Writes performed by the
// session itself are marked beforehand and ignored.
type documentWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func()
	log      *zap.SugaredLogger

	mu            sync.Mutex
	debounceTimer *time.Timer
	ownWriteUntil time.Time
	closed        bool
}

const watchDebounce = 500 * time.Millisecond

func newDocumentWatcher(path string, log *zap.SugaredLogger, onChange func()) (*documentWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, errors.Wrapf(err, "watching %s", path)
	}
	dw := &documentWatcher{path: path, watcher: w, onChange: onChange, log: log}
	go dw.loop()
	return dw, nil
}

// markOwnWrite opens a window during which events are treated as ours.
// One save surfaces as several fsnotify events (a create, then one or
// more writes), so a one-shot flag would leak the trailing events as an
// external change.
func (dw *documentWatcher) markOwnWrite() {
	dw.mu.Lock()
	dw.ownWriteUntil = time.Now().Add(watchDebounce)
	dw.mu.Unlock()
}

func (dw *documentWatcher) ownWrite() bool {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return time.Now().Before(dw.ownWriteUntil)
}

func (dw *documentWatcher) loop() {
	for {
		select {
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if dw.ownWrite() {
				dw.log.Debugw("ignoring own write", "file", event.Name)
				continue
			}
			dw.log.Infow("document changed on disk", "file", event.Name, "op", event.Op.String())
			dw.scheduleChange()

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.log.Warnw("document watcher error", "file", dw.path, "error", err)
		}
	}
}

// scheduleChange coalesces rapid event bursts into one callback.
func (dw *documentWatcher) scheduleChange() {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.closed {
		return
	}
	if dw.debounceTimer != nil {
		dw.debounceTimer.Stop()
	}
	dw.debounceTimer = time.AfterFunc(watchDebounce, dw.onChange)
}

func (dw *documentWatcher) close() {
	dw.mu.Lock()
	dw.closed = true
	if dw.debounceTimer != nil {
		dw.debounceTimer.Stop()
	}
	dw.mu.Unlock()
	dw.watcher.Close()
}
