package nosleep

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultActivityIdle is how long a watched file must stay unchanged
// before its inhibition is released.
const DefaultActivityIdle = 30 * time.Second

// ActivityWatcher holds an inhibition while a file is being actively
// written — a download in progress, a growing recording — and releases
// it once the file has been idle for a configured window.
//
// The watcher watches the file's directory rather than the file itself,
// so it keeps working across atomic renames and sees the file appear if
// it does not exist yet.
type ActivityWatcher struct {
	ns       *NoSleep
	kind     Kind
	watcher  *fsnotify.Watcher
	filePath string
	idle     time.Duration
	onError  func(error)

	stopCh    chan struct{}
	stoppedCh chan struct{}
	mu        sync.Mutex
	running   bool
}

// NewActivityWatcher creates a watcher that keeps ns inhibited with the
// given kind while filePath keeps changing. idle <= 0 means
// DefaultActivityIdle. onError may be nil.
func NewActivityWatcher(ns *NoSleep, kind Kind, filePath string, idle time.Duration, onError func(error)) (*ActivityWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if idle <= 0 {
		idle = DefaultActivityIdle
	}
	if onError == nil {
		onError = func(error) {}
	}

	dir := filepath.Dir(filePath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	return &ActivityWatcher{
		ns:        ns,
		kind:      kind,
		watcher:   watcher,
		filePath:  filePath,
		idle:      idle,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

// Start begins watching for file activity in a goroutine.
func (w *ActivityWatcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.watchLoop()
}

// Stop stops watching, releases any inhibition the watcher holds, and
// waits for cleanup.
func (w *ActivityWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh
}

func (w *ActivityWatcher) watchLoop() {
	defer close(w.stoppedCh)
	defer w.watcher.Close()

	// The timer is armed only while an inhibition is held.
	idleTimer := time.NewTimer(w.idle)
	if !idleTimer.Stop() {
		<-idleTimer.C
	}
	holding := false

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isActivity(event) {
				continue
			}
			if !holding {
				if err := w.ns.Start(w.kind); err != nil {
					w.onError(err)
					continue
				}
				holding = true
			} else if !idleTimer.Stop() {
				<-idleTimer.C
			}
			idleTimer.Reset(w.idle)

		case <-idleTimer.C:
			holding = false
			if err := w.ns.Stop(); err != nil {
				w.onError(err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.onError(err)

		case <-w.stopCh:
			if holding {
				if !idleTimer.Stop() {
					<-idleTimer.C
				}
				if err := w.ns.Stop(); err != nil {
					w.onError(err)
				}
			}
			return
		}
	}
}

// isActivity reports whether the event is a write-like change to the
// watched file.
func (w *ActivityWatcher) isActivity(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.filePath) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}
