// Package watcher re-triggers processing when target files change on disk.
package watcher

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Handler receives the subset of targets that changed.
type Handler func(paths []string)

// Watcher monitors a fixed set of files for writes.
type Watcher struct {
	watcher   *fsnotify.Watcher
	targets   map[string]string
	handler   Handler
	debouncer *debouncer
	errs      func(error)
	done      chan struct{}
}

// New creates a watcher over the given target files. Events for
// anything else in their directories are ignored. errs receives
// asynchronous watch errors; it may be nil.
func New(targets []string, handler Handler, errs func(error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:   fsw,
		targets:   make(map[string]string, len(targets)),
		handler:   handler,
		debouncer: newDebouncer(200),
		errs:      errs,
		done:      make(chan struct{}),
	}

	for _, t := range targets {
		abs, err := filepath.Abs(t)
		if err != nil {
			fsw.Close()

			return nil, err
		}

		w.targets[abs] = t
	}

	return w, nil
}

// Start registers the target directories and begins dispatching events.
// Directories are watched rather than the files themselves so that
// editors replacing a file via rename keep triggering.
func (w *Watcher) Start() error {
	dirs := make(map[string]bool)

	for abs := range w.targets {
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}

		if err := w.watcher.Add(dir); err != nil {
			return err
		}

		dirs[dir] = true
	}

	go w.eventLoop()

	return nil
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			if w.errs != nil {
				w.errs(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}

	target, ok := w.targets[abs]
	if !ok {
		return
	}

	w.debouncer.add(target)
	w.debouncer.flush(w.handler)
}

// Close stops the event loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	close(w.done)

	return w.watcher.Close()
}
