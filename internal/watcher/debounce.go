package watcher

import (
	"sort"
	"sync"
	"time"
)

// debouncer batches change events so a burst of writes to the same file
// triggers a single handler call.
type debouncer struct {
	mu       sync.Mutex
	pending  map[string]bool
	interval time.Duration
	timer    *time.Timer
}

func newDebouncer(intervalMs int) *debouncer {
	return &debouncer{
		pending:  make(map[string]bool),
		interval: time.Duration(intervalMs) * time.Millisecond,
	}
}

func (d *debouncer) add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = true
}

func (d *debouncer) flush(handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()

		paths := make([]string, 0, len(d.pending))
		for path := range d.pending {
			paths = append(paths, path)
		}

		d.pending = make(map[string]bool)

		d.mu.Unlock()

		if len(paths) == 0 {
			return
		}

		sort.Strings(paths)

		handler(paths)
	})
}
