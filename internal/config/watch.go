package config

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 150 * time.Millisecond

// debouncer runs only the last callback triggered within its window.
type debouncer struct {
	window time.Duration
	mu     sync.Mutex
	timer  *time.Timer
	seq    uint64
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		current := seq == d.seq
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Watch reloads path whenever it changes and hands the result to onChange,
// from a background goroutine. The directory is watched rather than the
// file so saves that replace the file are still seen. Call the returned
// stop function to release the watcher.
func Watch(path string, debounce time.Duration, onChange func(Config, error)) (stop func() error, err error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	d := &debouncer{window: debounce}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				d.trigger(func() {
					onChange(Load(abs))
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("config: watch %s: %v", abs, err)
			}
		}
	}()

	return func() error {
		d.cancel()
		err := w.Close()
		<-done
		return err
	}, nil
}
