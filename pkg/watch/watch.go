// Package watch reports changes to files with selected extensions.
//
// Events for the same file within the debounce window are coalesced, so an
// editor that writes a file in several steps produces one event:
//
//	w, err := watch.New([]string{".json", ".yaml"}, "scenes/")
//	if err != nil { ... }
//	defer w.Close()
//	for path := range w.Events {
//	    // reload path
//	}
package watch

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the window used by New.
const DefaultDebounce = 100 * time.Millisecond

// Watcher emits the paths of changed files on Events. Both channels are
// closed once the watcher stops.
type Watcher struct {
	Events chan string
	Errors chan error

	watcher  *fsnotify.Watcher
	exts     []string
	debounce time.Duration
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// New watches the given files or directories for changes to files whose
// extension is in exts (case-insensitive). A file argument is watched
// through its directory, which survives editors that replace files on save.
func New(exts []string, paths ...string) (*Watcher, error) {
	return NewWithDebounce(DefaultDebounce, exts, paths...)
}

// NewWithDebounce is New with a custom debounce window.
func NewWithDebounce(debounce time.Duration, exts []string, paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	added := make(map[string]bool)
	for _, p := range paths {
		dir := p
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			dir = filepath.Dir(p)
		}
		if added[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
		added[dir] = true
	}

	lower := make([]string, len(exts))
	for i, e := range exts {
		lower[i] = strings.ToLower(e)
	}

	w := &Watcher{
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		watcher:  fw,
		exts:     lower,
		debounce: debounce,
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) matches(path string) bool {
	return slices.Contains(w.exts, strings.ToLower(filepath.Ext(path)))
}
