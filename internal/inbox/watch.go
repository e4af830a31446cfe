package inbox

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long a file must stay quiet before it is read.
const Debounce = 100 * time.Millisecond

// Watcher delivers messages dropped into a directory. Delivered files are
// removed; files that fail to parse are left in place and logged.
type Watcher struct {
	watcher *fsnotify.Watcher
	dir     string
	deliver func(Message)
	log     *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching dir, creating it if needed. deliver is called from
// the watcher's goroutines and must hand the message to the owning loop.
func Watch(dir string, deliver func(Message), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create inbox: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		watcher: fw,
		dir:     dir,
		deliver: deliver,
		log:     logger,
		pending: make(map[string]*time.Timer),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Drain delivers messages already sitting in the directory, oldest name first.
func (w *Watcher) Drain() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.log.Warn("inbox unreadable", "dir", w.dir, "err", err)
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && isMessageFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	for _, name := range names {
		w.consume(filepath.Join(w.dir, name))
	}
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		w.mu.Lock()
		for _, t := range w.pending {
			t.Stop()
		}
		w.pending = nil
		w.mu.Unlock()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isMessageFile(event.Name) {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("inbox watch error", "err", err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(Debounce)
		return
	}
	w.pending[path] = time.AfterFunc(Debounce, func() {
		w.mu.Lock()
		if w.pending == nil {
			w.mu.Unlock()
			return
		}
		delete(w.pending, path)
		w.mu.Unlock()
		w.consume(path)
	})
}

func (w *Watcher) consume(path string) {
	m, err := ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		w.log.Warn("message dropped", "file", filepath.Base(path), "err", err)
		return
	}
	if err := os.Remove(path); err != nil {
		w.log.Warn("failed to remove message", "file", filepath.Base(path), "err", err)
	}
	w.deliver(m)
}

func isMessageFile(path string) bool {
	name := filepath.Base(path)
	return !strings.HasPrefix(name, ".") && strings.EqualFold(filepath.Ext(name), ".toml")
}
