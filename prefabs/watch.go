package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

type ChangeKind int

const (
	ChangeSpec ChangeKind = iota + 1
	ChangeScript
)

// Change is one debounced file change under a watched directory.
type Change struct {
	Path string
	Name string
	Kind ChangeKind
}

type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	filter := newChangeFilter(ModTime)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			kind, ok := classify(event.Name)
			if !ok {
				continue
			}
			if !filter.accept(event.Name, time.Now()) {
				continue
			}
			change := Change{Path: event.Name, Name: filepath.Base(event.Name), Kind: kind}
			select {
			case w.Events <- change:
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

// changeFilter drops events inside the debounce window and events that leave
// the file's modification time unchanged.
type changeFilter struct {
	modTime func(string) (time.Time, bool)
	seen    map[string]time.Time
	mod     map[string]time.Time
}

func newChangeFilter(modTime func(string) (time.Time, bool)) *changeFilter {
	return &changeFilter{
		modTime: modTime,
		seen:    make(map[string]time.Time),
		mod:     make(map[string]time.Time),
	}
}

func (f *changeFilter) accept(path string, now time.Time) bool {
	if t, ok := f.seen[path]; ok && now.Sub(t) < watchDebounce {
		return false
	}
	if f.modTime != nil {
		if mt, ok := f.modTime(path); ok {
			if prev, seen := f.mod[path]; seen && prev.Equal(mt) {
				return false
			}
			f.mod[path] = mt
		}
	}
	f.seen[path] = now
	return true
}

func classify(path string) (ChangeKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ChangeSpec, true
	case ".tengo":
		return ChangeScript, true
	default:
		return 0, false
	}
}
