// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches a single subtitle directory, keeps only the configured file
// extensions, and waits for writes to settle before reporting a file
// (yt-dlp writes subtitles in several chunks and renames partial files).
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/corey/minimot/internal/ports"
)

// DefaultSettle is how long a file must stay quiet before it is reported.
const DefaultSettle = 200 * time.Millisecond

// Suffixes of temporary files written by downloaders and editors.
var ignoreSuffixes = []string{
	".part",
	".ytdl",
	".temp",
	".swp",
	"~",
}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	exts    map[string]bool
	settle  time.Duration
	log     logrus.FieldLogger
	done    chan struct{}
	stopped bool
	mu      sync.Mutex

	pending map[string]*time.Timer
	pmu     sync.Mutex
}

var _ ports.Watcher = (*Watcher)(nil)

// NewWatcher creates a watcher reporting files with one of exts (".vtt").
// An empty exts reports every file. settle <= 0 uses DefaultSettle.
func NewWatcher(exts []string, settle time.Duration, log logrus.FieldLogger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = true
	}
	return &Watcher{
		fw:      fw,
		exts:    set,
		settle:  settle,
		log:     log,
		done:    make(chan struct{}),
		pending: make(map[string]*time.Timer),
	}, nil
}

// Watch starts monitoring dir. onChange is called with the absolute path of
// each created or rewritten file once no event has touched it for the
// settle interval.
func (w *Watcher) Watch(dir string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "watch", Path: absPath, Err: os.ErrInvalid}
	}
	if err := w.fw.Add(absPath); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if !w.relevant(event.Name) {
					continue
				}
				w.schedule(event.Name, onChange)

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// fsnotify recovers on its own; note it and keep going.
				w.log.WithError(err).Warn("watcher error")

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// schedule (re)arms the settle timer for path.
func (w *Watcher) schedule(path string, onChange func(string)) {
	w.pmu.Lock()
	defer w.pmu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.pmu.Lock()
		delete(w.pending, path)
		w.pmu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return
		}
		onChange(path)
	})
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)

	w.pmu.Lock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.pmu.Unlock()

	return w.fw.Close()
}

// relevant reports whether path should be reported at all.
func (w *Watcher) relevant(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	for _, suffix := range ignoreSuffixes {
		if strings.HasSuffix(base, suffix) {
			return false
		}
	}
	if len(w.exts) == 0 {
		return true
	}
	return w.exts[strings.ToLower(filepath.Ext(base))]
}
