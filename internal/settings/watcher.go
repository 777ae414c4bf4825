package settings

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reloads a Store when either settings file changes on disk.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
	files   map[string]bool
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// Watch starts watching the global and workspace settings directories.
// Directories that do not exist are skipped. Close stops the watcher.
func (s *Store) Watch() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		store:   s,
		watcher: fw,
		files: map[string]bool{
			filepath.Clean(s.GlobalPath()):            true,
			filepath.Clean(s.WorkspaceSettingsPath()): true,
		},
		done: make(chan struct{}),
	}

	watched := 0
	for _, dir := range []string{s.globalDir, s.workDir} {
		if err := fw.Add(dir); err != nil {
			s.logger.Printf("not watching %s: %v", dir, err)
			continue
		}
		watched++
	}
	if watched == 0 {
		fw.Close()
		return nil, fmt.Errorf("no settings directory could be watched")
	}

	w.wg.Add(1)
	go w.processEvents()

	return w, nil
}

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			// Editors often write in several steps; batch them
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.store.Reload(); err != nil {
				w.store.logger.Printf("settings reload failed: %v", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.store.logger.Printf("settings watcher: %v", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !w.files[filepath.Clean(event.Name)] {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
