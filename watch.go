package pubcontent

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/eringen/pubcontent/logging"
)

// Watch re-syncs the index whenever a file under the blog collection
// directory changes. Bursts of events within Config.WatchDebounce collapse
// into one sync. The returned func stops watching.
func (a *App) Watch() (func(), error) {
	log := logging.WithComponent("watch")
	root := filepath.Join(a.Config.ContentDir, BlogCollection.Name)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addTree(watcher, root); err != nil {
		watcher.Close()
		return nil, err
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
		done  = make(chan struct{})
	)
	resync := func() {
		report, err := a.Sync()
		if err != nil {
			log.Error().Err(err).Msg("re-sync failed")
			return
		}
		log.Info().Int("entries", len(report.Entries)).Int("failures", len(report.Failures)).Msg("re-synced")
	}

	go func() {
		for {
			select {
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change detected")
				if event.Has(fsnotify.Create) && isDir(event.Name) {
					if err := addTree(watcher, event.Name); err != nil {
						log.Warn().Err(err).Str("path", event.Name).Msg("cannot watch new directory")
					}
				}
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(a.Config.WatchDebounce, resync)
				mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("watcher error")
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			watcher.Close()
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
		})
	}
	return stop, nil
}

// addTree watches dir and every directory below it.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
