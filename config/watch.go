package config

import (
	"github.com/fsnotify/fsnotify"
)

// WatchAndReload watches path for writes and calls onChange with the
// freshly reloaded Config each time, matching the teacher's config package
// fsnotify-watch shape. It runs until the returned watcher is closed by the
// caller or the stop channel is closed; a reload that fails (e.g. a
// momentarily-invalid edit mid-save) is skipped without calling onChange
// rather than terminating the watch, since the previous valid Config remains in effect until the
// next successful reload.
func WatchAndReload(path string, onChange func(Config), stop <-chan struct{}) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					continue
				}
				onChange(cfg)
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case <-stop:
				watcher.Close()
				return
			}
		}
	}()

	return watcher, nil
}
