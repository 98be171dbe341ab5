package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadDelay debounces bursts of write events from editors that save in
// several steps.
const ReloadDelay = 500 * time.Millisecond

// Watch calls fn with the reloaded config each time path is written, until
// ctx is done. Parse failures are logged and the previous config stays.
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config watcher: bad path %q: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	// The directory is watched so atomic rename-on-save is seen too.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("config watcher: watch %q: %w", filepath.Dir(absPath), err)
	}

	go func() {
		defer watcher.Close()
		var timer *time.Timer
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if name, _ := filepath.Abs(event.Name); name != absPath {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(ReloadDelay, func() {
					if ctx.Err() != nil {
						return
					}
					cfg, err := Load(absPath)
					if err != nil {
						log.Printf("[CONFIG] reload failed: %v", err)
						return
					}
					log.Printf("[CONFIG] reloaded %s", absPath)
					fn(cfg)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[CONFIG] watcher error: %v", err)
			}
		}
	}()
	return nil
}
