package config

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"gridloom/debug"
)

// Watch reloads the config whenever the file at path is written and
// passes the result to onChange. Runs until stop is closed. Invalid
// edits are logged and skipped; the previous config stays in effect.
func Watch(path string, stop <-chan struct{}, onChange func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("watch config file: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-stop:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write != fsnotify.Write {
					continue
				}
				// Let atomic editor writes settle before reading.
				time.Sleep(100 * time.Millisecond)
				cfg, err := Load(path)
				if err != nil {
					debug.Log("config", "reload failed: %v", err)
					continue
				}
				debug.Log("config", "reloaded %s", path)
				onChange(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				debug.Log("config", "watcher error: %v", err)
			}
		}
	}()
	return nil
}
