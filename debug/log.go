// Package debug is a category-tagged file logger for diagnostics that
// must survive a crash. Disabled it costs a mutex hit and nothing
// else.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	file    *os.File
	enabled bool
)

// Path returns the debug log location.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gridloom", "debug.log")
}

// Enable starts debug logging to ~/.config/gridloom/debug.log.
func Enable() error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	enabled = true
	write("debug", "=== gridloom debug log started ===")
	return nil
}

// Disable stops debug logging.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	enabled = false
}

// Log writes one message under a category.
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled || file == nil {
		return
	}
	write(category, fmt.Sprintf(format, args...))
}

// write assumes mu is held.
func write(category, msg string) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(file, "[%s] %-8s %s\n", ts, category, msg)
	file.Sync() // flush immediately so the log survives a crash
}

var counters = make(map[string]int)

// LogEvery logs only every nth call with the same category+format.
// Use for high-frequency paths like LED flushes.
func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if n > 0 && count%n == 0 {
		Log(category, format+" (count=%d)", append(args, count)...)
	}
}
