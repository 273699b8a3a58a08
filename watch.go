package ui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fsnotify/fsnotify"
)

const (
	watchDebounce    = 100 * time.Millisecond // Editors write files in several steps
	watchReadTimeout = 2 * time.Second
)

// errEmptyProgram is returned while a watched file is still being written.
var errEmptyProgram = errors.New("empty program")

// startWatcher loads every watched program once and then again after each change, sending their text to the frame
// loop (see drainPrograms).
func (r *Renderer) startWatcher(ctx context.Context) error {
	files := map[string]bool{}
	var dirs []string
	seenDirs := map[string]bool{}
	for _, path := range r.watchPaths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		files[abs] = true
		if dir := filepath.Dir(abs); !seenDirs[dir] {
			seenDirs[dir] = true
			dirs = append(dirs, dir)
		}
	}
	watcher, err := newFsWatcher(dirs)
	if err != nil {
		return err
	}
	r.watcher = watcher
	go func() {
		for _, path := range r.watchPaths {
			abs, _ := filepath.Abs(path)
			r.loadProgram(ctx, abs)
		}
	}()
	go r.watchLoop(ctx, files)
	log.Println("[LightUI] Watching", len(files), "G-code file(s)")
	return nil
}

func (r *Renderer) watchLoop(ctx context.Context, files map[string]bool) {
	timers := map[string]*time.Timer{}
	defer func() {
		for _, timer := range timers {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || !files[name] || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if timer, found := timers[name]; found {
				timer.Reset(watchDebounce)
			} else {
				timers[name] = time.AfterFunc(watchDebounce, func() { r.loadProgram(ctx, name) })
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			log.Println("[LightUI] File watcher error:", err)
		}
	}
}

// loadProgram reads a G-code file and queues its text for the frame loop.
func (r *Renderer) loadProgram(ctx context.Context, path string) {
	program, err := readProgram(ctx, path)
	if err != nil {
		log.Printf("[LightUI] Can't read %s: %v", path, err)
		return
	}
	select {
	case r.programs <- program:
		log.Printf("[LightUI] Loaded %s (%d bytes)", path, len(program))
	case <-ctx.Done():
	}
}

// readProgram reads a file, retrying for a short while if it is missing or empty (being replaced by an editor).
func readProgram(ctx context.Context, path string) (string, error) {
	return backoff.Retry(ctx, func() (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", err
			}
			return "", backoff.Permanent(err)
		}
		if len(data) == 0 {
			return "", fmt.Errorf("%s: %w", path, errEmptyProgram)
		}
		return string(data), nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxElapsedTime(watchReadTimeout))
}

// drainPrograms executes the programs loaded by the watcher since the last frame.
func (r *Renderer) drainPrograms() {
	for {
		select {
		case program := <-r.programs:
			r.panel.text = program
			r.execute(program)
		default:
			return
		}
	}
}
