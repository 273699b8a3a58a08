//go:build freebsd || openbsd || netbsd || dragonfly || darwin || windows || linux || solaris
// +build freebsd openbsd netbsd dragonfly darwin windows linux solaris

package ui

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// newFsWatcher watches the given directories (not the files, as editors usually replace them on save).
func newFsWatcher(dirs []string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err = watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return watcher, nil
}
