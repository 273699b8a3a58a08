//go:build !(freebsd || openbsd || netbsd || dragonfly || darwin || windows || linux || solaris)
// +build !freebsd,!openbsd,!netbsd,!dragonfly,!darwin,!windows,!linux,!solaris

package ui

import (
	"errors"

	"github.com/fsnotify/fsnotify"
)

func newFsWatcher(_ []string) (*fsnotify.Watcher, error) {
	return nil, errors.New("file watching is not supported on this platform")
}
