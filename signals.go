package ui

import (
	"os"
	"syscall"
)

// signals are the ones that close the window gracefully (saving the session).
func signals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}
