//go:build !windows

package app

import (
	"os"

	"golang.org/x/sys/unix"
)

// notifiedSignals are the process signals the event loop consumes:
// terminate requests plus terminal resizes.
func notifiedSignals() []os.Signal {
	return []os.Signal{unix.SIGHUP, unix.SIGINT, unix.SIGTERM, unix.SIGWINCH}
}

// isResize reports whether the signal means the terminal changed size.
func isResize(sig os.Signal) bool {
	return sig == unix.SIGWINCH
}
