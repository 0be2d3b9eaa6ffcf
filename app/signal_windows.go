//go:build windows

package app

import "os"

func notifiedSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

func isResize(os.Signal) bool {
	return false
}
