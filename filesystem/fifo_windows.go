//go:build windows

package filesystem

import "errors"

// ErrNoFifo signals that named pipes of the unix flavor are unavailable.
var ErrNoFifo = errors.New("named pipes are not supported on windows")

func MakeFifo(string) error { return ErrNoFifo }

func WriteFifo(string, string) error { return ErrNoFifo }
