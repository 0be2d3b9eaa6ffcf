//go:build !windows

package filesystem

import (
	"errors"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// MakeFifo creates a named pipe, tolerating one that already exists. Fifos
// go through the real filesystem regardless of the active afero backend,
// they are kernel objects, not files with contents.
func MakeFifo(path string) error {
	err := unix.Mkfifo(path, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	return err
}

// WriteFifo writes one command to a named pipe without blocking, so a
// reader that went away cannot wedge the caller.
func WriteFifo(path, data string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(data)
	return err
}
