package input

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/cadence-player/cadence/log"
)

// RawMode puts the terminal into raw mode and returns a restore function.
func RawMode() (restore func(), err error) {
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := term.Restore(fd, state); err != nil {
			log.Warnf("restore terminal: %v", err)
		}
	}, nil
}

// Keys reads key presses from r and delivers them decoded on the returned
// channel. The channel closes when r reaches EOF or fails.
func Keys(r io.Reader) <-chan Key {
	ch := make(chan Key)
	go func() {
		defer close(ch)
		buf := make([]byte, 16)
		for {
			n, err := r.Read(buf)
			if err != nil {
				return
			}
			for _, k := range decode(buf[:n]) {
				ch <- k
			}
		}
	}()
	return ch
}

// decode turns one read of raw bytes into key presses. Arrow keys arrive as
// three-byte CSI sequences; terminals deliver them in a single read.
func decode(b []byte) []Key {
	var keys []Key
	for i := 0; i < len(b); i++ {
		if b[i] == 0x1b && i+2 < len(b) && b[i+1] == '[' {
			switch b[i+2] {
			case 'A':
				keys = append(keys, KeyUp)
			case 'B':
				keys = append(keys, KeyDown)
			case 'C':
				keys = append(keys, KeyRight)
			case 'D':
				keys = append(keys, KeyLeft)
			}
			i += 2
			continue
		}
		keys = append(keys, Key(b[i]))
	}
	return keys
}
