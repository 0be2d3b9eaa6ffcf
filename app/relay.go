package app

import "io"

// Relay drains one player output pipe into a capacity-one channel. Only the
// most recent chunk matters for progress parsing, so an unread chunk is
// dropped when a newer one arrives.
func Relay(r io.Reader) <-chan []byte {
	ch := make(chan []byte, 1)
	go func() {
		defer close(ch)
		buf := make([]byte, 4096)
		for {
			n, err := r.Read(buf)
			if err != nil {
				return
			}
			chunk := append([]byte(nil), buf[:n]...)
			select {
			case ch <- chunk:
			default:
				select {
				case <-ch:
				default:
				}
				select {
				case ch <- chunk:
				default:
				}
			}
		}
	}()
	return ch
}
