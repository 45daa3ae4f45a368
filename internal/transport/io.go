package transport

import (
	"fmt"
	"io"
	"net"
	"time"
)

// TransportError: exact-byte send/recv failed before all bytes moved.
type TransportError struct {
	Op   string // "send" or "recv"
	Done int
	Want int
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %d of %d bytes: %v", e.Op, e.Done, e.Want, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SendAll writes all of b, retrying partial writes. Zero progress = failure.
func SendAll(w io.Writer, b []byte) error {
	sent := 0
	for sent < len(b) {
		n, err := w.Write(b[sent:])
		if n > 0 {
			sent += n
		}
		if sent >= len(b) {
			break
		}
		if err != nil {
			return &TransportError{Op: "send", Done: sent, Want: len(b), Err: err}
		}
		if n <= 0 {
			return &TransportError{Op: "send", Done: sent, Want: len(b), Err: io.ErrShortWrite}
		}
	}
	return nil
}

// RecvAll reads exactly n bytes or fails; never returns a short slice.
func RecvAll(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	got := 0
	for got < n {
		k, err := r.Read(buf[got:])
		if k > 0 {
			got += k
		}
		if got >= n {
			break
		}
		if err != nil {
			return nil, &TransportError{Op: "recv", Done: got, Want: n, Err: err}
		}
		if k <= 0 {
			// peer closed without EOF (or broken reader)
			return nil, &TransportError{Op: "recv", Done: got, Want: n, Err: io.ErrNoProgress}
		}
	}
	return buf, nil
}

// SetExchangeDeadline bounds one exchange on c; d <= 0 = no deadline.
func SetExchangeDeadline(c net.Conn, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return c.SetDeadline(time.Now().Add(d))
}
