package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/quic-go/quic-go"
)

// closeGrace: server side waits this long for the peer to hang up after FIN.
const closeGrace = 5 * time.Second

func quicConfig() *quic.Config {
	return &quic.Config{MaxIdleTimeout: 30 * time.Second}
}

// streamConn wraps quic.Stream as net.Conn (one stream per connection).
type streamConn struct {
	*quic.Stream
	conn   *quic.Conn
	server bool
	once   sync.Once
}

func (c *streamConn) LocalAddr() net.Addr  { return c.conn.LocalAddr() }
func (c *streamConn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// Close sends FIN; client tears down the conn, server lets the peer go first.
func (c *streamConn) Close() error {
	var err error
	c.once.Do(func() {
		err = c.Stream.Close()
		if !c.server {
			_ = c.conn.CloseWithError(0, "")
			return
		}
		go func() {
			select {
			case <-c.conn.Context().Done():
			case <-time.After(closeGrace):
			}
			_ = c.conn.CloseWithError(0, "")
		}()
	})
	return err
}

// DefaultQUICClientTLS TLS for QUIC client (InsecureSkipVerify, ALPN meteo).
func DefaultQUICClientTLS() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS13,
		NextProtos:         []string{ALPN},
	}
}

// DialStream dials QUIC to addr, one stream, returns net.Conn.
func DialStream(ctx context.Context, addr string, tlsConfig *tls.Config) (net.Conn, error) {
	if tlsConfig == nil {
		tlsConfig = DefaultQUICClientTLS()
	}
	conn, err := quic.DialAddr(ctx, addr, tlsConfig, quicConfig())
	if err != nil {
		return nil, err
	}
	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "")
		return nil, err
	}
	return &streamConn{Stream: stream, conn: conn}, nil
}

// quicListener adapts quic.Listener to net.Listener: Accept yields the first stream of each conn.
type quicListener struct {
	ln      *quic.Listener
	ctx     context.Context
	cancel  context.CancelFunc
	streams chan net.Conn
	done    chan struct{}
	err     error
}

// ListenQUIC QUIC listen on addr; tlsConfig must carry Certificates.
func ListenQUIC(ctx context.Context, addr string, tlsConfig *tls.Config) (net.Listener, error) {
	if tlsConfig == nil || len(tlsConfig.Certificates) == 0 {
		return nil, fmt.Errorf("quic listen %s: no certificate", addr)
	}
	ln, err := quic.ListenAddr(addr, tlsConfig, quicConfig())
	if err != nil {
		return nil, err
	}
	lctx, cancel := context.WithCancel(ctx)
	l := &quicListener{
		ln:      ln,
		ctx:     lctx,
		cancel:  cancel,
		streams: make(chan net.Conn),
		done:    make(chan struct{}),
	}
	go l.run()
	return l, nil
}

func (l *quicListener) run() {
	defer close(l.done)
	for {
		conn, err := l.ln.Accept(l.ctx)
		if err != nil {
			l.err = err
			return
		}
		go l.acceptStream(conn)
	}
}

func (l *quicListener) acceptStream(conn *quic.Conn) {
	stream, err := conn.AcceptStream(l.ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "")
		return
	}
	sc := &streamConn{Stream: stream, conn: conn, server: true}
	select {
	case l.streams <- sc:
	case <-l.ctx.Done():
		_ = conn.CloseWithError(0, "")
	}
}

func (l *quicListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.streams:
		return c, nil
	case <-l.done:
		if l.ctx.Err() != nil {
			return nil, net.ErrClosed
		}
		return nil, fmt.Errorf("quic accept: %w", l.err)
	}
}

func (l *quicListener) Close() error {
	l.cancel()
	return l.ln.Close()
}

func (l *quicListener) Addr() net.Addr { return l.ln.Addr() }
