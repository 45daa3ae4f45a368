package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Networks accepted by Listen/Dial.
const (
	NetworkTCP  = "tcp"
	NetworkQUIC = "quic"
)

var ErrUnknownNetwork = errors.New("unknown network")

// Listen opens a stream listener (tcp, or quic with ephemeral self-signed cert).
func Listen(ctx context.Context, network, addr string) (net.Listener, error) {
	switch network {
	case "", NetworkTCP:
		var lc net.ListenConfig
		return lc.Listen(ctx, "tcp", addr)
	case NetworkQUIC:
		tlsConfig, err := SelfSignedTLS()
		if err != nil {
			return nil, err
		}
		return ListenQUIC(ctx, addr, tlsConfig)
	default:
		return nil, fmt.Errorf("listen %q: %w", network, ErrUnknownNetwork)
	}
}

// Dial connects one stream to addr (host:port, already resolved or not).
func Dial(ctx context.Context, network, addr string) (net.Conn, error) {
	switch network {
	case "", NetworkTCP:
		var d net.Dialer
		return d.DialContext(ctx, "tcp", addr)
	case NetworkQUIC:
		return DialStream(ctx, addr, nil)
	default:
		return nil, fmt.Errorf("dial %q: %w", network, ErrUnknownNetwork)
	}
}

// Resolve looks up host and port (numeric or symbolic) -> candidate host:port list.
func Resolve(ctx context.Context, network, host, port string) ([]string, error) {
	portNet := "tcp"
	if network == NetworkQUIC {
		portNet = "udp"
	}
	p, err := net.DefaultResolver.LookupPort(ctx, portNet, port)
	if err != nil {
		return nil, err
	}
	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	addrs := make([]string, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, net.JoinHostPort(ip.String(), fmt.Sprint(p)))
	}
	return addrs, nil
}

// RemoteIP returns the peer IP of c, or "" if not an IP address.
func RemoteIP(c net.Conn) string {
	switch a := c.RemoteAddr().(type) {
	case *net.TCPAddr:
		return a.IP.String()
	case *net.UDPAddr:
		return a.IP.String()
	}
	if host, _, err := net.SplitHostPort(c.RemoteAddr().String()); err == nil {
		return host
	}
	return ""
}
