// Package client: parse "type city", one-shot query, render the answer.
package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"dev.c0redev.meteo/internal/proto"
	"dev.c0redev.meteo/internal/transport"
)

var (
	ErrEmptyRequest = errors.New("empty request")
	ErrResolve      = errors.New("resolve")
	ErrConnect      = errors.New("connect")
	ErrCancelled    = errors.New("query cancelled")
)

// ParseRequest: first non-space char = type, rest (spaces skipped, trimmed, <=63 bytes) = city.
func ParseRequest(raw string) (proto.Request, error) {
	s := strings.Trim(raw, " ")
	if s == "" {
		return proto.Request{}, ErrEmptyRequest
	}
	city := strings.TrimLeft(s[1:], " ")
	return proto.Request{Type: s[0], City: proto.TruncateCity(city)}, nil
}

// Options for Query.
type Options struct {
	Server     string
	Port       string
	Network    string        // tcp (default) or quic
	IOTimeout  time.Duration // 0 = block
	Trace      *log.Logger   // nil = silent
	DumpFrames bool
}

// Result of one exchange; ServerIP is the connected peer.
type Result struct {
	Request  proto.Request
	Response proto.Response
	ServerIP string
}

func (o Options) tracef(format string, args ...any) {
	if o.Trace != nil {
		o.Trace.Printf(format, args...)
	}
}

// Query resolves, connects, sends req, waits for exactly one response. No retry.
func Query(ctx context.Context, opts Options, req proto.Request) (*Result, error) {
	network := opts.Network
	if network == "" {
		network = transport.NetworkTCP
	}
	addrs, err := transport.Resolve(ctx, network, opts.Server, opts.Port)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrResolve, opts.Server, err)
	}
	opts.tracef("resolved %s -> %v", opts.Server, addrs)

	conn, err := dialFirst(ctx, network, addrs, opts)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrConnect, net.JoinHostPort(opts.Server, opts.Port), err)
	}
	defer conn.Close()
	if err := transport.SetExchangeDeadline(conn, opts.IOTimeout); err != nil {
		return nil, err
	}
	// after SetExchangeDeadline: cancellation must win
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	frame := req.Encode()
	if opts.DumpFrames {
		opts.tracef("request frame: % x", frame[:])
	}
	if err := transport.SendAll(conn, frame[:]); err != nil {
		return nil, exchangeErr(ctx, "send request", err)
	}
	b, err := transport.RecvAll(conn, proto.ResponseSize)
	if err != nil {
		return nil, exchangeErr(ctx, "receive response", err)
	}
	if opts.DumpFrames {
		opts.tracef("response frame: % x", b)
	}
	resp := proto.ParseResponseFrame([proto.ResponseSize]byte(b))
	opts.tracef("status %s type %q", resp.Status, resp.Type)
	return &Result{Request: req, Response: resp, ServerIP: transport.RemoteIP(conn)}, nil
}

// exchangeErr reports a cancelled ctx instead of the deadline error it caused.
func exchangeErr(ctx context.Context, step string, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w: %w", step, ErrCancelled, ctx.Err())
	}
	return fmt.Errorf("%s: %w", step, err)
}

// dialFirst tries each resolved address in order; last error wins.
func dialFirst(ctx context.Context, network string, addrs []string, opts Options) (net.Conn, error) {
	var lastErr error
	for _, addr := range addrs {
		conn, err := transport.Dial(ctx, network, addr)
		if err == nil {
			opts.tracef("connected to %s (%s)", addr, network)
			return conn, nil
		}
		opts.tracef("dial %s: %v", addr, err)
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no addresses")
	}
	return nil, lastErr
}
