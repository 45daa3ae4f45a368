// Package server: one-shot weather exchange per connection (recv 65, validate, send 9, close).
package server

import (
	"context"
	"errors"
	"log"
	"net"
	"sync"
	"time"

	"dev.c0redev.meteo/internal/measure"
	"dev.c0redev.meteo/internal/proto"
	"dev.c0redev.meteo/internal/transport"
)

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second

	// DefaultShutdownGrace: how long Serve waits for open conns after cancel.
	DefaultShutdownGrace = 5 * time.Second
)

// Option configures a Server.
type Option func(*Server)

// WithGenerator sets the measurement source (shared, lock-guarded).
func WithGenerator(g *measure.Generator) Option {
	return func(s *Server) { s.gen = g }
}

// WithLogger sets the logger (default log.Default()).
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithIOTimeout bounds each exchange; 0 = block until done or peer gone.
func WithIOTimeout(d time.Duration) Option {
	return func(s *Server) { s.ioTimeout = d }
}

// WithShutdownGrace bounds the wait for in-flight conns once ctx is done;
// conns still open after d are aborted.
func WithShutdownGrace(d time.Duration) Option {
	return func(s *Server) { s.grace = d }
}

// Server: accept loop, one goroutine per conn, no state kept between conns.
type Server struct {
	gen       *measure.Generator
	logger    *log.Logger
	ioTimeout time.Duration
	grace     time.Duration
	wg        sync.WaitGroup
}

// New returns a Server; time-seeded generator unless WithGenerator.
func New(opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = measure.NewTimeSeeded()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.grace <= 0 {
		s.grace = DefaultShutdownGrace
	}
	return s
}

// ListenAndServe listens on addr over network (tcp/quic) and serves until ctx done.
func (s *Server) ListenAndServe(ctx context.Context, network, addr string) error {
	ln, err := transport.Listen(ctx, network, addr)
	if err != nil {
		return err
	}
	s.logger.Println("server listening on", ln.Addr(), "("+network+")")
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is done or ln is closed. Accept errors are logged, not fatal.
// Returns after in-flight conns finish, or are aborted once the shutdown grace runs out.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	connCtx, abort := context.WithCancel(context.Background())
	defer abort()
	defer s.drain(abort)

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			if backoff == 0 {
				backoff = minAcceptBackoff
			} else if backoff *= 2; backoff > maxAcceptBackoff {
				backoff = maxAcceptBackoff
			}
			s.logger.Printf("server: accept error: %v; retrying in %v", err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.ServeConn(connCtx, conn)
		}()
	}
}

// drain waits for handlers; after the grace period it aborts the rest.
func (s *Server) drain(abort context.CancelFunc) {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return
	case <-time.After(s.grace):
	}
	s.logger.Printf("server: shutdown grace %v elapsed, aborting open connections", s.grace)
	abort()
	<-done
}

// ServeConn runs one request/response cycle on c and closes it.
// Cancelling ctx unblocks pending I/O.
func (s *Server) ServeConn(ctx context.Context, c net.Conn) {
	defer c.Close()
	ip := transport.RemoteIP(c)
	if err := transport.SetExchangeDeadline(c, s.ioTimeout); err != nil {
		s.logger.Printf("server: %s: set deadline: %v", ip, err)
		return
	}
	// after SetExchangeDeadline: an abort deadline must win
	stop := context.AfterFunc(ctx, func() { _ = c.SetDeadline(time.Now()) })
	defer stop()
	b, err := transport.RecvAll(c, proto.RequestSize)
	if err != nil {
		s.logger.Printf("server: %s: %v", ip, err)
		return
	}
	req := proto.ParseRequestFrame([proto.RequestSize]byte(b))
	s.logger.Printf("Richiesta '%c %s' dal client ip %s", req.Type, req.City, ip)

	resp := Evaluate(req, s.gen)
	frame := resp.Encode()
	if err := transport.SendAll(c, frame[:]); err != nil {
		s.logger.Printf("server: %s: %v", ip, err)
		return
	}
	if !resp.OK() {
		s.logger.Printf("server: %s: %s", ip, resp.Status)
	}
}

// Evaluate validates req (type first, then city) and builds the response.
// The city is trimmed here too since req may not come from a decoded frame.
func Evaluate(req proto.Request, gen *measure.Generator) proto.Response {
	kind, ok := measure.KindOf(req.Type)
	if !ok {
		return proto.Reject(proto.StatusInvalidRequest)
	}
	if !SupportedCity(proto.TrimCity(req.City)) {
		return proto.Reject(proto.StatusCityUnavailable)
	}
	return proto.Response{
		Status: proto.StatusSuccess,
		Type:   req.Type,
		Value:  gen.Generate(kind),
	}
}
