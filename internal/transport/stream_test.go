package transport

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func echoOnce(ln net.Listener, n int) chan error {
	done := make(chan error, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			done <- err
			return
		}
		defer c.Close()
		b, err := RecvAll(c, n)
		if err != nil {
			done <- err
			return
		}
		done <- SendAll(c, b)
	}()
	return done
}

func exchange(t *testing.T, network string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ln, err := Listen(ctx, network, "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	done := echoOnce(ln, 5)

	c, err := Dial(ctx, network, ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if err := SetExchangeDeadline(c, 5*time.Second); err != nil {
		t.Fatal(err)
	}
	if err := SendAll(c, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	got, err := RecvAll(c, 5)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Fatalf("echo: got %q", got)
	}
	if RemoteIP(c) != "127.0.0.1" {
		t.Fatalf("remote ip: %q", RemoteIP(c))
	}
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestTCPExchange(t *testing.T) {
	exchange(t, NetworkTCP)
}

func TestQUICExchange(t *testing.T) {
	exchange(t, NetworkQUIC)
}

func TestQUICListenerClose(t *testing.T) {
	ln, err := Listen(context.Background(), NetworkQUIC, "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	errc := make(chan error, 1)
	go func() {
		_, err := ln.Accept()
		errc <- err
	}()
	ln.Close()
	select {
	case err := <-errc:
		if !errors.Is(err, net.ErrClosed) {
			t.Fatalf("expected net.ErrClosed, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("accept did not return after close")
	}
}

func TestUnknownNetwork(t *testing.T) {
	if _, err := Listen(context.Background(), "sctp", ":0"); !errors.Is(err, ErrUnknownNetwork) {
		t.Fatalf("listen: %v", err)
	}
	if _, err := Dial(context.Background(), "sctp", "x:1"); !errors.Is(err, ErrUnknownNetwork) {
		t.Fatalf("dial: %v", err)
	}
}

func TestResolveNumeric(t *testing.T) {
	addrs, err := Resolve(context.Background(), NetworkTCP, "127.0.0.1", "56700")
	if err != nil {
		t.Fatal(err)
	}
	if len(addrs) != 1 || addrs[0] != "127.0.0.1:56700" {
		t.Fatalf("got %v", addrs)
	}
}

func TestSelfSignedTLS(t *testing.T) {
	c, err := SelfSignedTLS()
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Certificates) != 1 || c.NextProtos[0] != ALPN {
		t.Fatalf("config: %+v", c)
	}
}
