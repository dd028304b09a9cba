package netpipe

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestDialProbe_Golden(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	probe := DialProbe{Address: ln.Addr().String(), Timeout: time.Second}
	if !probe.IsOnline(context.Background()) {
		t.Fatalf("expected online against local listener")
	}
}

func TestDialProbe_Offline(t *testing.T) {
	t.Parallel()

	// Grab a free port, then close it so nothing accepts there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	probe := DialProbe{Address: addr, Timeout: 200 * time.Millisecond}
	if probe.IsOnline(context.Background()) {
		t.Fatalf("expected offline against closed port")
	}
}

func TestDialProbe_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	probe := DialProbe{Address: "127.0.0.1:1", Timeout: time.Second}
	if probe.IsOnline(ctx) {
		t.Fatalf("cancelled context must report offline")
	}
}
