package netpipe

import (
	"context"
	"net"
	"time"
)

// DialProbe reports connectivity by opening a TCP connection to a
// well-known address. The zero value dials a public resolver.
type DialProbe struct {
	Address string
	Timeout time.Duration
}

func (p DialProbe) IsOnline(ctx context.Context) bool {
	address := p.Address
	if address == "" {
		address = "1.1.1.1:443"
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
