package connector

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/pkg/errors"
)

// Dialer opens client sessions over TCP.
type Dialer struct {
	Connector *Connector
	// Timeout bounds the TCP connect. Zero means three seconds.
	Timeout time.Duration
	// Configure adjusts each session before its handshake.
	Configure func(*ConnectConfiguration)
}

// Dial connects to addr and runs the handshake. domain defaults to the host
// part of addr.
func (d *Dialer) Dial(ctx context.Context, addr, domain string) (*tls.Conn, error) {
	if domain == "" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, errors.Wrap(err, "parsing address")
		}
		domain = host
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultHandshakeTimeout
	}

	nd := &net.Dialer{Timeout: timeout}
	conn, err := nd.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "opening tcp connection")
	}

	cfg := d.Connector.Configure()
	if d.Configure != nil {
		d.Configure(cfg)
	}
	return cfg.Connect(ctx, domain, conn)
}
