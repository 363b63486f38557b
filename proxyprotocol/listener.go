package proxyprotocol

import (
	"net"
	"time"
)

// DefaultHeaderTimeout is the time allowed for a client to send the PROXY
// header on a connection accepted by a Listener.
const DefaultHeaderTimeout = 10 * time.Second

// Listener wraps a net.Listener so that every accepted connection is a *Conn.
type Listener struct {
	net.Listener

	// HeaderTimeout overrides DefaultHeaderTimeout when non-zero.
	HeaderTimeout time.Duration
}

// NewListener returns a listener that accepts PROXY protocol connections from
// l.
func NewListener(l net.Listener) net.Listener {
	return &Listener{Listener: l}
}

// Accept waits for the next connection. The PROXY header is read on first use
// of the connection, not here.
func (l *Listener) Accept() (net.Conn, error) {
	nc, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}

	timeout := l.HeaderTimeout
	if timeout == 0 {
		timeout = DefaultHeaderTimeout
	}

	return &Conn{Conn: nc, HeaderTimeout: timeout}, nil
}
