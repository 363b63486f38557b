package proxyprotocol

import (
	"bufio"
	"net"
	"sync"
	"time"

	proxyproto "github.com/pires/go-proxyproto"
)

// Conn is a net.Conn that reads an optional PROXY protocol header from the
// start of the stream and reports the addresses it describes.
//
// Connections without a PROXY header behave exactly like the underlying
// connection.
type Conn struct {
	net.Conn

	// HeaderTimeout bounds the time spent waiting for the header. Zero means
	// no limit.
	HeaderTimeout time.Duration

	reader *bufio.Reader
	once   sync.Once
	err    error
	local  net.Addr
	remote net.Addr
}

// NewConn returns a connection that has already consumed the PROXY header
// from nc, if one is present.
func NewConn(nc net.Conn) (net.Conn, error) {
	c := &Conn{Conn: nc}
	if err := c.init(); err != nil {
		return nil, err
	}

	return c, nil
}

// init reads the header exactly once. It is called lazily so that a slow
// client does not block the accept loop.
func (c *Conn) init() error {
	c.once.Do(func() {
		c.reader = bufio.NewReader(c.Conn)

		if c.HeaderTimeout > 0 {
			c.Conn.SetReadDeadline(time.Now().Add(c.HeaderTimeout))
			defer c.Conn.SetReadDeadline(time.Time{})
		}

		hdr, err := proxyproto.Read(c.reader)
		switch {
		case err == nil && hdr.Command == proxyproto.LOCAL:
			// LOCAL headers carry no client address
		case err == nil:
			c.local = headerAddr(hdr.TransportProtocol, hdr.DestinationAddress, hdr.DestinationPort)
			c.remote = headerAddr(hdr.TransportProtocol, hdr.SourceAddress, hdr.SourcePort)
		case err == proxyproto.ErrNoProxyProtocol, err == proxyproto.ErrInvalidLength:
			// not a PROXY connection, the bytes remain buffered in c.reader
		default:
			c.err = err
		}
	})

	return c.err
}

// Read reads data from the connection, after the PROXY header.
func (c *Conn) Read(b []byte) (int, error) {
	if err := c.init(); err != nil {
		return 0, err
	}

	return c.reader.Read(b)
}

// LocalAddr returns the destination address from the PROXY header, or the
// local address of the underlying connection.
func (c *Conn) LocalAddr() net.Addr {
	if c.init() != nil || c.local == nil {
		return c.Conn.LocalAddr()
	}

	return c.local
}

// RemoteAddr returns the source address from the PROXY header, or the remote
// address of the underlying connection.
func (c *Conn) RemoteAddr() net.Addr {
	if c.init() != nil || c.remote == nil {
		return c.Conn.RemoteAddr()
	}

	return c.remote
}
