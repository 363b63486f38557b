package proxyprotocol

import (
	"net"

	proxyproto "github.com/pires/go-proxyproto"
)

// headerAddr returns the address described by a PROXY header, using the
// address type that matches the transport protocol.
func headerAddr(proto proxyproto.AddressFamilyAndProtocol, ip net.IP, port uint16) net.Addr {
	switch {
	case proto.IsUnix():
		network := "unix"
		if !proto.IsStream() {
			network = "unixgram"
		}
		return &net.UnixAddr{Net: network, Name: ip.String()}
	case (proto.IsIPv4() || proto.IsIPv6()) && !proto.IsStream():
		return &net.UDPAddr{IP: ip, Port: int(port)}
	default:
		return &net.TCPAddr{IP: ip, Port: int(port)}
	}
}
