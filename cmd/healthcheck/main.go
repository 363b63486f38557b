package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/icecave/waggle/cmd"
	"github.com/icecave/waggle/health"
	proxyproto "github.com/pires/go-proxyproto"
)

func main() {
	config := cmd.GetConfigFromEnvironment()

	checker := health.HTTPChecker{
		Address: ":" + config.Port,
		Client:  checkerHTTPClientProvider(config),
	}

	status := checker.Check()
	fmt.Println(status.Message)
	if !status.IsHealthy {
		os.Exit(1)
	}
}

// checkerHTTPClientProvider returns a client that announces itself with a
// PROXY LOCAL header when the server expects the PROXY protocol.
func checkerHTTPClientProvider(config *cmd.Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if config.ProxyProtocol {
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			var dialer net.Dialer
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}

			header := proxyproto.Header{
				Command: proxyproto.LOCAL,
				Version: 2,
			}
			if _, err := header.WriteTo(conn); err != nil {
				conn.Close()
				return nil, err
			}

			return conn, nil
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   config.CheckTimeout,
	}
}
