package health

import (
	"io"
	"net"
	"net/http"
	"net/url"
)

// HTTPChecker is a checker that connects to the HTTP server to check its
// status.
type HTTPChecker struct {
	Address string
	Client  *http.Client
}

// Check returns information about the health of the HTTP server.
func (checker *HTTPChecker) Check() Status {
	host, port, err := net.SplitHostPort(checker.Address)
	if err != nil {
		return Status{false, err.Error()}
	}

	if host == "" {
		host = "localhost"
	}

	u := url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(host, port),
		Path:   Path,
	}

	client := checker.Client
	if client == nil {
		client = http.DefaultClient
	}

	response, err := client.Get(u.String())
	if err != nil {
		return Status{false, err.Error()}
	}
	defer response.Body.Close()

	content, err := io.ReadAll(response.Body)
	if err != nil {
		return Status{false, err.Error()}
	}

	return Status{
		200 <= response.StatusCode && response.StatusCode <= 299,
		string(content),
	}
}
