package health

import (
	"io"
	"log"
	"net/http"
)

// Path is the URL path that serves health-check requests.
const Path = "/.waggle/health-check"

// HTTPHandler serves health-check requests using a Checker.
type HTTPHandler struct {
	Checker Checker
	Logger  *log.Logger
}

// CanHandle returns true if request is a health-check request.
func (handler *HTTPHandler) CanHandle(request *http.Request) bool {
	return request.Method == http.MethodGet && request.URL.Path == Path
}

// ServeHTTP writes the health-check status as plain text, with a 503 status
// code if the server is unhealthy.
func (handler *HTTPHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	status := Status{IsHealthy: true, Message: "Server is accepting requests."}
	if handler.Checker != nil {
		status = handler.Checker.Check()
	}

	writer.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if status.IsHealthy {
		writer.WriteHeader(http.StatusOK)
	} else {
		writer.WriteHeader(http.StatusServiceUnavailable)
		if handler.Logger != nil {
			handler.Logger.Println(status)
		}
	}

	io.WriteString(writer, status.Message)
}
