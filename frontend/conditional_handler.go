package frontend

import "net/http"

// ConditionalHandler is an interface for http.Handler instances that optionally
// intercept an incoming request.
type ConditionalHandler interface {
	http.Handler

	// CanHandle returns true if request can be served by this handler.
	CanHandle(*http.Request) bool
}

// intercept returns middleware that sends requests to handler when it can
// serve them, and to the next handler otherwise.
func intercept(handler ConditionalHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if handler.CanHandle(request) {
				handler.ServeHTTP(writer, request)
			} else {
				next.ServeHTTP(writer, request)
			}
		})
	}
}
