package frontend

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/icecave/waggle/api"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Options configures the handler returned by New.
type Options struct {
	// Proxy serves every request that is not handled by the query API or the
	// health check.
	Proxy http.Handler

	// API serves the read-only log query endpoints. It is optional.
	API *api.Handler

	// HealthCheck intercepts health-check requests. It is optional.
	HealthCheck ConditionalHandler

	Logger *log.Logger
}

// preflightOr returns a handler that answers CORS preflight requests with c,
// and sends all other requests to next unchanged.
func preflightOr(c *cors.Cors, next http.Handler) http.HandlerFunc {
	preflight := c.Handler(next)

	return func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Access-Control-Request-Method") != "" {
			preflight.ServeHTTP(writer, request)
		} else {
			next.ServeHTTP(writer, request)
		}
	}
}

// New returns the main http.Handler, which accepts both HTTP/1.1 and
// cleartext HTTP/2 requests.
func New(opts Options) http.Handler {
	r := chi.NewRouter()

	if opts.API != nil {
		crossOrigin := cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodHead},
			AllowedHeaders: []string{"*"},
		})

		r.Group(func(r chi.Router) {
			r.Use(crossOrigin.Handler)

			if opts.Logger != nil {
				r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
					Logger:  opts.Logger,
					NoColor: true,
				}))
			}

			opts.API.Mount(r)
		})

		// CORS preflight requests for the query API are answered here, any
		// other OPTIONS request is proxied.
		for _, p := range api.Paths {
			r.Options(p, preflightOr(crossOrigin, opts.Proxy))
		}
	}

	// Anything that is not an API route, including API paths requested with
	// other methods, is proxied.
	r.NotFound(opts.Proxy.ServeHTTP)
	r.MethodNotAllowed(opts.Proxy.ServeHTTP)

	var handler http.Handler = r
	if opts.HealthCheck != nil {
		handler = intercept(opts.HealthCheck)(handler)
	}

	return h2c.NewHandler(
		middleware.Recoverer(handler),
		&http2.Server{},
	)
}
