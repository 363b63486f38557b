package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/icecave/waggle/api"
	"github.com/icecave/waggle/frontend"
	"github.com/icecave/waggle/health"
	"github.com/icecave/waggle/logstore"
	"github.com/icecave/waggle/proxy"
	"github.com/icecave/waggle/proxyprotocol"
	"github.com/icecave/waggle/route"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// shutdownTimeout is the time allowed for in-flight requests to complete after
// a termination signal.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Forward requests to upstream servers and record them",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().StringVar(&config.Port, "port", config.Port, "port to listen on")
		c.Flags().StringVar(&config.Routes.File, "routes", config.Routes.File, "route file (JSON or YAML)")
		c.Flags().BoolVar(&config.ProxyProtocol, "proxy-protocol", config.ProxyProtocol, "accept PROXY protocol headers")
	}

	rootCmd.AddCommand(serveCmd)
}

func runServe(c *cobra.Command, _ []string) (err error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource := routeSource()
	defer func() {
		err = multierr.Append(err, closeSource())
	}()

	store := &logstore.Store{
		Dir:    config.LogDir,
		Logger: logger,
	}

	server := &http.Server{
		Addr: ":" + config.Port,
		Handler: frontend.New(frontend.Options{
			Proxy: &proxy.Handler{
				Routes:    route.Load(ctx, source, logger),
				Recorder:  store,
				Transport: proxy.NewTransport(),
				Logger:    logger,
			},
			API: &api.Handler{
				Store:  store,
				Logger: logger,
			},
			HealthCheck: &health.HTTPHandler{
				Checker: &health.LogDirChecker{Dir: config.LogDir},
				Logger:  logger,
			},
			Logger: logger,
		}),
		ErrorLog: logger,
	}

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}

	if config.ProxyProtocol {
		listener = proxyprotocol.NewListener(listener)
	}

	logger.Printf("Listening on port %s, writing logs to %s", config.Port, config.LogDir)

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		done <- server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-done
}

// routeSource returns the source of the route table, and a function that
// releases any resources it holds.
func routeSource() (route.Source, func() error) {
	if config.Routes.RedisAddress == "" {
		return &route.FileSource{Path: config.Routes.File}, func() error { return nil }
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Routes.RedisAddress,
		Password: config.Routes.RedisPassword,
	})

	return &route.RedisSource{
		Client: client,
		Key:    config.Routes.RedisKey,
	}, client.Close
}
