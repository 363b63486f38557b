package proxy

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/icecave/waggle/logstore"
	"github.com/icecave/waggle/route"
	"github.com/icecave/waggle/statuspage"
)

// Recorder persists the log entries produced while forwarding requests.
type Recorder interface {
	// Append writes e to the log stream for target.
	Append(e logstore.Entry, target string) error
}

// Handler is an http.Handler that forwards each request to the upstream server
// selected by the route table, recording the request and its outcome.
type Handler struct {
	Routes           route.Table
	Recorder         Recorder
	Transport        http.RoundTripper
	StatusPageWriter statuspage.Writer
	Logger           *log.Logger
}

// defaultTransport is used when a Handler has no Transport.
var defaultTransport = NewTransport()

// NewTransport returns a transport suitable for forwarding requests.
//
// It is a copy of http.DefaultTransport with transparent compression disabled,
// so Accept-Encoding is only sent if the client sent it, and compressed
// response bodies are passed through without being decoded.
func NewTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DisableCompression = true
	return t
}

// upstreamResponse is a fully read response from an upstream server.
type upstreamResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ServeHTTP proxies the request to the upstream server of the first matching
// route.
func (handler *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	logContext := &LogContext{
		Logger:    handler.Logger,
		RequestID: uuid.NewString(),
		Request:   request,
	}
	logContext.Metrics.Start()

	err := handler.forward(writer, request, logContext)

	// If there was an error and no response has been sent, send an error
	// document.
	if err != nil && logContext.StatusCode == 0 {
		handler.statusPage(writer, request, logContext, err)
	}

	logContext.Log(err)
}

func (handler *Handler) forward(
	writer http.ResponseWriter,
	request *http.Request,
	logContext *LogContext,
) error {
	path := requestPath(request.URL)

	rule, ok := handler.Routes.Match(path)
	if !ok {
		logContext.State = StateUnrouted
		return statuspage.NotFound(path)
	}
	logContext.Target = rule.Target

	body, err := io.ReadAll(request.Body)
	if err != nil {
		return statuspage.BadRequest(err)
	}
	logContext.Metrics.BytesIn = int64(len(body))
	logContext.State = StateRouted

	targetURL := rule.Target + path

	headers := flattenHeaders(request.Header)
	if request.Host != "" {
		headers["Host"] = request.Host
	}

	handler.record(
		logstore.Entry{
			Request: &logstore.RequestRecord{
				Timestamp: time.Now().UTC(),
				RequestID: logContext.RequestID,
				Method:    request.Method,
				Path:      path,
				Target:    targetURL,
				Headers:   headers,
				Body:      body,
			},
		},
		rule.Target,
	)

	logContext.State = StateDispatched

	response, err := handler.roundTrip(request, targetURL, body)
	if err != nil {
		logContext.State = StateFailed

		handler.record(
			logstore.Entry{
				Error: &logstore.ErrorRecord{
					Timestamp: time.Now().UTC(),
					RequestID: logContext.RequestID,
					Error:     err.Error(),
					Path:      path,
					Target:    targetURL,
				},
			},
			rule.Target,
		)

		return statuspage.BadGateway(err)
	}

	handler.record(
		logstore.Entry{
			Response: &logstore.ResponseRecord{
				Timestamp: time.Now().UTC(),
				RequestID: logContext.RequestID,
				Status:    response.StatusCode,
				Path:      path,
				Headers:   flattenHeaders(response.Header),
				Body:      response.Body,
			},
		},
		rule.Target,
	)

	logContext.State = StateCompleted

	return handler.respond(writer, response, logContext)
}

// roundTrip sends a single request to targetURL and reads the entire response.
//
// The upstream request is not cancelled if the client goes away, so that the
// outcome is always recorded. Redirects are returned to the client rather than
// followed.
func (handler *Handler) roundTrip(
	request *http.Request,
	targetURL string,
	body []byte,
) (*upstreamResponse, error) {
	var reader io.Reader
	if len(body) != 0 {
		reader = bytes.NewReader(body)
	}

	upstreamRequest, err := http.NewRequestWithContext(
		context.WithoutCancel(request.Context()),
		request.Method,
		targetURL,
		reader,
	)
	if err != nil {
		return nil, err
	}

	upstreamRequest.Header = http.Header{}
	copyEndToEndHeaders(upstreamRequest.Header, request.Header)

	transport := handler.Transport
	if transport == nil {
		transport = defaultTransport
	}

	response, err := transport.RoundTrip(upstreamRequest)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	return &upstreamResponse{
		StatusCode: response.StatusCode,
		Header:     response.Header,
		Body:       data,
	}, nil
}

// respond writes the upstream response to the client, unchanged except for
// hop-by-hop headers.
func (handler *Handler) respond(
	writer http.ResponseWriter,
	response *upstreamResponse,
	logContext *LogContext,
) error {
	copyEndToEndHeaders(writer.Header(), response.Header)

	logContext.StatusCode = response.StatusCode
	logContext.Metrics.FirstByteSent()
	defer logContext.Metrics.LastByteSent()

	writer.WriteHeader(response.StatusCode)
	n, err := writer.Write(response.Body)
	logContext.Metrics.BytesOut = int64(n)

	return err
}

func (handler *Handler) record(e logstore.Entry, target string) {
	if handler.Recorder == nil {
		return
	}

	if err := handler.Recorder.Append(e, target); err != nil && handler.Logger != nil {
		handler.Logger.Printf("Unable to record %s entry for %s: %s", e.Kind(), target, err)
	}
}

func (handler *Handler) statusPage(
	writer http.ResponseWriter,
	request *http.Request,
	logContext *LogContext,
	err error,
) {
	statusWriter := handler.StatusPageWriter
	if statusWriter == nil {
		statusWriter = statuspage.DefaultWriter
	}

	logContext.Metrics.FirstByteSent()
	defer logContext.Metrics.LastByteSent()

	logContext.StatusCode, logContext.Metrics.BytesOut, _ = statusWriter.WriteError(
		writer,
		request,
		err,
	)
}

// requestPath returns the path and query string of u, as sent by the client.
func requestPath(u *url.URL) string {
	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	return path
}
