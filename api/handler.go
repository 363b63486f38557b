package api

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/icecave/waggle/logstore"
	"github.com/icecave/waggle/statuspage"
)

const (
	// LogsPath is the path of the log query endpoint.
	LogsPath = "/logs"

	// FilesPath is the path of the stream listing endpoint.
	FilesPath = "/logs/files"

	// ViewPath is the path of the HTML log viewer.
	ViewPath = "/logs/view"
)

// Paths lists every path served by the query API.
var Paths = []string{LogsPath, FilesPath, ViewPath}

// Store is the read side of the log store.
type Store interface {
	Streams() ([]logstore.StreamInfo, error)
	Query(logstore.Query) logstore.ResultSet
}

// Handler serves the read-only query API over a log store.
type Handler struct {
	Store  Store
	Logger *log.Logger

	// ViewerTemplate renders the log viewer. If nil, the built-in page is
	// used.
	ViewerTemplate *template.Template
}

// Files is the response body of the file listing endpoint.
type Files struct {
	Files []logstore.StreamInfo `json:"files"`
}

// Mount registers the query API routes on r.
func (handler *Handler) Mount(r chi.Router) {
	r.Get(LogsPath, handler.Logs)
	r.Get(FilesPath, handler.Files)
	r.Get(ViewPath, handler.View)
}

// Files lists the log streams.
func (handler *Handler) Files(writer http.ResponseWriter, request *http.Request) {
	streams, err := handler.Store.Streams()
	if err != nil {
		if handler.Logger != nil {
			handler.Logger.Printf("Unable to list log files: %s", err)
		}

		statuspage.DefaultWriter.WriteError(
			writer,
			request,
			fmt.Errorf("unable to list log files: %w", err),
		)
		return
	}

	statuspage.WriteJSON(writer, http.StatusOK, Files{streams})
}

// Logs queries the log entries, newest first.
func (handler *Handler) Logs(writer http.ResponseWriter, request *http.Request) {
	params := request.URL.Query()

	rs := handler.Store.Query(logstore.Query{
		Target: params.Get("target"),
		Search: params.Get("search"),
		Limit:  intParam(params.Get("limit"), logstore.DefaultLimit),
		Offset: intParam(params.Get("offset"), logstore.DefaultOffset),
	})

	statuspage.WriteJSON(writer, http.StatusOK, rs)
}

// intParam parses a numeric query parameter, returning def if it is absent or
// not a number.
func intParam(value string, def int) int {
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}

	return def
}
