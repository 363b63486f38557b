package statuspage

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// DefaultWriter is the status page writer that is used if no other is specified.
var DefaultWriter Writer = &JSONWriter{}

// Writer writes error responses to an HTTP response writer.
type Writer interface {
	// WriteError outputs an appropriate HTTP response for the given error to
	// writer, in response to request.
	WriteError(
		writer http.ResponseWriter,
		request *http.Request,
		statusErr error,
	) (statusCode int, bodySize int64, err error)
}

// JSONWriter writes error responses as JSON documents.
type JSONWriter struct{}

// WriteError outputs the JSON document for statusErr to writer. Errors that
// are not an Error are sent as a 500 Internal Server Error.
func (wr *JSONWriter) WriteError(
	writer http.ResponseWriter,
	_ *http.Request,
	statusErr error,
) (statusCode int, bodySize int64, err error) {
	e := asError(statusErr)
	bodySize, err = WriteJSON(writer, e.StatusCode, e.Document())
	return e.StatusCode, bodySize, err
}

// WriteJSON writes v to writer as a JSON document with the given status code.
func WriteJSON(
	writer http.ResponseWriter,
	statusCode int,
	v interface{},
) (int64, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return 0, err
	}

	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	return buf.WriteTo(writer)
}
