package statuspage

import (
	"errors"
	"net/http"
)

// Error wraps another error to include the HTTP status code and the document
// to send as a result of this error.
type Error struct {
	Inner      error
	StatusCode int

	// Text is the short description sent in the "error" field.
	Text string

	// Path is the request path the error relates to, if any.
	Path string
}

func (err Error) Error() string {
	if err.Inner == nil {
		return err.Text
	}

	return err.Inner.Error()
}

func (err Error) Unwrap() error {
	return err.Inner
}

// Document returns the JSON document that describes the error to the client.
func (err Error) Document() Document {
	doc := Document{
		Error: err.Text,
		Path:  err.Path,
	}

	if err.Inner != nil {
		doc.Message = err.Inner.Error()
	}

	return doc
}

// Document is the JSON body of an error response.
type Document struct {
	Error   string `json:"error"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message,omitempty"`
}

// NotFound returns the error sent when no route matches path.
func NotFound(path string) Error {
	return Error{
		StatusCode: http.StatusNotFound,
		Text:       "No matching route found",
		Path:       path,
	}
}

// BadGateway returns the error sent when the upstream server can not be
// contacted.
func BadGateway(inner error) Error {
	return Error{
		Inner:      inner,
		StatusCode: http.StatusBadGateway,
		Text:       "Proxy error",
	}
}

// BadRequest returns the error sent when the request from the client can not
// be read.
func BadRequest(inner error) Error {
	return Error{
		Inner:      inner,
		StatusCode: http.StatusBadRequest,
		Text:       "Invalid request body",
	}
}

// asError converts any error into an Error, defaulting to a 500 status.
func asError(err error) Error {
	var e Error
	if errors.As(err, &e) {
		return e
	}

	return Error{
		Inner:      err,
		StatusCode: http.StatusInternalServerError,
		Text:       "Internal server error",
	}
}
