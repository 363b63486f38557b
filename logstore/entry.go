package logstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind identifies the type of event that a log entry records.
type Kind string

const (
	// KindRequest is an entry written just before a request is sent to an
	// upstream server.
	KindRequest Kind = "request"

	// KindResponse is an entry written when an upstream server responds.
	KindResponse Kind = "response"

	// KindError is an entry written when an upstream server can not be
	// contacted.
	KindError Kind = "error"
)

// RequestRecord describes a request forwarded to an upstream server.
type RequestRecord struct {
	Timestamp time.Time         `json:"timestamp"`
	RequestID string            `json:"requestId,omitempty"`
	Method    string            `json:"method"`
	Path      string            `json:"path"`
	Target    string            `json:"target"`

	// Headers maps each header name, in canonical form (see
	// http.CanonicalHeaderKey), to its values joined by ", ". It includes Host.
	Headers map[string]string `json:"headers"`
	Body    Body              `json:"body"`
}

// ResponseRecord describes a response received from an upstream server.
type ResponseRecord struct {
	Timestamp time.Time         `json:"timestamp"`
	RequestID string            `json:"requestId,omitempty"`
	Status    int               `json:"status"`
	Path      string            `json:"path"`

	// Headers maps each canonical header name to its values joined by ", ".
	Headers map[string]string `json:"headers"`
	Body    Body              `json:"body"`
}

// ErrorRecord describes a failure to obtain a response from an upstream
// server.
type ErrorRecord struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId,omitempty"`
	Error     string    `json:"error"`
	Path      string    `json:"path"`
	Target    string    `json:"target"`
}

// Entry is a single log entry. Exactly one of its fields is non-nil.
//
// It is serialized as a JSON object with a single key, the entry's kind, whose
// value is the record.
type Entry struct {
	Request  *RequestRecord
	Response *ResponseRecord
	Error    *ErrorRecord
}

// Kind returns the kind of the entry, or an empty string if the entry is
// empty.
func (e Entry) Kind() Kind {
	switch {
	case e.Request != nil:
		return KindRequest
	case e.Response != nil:
		return KindResponse
	case e.Error != nil:
		return KindError
	}

	return ""
}

// Timestamp returns the time at which the recorded event occurred.
func (e Entry) Timestamp() time.Time {
	switch {
	case e.Request != nil:
		return e.Request.Timestamp
	case e.Response != nil:
		return e.Response.Timestamp
	case e.Error != nil:
		return e.Error.Timestamp
	}

	return time.Time{}
}

func (e Entry) record() interface{} {
	switch {
	case e.Request != nil:
		return e.Request
	case e.Response != nil:
		return e.Response
	case e.Error != nil:
		return e.Error
	}

	return nil
}

// MarshalJSON returns the {"<kind>": record} representation of the entry.
func (e Entry) MarshalJSON() ([]byte, error) {
	k := e.Kind()
	if k == "" {
		return nil, errors.New("can not marshal an empty log entry")
	}

	return marshal(map[Kind]interface{}{k: e.record()})
}

// marshal encodes v as compact JSON without escaping HTML characters, so that
// the persisted text can be searched for the same text that was logged.
func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes the {"<kind>": record} representation of an entry.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var wrapper map[Kind]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}

	if len(wrapper) != 1 {
		return fmt.Errorf("log entry must have exactly one key, found %d", len(wrapper))
	}

	for k, raw := range wrapper {
		return e.decode(k, raw)
	}

	return nil
}

func (e *Entry) decode(k Kind, raw json.RawMessage) error {
	*e = Entry{}

	switch k {
	case KindRequest:
		e.Request = &RequestRecord{}
		return json.Unmarshal(raw, e.Request)
	case KindResponse:
		e.Response = &ResponseRecord{}
		return json.Unmarshal(raw, e.Response)
	case KindError:
		e.Error = &ErrorRecord{}
		return json.Unmarshal(raw, e.Error)
	}

	return fmt.Errorf("unknown log entry kind '%s'", k)
}
