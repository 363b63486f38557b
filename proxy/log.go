package proxy

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	humanize "github.com/dustin/go-humanize"
)

// LogContext holds information about a proxied request used for the access
// log.
type LogContext struct {
	Logger     *log.Logger
	RequestID  string
	Request    *http.Request
	Target     string
	State      State
	StatusCode int
	Metrics    Metrics

	buffer bytes.Buffer
}

// Log writes an access log line for the context to the logger.
//
// The log format consists of the following space separated fields:
//
// - request ID
// - remote address
// - frontend host
// - request information (method, URI and protocol)
// - target (the base URL of the matched route)
// - state (see State)
// - http status code
// - time to first byte
// - time to last byte
// - bytes inbound
// - bytes outbound
// - message (optional)
//
// All fields are always present, except for the message which is optional. If a
// field value is unknown or not applicable, a hyphen is used in place. If a
// field value contains spaces or other special characters it is rendered as a
// double-quoted Go string.
func (ctx *LogContext) Log(err error) {
	if ctx.Logger == nil {
		return
	}

	ctx.write(ctx.RequestID)
	ctx.write(ctx.Request.RemoteAddr)
	ctx.write(ctx.Request.Host)
	ctx.write(
		"%s %s %s",
		ctx.Request.Method,
		ctx.Request.URL.RequestURI(),
		ctx.Request.Proto,
	)
	ctx.write(ctx.Target)
	ctx.write(ctx.State.String())

	if ctx.StatusCode == 0 {
		ctx.write("")
	} else {
		ctx.write("%d", ctx.StatusCode)
	}

	if ctx.Metrics.IsFirstByteSent() {
		ctx.write(
			"f/%sms",
			humanize.FormatFloat("#,###.##", milliseconds(ctx.Metrics.TimeToFirstByte)),
		)
	} else {
		ctx.write("")
	}

	if ctx.Metrics.IsLastByteSent() {
		ctx.write(
			"l/%sms",
			humanize.FormatFloat("#,###.##", milliseconds(ctx.Metrics.TimeToLastByte)),
		)
		ctx.write("i/%s", humanize.Comma(ctx.Metrics.BytesIn))
		ctx.write("o/%s", humanize.Comma(ctx.Metrics.BytesOut))
	} else {
		ctx.write("")
		ctx.write("")
		ctx.write("")
	}

	if err != nil {
		ctx.write(err.Error())
	}

	ctx.Logger.Println(ctx.buffer.String())
	ctx.buffer.Reset()
}

// write is a helper function that writes a string to the buffer, quoting the
// string if it contains whitespace or special characters.
func (ctx *LogContext) write(str string, v ...interface{}) {
	if ctx.buffer.Len() != 0 {
		ctx.buffer.WriteRune(' ')
	}

	if len(v) != 0 {
		str = fmt.Sprintf(str, v...)
	}

	if str == "" {
		ctx.buffer.WriteRune('-')
		return
	}

	if strings.ContainsAny(str, " \a\b\f\n\r\t\v\"") {
		ctx.buffer.WriteString(strconv.Quote(str))
	} else {
		ctx.buffer.WriteString(str)
	}
}
