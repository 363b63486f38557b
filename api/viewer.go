package api

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/icecave/waggle/statuspage"
)

// ViewerPageSize is the number of entries shown on each page of the log viewer.
const ViewerPageSize = 50

//go:embed viewer.html
var viewerSource string

var defaultViewerTemplate = template.Must(template.New("viewer").Parse(viewerSource))

// ViewerContext holds the data needed to render the log viewer.
type ViewerContext struct {
	LogsPath  string
	FilesPath string
	PageSize  int
}

// View serves an HTML page that browses the log entries using the query API.
func (handler *Handler) View(writer http.ResponseWriter, request *http.Request) {
	tmpl := handler.ViewerTemplate
	if tmpl == nil {
		tmpl = defaultViewerTemplate
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ViewerContext{
		LogsPath:  LogsPath,
		FilesPath: FilesPath,
		PageSize:  ViewerPageSize,
	}); err != nil {
		statuspage.DefaultWriter.WriteError(writer, request, err)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(http.StatusOK)
	buf.WriteTo(writer)
}
