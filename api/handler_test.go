package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/icecave/waggle/api"
	"github.com/icecave/waggle/logstore"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Handler", func() {
	var (
		store     *logstore.Store
		logBuffer bytes.Buffer
		router    chi.Router
	)

	BeforeEach(func() {
		dir, err := os.MkdirTemp("", "waggle-api-")
		Expect(err).ShouldNot(HaveOccurred())

		store = &logstore.Store{Dir: dir}
		logBuffer.Reset()

		router = chi.NewRouter()
		(&api.Handler{
			Store:  store,
			Logger: log.New(&logBuffer, "", 0),
		}).Mount(router)

		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			Expect(store.Append(
				logstore.Entry{
					Request: &logstore.RequestRecord{
						Timestamp: base.Add(time.Duration(i) * time.Second),
						Method:    "GET",
						Path:      "/api/user/<" + string(rune('a'+i)) + ">",
						Target:    "http://localhost:3001/api/user",
					},
				},
				"http://localhost:3001",
			)).To(Succeed())
		}

		Expect(store.Append(
			logstore.Entry{
				Error: &logstore.ErrorRecord{
					Timestamp: base.Add(10 * time.Second),
					Error:     "connection refused",
					Path:      "/api/order/1",
					Target:    "http://localhost:3002/api/order/1",
				},
			},
			"http://localhost:3002",
		)).To(Succeed())
	})

	AfterEach(func() {
		os.RemoveAll(store.Dir)
	})

	get := func(uri string) (*httptest.ResponseRecorder, map[string]interface{}) {
		writer := httptest.NewRecorder()
		router.ServeHTTP(writer, httptest.NewRequest(http.MethodGet, uri, nil))

		var body map[string]interface{}
		Expect(json.Unmarshal(writer.Body.Bytes(), &body)).To(Succeed())

		return writer, body
	}

	Describe("GET /logs/files", func() {
		It("lists the log streams", func() {
			writer, body := get("/logs/files")

			Expect(writer.Code).To(Equal(http.StatusOK))
			Expect(writer.Header().Get("Content-Type")).To(HavePrefix("application/json"))

			files := body["files"].([]interface{})
			Expect(files).To(HaveLen(2))

			first := files[0].(map[string]interface{})
			Expect(first["name"]).To(Equal("http___localhost_3001.log"))
			Expect(first["size"]).To(BeNumerically(">", 0))
			Expect(first).To(HaveKey("modified"))
		})

		It("returns an empty list when the directory does not exist", func() {
			os.RemoveAll(store.Dir)

			_, body := get("/logs/files")
			Expect(body["files"]).To(Equal([]interface{}{}))
		})

		It("responds with a 500 error when the streams can not be listed", func() {
			router = chi.NewRouter()
			(&api.Handler{
				Store:  failingStore{},
				Logger: log.New(&logBuffer, "", 0),
			}).Mount(router)

			writer, body := get("/logs/files")

			Expect(writer.Code).To(Equal(http.StatusInternalServerError))
			Expect(body["error"]).To(Equal("Internal server error"))
			Expect(body["message"]).To(ContainSubstring("<permission denied>"))
			Expect(logBuffer.String()).To(ContainSubstring("Unable to list log files"))
		})
	})

	Describe("GET /logs", func() {
		It("returns every entry, newest first", func() {
			writer, body := get("/logs")

			Expect(writer.Code).To(Equal(http.StatusOK))
			Expect(body["total"]).To(BeNumerically("==", 4))
			Expect(body["offset"]).To(BeNumerically("==", 0))
			Expect(body["limit"]).To(BeNumerically("==", 100))

			entries := body["entries"].([]interface{})
			Expect(entries).To(HaveLen(4))

			first := entries[0].(map[string]interface{})
			Expect(first["error"]).To(Equal("connection refused"))
			Expect(first["_file"]).To(Equal("http___localhost_3002.log"))

			last := entries[3].(map[string]interface{})
			Expect(last["path"]).To(Equal("/api/user/<a>"))
		})

		It("restricts the entries to a single target", func() {
			_, body := get("/logs?target=http://localhost:3001")
			Expect(body["total"]).To(BeNumerically("==", 3))
		})

		It("filters the entries by search text", func() {
			_, body := get("/logs?search=" + "%3CB%3E")
			Expect(body["total"]).To(BeNumerically("==", 1))

			entry := body["entries"].([]interface{})[0].(map[string]interface{})
			Expect(entry["path"]).To(Equal("/api/user/<b>"))
		})

		It("applies the limit and offset", func() {
			_, body := get("/logs?limit=2&offset=1")

			Expect(body["total"]).To(BeNumerically("==", 4))
			Expect(body["limit"]).To(BeNumerically("==", 2))
			Expect(body["offset"]).To(BeNumerically("==", 1))

			entries := body["entries"].([]interface{})
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].(map[string]interface{})["path"]).To(Equal("/api/user/<c>"))
		})

		DescribeTable(
			"it uses the defaults for missing or invalid parameters",
			func(query string) {
				_, body := get("/logs" + query)
				Expect(body["limit"]).To(BeNumerically("==", 100))
				Expect(body["offset"]).To(BeNumerically("==", 0))
				Expect(body["entries"]).To(HaveLen(4))
			},
			Entry("absent", ""),
			Entry("empty", "?limit=&offset="),
			Entry("not numeric", "?limit=ten&offset=one"),
		)

		It("returns no entries for an unknown target", func() {
			_, body := get("/logs?target=http://unknown")

			Expect(body["total"]).To(BeNumerically("==", 0))
			Expect(body["entries"]).To(Equal([]interface{}{}))
		})

		It("does not escape HTML characters in the response", func() {
			writer := httptest.NewRecorder()
			router.ServeHTTP(writer, httptest.NewRequest(http.MethodGet, "/logs?search=%3Ca%3E", nil))

			Expect(writer.Body.String()).To(ContainSubstring(`"path":"/api/user/<a>"`))
		})
	})
})

var _ = Describe("Handler.View", func() {
	var router chi.Router

	BeforeEach(func() {
		router = chi.NewRouter()
	})

	view := func() *httptest.ResponseRecorder {
		writer := httptest.NewRecorder()
		router.ServeHTTP(writer, httptest.NewRequest(http.MethodGet, "/logs/view", nil))
		return writer
	}

	It("serves the log viewer page", func() {
		(&api.Handler{Store: failingStore{}}).Mount(router)

		writer := view()

		Expect(writer.Code).To(Equal(http.StatusOK))
		Expect(writer.Header().Get("Content-Type")).To(Equal("text/html; charset=utf-8"))
		Expect(writer.Body.String()).To(ContainSubstring("<title>Waggle Logs</title>"))
		Expect(writer.Body.String()).To(ContainSubstring("const pageSize = "))
		Expect(writer.Body.String()).ToNot(ContainSubstring("{{"))
	})

	It("renders a custom template", func() {
		(&api.Handler{
			Store:          failingStore{},
			ViewerTemplate: template.Must(template.New("").Parse(`{{.LogsPath}} {{.FilesPath}} {{.PageSize}}`)),
		}).Mount(router)

		Expect(view().Body.String()).To(Equal("/logs /logs/files 50"))
	})

	It("responds with a 500 error when the template fails", func() {
		(&api.Handler{
			Store:          failingStore{},
			ViewerTemplate: template.Must(template.New("").Parse(`{{.Missing}}`)),
		}).Mount(router)

		writer := view()
		Expect(writer.Code).To(Equal(http.StatusInternalServerError))
		Expect(writer.Body.String()).To(ContainSubstring(`"error":"Internal server error"`))
	})
})

type failingStore struct{}

func (failingStore) Streams() ([]logstore.StreamInfo, error) {
	return nil, errors.New("<permission denied>")
}

func (failingStore) Query(logstore.Query) logstore.ResultSet {
	return logstore.ResultSet{}
}
