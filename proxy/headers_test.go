package proxy

import (
	"net/http"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("copyEndToEndHeaders", func() {
	DescribeTable(
		"it drops hop-by-hop headers",
		func(name string) {
			src := http.Header{}
			src.Set(name, "<value>")
			src.Set("X-Kept", "<kept>")

			dst := http.Header{}
			copyEndToEndHeaders(dst, src)

			Expect(dst).ToNot(HaveKey(name))
			Expect(dst.Get("X-Kept")).To(Equal("<kept>"))
		},
		Entry("Connection", "Connection"),
		Entry("Proxy-Connection", "Proxy-Connection"),
		Entry("Keep-Alive", "Keep-Alive"),
		Entry("Proxy-Authenticate", "Proxy-Authenticate"),
		Entry("Proxy-Authorization", "Proxy-Authorization"),
		Entry("Te", "Te"),
		Entry("Trailer", "Trailer"),
		Entry("Transfer-Encoding", "Transfer-Encoding"),
		Entry("Upgrade", "Upgrade"),
	)

	It("drops headers named by the Connection header", func() {
		src := http.Header{}
		src.Set("Connection", "close, x-private")
		src.Set("X-Private", "<value>")

		dst := http.Header{}
		copyEndToEndHeaders(dst, src)

		Expect(dst).To(BeEmpty())
	})

	It("copies every value of multi-value headers", func() {
		src := http.Header{}
		src.Add("Accept", "text/html")
		src.Add("Accept", "application/json")

		dst := http.Header{}
		copyEndToEndHeaders(dst, src)

		Expect(dst["Accept"]).To(Equal([]string{"text/html", "application/json"}))

		src["Accept"][0] = "<changed>"
		Expect(dst["Accept"][0]).To(Equal("text/html"))
	})
})

var _ = Describe("flattenHeaders", func() {
	It("joins multiple values with commas", func() {
		h := http.Header{}
		h.Add("Accept", "text/html")
		h.Add("Accept", "application/json")
		h.Set("X-Single", "one")

		Expect(flattenHeaders(h)).To(Equal(map[string]string{
			"Accept":   "text/html, application/json",
			"X-Single": "one",
		}))
	})
})

var _ = Describe("requestPath", func() {
	DescribeTable(
		"it returns the escaped path and query",
		func(uri, expected string) {
			request, err := http.NewRequest(http.MethodGet, uri, nil)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(requestPath(request.URL)).To(Equal(expected))
		},
		Entry("no query", "http://host/api/user/1", "/api/user/1"),
		Entry("query", "http://host/api/user/1?a=b", "/api/user/1?a=b"),
		Entry("empty query", "http://host/api/user/1?", "/api/user/1"),
		Entry("escaped path", "http://host/a%20b/c%2Fd", "/a%20b/c%2Fd"),
	)
})
