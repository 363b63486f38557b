package route_test

import (
	"github.com/icecave/waggle/route"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Table", func() {
	var subject route.Table

	BeforeEach(func() {
		subject = route.Table{}.
			With("/foo/.*", "http://foo:8080").
			With("/bar", "http://bar1:8080").
			With("/bar", "http://bar2:8080")
	})

	Describe("Match", func() {
		It("matches the rules", func() {
			r, ok := subject.Match("/foo/1")
			Expect(ok).To(BeTrue())
			Expect(r.Target).To(Equal("http://foo:8080"))
		})

		It("matches the rules in order", func() {
			r, ok := subject.Match("/bar")
			Expect(ok).To(BeTrue())
			Expect(r.Target).To(Equal("http://bar1:8080"))
		})

		It("returns false if none of the rules match", func() {
			_, ok := subject.Match("/unknown")
			Expect(ok).To(BeFalse())
		})

		DescribeTable(
			"it does not anchor patterns",
			func(path string, expected bool) {
				_, ok := subject.Match(path)
				Expect(ok).To(Equal(expected))
			},
			Entry("prefix", "/prefix/bar", true),
			Entry("suffix", "/barn", true),
			Entry("query string", "/search?q=/bar", true),
			Entry("no match", "/ba", false),
		)

		It("matches against the query string", func() {
			subject = route.Table{}.With(`\?debug=1`, "http://debug:8080")

			r, ok := subject.Match("/anything?debug=1")
			Expect(ok).To(BeTrue())
			Expect(r.Target).To(Equal("http://debug:8080"))

			_, ok = subject.Match("/anything")
			Expect(ok).To(BeFalse())
		})

		It("never matches in an empty table", func() {
			_, ok := route.Table{}.Match("/")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("With", func() {
		It("panics if the pattern is invalid", func() {
			Expect(func() {
				subject.With("(", "http://foo")
			}).To(Panic())
		})

		It("does not modify the original table", func() {
			extended := subject.With("/baz", "http://baz:8080")
			Expect(extended).To(HaveLen(4))
			Expect(subject).To(HaveLen(3))
		})
	})

	Describe("DefaultTable", func() {
		DescribeTable(
			"it routes to the default targets",
			func(path, target string) {
				r, ok := route.DefaultTable().Match(path)
				Expect(ok).To(BeTrue())
				Expect(r.Target).To(Equal(target))
			},
			Entry("users", "/api/user/42", "http://localhost:3001"),
			Entry("orders", "/api/order/7", "http://localhost:3002"),
		)

		It("does not route other paths", func() {
			_, ok := route.DefaultTable().Match("/unmapped/path")
			Expect(ok).To(BeFalse())
		})
	})
})
