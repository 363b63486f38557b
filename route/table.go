package route

// Table is an ordered list of routing rules.
//
// A table is never modified after it is built, so it is safe to share between
// goroutines without locking.
type Table []Rule

// DefaultTable returns the rules used when no route configuration could be
// loaded.
func DefaultTable() Table {
	return Table{}.
		With("/api/user/.*", "http://localhost:3001").
		With("/api/order/.*", "http://localhost:3002")
}

// Match returns the first rule in the table whose pattern matches path.
// path is the request path including the query string.
func (t Table) Match(path string) (Rule, bool) {
	for _, r := range t {
		if r.Match(path) {
			return r, true
		}
	}

	return Rule{}, false
}

// With returns a new table that includes the given rule after all existing
// rules. It panics if the pattern is invalid.
func (t Table) With(pattern, target string) Table {
	r, err := NewRule(pattern, target)
	if err != nil {
		panic(err)
	}

	o := make(Table, len(t), len(t)+1)
	copy(o, t)

	return append(o, r)
}
