package logstore

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
)

const (
	// DefaultLimit is the maximum number of entries returned by a query when
	// no limit is given.
	DefaultLimit = 100

	// DefaultOffset is the number of entries skipped by a query when no offset
	// is given.
	DefaultOffset = 0
)

// epoch is the timestamp used to sort entries that have no valid timestamp.
var epoch = time.Unix(0, 0).UTC()

// Query describes a search of the log streams.
type Query struct {
	// Target restricts the search to a single stream. It may be either the
	// target URL or the stream's base name. If empty, all streams are searched.
	Target string

	// Search, if non-empty, keeps only entries whose serialized record
	// contains it, ignoring case.
	Search string

	// Limit is the maximum number of entries to return. A negative value
	// means DefaultLimit.
	Limit int

	// Offset is the number of matching entries to skip. A negative value
	// means DefaultOffset.
	Offset int
}

// Result is a single entry returned by a query.
type Result struct {
	Kind      Kind
	File      string
	Timestamp time.Time
	Record    json.RawMessage
}

// Entry decodes the typed log entry.
func (r Result) Entry() (Entry, error) {
	var e Entry
	err := e.decode(r.Kind, r.Record)
	return e, err
}

// MarshalJSON encodes the result as the fields of the record plus a "_file"
// field naming the stream that it was read from.
func (r Result) MarshalJSON() ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(r.Record, &fields); err != nil {
		return nil, err
	}

	file, err := marshal(r.File)
	if err != nil {
		return nil, err
	}
	fields["_file"] = file

	return marshal(fields)
}

// ResultSet is a window of the entries matched by a query, newest first.
type ResultSet struct {
	Entries []Result `json:"entries"`
	Total   int      `json:"total"`
	Offset  int      `json:"offset"`
	Limit   int      `json:"limit"`
}

// Query returns the entries that match q.
//
// Queries never fail. Files that can not be read and lines that can not be
// parsed are skipped.
func (s *Store) Query(q Query) ResultSet {
	if q.Limit < 0 {
		q.Limit = DefaultLimit
	}

	if q.Offset < 0 {
		q.Offset = DefaultOffset
	}

	search := strings.ToLower(q.Search)
	results := []Result{}

	for _, name := range s.candidates(q.Target) {
		results = s.readStream(name, search, results)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})

	total := len(results)
	start := q.Offset
	if start > total {
		start = total
	}

	end := total
	if q.Limit < total-start {
		end = start + q.Limit
	}

	return ResultSet{
		Entries: results[start:end],
		Total:   total,
		Offset:  q.Offset,
		Limit:   q.Limit,
	}
}

// candidates returns the names of the streams to search for target.
func (s *Store) candidates(target string) []string {
	if target == "" {
		streams, err := s.Streams()
		if err != nil {
			s.logf("Unable to list log streams: %s", err)
			return nil
		}

		names := make([]string, len(streams))
		for i, st := range streams {
			names[i] = st.Name
		}

		return names
	}

	name := StreamName(target)
	p, err := securejoin.SecureJoin(s.Dir, name)
	if err != nil {
		return nil
	}

	if info, err := os.Stat(p); err != nil || !info.Mode().IsRegular() {
		return nil
	}

	return []string{filepath.Base(p)}
}

// readStream appends the matching entries from the named stream to results.
func (s *Store) readStream(name, search string, results []Result) []Result {
	f, err := os.Open(filepath.Join(s.Dir, name))
	if err != nil {
		s.logf("Unable to read log stream %s: %s", name, err)
		return results
	}
	defer f.Close()

	r := bufio.NewReader(f)

	for {
		line, err := r.ReadBytes('\n')

		if res, ok := parseLine(line, name); ok {
			if search == "" || bytes.Contains(bytes.ToLower(res.Record), []byte(search)) {
				results = append(results, res)
			}
		}

		if err == io.EOF {
			return results
		} else if err != nil {
			s.logf("Unable to read log stream %s: %s", name, err)
			return results
		}
	}
}

// parseLine parses a single line of a log stream. It returns false if the line
// is not a valid entry.
func parseLine(line []byte, file string) (Result, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return Result{}, false
	}

	var wrapper map[Kind]json.RawMessage
	if err := json.Unmarshal(line, &wrapper); err != nil || len(wrapper) != 1 {
		return Result{}, false
	}

	for k, raw := range wrapper {
		var fields struct {
			Timestamp interface{} `json:"timestamp"`
		}

		// Only objects can be unwrapped into a record.
		if len(raw) == 0 || raw[0] != '{' || json.Unmarshal(raw, &fields) != nil {
			return Result{}, false
		}

		var record bytes.Buffer
		if err := json.Compact(&record, raw); err != nil {
			return Result{}, false
		}

		return Result{
			Kind:      k,
			File:      file,
			Timestamp: parseTimestamp(fields.Timestamp),
			Record:    record.Bytes(),
		}, true
	}

	return Result{}, false
}

// parseTimestamp converts a timestamp field into a time. Missing and
// unparseable timestamps are treated as the Unix epoch.
func parseTimestamp(v interface{}) time.Time {
	switch t := v.(type) {
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return ts
		}
	case float64:
		return time.Unix(0, int64(t*float64(time.Millisecond))).UTC()
	}

	return epoch
}
