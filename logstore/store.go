package logstore

import (
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
)

// DefaultStream is the name of the stream that receives entries that are not
// associated with any target.
const DefaultStream = "proxy.log"

// streamSuffix is the file extension shared by all log streams.
const streamSuffix = ".log"

var unsafeStreamChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// StreamName returns the name of the file that holds the entries for target.
func StreamName(target string) string {
	if target == "" {
		return DefaultStream
	}

	return unsafeStreamChars.ReplaceAllString(target, "_") + streamSuffix
}

// StreamInfo describes a log stream on disk.
type StreamInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Store persists log entries as newline-delimited JSON, one file per target.
//
// Appends to the same stream are serialized, so concurrent writers never
// interleave partial lines.
type Store struct {
	Dir    string
	Logger *log.Logger

	mutex   sync.Mutex
	streams map[string]*sync.Mutex
}

// Append writes e to the stream for target, or to the default stream if target
// is empty. The log directory is created if it does not already exist.
func (s *Store) Append(e Entry, target string) (err error) {
	line, err := e.MarshalJSON()
	if err != nil {
		return err
	}
	line = append(line, '\n')

	name := StreamName(target)
	m := s.streamMutex(name)
	m.Lock()
	defer m.Unlock()

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(
		filepath.Join(s.Dir, name),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	_, err = f.Write(line)
	return err
}

// Streams returns information about every log stream in the log directory.
//
// If the log directory does not exist yet, there are no streams.
func (s *Store) Streams() ([]StreamInfo, error) {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return []StreamInfo{}, nil
	} else if err != nil {
		return nil, err
	}

	streams := []StreamInfo{}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), streamSuffix) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			s.logf("Unable to read log stream %s: %s", e.Name(), err)
			continue
		}

		streams = append(streams, StreamInfo{
			Name:     e.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().UTC(),
		})
	}

	return streams, nil
}

func (s *Store) streamMutex(name string) *sync.Mutex {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.streams == nil {
		s.streams = map[string]*sync.Mutex{}
	}

	m, ok := s.streams[name]
	if !ok {
		m = &sync.Mutex{}
		s.streams[name] = m
	}

	return m
}

func (s *Store) logf(format string, v ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, v...)
	}
}
