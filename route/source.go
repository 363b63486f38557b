package route

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-redis/redis/v8"
)

// Source is a location that a route configuration document can be read from.
type Source interface {
	// Read returns the raw configuration document and its format.
	Read(ctx context.Context) ([]byte, Format, error)

	// String returns a human-readable description of the source, for logging.
	String() string
}

// FileSource reads routes from a file on disk.
//
// Files with a ".yaml" or ".yml" extension are decoded as YAML, all others as
// JSON.
type FileSource struct {
	Path string
}

// Read returns the content of the file.
func (s *FileSource) Read(context.Context) ([]byte, Format, error) {
	format := FormatJSON

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}

	data, err := os.ReadFile(s.Path)
	return data, format, err
}

func (s *FileSource) String() string {
	return "file " + s.Path
}

// RedisSource reads routes from a JSON document stored in a Redis string key.
type RedisSource struct {
	Client *redis.Client
	Key    string
}

// Read returns the value stored at the source's key.
func (s *RedisSource) Read(ctx context.Context) ([]byte, Format, error) {
	data, err := s.Client.Get(ctx, s.Key).Bytes()
	return data, FormatJSON, err
}

func (s *RedisSource) String() string {
	return "redis key " + s.Key
}
