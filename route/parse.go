package route

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a route configuration document.
type Format int

const (
	// FormatJSON is a JSON array of {"pattern", "target"} objects.
	FormatJSON Format = iota

	// FormatYAML is a YAML sequence of mappings with "pattern" and "target"
	// keys.
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "YAML"
	}

	return "JSON"
}

type ruleDocument struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Target  string `json:"target" yaml:"target"`
}

// Parse decodes a route configuration document and compiles every rule in it.
//
// All invalid rules are reported in the returned error, not only the first.
func Parse(data []byte, format Format) (Table, error) {
	var docs []ruleDocument
	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &docs)
	default:
		err = json.Unmarshal(data, &docs)
	}

	if err != nil {
		return nil, fmt.Errorf("can not decode %s route configuration: %w", format, err)
	}

	if docs == nil {
		return nil, errors.New("route configuration is not a list of routes")
	}

	table := make(Table, 0, len(docs))

	for _, d := range docs {
		r, e := NewRule(d.Pattern, d.Target)
		if e != nil {
			err = multierr.Append(err, e)
			continue
		}

		table = append(table, r)
	}

	if err != nil {
		return nil, err
	}

	return table, nil
}
