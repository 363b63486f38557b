package route

import (
	"errors"
	"fmt"
	"regexp"
)

// Rule maps request paths that match Pattern to the upstream at Target.
type Rule struct {
	// Pattern is a regular expression tested against the request path,
	// including the query string. It is not anchored, so it matches if it
	// matches any part of the path.
	Pattern string `json:"pattern" yaml:"pattern"`

	// Target is the base URL of the upstream server. The request path is
	// appended to it verbatim.
	Target string `json:"target" yaml:"target"`

	expr *regexp.Regexp
}

// NewRule returns a rule with a compiled pattern.
func NewRule(pattern, target string) (Rule, error) {
	if pattern == "" {
		return Rule{}, errors.New("route pattern must not be empty")
	}

	if target == "" {
		return Rule{}, fmt.Errorf("route '%s' has no target", pattern)
	}

	expr, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("route '%s' is not a valid pattern: %w", pattern, err)
	}

	return Rule{
		Pattern: pattern,
		Target:  target,
		expr:    expr,
	}, nil
}

// Match returns true if the rule's pattern matches any part of path.
func (r Rule) Match(path string) bool {
	if r.expr == nil {
		return false
	}

	return r.expr.MatchString(path)
}
