// Package exclude implements the exclusion filter applied to the walker's
// output. Rules are tested against the absolute path emitted by the walker.
package exclude

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dlclark/regexp2"
)

// Rule string prefixes. Anything without a prefix is a plain regex.
const (
	globPrefix    = "glob:"
	literalPrefix = "re:"
)

// Rule decides whether a path should be skipped.
type Rule interface {
	// Match reports whether path is excluded by this rule.
	Match(path string) bool
	// String returns the rule as it was configured.
	String() string
}

// RegexRule matches paths with an ECMAScript-compatible regular expression,
// so patterns copied from JavaScript build configs keep their meaning.
type RegexRule struct {
	source string
	re     *regexp2.Regexp
}

// NewRegexRule compiles pattern with the given regexp2 options.
func NewRegexRule(pattern string, opts regexp2.RegexOptions) (*RegexRule, error) {
	re, err := regexp2.Compile(pattern, opts|regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
	}
	return &RegexRule{source: pattern, re: re}, nil
}

// Match reports whether the expression finds a match anywhere in path.
func (r *RegexRule) Match(path string) bool {
	// Without a MatchTimeout regexp2 never returns an error.
	ok, _ := r.re.MatchString(path)
	return ok
}

func (r *RegexRule) String() string {
	return r.source
}

// GlobRule matches paths against a doublestar pattern ("**" spans
// directories). Paths are converted to forward slashes before matching.
type GlobRule struct {
	pattern string
}

// NewGlobRule validates pattern and returns a GlobRule.
func NewGlobRule(pattern string) (*GlobRule, error) {
	pattern = filepath.ToSlash(pattern)
	if pattern == "" || !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid exclude glob %q", pattern)
	}
	return &GlobRule{pattern: pattern}, nil
}

// Match reports whether the whole path matches the glob.
func (g *GlobRule) Match(path string) bool {
	// The pattern was validated at construction, so Match cannot fail.
	ok, _ := doublestar.Match(g.pattern, filepath.ToSlash(path))
	return ok
}

func (g *GlobRule) String() string {
	return globPrefix + g.pattern
}

// ParseRule builds a rule from its configuration string:
//
//	glob:<pattern>       doublestar glob over the whole absolute path
//	re:/<regex>/<flags>  JavaScript regex literal, flags among "i", "m", "s"
//	<regex>              regex searched anywhere in the path
//
// A string such as "/dist/ui" is always a plain regex, never a literal.
func ParseRule(s string) (Rule, error) {
	if s == "" {
		return nil, fmt.Errorf("empty exclude pattern")
	}

	if strings.HasPrefix(s, globPrefix) {
		return NewGlobRule(strings.TrimPrefix(s, globPrefix))
	}

	if strings.HasPrefix(s, literalPrefix) {
		pattern, flags, ok := splitLiteral(strings.TrimPrefix(s, literalPrefix))
		if !ok {
			return nil, fmt.Errorf("invalid exclude pattern %q: expected re:/<regex>/<flags>", s)
		}
		opts, err := literalOptions(flags)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", s, err)
		}
		rule, err := NewRegexRule(pattern, opts)
		if err != nil {
			return nil, err
		}
		rule.source = s
		return rule, nil
	}

	return NewRegexRule(s, regexp2.None)
}

// ParseRules parses every pattern, failing on the first invalid one.
func ParseRules(patterns []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(patterns))
	for _, p := range patterns {
		rule, err := ParseRule(p)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// splitLiteral splits "/body/flags" into its parts.
func splitLiteral(s string) (pattern, flags string, ok bool) {
	if len(s) < 2 || s[0] != '/' {
		return "", "", false
	}
	end := strings.LastIndex(s, "/")
	if end == 0 {
		return "", "", false
	}
	return s[1:end], s[end+1:], true
}

func literalOptions(flags string) (regexp2.RegexOptions, error) {
	opts := regexp2.None
	for _, f := range flags {
		var opt regexp2.RegexOptions
		switch f {
		case 'i':
			opt = regexp2.IgnoreCase
		case 'm':
			opt = regexp2.Multiline
		case 's':
			opt = regexp2.Singleline
		default:
			return opts, fmt.Errorf("unsupported flag %q", f)
		}
		if opts&opt != 0 {
			return opts, fmt.Errorf("repeated flag %q", f)
		}
		opts |= opt
	}
	return opts, nil
}
