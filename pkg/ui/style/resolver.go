package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/odvcencio/podium/pkg/ui/compositor"
)

// DefaultKey is the fallback entry consulted when a depth-specific key is
// missing.
const DefaultKey = "default"

// Resolver looks up named style rules in a Config.
type Resolver struct {
	cfg *Config
}

// NewResolver creates a resolver over cfg. A nil cfg resolves against the
// built-in defaults.
func NewResolver(cfg *Config) *Resolver {
	if cfg == nil {
		cfg = Default()
	}
	return &Resolver{cfg: cfg}
}

// Config returns the underlying configuration.
func (r *Resolver) Config() *Config {
	return r.cfg
}

// Resolve returns the rule at a dotted key path. A missing rule yields a
// Spec whose Found reports false.
func (r *Resolver) Resolve(path string) Spec {
	val, ok := r.cfg.Lookup(path)
	return Spec{path: path, value: val, found: ok}
}

// ResolveDefault resolves path, falling back to the sibling entry named
// fallbackKey when path is absent: ResolveDefault("headings.5", "default")
// returns "headings.default" if there is no level-5 heading style.
func (r *Resolver) ResolveDefault(path, fallbackKey string) Spec {
	if spec := r.Resolve(path); spec.found {
		return spec
	}
	parent := ""
	if i := strings.LastIndex(path, "."); i >= 0 {
		parent = path[:i+1]
	}
	return r.Resolve(parent + fallbackKey)
}

// Spec is a resolved style rule. It is a read-only view: none of its
// methods expose the underlying configuration for mutation.
type Spec struct {
	path  string
	value any
	found bool
}

// Found reports whether the rule exists.
func (s Spec) Found() bool {
	return s.found
}

// Path returns the key path the rule was resolved from.
func (s Spec) Path() string {
	return s.path
}

// Value returns a scalar rule (a bullet glyph, a numbering scheme name) as
// a string. Mappings yield "".
func (s Spec) Value() string {
	return scalar(s.value)
}

// Sub resolves key below this rule.
func (s Spec) Sub(key string) Spec {
	m, ok := s.value.(map[string]any)
	if !ok {
		return Spec{path: s.path + "." + key}
	}
	val, ok := m[key]
	return Spec{path: s.path + "." + key, value: val, found: ok}
}

// String returns the scalar at key, or fallback when it is missing.
func (s Spec) String(key, fallback string) string {
	sub := s.Sub(key)
	if !sub.found {
		return fallback
	}
	return sub.Value()
}

// Int returns the integer at key, or fallback when it is missing or not a
// number.
func (s Spec) Int(key string, fallback int) int {
	sub := s.Sub(key)
	if !sub.found {
		return fallback
	}
	switch v := sub.value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

// Attr returns the rule's fg/bg pair.
func (s Spec) Attr() Attr {
	return Attr{FG: s.String("fg", ""), BG: s.String("bg", "")}
}

// Attr is an attribute pair in the style sheet notation: comma separated
// color and effect names, e.g. FG "bold,#ff0", BG "dark blue".
type Attr struct {
	FG string
	BG string
}

// IsZero reports whether neither half is set.
func (a Attr) IsZero() bool {
	return a.FG == "" && a.BG == ""
}

// Style converts the pair to a concrete style. Unparseable items are
// ignored here; Config.Validate reports them.
func (a Attr) Style() compositor.Style {
	style, _ := compositor.ParseAttr(a.FG, a.BG)
	return style
}

// String renders the pair for logs.
func (a Attr) String() string {
	return fmt.Sprintf("fg=%q bg=%q", a.FG, a.BG)
}
