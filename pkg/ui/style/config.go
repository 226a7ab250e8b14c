// Package style loads the slide style sheet and resolves named style rules
// from it.
package style

import (
	_ "embed"
	stderrors "errors"
	"fmt"
	"io"
	"maps"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	apperrors "github.com/odvcencio/podium/pkg/errors"
	"github.com/odvcencio/podium/pkg/ui/compositor"
)

//go:embed default_styles.yaml
var defaultStyles []byte

// Config is a read-only nested style mapping. Keys are always strings, so
// numeric YAML keys such as heading levels are addressed as "headings.2".
// A Config is never mutated after construction and is safe for concurrent
// reads.
type Config struct {
	root map[string]any
}

var defaultConfig = sync.OnceValue(func() *Config {
	cfg, err := Parse(defaultStyles)
	if err != nil {
		panic(fmt.Sprintf("style: embedded default style sheet: %v", err))
	}
	return cfg
})

// Default returns the built-in style sheet.
func Default() *Config {
	return defaultConfig()
}

// Parse decodes a YAML style sheet.
func Parse(data []byte) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigParse, "parse style sheet")
	}
	if raw == nil {
		return &Config{root: map[string]any{}}, nil
	}
	root, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrCodeConfigParse, "style sheet must be a mapping, got %T", raw)
	}
	return &Config{root: root}, nil
}

// Load reads a YAML style sheet from r.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigLoad, "read style sheet")
	}
	return Parse(data)
}

// LoadFile reads a YAML style sheet from path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigLoad, "read style sheet").
			WithContext("path", path).
			WithRemediation("check the --styles path")
	}
	cfg, err := Parse(data)
	if err != nil {
		if appErr, ok := apperrors.As(err); ok {
			appErr.WithContext("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// Merge deep-merges overrides on top of c and returns the result. Nested
// mappings are merged key by key; any other value replaces what was there.
// c itself is left untouched.
func (c *Config) Merge(overrides map[string]any) *Config {
	merged := deepCopy(c.root).(map[string]any)
	if overrides != nil {
		mergeInto(merged, normalize(overrides).(map[string]any))
	}
	return &Config{root: merged}
}

// MergeConfig deep-merges other on top of c.
func (c *Config) MergeConfig(other *Config) *Config {
	if other == nil {
		return c
	}
	return c.Merge(other.root)
}

// Lookup returns the value at a dotted key path.
func (c *Config) Lookup(path string) (any, bool) {
	if c == nil {
		return nil, false
	}
	current := any(c.root)
	for _, key := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		val, ok := m[key]
		if !ok {
			return nil, false
		}
		current = val
	}
	return current, true
}

// Validate parses every fg/bg attribute in the sheet and reports all
// failures together.
func (c *Config) Validate() error {
	var errs []error
	walk(c.root, "", func(path string, m map[string]any) {
		fg, hasFG := m["fg"]
		bg, hasBG := m["bg"]
		if !hasFG && !hasBG {
			return
		}
		if _, err := compositor.ParseAttr(scalar(fg), scalar(bg)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	})
	if err := stderrors.Join(errs...); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "invalid style attributes")
	}
	return nil
}

func walk(m map[string]any, prefix string, fn func(path string, m map[string]any)) {
	fn(prefix, m)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		child, ok := m[k].(map[string]any)
		if !ok {
			continue
		}
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		walk(child, path, fn)
	}
}

// normalize converts decoded YAML into maps keyed by strings.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := maps.Clone(t)
		for k, val := range out {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}

func mergeInto(dst, src map[string]any) {
	for k, val := range src {
		srcMap, srcIsMap := val.(map[string]any)
		dstMap, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			mergeInto(dstMap, srcMap)
			continue
		}
		dst[k] = deepCopy(val)
	}
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
