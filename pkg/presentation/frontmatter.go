package presentation

import (
	"bytes"

	"gopkg.in/yaml.v3"

	apperrors "github.com/odvcencio/podium/pkg/errors"
)

const fence = "---"

// Meta is the deck metadata read from YAML front matter.
type Meta struct {
	Title  string         `yaml:"title"`
	Author string         `yaml:"author"`
	Date   string         `yaml:"date"`
	Styles map[string]any `yaml:"styles"`
}

// SplitFrontMatter separates a leading "---" fenced YAML block from the
// markdown body. Sources without a closed leading fence have no front
// matter and are returned whole.
func SplitFrontMatter(src []byte) (Meta, []byte, error) {
	var meta Meta
	first, rest, more := cutLine(src)
	if !more || string(bytes.TrimSpace(first)) != fence {
		return meta, src, nil
	}

	var header []byte
	body := rest
	for {
		line, next, more := cutLine(body)
		if string(bytes.TrimSpace(line)) == fence {
			header = rest[:len(rest)-len(body)]
			body = next
			break
		}
		if !more {
			return Meta{}, src, nil
		}
		body = next
	}

	if err := yaml.Unmarshal(header, &meta); err != nil {
		return Meta{}, nil, apperrors.Wrap(err, apperrors.ErrCodeConfigParse, "parse front matter").
			WithRemediation("front matter must be a YAML mapping between two --- lines")
	}
	return meta, body, nil
}

// cutLine splits off the first line of b, without its line ending.
func cutLine(b []byte) (line, rest []byte, more bool) {
	line, rest, more = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, more
}
