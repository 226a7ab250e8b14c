package markdown

import (
	"strings"

	"github.com/odvcencio/podium/pkg/ui/style"
)

// Effect names understood by the style sheet attribute parser.
const (
	EffectItalics       = "italics"
	EffectUnderline     = "underline"
	EffectStrikethrough = "strikethrough"
)

type styleFrame struct {
	attr   style.Attr
	parent *styleFrame
	size   int
}

// Context is the per-traversal render state: the active style stack and
// the list nesting depth. It is an immutable value; every With* method
// returns a derived Context and leaves the receiver as it was, so a
// handler's caller always resumes with exactly the state it passed down.
type Context struct {
	styles *styleFrame
	depth  int
}

// NewContext returns an empty context: no active style, depth zero.
func NewContext() Context {
	return Context{}
}

// Style returns the active style, or the zero Attr when none is set.
func (c Context) Style() style.Attr {
	if c.styles == nil {
		return style.Attr{}
	}
	return c.styles.attr
}

// StyleDepth returns the number of styles on the stack.
func (c Context) StyleDepth() int {
	if c.styles == nil {
		return 0
	}
	return c.styles.size
}

// Depth returns the list nesting depth; zero outside any list.
func (c Context) Depth() int {
	return c.depth
}

// WithStyle pushes attr as the active style.
func (c Context) WithStyle(attr style.Attr) Context {
	c.styles = &styleFrame{attr: attr, parent: c.styles, size: c.StyleDepth() + 1}
	return c
}

// WithEffect pushes the active style with effect appended to its
// foreground, so nested effects accumulate: strikethrough inside emphasis
// inside a heading renders as "<heading fg>,italics,strikethrough".
func (c Context) WithEffect(effect string) Context {
	active := c.Style()
	fg := strings.TrimSpace(active.FG)
	if fg == "" {
		fg = "default"
	}
	return c.WithStyle(style.Attr{FG: fg + "," + effect, BG: active.BG})
}

// ClearStyles drops every active style.
func (c Context) ClearStyles() Context {
	c.styles = nil
	return c
}

// Nested returns a context one list level deeper.
func (c Context) Nested() Context {
	c.depth++
	return c
}
