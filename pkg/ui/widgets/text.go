package widgets

import (
	"slices"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/podium/pkg/ui/compositor"
	"github.com/odvcencio/podium/pkg/ui/runtime"
)

const tabWidth = 4

// Link is hyperlink metadata attached to a run of text.
type Link struct {
	Text  string
	URL   string
	Title string
}

// Span is a run of text sharing one style.
type Span struct {
	Text  string
	Style compositor.Style
	Link  *Link
}

// Wrap selects how text that is wider than its bounds is broken.
type Wrap int

const (
	WrapSpace Wrap = iota // break between words
	WrapAny               // break at any cell
	WrapClip              // never break, clip at the right edge
)

// Align specifies horizontal alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Text displays styled spans, wrapping them to the width it is given.
type Text struct {
	Base
	spans []Span
	wrap  Wrap
	align Align
	fill  compositor.Style
}

// NewText creates a text widget from spans.
func NewText(spans ...Span) *Text {
	return &Text{spans: slices.Clone(spans)}
}

// NewStyledText creates a text widget holding a single span.
func NewStyledText(text string, style compositor.Style) *Text {
	return NewText(Span{Text: text, Style: style})
}

// JoinText concatenates the spans of several texts into one widget. Wrap,
// alignment and fill are taken from the first text.
func JoinText(texts ...*Text) *Text {
	joined := &Text{}
	for i, t := range texts {
		if t == nil {
			continue
		}
		if i == 0 {
			joined.wrap, joined.align, joined.fill = t.wrap, t.align, t.fill
		}
		joined.spans = append(joined.spans, t.spans...)
	}
	return joined
}

// WithWrap sets the wrap mode and returns the widget for chaining.
func (t *Text) WithWrap(w Wrap) *Text {
	t.wrap = w
	return t
}

// WithAlign sets the alignment and returns the widget for chaining.
func (t *Text) WithAlign(a Align) *Text {
	t.align = a
	return t
}

// WithFill sets a style painted under every cell of the widget.
func (t *Text) WithFill(style compositor.Style) *Text {
	t.fill = style
	return t
}

// Spans returns a copy of the text's spans.
func (t *Text) Spans() []Span {
	return slices.Clone(t.spans)
}

// PlainText returns the unstyled content.
func (t *Text) PlainText() string {
	var sb strings.Builder
	for _, span := range t.spans {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

// Links returns the distinct links carried by the spans, in order.
func (t *Text) Links() []Link {
	var links []Link
	for _, span := range t.spans {
		if span.Link == nil || slices.Contains(links, *span.Link) {
			continue
		}
		links = append(links, *span.Link)
	}
	return links
}

// Prepend inserts spans before the existing content.
func (t *Text) Prepend(spans ...Span) {
	t.spans = append(slices.Clone(spans), t.spans...)
}

// Append adds spans after the existing content.
func (t *Text) Append(spans ...Span) {
	t.spans = append(t.spans, spans...)
}

// SetLink attaches link to every span.
func (t *Text) SetLink(link Link) {
	for i := range t.spans {
		t.spans[i].Link = &link
	}
}

// Measure returns the size of the text wrapped to the maximum width.
func (t *Text) Measure(constraints runtime.Constraints) runtime.Size {
	lines := t.wrapLines(constraints.MaxWidth)
	width := 0
	for _, line := range lines {
		width = max(width, lineWidth(line))
	}
	return constraints.Constrain(runtime.Size{Width: width, Height: max(1, len(lines))})
}

// Render draws the wrapped text into its bounds.
func (t *Text) Render(ctx runtime.RenderContext) {
	bounds := t.bounds
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}

	lines := t.wrapLines(bounds.Width)
	maxX := bounds.X + bounds.Width
	for i := 0; i < bounds.Height; i++ {
		y := bounds.Y + i
		if !t.fill.Plain() {
			ctx.Buffer.Fill(runtime.Rect{X: bounds.X, Y: y, Width: bounds.Width, Height: 1}, ' ', t.fill)
		}
		if i >= len(lines) {
			continue
		}
		x := bounds.X + t.offset(lineWidth(lines[i]), bounds.Width)
		for _, g := range lines[i] {
			next := ctx.Buffer.SetString(x, y, string(g.r), compositor.Merge(t.fill, g.style), maxX)
			if next == x {
				break
			}
			x = next
		}
	}
}

// HandleMessage turns a left click on a linked cell into an OpenLink command.
func (t *Text) HandleMessage(msg runtime.Message) runtime.HandleResult {
	mouse, ok := msg.(runtime.MouseMsg)
	if !ok || mouse.Button != runtime.MouseLeft || mouse.Action != runtime.MousePress {
		return runtime.Unhandled()
	}
	if !t.bounds.Contains(mouse.X, mouse.Y) {
		return runtime.Unhandled()
	}

	lines := t.wrapLines(t.bounds.Width)
	row := mouse.Y - t.bounds.Y
	if row >= len(lines) {
		return runtime.Unhandled()
	}
	x := t.bounds.X + t.offset(lineWidth(lines[row]), t.bounds.Width)
	for _, g := range lines[row] {
		if mouse.X >= x && mouse.X < x+g.width {
			if g.link == nil {
				return runtime.Unhandled()
			}
			return runtime.WithCommand(runtime.OpenLink{Text: g.link.Text, URL: g.link.URL})
		}
		x += g.width
	}
	return runtime.Unhandled()
}

func (t *Text) offset(width, avail int) int {
	switch t.align {
	case AlignCenter:
		return max(0, (avail-width)/2)
	case AlignRight:
		return max(0, avail-width)
	default:
		return 0
	}
}

type glyph struct {
	r     rune
	width int
	style compositor.Style
	link  *Link
}

// hardLines splits the spans into glyph rows at explicit newlines.
func (t *Text) hardLines() [][]glyph {
	lines := [][]glyph{nil}
	for _, span := range t.spans {
		for _, r := range span.Text {
			last := len(lines) - 1
			switch r {
			case '\n':
				lines = append(lines, nil)
				continue
			case '\r':
				continue
			case '\t':
				for range tabWidth {
					lines[last] = append(lines[last], glyph{r: ' ', width: 1, style: span.Style, link: span.Link})
				}
				continue
			}
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			lines[last] = append(lines[last], glyph{r: r, width: w, style: span.Style, link: span.Link})
		}
	}
	return lines
}

func (t *Text) wrapLines(width int) [][]glyph {
	hard := t.hardLines()
	if t.wrap == WrapClip || width <= 0 {
		return hard
	}

	var out [][]glyph
	for _, line := range hard {
		if t.wrap == WrapAny {
			out = append(out, breakAny(line, width)...)
			continue
		}
		out = append(out, wrapWords(line, width)...)
	}
	return out
}

func breakAny(line []glyph, width int) [][]glyph {
	if len(line) == 0 {
		return [][]glyph{nil}
	}
	var out [][]glyph
	var cur []glyph
	cw := 0
	for _, g := range line {
		if cw > 0 && cw+g.width > width {
			out = append(out, cur)
			cur, cw = nil, 0
		}
		cur = append(cur, g)
		cw += g.width
	}
	return append(out, cur)
}

func wrapWords(line []glyph, width int) [][]glyph {
	if lineWidth(line) <= width {
		return [][]glyph{line}
	}

	var out [][]glyph
	var cur []glyph
	cw := 0
	for _, word := range splitWords(line) {
		ww := lineWidth(word)
		if unicode.IsSpace(word[0].r) {
			// Spaces never start a continuation line.
			if cw == 0 && len(out) > 0 {
				continue
			}
			cur = append(cur, word...)
			cw += ww
			continue
		}
		if cw+ww <= width {
			cur = append(cur, word...)
			cw += ww
			continue
		}
		if cw > 0 {
			out = append(out, trimSpace(cur))
			cur, cw = nil, 0
		}
		if ww > width {
			pieces := breakAny(word, width)
			out = append(out, pieces[:len(pieces)-1]...)
			word = pieces[len(pieces)-1]
			ww = lineWidth(word)
		}
		cur = append(cur, word...)
		cw = ww
	}
	return append(out, trimSpace(cur))
}

// splitWords groups a line into alternating runs of spaces and non-spaces.
func splitWords(line []glyph) [][]glyph {
	var words [][]glyph
	start := 0
	for i := 1; i <= len(line); i++ {
		if i == len(line) || unicode.IsSpace(line[i].r) != unicode.IsSpace(line[start].r) {
			words = append(words, line[start:i])
			start = i
		}
	}
	return words
}

func trimSpace(line []glyph) []glyph {
	end := len(line)
	for end > 0 && unicode.IsSpace(line[end-1].r) {
		end--
	}
	return line[:end]
}

func lineWidth(line []glyph) int {
	w := 0
	for _, g := range line {
		w += g.width
	}
	return w
}
