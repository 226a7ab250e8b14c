package markdown

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/odvcencio/podium/pkg/ui/compositor"
	"github.com/odvcencio/podium/pkg/ui/style"
	"github.com/odvcencio/podium/pkg/ui/widgets"
)

const defaultCodeStyle = "monokai"

// Highlighter turns source code into styled text using a chroma style.
type Highlighter struct {
	style  *chroma.Style
	inline compositor.Style
}

// NewHighlighter returns a highlighter configured from the "code" rules of
// the style sheet: code.style names the chroma style, code.inline styles
// plain-mode runs.
func NewHighlighter(r *style.Resolver) *Highlighter {
	if r == nil {
		r = style.NewResolver(nil)
	}
	code := r.Resolve("code")
	return &Highlighter{
		style:  styles.Get(code.String("style", defaultCodeStyle)),
		inline: code.Sub("inline").Attr().Style(),
	}
}

// StyleName returns the name of the chroma style in use.
func (h *Highlighter) StyleName() string {
	return h.style.Name
}

// RenderText renders code as a text widget. An empty lang means "text".
// In plain mode no lexing happens and the whole run gets the inline code
// style; otherwise the code is tokenised and each token coloured by the
// chroma style, and the widget clips rather than wraps.
func (h *Highlighter) RenderText(code, lang string, plain bool) *widgets.Text {
	if plain {
		return widgets.NewStyledText(code, h.inline)
	}
	if lang == "" {
		lang = "text"
	}

	fill := h.background()
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iter, err := lexer.Tokenise(nil, code)
	if err != nil {
		return widgets.NewStyledText(code, fill).WithWrap(widgets.WrapClip).WithFill(fill)
	}

	var spans []widgets.Span
	for tok := iter(); tok != chroma.EOF; tok = iter() {
		if tok.Value == "" {
			continue
		}
		spans = appendSpan(spans, widgets.Span{
			Text:  tok.Value,
			Style: compositor.Merge(fill, entryStyle(h.style.Get(tok.Type))),
		})
	}
	if !strings.HasSuffix(code, "\n") {
		spans = trimNewline(spans)
	}
	return widgets.NewText(spans...).WithWrap(widgets.WrapClip).WithFill(fill)
}

// trimNewline drops the newline some lexers append to their input.
func trimNewline(spans []widgets.Span) []widgets.Span {
	n := len(spans)
	if n == 0 {
		return spans
	}
	spans[n-1].Text = strings.TrimSuffix(spans[n-1].Text, "\n")
	if spans[n-1].Text == "" {
		spans = spans[:n-1]
	}
	return spans
}

func (h *Highlighter) background() compositor.Style {
	return entryStyle(h.style.Get(chroma.Background))
}

func entryStyle(e chroma.StyleEntry) compositor.Style {
	s := compositor.DefaultStyle()
	if e.Colour.IsSet() {
		s = s.WithFG(compositor.RGB(e.Colour.Red(), e.Colour.Green(), e.Colour.Blue()))
	}
	if e.Background.IsSet() {
		s = s.WithBG(compositor.RGB(e.Background.Red(), e.Background.Green(), e.Background.Blue()))
	}
	return s.WithBold(e.Bold == chroma.Yes).
		WithItalic(e.Italic == chroma.Yes).
		WithUnderline(e.Underline == chroma.Yes)
}

func appendSpan(spans []widgets.Span, span widgets.Span) []widgets.Span {
	if n := len(spans); n > 0 && spans[n-1].Style.Equal(span.Style) {
		spans[n-1].Text += span.Text
		return spans
	}
	return append(spans, span)
}
