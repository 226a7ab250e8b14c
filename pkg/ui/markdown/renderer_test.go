package markdown

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/odvcencio/podium/pkg/errors"
	"github.com/odvcencio/podium/pkg/telemetry"
	"github.com/odvcencio/podium/pkg/token"
	"github.com/odvcencio/podium/pkg/ui/compositor"
	"github.com/odvcencio/podium/pkg/ui/runtime"
	"github.com/odvcencio/podium/pkg/ui/style"
	"github.com/odvcencio/podium/pkg/ui/widgets"
)

// capture records the context each text token is rendered under.
type capture struct {
	styles map[string]style.Attr
	depths map[string]int
}

func newCapture() *capture {
	return &capture{styles: map[string]style.Attr{}, depths: map[string]int{}}
}

func (c *capture) handler(_ *Renderer, tok *token.Token, ctx Context) ([]runtime.Widget, error) {
	c.styles[tok.Raw] = ctx.Style()
	c.depths[tok.Raw] = ctx.Depth()
	return []runtime.Widget{widgets.NewStyledText(tok.Raw, ctx.Style().Style())}, nil
}

func render(t *testing.T, r *Renderer, tokens ...*token.Token) []runtime.Widget {
	t.Helper()
	units, err := r.Render(context.Background(), tokens)
	require.NoError(t, err)
	return units
}

func heading(level int, children ...*token.Token) *token.Token {
	tok := token.New(token.KindHeading, children...)
	tok.Attrs.Level = level
	return tok
}

func list(ordered bool, items ...*token.Token) *token.Token {
	tok := token.New(token.KindList, items...)
	tok.Attrs.Ordered = ordered
	if ordered {
		tok.Attrs.Bullet = "."
	}
	return tok
}

func item(children ...*token.Token) *token.Token {
	return token.New(token.KindListItem, children...)
}

func blockText(raw string) *token.Token {
	return token.New(token.KindBlockText, token.Text(raw))
}

func link(url string, children ...*token.Token) *token.Token {
	tok := token.New(token.KindLink, children...)
	tok.Attrs.URL = url
	return tok
}

func TestRender_EffectStackRestored(t *testing.T) {
	c := newCapture()
	r := NewRenderer(WithHandler(token.KindText, c.handler))

	// **a *b* c** d
	render(t, r,
		token.New(token.KindStrong,
			token.Text("a"),
			token.New(token.KindEmphasis, token.Text("b")),
			token.Text("c"),
		),
		token.Text("d"),
	)

	assert.Equal(t, "default,underline", c.styles["a"].FG)
	assert.Equal(t, "default,underline,italics", c.styles["b"].FG)
	assert.Equal(t, "default,underline", c.styles["c"].FG, "style restored after emphasis")
	assert.True(t, c.styles["d"].IsZero(), "style restored after strong")
}

func TestRender_EffectsStyleSpans(t *testing.T) {
	r := NewRenderer()
	units := render(t, r,
		token.New(token.KindStrikethrough, token.New(token.KindEmphasis, token.Text("x"))),
	)

	require.Len(t, units, 1)
	span := units[0].(*widgets.Text).Spans()[0]
	assert.True(t, span.Style.Italic)
	assert.True(t, span.Style.Strikethrough)
	assert.False(t, span.Style.Underline)
}

func TestRender_HeadingThenParagraph(t *testing.T) {
	r := NewRenderer()
	units := render(t, r,
		heading(2, token.Text("Hi")),
		token.New(token.KindParagraph, token.Text("world")),
	)

	require.Len(t, units, 6)
	for _, i := range []int{0, 2, 3, 5} {
		assert.True(t, widgets.IsSpacer(units[i]), "unit %d should be a spacer", i)
	}

	title := units[1].(*widgets.Text)
	assert.Equal(t, "▓▓▓ Hi", title.PlainText())
	want := style.Attr{FG: "#1cc,bold", BG: "default"}.Style()
	for _, span := range title.Spans() {
		assert.Equal(t, want, span.Style)
	}

	body := units[4].(*widgets.Text)
	assert.Equal(t, "world", body.PlainText())
	assert.Equal(t, compositor.DefaultStyle(), body.Spans()[0].Style)
}

func TestRender_HeadingFallsBackToDefaultLevel(t *testing.T) {
	r := NewRenderer()
	units := render(t, r, heading(6, token.Text("deep")))

	require.Len(t, units, 3)
	assert.Equal(t, "░░░░░ deep", units[1].(*widgets.Text).PlainText())
}

func TestRender_HeadingSuffixEndsHeading(t *testing.T) {
	cfg := style.Default().Merge(map[string]any{
		"headings": map[string]any{"2": map[string]any{"prefix": "<", "suffix": ">"}},
	})
	r := NewRenderer(
		WithStyles(cfg),
		WithHandler("badge", func(*Renderer, *token.Token, Context) ([]runtime.Widget, error) {
			return []runtime.Widget{widgets.NewDivider("*", compositor.DefaultStyle(), 0, 0)}, nil
		}),
	)

	units := render(t, r, heading(2, token.Text("a"), token.New("badge"), token.Text("b")))

	require.Len(t, units, 5)
	assert.Equal(t, "<a", units[1].(*widgets.Text).PlainText())
	assert.Equal(t, "b>", units[3].(*widgets.Text).PlainText())
}

func TestRender_HeadingStyleDoesNotLeak(t *testing.T) {
	c := newCapture()
	r := NewRenderer(
		WithHandler(token.KindText, c.handler),
		WithHandler("callout", func(r *Renderer, tok *token.Token, ctx Context) ([]runtime.Widget, error) {
			return r.RenderChildren(tok, ctx.WithStyle(style.Attr{FG: "red"}))
		}),
	)

	render(t, r,
		token.New("callout",
			heading(1, token.New(token.KindEmphasis, token.Text("title"))),
			token.Text("after"),
		),
		token.Text("outside"),
	)

	assert.Equal(t, "#9fc,bold,italics", c.styles["title"].FG, "heading replaces the surrounding style")
	assert.Equal(t, "red", c.styles["after"].FG, "siblings keep the enclosing style")
	assert.True(t, c.styles["outside"].IsZero())
}

func TestRender_UnknownTokenFails(t *testing.T) {
	r := NewRenderer()

	units, err := r.Render(context.Background(), []*token.Token{
		token.New(token.KindParagraph, token.Text("ok")),
		token.New("footnote", token.Text("1")),
	})

	require.Error(t, err)
	assert.Nil(t, units)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUnknownToken))
	assert.Contains(t, err.Error(), "footnote")
}

func TestRender_MissingResultFails(t *testing.T) {
	r := NewRenderer(WithHandler(token.KindText, func(*Renderer, *token.Token, Context) ([]runtime.Widget, error) {
		return nil, nil
	}))

	_, err := r.Render(context.Background(), []*token.Token{
		token.New(token.KindParagraph, token.Text("x")),
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMissingResult))
}

func TestRender_DegeneratePaths(t *testing.T) {
	r := NewRenderer()
	units := render(t, r,
		&token.Token{Type: token.KindBlockError},
		&token.Token{Type: token.KindBlockHTML, Raw: "<div>hi</div>"},
	)

	require.Len(t, units, 1)
	text := units[0].(*widgets.Text)
	assert.Equal(t, "<div>hi</div>", text.PlainText())
	assert.True(t, text.Spans()[0].Style.Plain())
}

func TestRegister(t *testing.T) {
	r := NewRenderer()
	noop := func(*Renderer, *token.Token, Context) ([]runtime.Widget, error) {
		return []runtime.Widget{}, nil
	}

	err := r.Register("footnote", nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput))

	require.NoError(t, r.Register("footnote", noop))
	assert.Contains(t, r.Kinds(), token.Kind("footnote"))

	render(t, r, token.New("footnote"))

	err = r.Register("aside", noop)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeRegistrationClosed))
	assert.NotContains(t, r.Kinds(), token.Kind("aside"))
}

func TestRender_SoftbreakFoldsIntoText(t *testing.T) {
	r := NewRenderer()
	units := render(t, r, token.New(token.KindParagraph,
		token.Text("one"),
		&token.Token{Type: token.KindSoftbreak},
		token.New(token.KindStrong, token.Text("two")),
	))

	require.Len(t, units, 3)
	text := units[1].(*widgets.Text)
	assert.Equal(t, "one\ntwo", text.PlainText())
	assert.Equal(t, []string{"one", "two"}, runtime.Paint(text, 20).PlainLines())
}

func TestRender_BlankLineEmitsTwoSpacers(t *testing.T) {
	units := render(t, NewRenderer(), &token.Token{Type: token.KindBlankLine})
	require.Len(t, units, 2)
	assert.True(t, widgets.IsSpacer(units[0]))
	assert.True(t, widgets.IsSpacer(units[1]))
}

func TestRender_LinkCarriesClickMetadata(t *testing.T) {
	r := NewRenderer()
	units := render(t, r, token.New(token.KindParagraph,
		token.Text("see "),
		link("https://example.com", token.Text("site")),
	))

	require.Len(t, units, 3)
	text := units[1].(*widgets.Text)
	assert.Equal(t, "see site", text.PlainText())
	assert.Equal(t, []widgets.Link{{Text: "site", URL: "https://example.com"}}, text.Links())

	runtime.Paint(text, 20)
	miss := text.HandleMessage(runtime.MouseMsg{X: 1, Y: 0, Button: runtime.MouseLeft, Action: runtime.MousePress})
	assert.False(t, miss.Handled)

	hit := text.HandleMessage(runtime.MouseMsg{X: 5, Y: 0, Button: runtime.MouseLeft, Action: runtime.MousePress})
	require.True(t, hit.Handled)
	assert.Equal(t, []runtime.Command{runtime.OpenLink{Text: "site", URL: "https://example.com"}}, hit.Commands)
}

func TestRender_BreakInsideLinkBecomesSpace(t *testing.T) {
	units := render(t, NewRenderer(), token.New(token.KindParagraph,
		token.Text("see "),
		link("http://x", token.Text("foo"), &token.Token{Type: token.KindSoftbreak}, token.Text("bar")),
		token.Text(" now"),
	))

	require.Len(t, units, 3)
	text := units[1].(*widgets.Text)
	assert.Equal(t, "see foo bar now", text.PlainText())
	assert.Equal(t, []widgets.Link{{Text: "foo bar", URL: "http://x"}}, text.Links())
}

func TestRender_LinkTitleIsKept(t *testing.T) {
	units := render(t, NewRenderer(), token.NewParser().ParseString(`[docs](https://example.com "Docs")`+"\n")...)

	require.Len(t, units, 3)
	assert.Equal(t, []widgets.Link{{Text: "docs", URL: "https://example.com", Title: "Docs"}},
		units[1].(*widgets.Text).Links())
}

func TestRender_MalformedTreeFails(t *testing.T) {
	c := newCapture()
	r := NewRenderer(WithHandler(token.KindText, c.handler))

	_, err := r.Render(context.Background(), []*token.Token{
		token.New(token.KindParagraph, token.Text("first")),
		token.New(token.KindParagraph, token.New(token.KindEmphasis)),
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidInput))
	assert.Contains(t, err.Error(), "emphasis token has no children")
	assert.Empty(t, c.styles, "nothing is dispatched before the tree is checked")
}

func TestRender_LinkStyleAndLabel(t *testing.T) {
	r := NewRenderer()
	ref := link("https://example.com", token.Text("docs"))
	ref.Attrs.Label = "1"

	units := render(t, r, ref)

	require.Len(t, units, 2)
	text := units[0].(*widgets.Text)
	assert.Equal(t, "docs", text.PlainText())
	assert.Empty(t, text.Links(), "reference links carry the label instead")
	assert.True(t, text.Spans()[0].Style.Underline)
	assert.Equal(t, "[1]", units[1].(*widgets.Text).PlainText())
}

func TestRender_ImageWithoutTextShowsURL(t *testing.T) {
	img := &token.Token{Type: token.KindImage, Attrs: token.Attrs{URL: "cat.png"}}
	units := render(t, NewRenderer(), img)

	require.Len(t, units, 1)
	text := units[0].(*widgets.Text)
	assert.Equal(t, "cat.png", text.PlainText())
	assert.Equal(t, []widgets.Link{{Text: "cat.png", URL: "cat.png"}}, text.Links())
}

func TestRender_Codespan(t *testing.T) {
	units := render(t, NewRenderer(), token.New(token.KindParagraph,
		&token.Token{Type: token.KindCodespan, Raw: "x := 1"},
	))

	require.Len(t, units, 3)
	text := units[1].(*widgets.Text)
	assert.Equal(t, " x := 1 ", text.PlainText())
	assert.Equal(t, style.Attr{FG: "#f8f8f2", BG: "#272822"}.Style(), text.Spans()[0].Style)
}

func TestRender_BlockCode(t *testing.T) {
	code := &token.Token{Type: token.KindBlockCode, Raw: "func main() {}\n", Attrs: token.Attrs{Info: "go title=main.go"}}
	units := render(t, NewRenderer(), code)

	require.Len(t, units, 3)
	assert.True(t, widgets.IsSpacer(units[0]))
	assert.True(t, widgets.IsSpacer(units[2]))
	text := units[1].(*widgets.Text)
	assert.Equal(t, "func main() {}", text.PlainText())
	assert.Greater(t, len(text.Spans()), 1, "go source is split into highlighted tokens")
}

func TestRender_ThematicBreak(t *testing.T) {
	units := render(t, NewRenderer(), &token.Token{Type: token.KindThematicBreak})

	require.Len(t, units, 1)
	rule := units[0].(*widgets.Divider)
	assert.Equal(t, "─", rule.Char())
	assert.Equal(t, []string{"", "────", ""}, runtime.Paint(rule, 4).PlainLines())
}

func TestRender_BlockQuoteTrimsOneSpacer(t *testing.T) {
	r := NewRenderer()
	units := render(t, r, token.New(token.KindBlockQuote,
		token.New(token.KindParagraph, token.Text("quoted")),
	))

	require.Len(t, units, 3)
	assert.True(t, widgets.IsSpacer(units[0]))
	assert.True(t, widgets.IsSpacer(units[2]))

	pad := units[1].(*widgets.Padding)
	box := pad.Child().(*widgets.LineBox)
	body := box.Child().(*runtime.Flex)
	require.Len(t, body.Children, 1)
	assert.Equal(t, "quoted", body.Children[0].Widget.(*widgets.Text).PlainText())

	assert.Equal(t, []string{"  ┌", "  ╎quoted", "  └"}, runtime.Paint(pad, 20).PlainLines())
}

func TestRender_Table(t *testing.T) {
	tbl := &token.Token{Type: token.KindTable, Attrs: token.Attrs{
		Header: []string{"a", "b"},
		Aligns: []token.Align{token.AlignNone, token.AlignRight},
		Cells:  [][]string{{"1", "22"}},
	}}
	units := render(t, NewRenderer(), tbl)

	require.Len(t, units, 1)
	wrapper := units[0].(*widgets.Padding)
	table := wrapper.Child().(*widgets.Table)
	assert.Equal(t, []int{1, 2}, table.ColumnWidths())
	assert.Equal(t, table.TotalWidth()+2, wrapper.Width())
}

func TestRender_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := telemetry.NewRenderMetrics(reg)
	require.NoError(t, err)

	r := NewRenderer(WithMetrics(metrics))
	render(t, r, token.New(token.KindParagraph, token.Text("a"), token.Text("b")))
	_, err = r.Render(context.Background(), []*token.Token{token.New("footnote")})
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				key += "/" + l.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				values[key] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}

	assert.Equal(t, 2.0, values["podium_tokens_rendered_total/text"])
	assert.Equal(t, 1.0, values["podium_tokens_rendered_total/paragraph"])
	assert.Equal(t, 1.0, values["podium_render_errors_total/UNKNOWN_TOKEN"])
	assert.Equal(t, 2.0, values["podium_render_duration_seconds"])
}

func TestRender_ParsedDocument(t *testing.T) {
	src := "# Title\n\nSome *mixed* **text** with `code`.\n\n> quoted\n\n1. one\n2. two\n\n---\n\n| a | b |\n|---|--:|\n| 1 | 2 |\n"
	tokens := token.NewParser().ParseString(src)

	units := render(t, NewRenderer(), tokens...)
	root := runtime.VBox()
	for _, u := range units {
		root.Add(runtime.Fixed(u))
	}
	lines := runtime.Paint(root, 40).PlainLines()

	assert.Contains(t, lines, "██ Title")
	assert.Contains(t, lines, "Some mixed text with  code .")
	assert.Contains(t, lines, "  ╎quoted")
	assert.Contains(t, lines, "  1. one")
}
