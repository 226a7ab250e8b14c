package markdown

import (
	"strconv"
	"strings"

	"github.com/odvcencio/podium/pkg/token"
	"github.com/odvcencio/podium/pkg/ui/runtime"
	"github.com/odvcencio/podium/pkg/ui/style"
	"github.com/odvcencio/podium/pkg/ui/widgets"
)

func spaced(units ...runtime.Widget) []runtime.Widget {
	out := make([]runtime.Widget, 0, len(units)+2)
	out = append(out, widgets.NewSpacer())
	out = append(out, units...)
	return append(out, widgets.NewSpacer())
}

func renderParagraph(r *Renderer, tok *token.Token, ctx Context) ([]runtime.Widget, error) {
	units, err := r.RenderChildren(tok, ctx)
	if err != nil {
		return nil, err
	}
	return spaced(foldInline(units)...), nil
}

// renderHeading renders the children under the level's style alone. The
// surrounding styles are cleared for the subtree rather than inherited, and
// since ctx is never modified nothing leaks to the heading's siblings.
func renderHeading(r *Renderer, tok *token.Token, ctx Context) ([]runtime.Widget, error) {
	spec := r.styles.ResolveDefault("headings."+strconv.Itoa(tok.Attrs.Level), style.DefaultKey)
	attr := spec.Attr()

	units, err := r.RenderChildren(tok, ctx.ClearStyles().WithStyle(attr))
	if err != nil {
		return nil, err
	}
	units = foldInline(units)

	first, last, units := headingText(units)
	s := attr.Style()
	if prefix := spec.String("prefix", ""); prefix != "" {
		first.Prepend(widgets.Span{Text: prefix, Style: s})
	}
	if suffix := spec.String("suffix", ""); suffix != "" {
		last.Append(widgets.Span{Text: suffix, Style: s})
	}
	return spaced(units...), nil
}

// headingText returns the first and last text runs of units, inserting an
// empty one at the front when there is none to decorate.
func headingText(units []runtime.Widget) (first, last *widgets.Text, out []runtime.Widget) {
	for _, u := range units {
		if t, ok := u.(*widgets.Text); ok {
			if first == nil {
				first = t
			}
			last = t
		}
	}
	if first == nil {
		first = widgets.NewText()
		return first, first, append([]runtime.Widget{first}, units...)
	}
	return first, last, units
}

func renderThematicBreak(r *Renderer, _ *token.Token, _ Context) ([]runtime.Widget, error) {
	hrule := r.styles.Resolve("hrule")
	char := hrule.String("char", "─")
	return []runtime.Widget{
		widgets.NewDivider(char, hrule.Sub("style").Attr().Style(), 1, 1),
	}, nil
}

func renderBlockText(r *Renderer, tok *token.Token, ctx Context) ([]runtime.Widget, error) {
	units, err := r.RenderChildren(tok, ctx)
	if err != nil {
		return nil, err
	}
	return append(foldInline(units), widgets.NewSpacer()), nil
}

func renderBlockCode(r *Renderer, tok *token.Token, _ Context) ([]runtime.Widget, error) {
	lang := "text"
	if fields := strings.Fields(tok.Attrs.Info); len(fields) > 0 {
		lang = fields[0]
	}
	code := strings.TrimSuffix(tok.Raw, "\n")
	return spaced(r.highlighter.RenderText(code, lang, false)), nil
}

// renderBlockQuote frames the quoted content in a box drawn with the quote
// glyphs, trimming one outer spacer on each side of the content so the
// frame does not double the spacing.
func renderBlockQuote(r *Renderer, tok *token.Token, ctx Context) ([]runtime.Widget, error) {
	units, err := r.RenderChildren(tok, ctx)
	if err != nil {
		return nil, err
	}
	units = trimSpacers(units)

	quote := r.styles.Resolve("quote")
	s := quote.Sub("style").Attr().Style()
	frame := runtime.Frame{
		TopLeft:    quote.String("top_corner", "┌"),
		Left:       quote.String("side", "╎"),
		BottomLeft: quote.String("bottom_corner", "└"),
	}

	body := runtime.VBox()
	for _, u := range units {
		body.Add(runtime.Fixed(u))
	}
	box := widgets.NewLineBox(body, frame, s, s)
	return spaced(widgets.NewPadding(box, 2, 2)), nil
}

func trimSpacers(units []runtime.Widget) []runtime.Widget {
	if len(units) > 0 && widgets.IsSpacer(units[0]) {
		units = units[1:]
	}
	if len(units) > 0 && widgets.IsSpacer(units[len(units)-1]) {
		units = units[:len(units)-1]
	}
	return units
}

func renderBlockError(_ *Renderer, _ *token.Token, _ Context) ([]runtime.Widget, error) {
	return []runtime.Widget{}, nil
}

// renderTable builds a table widget and centres it in a wrapper that
// follows the table's total width as the table refits its columns.
func renderTable(r *Renderer, tok *token.Token, _ Context) ([]runtime.Widget, error) {
	spec := r.styles.Resolve("table")
	cell := spec.Sub("cell").Attr().Style()
	ts := widgets.TableStyle{
		ColumnSpacing: spec.Int("column_spacing", 3),
		HeaderDivider: spec.String("header_divider", "─"),
		Header:        spec.Sub("header").Attr().Style(),
		Cell:          cell,
		Divider:       cell,
	}

	aligns := make([]widgets.Align, len(tok.Attrs.Aligns))
	for i, a := range tok.Attrs.Aligns {
		aligns[i] = tableAlign(a)
	}

	table := widgets.NewTable(tok.Attrs.Cells, tok.Attrs.Header, aligns, ts)
	wrapper := widgets.NewFixedWidth(table, table.TotalWidth()+2, widgets.AlignCenter)
	table.OnChange(func(total int) {
		wrapper.SetWidth(total + 2)
	})
	return []runtime.Widget{wrapper}, nil
}

func tableAlign(a token.Align) widgets.Align {
	switch a {
	case token.AlignCenter:
		return widgets.AlignCenter
	case token.AlignRight:
		return widgets.AlignRight
	default:
		return widgets.AlignLeft
	}
}
