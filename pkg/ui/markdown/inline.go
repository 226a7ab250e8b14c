package markdown

import (
	"github.com/odvcencio/podium/pkg/token"
	"github.com/odvcencio/podium/pkg/ui/runtime"
	"github.com/odvcencio/podium/pkg/ui/widgets"
)

func renderText(_ *Renderer, tok *token.Token, ctx Context) ([]runtime.Widget, error) {
	return []runtime.Widget{widgets.NewStyledText(tok.Raw, ctx.Style().Style())}, nil
}

func renderEffect(effect string) HandlerFunc {
	return func(r *Renderer, tok *token.Token, ctx Context) ([]runtime.Widget, error) {
		return r.RenderChildren(tok, ctx.WithEffect(effect))
	}
}

func renderCodespan(r *Renderer, tok *token.Token, _ Context) ([]runtime.Widget, error) {
	return []runtime.Widget{r.highlighter.RenderText(" "+tok.Raw+" ", "text", true)}, nil
}

// renderLink handles links and images. The visible text is rendered in the
// link style; a reference label follows as its own unit, otherwise the
// destination is attached to the text for click dispatch. Breaks inside
// the link text collapse to single spaces.
func renderLink(r *Renderer, tok *token.Token, ctx Context) ([]runtime.Widget, error) {
	attr := r.styles.Resolve("link").Attr()
	lctx := ctx.WithStyle(attr)

	units, err := r.RenderChildren(tok, lctx)
	if err != nil {
		return nil, err
	}
	var texts []*widgets.Text
	gap := false
	for _, u := range units {
		switch w := u.(type) {
		case *widgets.Text:
			if gap && len(texts) > 0 {
				texts = append(texts, widgets.NewStyledText(" ", lctx.Style().Style()))
			}
			gap = false
			texts = append(texts, w)
		default:
			if widgets.IsSpacer(w) {
				gap = true
			}
		}
	}
	text := widgets.JoinText(texts...)
	if len(text.Spans()) == 0 {
		text = widgets.NewStyledText(tok.Attrs.URL, attr.Style())
	}

	if tok.Attrs.Label != "" {
		label := widgets.NewStyledText("["+tok.Attrs.Label+"]", attr.Style())
		return []runtime.Widget{text, label}, nil
	}
	text.SetLink(widgets.Link{Text: text.PlainText(), URL: tok.Attrs.URL, Title: tok.Attrs.Title})
	return []runtime.Widget{text}, nil
}

func renderBreak(_ *Renderer, _ *token.Token, _ Context) ([]runtime.Widget, error) {
	return []runtime.Widget{widgets.NewSpacer()}, nil
}

func renderBlankLine(_ *Renderer, _ *token.Token, _ Context) ([]runtime.Widget, error) {
	return []runtime.Widget{widgets.NewSpacer(), widgets.NewSpacer()}, nil
}

// renderRaw passes literal HTML through unstyled.
func renderRaw(_ *Renderer, tok *token.Token, _ Context) ([]runtime.Widget, error) {
	return []runtime.Widget{widgets.NewText(widgets.Span{Text: tok.Raw})}, nil
}
