// Package markdown renders parsed markdown tokens into display widgets.
package markdown

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/odvcencio/podium/pkg/errors"
	"github.com/odvcencio/podium/pkg/logging"
	"github.com/odvcencio/podium/pkg/telemetry"
	"github.com/odvcencio/podium/pkg/token"
	"github.com/odvcencio/podium/pkg/ui/runtime"
	"github.com/odvcencio/podium/pkg/ui/style"
	"github.com/odvcencio/podium/pkg/ui/widgets"
)

// HandlerFunc renders one token. Returning a nil slice reports that the
// handler produced no result, which fails the render; an empty non-nil
// slice is a valid "nothing to show" result.
type HandlerFunc func(r *Renderer, tok *token.Token, ctx Context) ([]runtime.Widget, error)

// Renderer dispatches tokens to handlers by kind and collects the widgets
// they produce. A Renderer may be shared by concurrent Render calls once
// its handlers are registered.
type Renderer struct {
	mu       sync.RWMutex
	handlers map[token.Kind]HandlerFunc
	sealed   bool

	styles      *style.Resolver
	highlighter *Highlighter
	logger      *logging.Logger
	metrics     *telemetry.RenderMetrics
	tracer      trace.Tracer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStyles sets the style sheet. The default is the built-in sheet.
func WithStyles(cfg *style.Config) Option {
	return func(r *Renderer) {
		r.styles = style.NewResolver(cfg)
	}
}

// WithHighlighter sets the code highlighter. By default one is built from
// the style sheet's "code" rules.
func WithHighlighter(h *Highlighter) Option {
	return func(r *Renderer) {
		r.highlighter = h
	}
}

// WithLogger sets the logger used for per-token debug output.
func WithLogger(l *logging.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *telemetry.RenderMetrics) Option {
	return func(r *Renderer) {
		r.metrics = m
	}
}

// WithTracer sets the tracer used for render spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Renderer) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithHandler registers a handler for kind, replacing any built-in one.
func WithHandler(kind token.Kind, fn HandlerFunc) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.handlers[kind] = fn
		}
	}
}

// NewRenderer creates a renderer with the built-in handlers installed.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		handlers: builtinHandlers(),
		logger:   logging.Discard(),
		tracer:   telemetry.Tracer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.styles == nil {
		r.styles = style.NewResolver(nil)
	}
	if r.highlighter == nil {
		r.highlighter = NewHighlighter(r.styles)
	}
	return r
}

func builtinHandlers() map[token.Kind]HandlerFunc {
	return map[token.Kind]HandlerFunc{
		token.KindText:          renderText,
		token.KindEmphasis:      renderEffect(EffectItalics),
		token.KindStrong:        renderEffect(EffectUnderline),
		token.KindStrikethrough: renderEffect(EffectStrikethrough),
		token.KindCodespan:      renderCodespan,
		token.KindLink:          renderLink,
		token.KindImage:         renderLink,
		token.KindLinebreak:     renderBreak,
		token.KindSoftbreak:     renderBreak,
		token.KindBlankLine:     renderBlankLine,
		token.KindInlineHTML:    renderRaw,

		token.KindParagraph:     renderParagraph,
		token.KindHeading:       renderHeading,
		token.KindThematicBreak: renderThematicBreak,
		token.KindBlockText:     renderBlockText,
		token.KindBlockCode:     renderBlockCode,
		token.KindBlockQuote:    renderBlockQuote,
		token.KindBlockHTML:     renderRaw,
		token.KindBlockError:    renderBlockError,
		token.KindTable:         renderTable,
		token.KindList:          renderList,
		token.KindListItem:      renderListItem,
	}
}

// Register adds or replaces the handler for kind. Registration closes when
// the first Render call starts.
func (r *Renderer) Register(kind token.Kind, fn HandlerFunc) error {
	if kind == "" || fn == nil {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "handler registration needs a kind and a handler").
			WithContext("kind", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return apperrors.New(apperrors.ErrCodeRegistrationClosed, "handlers cannot change after rendering has started").
			WithContext("kind", kind).
			WithRemediation("register handlers with WithHandler or Register before the first Render call")
	}
	r.handlers[kind] = fn
	return nil
}

// Kinds returns the registered token kinds in sorted order.
func (r *Renderer) Kinds() []token.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]token.Kind, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Styles returns the style resolver handlers consult.
func (r *Renderer) Styles() *style.Resolver {
	return r.styles
}

// Highlighter returns the code highlighter.
func (r *Renderer) Highlighter() *Highlighter {
	return r.highlighter
}

// Render renders a token sequence with a fresh Context. Any handler error
// aborts the whole call; no partial output is returned.
func (r *Renderer) Render(ctx context.Context, tokens []*token.Token) ([]runtime.Widget, error) {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()

	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "markdown.Render",
		trace.WithAttributes(attribute.Int("podium.tokens", len(tokens))))
	defer span.End()
	defer r.metrics.ObserveRender(start)

	units, err := r.renderTree(tokens)
	if err != nil {
		telemetry.RecordError(ctx, err)
		r.metrics.RenderFailed(string(apperrors.GetCode(err)))
		r.logger.Debug("render failed", "error", err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("podium.units", len(units)))
	return units, nil
}

// renderTree checks every tree before dispatching any token.
func (r *Renderer) renderTree(tokens []*token.Token) ([]runtime.Widget, error) {
	for i, tok := range tokens {
		if err := tok.Validate(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "malformed token tree").
				WithContext("index", i)
		}
	}
	return r.RenderTokens(tokens, NewContext())
}

// RenderTokens dispatches each token in order and concatenates the
// results. Handlers call it to render nested content.
func (r *Renderer) RenderTokens(tokens []*token.Token, ctx Context) ([]runtime.Widget, error) {
	out := make([]runtime.Widget, 0, len(tokens))
	for _, tok := range tokens {
		units, err := r.RenderToken(tok, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, units...)
	}
	return out, nil
}

// RenderChildren renders tok's children under ctx.
func (r *Renderer) RenderChildren(tok *token.Token, ctx Context) ([]runtime.Widget, error) {
	return r.RenderTokens(tok.Children, ctx)
}

// RenderToken dispatches a single token.
func (r *Renderer) RenderToken(tok *token.Token, ctx Context) ([]runtime.Widget, error) {
	if tok == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "nil token")
	}

	r.mu.RLock()
	fn, ok := r.handlers[tok.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrCodeUnknownToken, "no handler for token kind %q", tok.Type).
			WithContext("kind", tok.Type).
			WithRemediation("register a handler for this kind, or disable the parser extension that produces it")
	}

	r.logger.Debug("rendering token", "kind", string(tok.Type), "depth", ctx.Depth(), "styles", ctx.StyleDepth())
	r.metrics.TokenRendered(string(tok.Type))

	units, err := fn(r, tok, ctx)
	if err != nil {
		return nil, err
	}
	if units == nil {
		return nil, apperrors.Newf(apperrors.ErrCodeMissingResult, "handler for %q returned no result", tok.Type).
			WithContext("kind", tok.Type)
	}
	return units, nil
}

// foldInline merges runs of adjacent text widgets into single widgets so an
// inline flow wraps as one paragraph. A spacer between two runs becomes a
// line break inside the merged text; other spacers are kept as widgets.
func foldInline(units []runtime.Widget) []runtime.Widget {
	out := make([]runtime.Widget, 0, len(units))
	var run []*widgets.Text
	breaks := 0

	flush := func() {
		if len(run) > 0 {
			out = append(out, widgets.JoinText(run...))
			run = nil
		}
		for ; breaks > 0; breaks-- {
			out = append(out, widgets.NewSpacer())
		}
	}

	for _, u := range units {
		switch w := u.(type) {
		case *widgets.Text:
			if len(run) > 0 && breaks > 0 {
				run = append(run, widgets.NewText(widgets.Span{Text: strings.Repeat("\n", breaks)}))
				breaks = 0
			}
			run = append(run, w)
		default:
			if widgets.IsSpacer(w) && len(run) > 0 {
				breaks++
				continue
			}
			flush()
			out = append(out, w)
		}
	}
	flush()
	return out
}

