// Package presentation loads markdown decks and renders their slides.
package presentation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/odvcencio/podium/pkg/errors"
	"github.com/odvcencio/podium/pkg/logging"
	"github.com/odvcencio/podium/pkg/telemetry"
	"github.com/odvcencio/podium/pkg/token"
	"github.com/odvcencio/podium/pkg/ui/markdown"
	"github.com/odvcencio/podium/pkg/ui/runtime"
	"github.com/odvcencio/podium/pkg/ui/style"
)

// Slide is one page of a deck.
type Slide struct {
	Number int
	Tokens []*token.Token
	Units  []runtime.Widget
}

// Title returns the plain text of the slide's first heading, if any.
func (s *Slide) Title() string {
	for _, tok := range s.Tokens {
		if tok.Type == token.KindHeading {
			return tok.PlainText()
		}
	}
	return ""
}

// Root stacks the slide's rendered units into a single column.
func (s *Slide) Root() *runtime.Flex {
	root := runtime.VBox()
	for _, u := range s.Units {
		root.Add(runtime.Fixed(u))
	}
	return root
}

// Deck is a loaded and rendered presentation.
type Deck struct {
	ID     ulid.ULID
	Path   string
	Meta   Meta
	Styles *style.Config
	Slides []*Slide
}

// Loader reads decks and renders them.
type Loader struct {
	parser      *token.Parser
	base        *style.Config
	logger      *logging.Logger
	metrics     *telemetry.RenderMetrics
	tracer      trace.Tracer
	rendererOps []markdown.Option
	limit       int
	now         func() time.Time
}

// Option configures a Loader.
type Option func(*Loader)

// WithBaseStyles sets the style sheet that front matter styles are merged
// over. The default is the built-in sheet.
func WithBaseStyles(cfg *style.Config) Option {
	return func(l *Loader) {
		if cfg != nil {
			l.base = cfg
		}
	}
}

// WithParser sets the markdown parser.
func WithParser(p *token.Parser) Option {
	return func(l *Loader) {
		if p != nil {
			l.parser = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMetrics sets the render metrics sink.
func WithMetrics(m *telemetry.RenderMetrics) Option {
	return func(l *Loader) {
		l.metrics = m
	}
}

// WithTracer sets the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(l *Loader) {
		if t != nil {
			l.tracer = t
		}
	}
}

// WithRendererOptions passes extra options, such as custom handlers, to
// the renderer built for each deck.
func WithRendererOptions(opts ...markdown.Option) Option {
	return func(l *Loader) {
		l.rendererOps = append(l.rendererOps, opts...)
	}
}

// WithConcurrency bounds how many slides render at once. Zero or less
// means no limit.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		l.limit = n
	}
}

// WithClock sets the time source used for the default deck date.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoader creates a deck loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		parser: token.NewParser(),
		base:   style.Default(),
		logger: logging.Discard(),
		tracer: telemetry.Tracer(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and renders the deck at path.
func (l *Loader) Load(ctx context.Context, path string) (*Deck, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigLoad, "read deck").
			WithContext("path", path)
	}
	return l.Parse(ctx, path, src)
}

// Parse renders a deck from source. path is only used for naming.
func (l *Loader) Parse(ctx context.Context, path string, src []byte) (*Deck, error) {
	deck := &Deck{ID: ulid.Make(), Path: path}
	logger := l.logger.WithDeck(deck.ID.String(), path)

	ctx, span := l.tracer.Start(ctx, "presentation.Parse", trace.WithAttributes(
		attribute.String("podium.deck_id", deck.ID.String()),
		attribute.String("podium.deck_path", path),
	))
	defer span.End()

	meta, body, err := SplitFrontMatter(src)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, withPath(err, path)
	}
	deck.Meta = l.defaults(meta, path)

	deck.Styles = l.base.Merge(meta.Styles)
	if err := deck.Styles.Validate(); err != nil {
		telemetry.RecordError(ctx, err)
		return nil, withPath(err, path)
	}

	for i, tokens := range SplitSlides(l.parser.Parse(body)) {
		deck.Slides = append(deck.Slides, &Slide{Number: i + 1, Tokens: tokens})
	}
	span.SetAttributes(attribute.Int("podium.slides", len(deck.Slides)))

	opts := append([]markdown.Option{
		markdown.WithStyles(deck.Styles),
		markdown.WithLogger(logger),
		markdown.WithMetrics(l.metrics),
		markdown.WithTracer(l.tracer),
	}, l.rendererOps...)
	renderer := markdown.NewRenderer(opts...)

	if err := l.renderSlides(ctx, renderer, deck.Slides, logger); err != nil {
		telemetry.RecordError(ctx, err)
		return nil, withPath(err, path)
	}
	logger.Info("deck rendered", "slides", len(deck.Slides), "title", deck.Meta.Title)
	return deck, nil
}

// renderSlides renders every slide with its own Render call. The first
// failure cancels the slides not yet started and is returned.
func (l *Loader) renderSlides(ctx context.Context, r *markdown.Renderer, slides []*Slide, logger *logging.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	if l.limit > 0 {
		g.SetLimit(l.limit)
	}
	for _, slide := range slides {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			units, err := r.Render(ctx, slide.Tokens)
			if err != nil {
				logger.WithSlide(slide.Number).Warn("slide failed to render", "error", err)
				return apperrors.Wrap(err, apperrors.ErrCodeRenderFailed, fmt.Sprintf("render slide %d", slide.Number)).
					WithContext("slide", slide.Number)
			}
			slide.Units = units
			return nil
		})
	}
	return g.Wait()
}

func (l *Loader) defaults(meta Meta, path string) Meta {
	if meta.Title == "" && path != "" {
		meta.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if meta.Date == "" {
		meta.Date = l.now().Format(time.DateOnly)
	}
	return meta
}

func withPath(err error, path string) error {
	if e, ok := apperrors.As(err); ok && path != "" {
		e.WithContext("path", path)
	}
	return err
}

// SplitSlides splits a token sequence at top-level thematic breaks. Slides
// with no content are dropped.
func SplitSlides(tokens []*token.Token) [][]*token.Token {
	var slides [][]*token.Token
	var current []*token.Token
	for _, tok := range tokens {
		if tok.Type == token.KindThematicBreak {
			if len(current) > 0 {
				slides = append(slides, current)
			}
			current = nil
			continue
		}
		current = append(current, tok)
	}
	if len(current) > 0 {
		slides = append(slides, current)
	}
	return slides
}
