// Command podium renders a markdown slide deck to the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/odvcencio/podium/pkg/errors"
	"github.com/odvcencio/podium/pkg/filewatch"
	"github.com/odvcencio/podium/pkg/logging"
	"github.com/odvcencio/podium/pkg/presentation"
	"github.com/odvcencio/podium/pkg/telemetry"
	"github.com/odvcencio/podium/pkg/terminal"
	"github.com/odvcencio/podium/pkg/ui/runtime"
	"github.com/odvcencio/podium/pkg/ui/style"
)

var version = "dev"

type options struct {
	deck      string
	styles    string
	width     int
	slide     int
	noColor   bool
	live      bool
	logLevel  string
	logFormat string
	trace     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := present(ctx, opts, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if e, ok := apperrors.As(err); ok {
			for _, tip := range e.Remediation {
				fmt.Fprintf(stderr, "  hint: %s\n", tip)
			}
		}
		return exitCodeForError(err)
	}
	return exitOK
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("podium", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: podium [flags] DECK.md")
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.StringVar(&opts.styles, "styles", "", "YAML style sheet merged over the built-in styles")
	fs.IntVar(&opts.width, "width", 0, "render width in cells (defaults to the terminal width)")
	fs.IntVar(&opts.slide, "slide", 0, "print only this slide (1-based)")
	fs.BoolVar(&opts.noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable color output")
	fs.BoolVar(&opts.live, "live", false, "re-render when the deck or style sheet changes")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fs.StringVar(&opts.logFormat, "log-format", string(logging.FormatText), "log format: text or json")
	fs.BoolVar(&opts.trace, "trace", false, "write trace spans to stderr")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return nil, fmt.Errorf("expected exactly one deck file, got %d", fs.NArg())
	}
	opts.deck = fs.Arg(0)
	if opts.width < 0 || opts.slide < 0 {
		return nil, fmt.Errorf("--width and --slide must not be negative")
	}
	return opts, nil
}

func present(ctx context.Context, opts *options, stdout, stderr io.Writer) error {
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return withExitCode(err, exitUsage)
	}
	logger := logging.New(stderr, "cli", level, logging.Format(opts.logFormat))

	if opts.trace {
		tp, err := telemetry.NewTracerProvider(stderr, "podium", version)
		if err != nil {
			return err
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Warn("trace shutdown failed", "error", err)
			}
		}()
	}

	reg := prometheus.NewRegistry()
	metrics, err := telemetry.NewRenderMetrics(reg)
	if err != nil {
		return err
	}
	defer logMetrics(logger, reg)

	width := opts.width
	if width == 0 {
		width = terminal.DefaultWidth
		if f, ok := stdout.(*os.File); ok {
			width = terminal.Width(int(f.Fd()))
		}
	}

	p := &presenter{
		opts:       opts,
		width:      width,
		writer:     terminal.NewWithOutput(stdout, terminal.DetectProfile(stdout, opts.noColor)),
		loaderOpts: []presentation.Option{presentation.WithLogger(logger), presentation.WithMetrics(metrics)},
		logger:     logger,
	}

	if !opts.live {
		return p.show(ctx)
	}
	return p.watch(ctx)
}

func loadStyles(path string) (*style.Config, error) {
	if path == "" {
		return style.Default(), nil
	}
	sheet, err := style.LoadFile(path)
	if err != nil {
		return nil, err
	}
	merged := style.Default().MergeConfig(sheet)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

type presenter struct {
	opts       *options
	width      int
	writer     *terminal.Writer
	loaderOpts []presentation.Option
	logger     *logging.Logger
}

// show reads the style sheet and the deck, then prints the selected
// slides. Both files are read on every call so live mode picks up edits.
func (p *presenter) show(ctx context.Context) error {
	base, err := loadStyles(p.opts.styles)
	if err != nil {
		return err
	}
	loader := presentation.NewLoader(append(p.loaderOpts, presentation.WithBaseStyles(base))...)

	deck, err := loader.Load(ctx, p.opts.deck)
	if err != nil {
		return err
	}

	slides := deck.Slides
	if n := p.opts.slide; n > 0 {
		if n > len(slides) {
			return apperrors.Newf(apperrors.ErrCodeInvalidInput, "slide %d out of range", n).
				WithContext("slides", len(slides))
		}
		slides = slides[n-1 : n]
	}

	for i, slide := range slides {
		if i > 0 {
			p.writer.Dim("")
		}
		p.writer.Slide(terminal.Chrome{
			Title:    deck.Meta.Title,
			Position: fmt.Sprintf("%d/%d", slide.Number, len(deck.Slides)),
			Author:   deck.Meta.Author,
			Date:     deck.Meta.Date,
		}, runtime.Paint(slide.Root(), p.width))
	}
	return nil
}

// watch shows the deck, then shows it again whenever the deck or the
// style sheet changes, until ctx is cancelled. Load failures are reported
// and watching continues.
func (p *presenter) watch(ctx context.Context) error {
	paths := []string{p.opts.deck}
	if p.opts.styles != "" {
		paths = append(paths, p.opts.styles)
	}

	watcher := filewatch.NewFileWatcher(0)
	if err := watcher.Watch(paths...); err != nil {
		return err
	}
	changed := make(chan struct{}, 1)
	for _, path := range paths {
		watcher.Subscribe(filepath.Clean(path), func(change filewatch.FileChange) {
			p.logger.Debug("file changed", "path", change.Path, "type", string(change.Type))
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(ctx)
	})
	g.Go(func() error {
		p.refresh(ctx)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-changed:
				p.refresh(ctx)
			}
		}
	})
	return g.Wait()
}

func (p *presenter) refresh(ctx context.Context) {
	if p.writer.Color() {
		p.writer.Clear()
	}
	if err := p.show(ctx); err != nil {
		p.writer.Error("%v", err)
	}
	p.writer.Dim("watching %s for changes", p.opts.deck)
}

// logMetrics writes the render counters at debug level.
func logMetrics(logger *logging.Logger, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		logger.Debug("gather metrics failed", "error", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			attrs := []any{"metric", mf.GetName()}
			for _, l := range m.GetLabel() {
				attrs = append(attrs, l.GetName(), l.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				attrs = append(attrs, "value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				attrs = append(attrs, "count", m.GetHistogram().GetSampleCount(), "sum", m.GetHistogram().GetSampleSum())
			}
			logger.Debug("render metric", attrs...)
		}
	}
}
