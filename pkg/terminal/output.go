// Package terminal prints rendered slides to a plain terminal stream:
// a styled header and footer around each slide body, no full-screen UI.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/odvcencio/podium/pkg/ui/runtime"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// Chrome is the text printed around a slide body.
type Chrome struct {
	Title    string
	Position string
	Author   string
	Date     string
}

// Writer prints slides and status messages.
type Writer struct {
	out   io.Writer
	term  *termenv.Output
	mu    sync.Mutex
	color bool

	headerStyle lipgloss.Style
	footerStyle lipgloss.Style
	errorStyle  lipgloss.Style
	infoStyle   lipgloss.Style
	dimStyle    lipgloss.Style
}

// New creates a Writer on stdout using the detected color profile.
func New(noColor bool) *Writer {
	return NewWithOutput(os.Stdout, DetectProfile(os.Stdout, noColor))
}

// NewWithOutput creates a Writer on out rendering with profile. The Ascii
// profile disables all color and slide styling.
func NewWithOutput(out io.Writer, profile termenv.Profile) *Writer {
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(profile)

	return &Writer{
		out:   out,
		term:  termenv.NewOutput(out, termenv.WithProfile(profile)),
		color: profile != termenv.Ascii,

		headerStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#444444"}),

		footerStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#444444"}),

		errorStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}).
			Bold(true),

		infoStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#5599FF"}),

		dimStyle: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
	}
}

// Color reports whether slide bodies are written with escape sequences.
func (w *Writer) Color() bool {
	return w.color
}

// Slide prints body framed by the chrome's header and footer.
func (w *Writer) Slide(c Chrome, body *runtime.Buffer) {
	width, _ := body.Size()
	width = max(width, 1)

	lines := body.PlainLines()
	if w.color {
		lines = body.ANSILines()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, w.headerStyle.Width(width).Render(spread(c.Title, c.Position, width)))
	for _, line := range lines {
		fmt.Fprintln(w.out, line)
	}
	fmt.Fprintln(w.out, w.footerStyle.Width(width).Render(spread(c.Author, c.Date, width)))
}

// Clear erases the screen and moves the cursor home.
func (w *Writer) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.term.ClearScreen()
}

// Error prints an error message.
func (w *Writer) Error(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w.out, w.errorStyle.Render("error: "+msg))
}

// Info prints an informational message.
func (w *Writer) Info(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, w.infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Dim prints secondary text.
func (w *Writer) Dim(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, w.dimStyle.Render(fmt.Sprintf(format, args...)))
}

// spread places left and right at opposite ends of a line of width cells.
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		if right == "" {
			return left
		}
		return left + " " + right
	}
	return left + strings.Repeat(" ", gap) + right
}

// DetectProfile returns the color profile for out. noColor forces Ascii.
func DetectProfile(out io.Writer, noColor bool) termenv.Profile {
	if noColor {
		return termenv.Ascii
	}
	return termenv.NewOutput(out).EnvColorProfile()
}

// Width returns the width of the terminal on fd, or DefaultWidth when fd
// is not a terminal.
func Width(fd int) int {
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}
