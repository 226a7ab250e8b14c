package compositor

import (
	"strconv"
	"strings"
)

// ANSI escape sequences.
const (
	ANSIEscape = "\x1b["
	ANSIReset  = "\x1b[0m"
)

// StyleToANSI converts a Style to ANSI escape sequence.
func StyleToANSI(s Style) string {
	parts := []string{"0"}

	if s.Bold {
		parts = append(parts, "1")
	}
	if s.Dim {
		parts = append(parts, "2")
	}
	if s.Italic {
		parts = append(parts, "3")
	}
	if s.Underline {
		parts = append(parts, "4")
	}
	if s.Blink {
		parts = append(parts, "5")
	}
	if s.Reverse {
		parts = append(parts, "7")
	}
	if s.Strikethrough {
		parts = append(parts, "9")
	}

	parts = append(parts, colorToANSI(s.FG, true)...)
	parts = append(parts, colorToANSI(s.BG, false)...)

	return ANSIEscape + strings.Join(parts, ";") + "m"
}

// colorToANSI converts a Color to ANSI SGR parameters.
func colorToANSI(c Color, fg bool) []string {
	switch c.Mode {
	case ColorModeNone, ColorModeDefault:
		if fg {
			return []string{"39"}
		}
		return []string{"49"}

	case ColorMode16:
		// 30-37/90-97 for FG, 40-47/100-107 for BG
		idx := int(c.Value)
		if fg {
			if idx < 8 {
				return []string{strconv.Itoa(30 + idx)}
			}
			return []string{strconv.Itoa(90 + idx - 8)}
		}
		if idx < 8 {
			return []string{strconv.Itoa(40 + idx)}
		}
		return []string{strconv.Itoa(100 + idx - 8)}

	case ColorMode256:
		if fg {
			return []string{"38", "5", strconv.Itoa(int(c.Value))}
		}
		return []string{"48", "5", strconv.Itoa(int(c.Value))}

	case ColorModeRGB:
		r := (c.Value >> 16) & 0xFF
		g := (c.Value >> 8) & 0xFF
		b := c.Value & 0xFF
		if fg {
			return []string{"38", "2", strconv.Itoa(int(r)), strconv.Itoa(int(g)), strconv.Itoa(int(b))}
		}
		return []string{"48", "2", strconv.Itoa(int(r)), strconv.Itoa(int(g)), strconv.Itoa(int(b))}
	}

	return nil
}

// ANSIWriter builds a styled line, emitting SGR sequences only when the
// style changes.
type ANSIWriter struct {
	buf       strings.Builder
	lastStyle Style
	styleSet  bool
}

// NewANSIWriter creates a new ANSI writer.
func NewANSIWriter() *ANSIWriter {
	return &ANSIWriter{}
}

// SetStyle changes the current style.
func (w *ANSIWriter) SetStyle(s Style) {
	if w.styleSet && w.lastStyle.Equal(s) {
		return
	}
	w.buf.WriteString(StyleToANSI(s))
	w.lastStyle = s
	w.styleSet = true
}

// WriteRune writes a single rune.
func (w *ANSIWriter) WriteRune(r rune) {
	w.buf.WriteRune(r)
}

// WriteString writes a string.
func (w *ANSIWriter) WriteString(s string) {
	w.buf.WriteString(s)
}

// Reset adds a style reset if a style is active.
func (w *ANSIWriter) Reset() {
	if !w.styleSet {
		return
	}
	w.buf.WriteString(ANSIReset)
	w.styleSet = false
}

// String returns the accumulated output.
func (w *ANSIWriter) String() string {
	return w.buf.String()
}
