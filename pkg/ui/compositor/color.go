// Package compositor defines the concrete colors and text styles that
// podium's display primitives carry, and how they are encoded for a
// terminal.
package compositor

// ColorMode defines how a color is represented.
type ColorMode uint8

const (
	// ColorModeNone means no color (inherit default).
	ColorModeNone ColorMode = iota
	// ColorModeDefault uses terminal default color.
	ColorModeDefault
	// ColorMode16 uses basic 16 ANSI colors (0-15).
	ColorMode16
	// ColorMode256 uses extended 256 color palette.
	ColorMode256
	// ColorModeRGB uses 24-bit true color.
	ColorModeRGB
)

// Color represents a terminal color.
type Color struct {
	Mode  ColorMode
	Value uint32 // For 16/256: color index, For RGB: 0xRRGGBB
}

// Pre-defined colors for convenience.
var (
	ColorNone    = Color{Mode: ColorModeNone}
	ColorDefault = Color{Mode: ColorModeDefault}

	ColorBlack   = Color{Mode: ColorMode16, Value: 0}
	ColorRed     = Color{Mode: ColorMode16, Value: 1}
	ColorGreen   = Color{Mode: ColorMode16, Value: 2}
	ColorYellow  = Color{Mode: ColorMode16, Value: 3}
	ColorBlue    = Color{Mode: ColorMode16, Value: 4}
	ColorMagenta = Color{Mode: ColorMode16, Value: 5}
	ColorCyan    = Color{Mode: ColorMode16, Value: 6}
	ColorWhite   = Color{Mode: ColorMode16, Value: 7}

	ColorBrightBlack   = Color{Mode: ColorMode16, Value: 8}
	ColorBrightRed     = Color{Mode: ColorMode16, Value: 9}
	ColorBrightGreen   = Color{Mode: ColorMode16, Value: 10}
	ColorBrightYellow  = Color{Mode: ColorMode16, Value: 11}
	ColorBrightBlue    = Color{Mode: ColorMode16, Value: 12}
	ColorBrightMagenta = Color{Mode: ColorMode16, Value: 13}
	ColorBrightCyan    = Color{Mode: ColorMode16, Value: 14}
	ColorBrightWhite   = Color{Mode: ColorMode16, Value: 15}
)

// Color256 creates a 256-palette color (0-255).
func Color256(index uint8) Color {
	return Color{Mode: ColorMode256, Value: uint32(index)}
}

// RGB creates a 24-bit true color.
func RGB(r, g, b uint8) Color {
	return Color{Mode: ColorModeRGB, Value: uint32(r)<<16 | uint32(g)<<8 | uint32(b)}
}

// Set reports whether the color overrides whatever is underneath it.
func (c Color) Set() bool {
	return c.Mode != ColorModeNone && c.Mode != ColorModeDefault
}

// Style defines visual attributes for a cell.
type Style struct {
	FG            Color
	BG            Color
	Bold          bool
	Dim           bool
	Italic        bool
	Underline     bool
	Blink         bool
	Reverse       bool
	Strikethrough bool
}

// DefaultStyle returns a style with no attributes.
func DefaultStyle() Style {
	return Style{FG: ColorDefault, BG: ColorDefault}
}

// WithFG returns a copy with foreground color set.
func (s Style) WithFG(c Color) Style {
	s.FG = c
	return s
}

// WithBG returns a copy with background color set.
func (s Style) WithBG(c Color) Style {
	s.BG = c
	return s
}

// WithBold returns a copy with bold set.
func (s Style) WithBold(b bool) Style {
	s.Bold = b
	return s
}

// WithItalic returns a copy with italic set.
func (s Style) WithItalic(i bool) Style {
	s.Italic = i
	return s
}

// WithUnderline returns a copy with underline set.
func (s Style) WithUnderline(u bool) Style {
	s.Underline = u
	return s
}

// WithStrikethrough returns a copy with strikethrough set.
func (s Style) WithStrikethrough(st bool) Style {
	s.Strikethrough = st
	return s
}

// Equal compares two styles for equality.
func (s Style) Equal(other Style) bool {
	return s == other
}

// Plain reports whether the style carries no colors or attributes.
func (s Style) Plain() bool {
	return !s.FG.Set() && !s.BG.Set() &&
		!s.Bold && !s.Dim && !s.Italic && !s.Underline &&
		!s.Blink && !s.Reverse && !s.Strikethrough
}

// Merge layers overlay on top of base: attributes accumulate and colors
// from overlay win when they are set.
func Merge(base, overlay Style) Style {
	result := base
	result.Bold = result.Bold || overlay.Bold
	result.Dim = result.Dim || overlay.Dim
	result.Italic = result.Italic || overlay.Italic
	result.Underline = result.Underline || overlay.Underline
	result.Blink = result.Blink || overlay.Blink
	result.Reverse = result.Reverse || overlay.Reverse
	result.Strikethrough = result.Strikethrough || overlay.Strikethrough
	if overlay.FG.Set() {
		result.FG = overlay.FG
	}
	if overlay.BG.Set() {
		result.BG = overlay.BG
	}
	return result
}
