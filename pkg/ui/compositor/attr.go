package compositor

import (
	"fmt"
	"strconv"
	"strings"
)

var namedColors = map[string]Color{
	"black":         ColorBlack,
	"dark red":      ColorRed,
	"dark green":    ColorGreen,
	"brown":         ColorYellow,
	"dark blue":     ColorBlue,
	"dark magenta":  ColorMagenta,
	"dark cyan":     ColorCyan,
	"light gray":    ColorWhite,
	"light grey":    ColorWhite,
	"dark gray":     ColorBrightBlack,
	"dark grey":     ColorBrightBlack,
	"light red":     ColorBrightRed,
	"light green":   ColorBrightGreen,
	"yellow":        ColorBrightYellow,
	"light blue":    ColorBrightBlue,
	"light magenta": ColorBrightMagenta,
	"light cyan":    ColorBrightCyan,
	"white":         ColorBrightWhite,
}

// ParseAttr converts a foreground/background attribute pair in the
// comma-separated form used by style sheets ("bold,underline,#ff8800",
// "light blue", "h208") into a Style.
//
// The foreground may mix one color with any number of effects (bold,
// italics, underline, strikethrough, blink, standout, dim). The background
// accepts a single color. "default" or an empty string leaves the terminal
// default in place. Unrecognised items are reported in the returned error,
// but everything that did parse is still applied to the returned Style, so
// callers that prefer best-effort output can ignore the error.
func ParseAttr(fg, bg string) (Style, error) {
	style := DefaultStyle()
	var bad []string

	for _, item := range strings.Split(fg, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		switch item {
		case "bold":
			style.Bold = true
		case "italics", "italic":
			style.Italic = true
		case "underline":
			style.Underline = true
		case "strikethrough":
			style.Strikethrough = true
		case "blink":
			style.Blink = true
		case "standout", "reverse":
			style.Reverse = true
		case "dim", "faint":
			style.Dim = true
		default:
			c, ok := parseColor(item)
			if !ok {
				bad = append(bad, item)
				continue
			}
			style.FG = c
		}
	}

	if item := strings.ToLower(strings.TrimSpace(bg)); item != "" {
		c, ok := parseColor(item)
		if ok {
			style.BG = c
		} else {
			bad = append(bad, item)
		}
	}

	if len(bad) > 0 {
		return style, fmt.Errorf("unrecognised attribute(s) %q in fg=%q bg=%q", bad, fg, bg)
	}
	return style, nil
}

func parseColor(item string) (Color, bool) {
	if item == "default" {
		return ColorDefault, true
	}
	if c, ok := namedColors[item]; ok {
		return c, true
	}
	if strings.HasPrefix(item, "#") {
		return parseHex(item[1:])
	}
	if strings.HasPrefix(item, "h") {
		idx, err := strconv.ParseUint(item[1:], 10, 8)
		if err != nil {
			return Color{}, false
		}
		return Color256(uint8(idx)), true
	}
	return Color{}, false
}

func parseHex(digits string) (Color, bool) {
	switch len(digits) {
	case 3:
		v, err := strconv.ParseUint(digits, 16, 16)
		if err != nil {
			return Color{}, false
		}
		r := uint8(v>>8&0xF) * 17
		g := uint8(v>>4&0xF) * 17
		b := uint8(v&0xF) * 17
		return RGB(r, g, b), true
	case 6:
		v, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return Color{}, false
		}
		return Color{Mode: ColorModeRGB, Value: uint32(v)}, true
	}
	return Color{}, false
}
