package markdown

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/podium/pkg/token"
	"github.com/odvcencio/podium/pkg/ui/runtime"
	"github.com/odvcencio/podium/pkg/ui/style"
	"github.com/odvcencio/podium/pkg/ui/widgets"
)

// Numbering schemes for ordered list markers.
const (
	NumberingNumeric = "numeric"
	NumberingAlpha   = "alpha"
	NumberingRoman   = "roman"
)

// renderList lays each item out as a marker column beside the item body.
// Items render one level deeper than the list. The outermost list is
// indented and spaced; nested lists hand their rows to the parent item.
func renderList(r *Renderer, tok *token.Token, ctx Context) ([]runtime.Widget, error) {
	depth := ctx.Depth()
	level := strconv.Itoa(depth + 1)
	inner := ctx.Nested()

	markers := listMarkers(r.styles, tok, level)
	markerStyle := r.styles.Resolve("list_marker").Attr().Style()
	markerWidth := 0
	for _, m := range markers {
		markerWidth = max(markerWidth, runewidth.StringWidth(m))
	}

	rows := make([]runtime.Widget, 0, len(tok.Children))
	for i, item := range tok.Children {
		body, err := r.RenderToken(item, inner)
		if err != nil {
			return nil, err
		}
		content := runtime.VBox()
		for _, u := range body {
			content.Add(runtime.Fixed(u))
		}
		rows = append(rows, runtime.HBox(
			runtime.Sized(widgets.NewStyledText(markers[i], markerStyle), markerWidth),
			runtime.Expanded(content),
		))
	}

	if depth > 0 {
		return rows, nil
	}
	column := runtime.VBox()
	for _, row := range rows {
		column.Add(runtime.Fixed(row))
	}
	return spaced(widgets.NewPadding(column, 2, 0)), nil
}

func renderListItem(r *Renderer, tok *token.Token, ctx Context) ([]runtime.Widget, error) {
	units, err := r.RenderChildren(tok, ctx)
	if err != nil {
		return nil, err
	}
	return foldInline(units), nil
}

// listMarkers returns the marker text of every item of a list at level.
func listMarkers(styles *style.Resolver, tok *token.Token, level string) []string {
	markers := make([]string, len(tok.Children))
	if !tok.Attrs.Ordered {
		glyph := styles.ResolveDefault("bullets."+level, style.DefaultKey).Value()
		if glyph == "" {
			glyph = "•"
		}
		for i := range markers {
			markers[i] = glyph + " "
		}
		return markers
	}

	scheme := styles.ResolveDefault("numbering."+level, style.DefaultKey).Value()
	bullet := tok.Attrs.Bullet
	if bullet == "" {
		bullet = "."
	}
	for i := range markers {
		markers[i] = FormatNumber(tok.Attrs.Start+i, scheme) + bullet + " "
	}
	return markers
}

// maxRoman is the largest index written in roman numerals.
const maxRoman = 3999

// FormatNumber renders a list index in the named numbering scheme. Unknown
// schemes, indices below 1, and roman indices above 3999 use plain decimal
// numbers.
func FormatNumber(n int, scheme string) string {
	if n < 1 {
		return strconv.Itoa(n)
	}
	switch scheme {
	case NumberingAlpha:
		return string(rune('a' + (n-1)%26))
	case NumberingRoman:
		if n > maxRoman {
			return strconv.Itoa(n)
		}
		return roman(n)
	default:
		return strconv.Itoa(n)
	}
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

func roman(n int) string {
	var sb strings.Builder
	for _, rn := range romanNumerals {
		for n >= rn.value {
			sb.WriteString(rn.symbol)
			n -= rn.value
		}
	}
	return sb.String()
}
