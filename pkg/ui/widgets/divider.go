package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/podium/pkg/ui/compositor"
	"github.com/odvcencio/podium/pkg/ui/runtime"
)

// Divider is a horizontal rule made of a repeated glyph, with blank rows
// above and below. A divider with no glyph and no padding is a spacer: a
// single blank row.
type Divider struct {
	Base
	char   string
	style  compositor.Style
	top    int
	bottom int
}

// NewSpacer creates a one-row blank divider.
func NewSpacer() *Divider {
	return &Divider{}
}

// NewDivider creates a rule repeating char across the full width.
func NewDivider(char string, style compositor.Style, top, bottom int) *Divider {
	return &Divider{char: char, style: style, top: max(0, top), bottom: max(0, bottom)}
}

// IsSpacer reports whether w is a plain blank spacer.
func IsSpacer(w runtime.Widget) bool {
	d, ok := w.(*Divider)
	return ok && d.char == "" && d.top == 0 && d.bottom == 0
}

// Char returns the rule glyph.
func (d *Divider) Char() string {
	return d.char
}

// Measure returns one row plus padding.
func (d *Divider) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(runtime.Size{
		Width:  runewidth.StringWidth(d.char),
		Height: d.top + 1 + d.bottom,
	})
}

// Render repeats the glyph across the rule row.
func (d *Divider) Render(ctx runtime.RenderContext) {
	if d.char == "" || d.top >= d.bounds.Height {
		return
	}
	y := d.bounds.Y + d.top
	maxX := d.bounds.X + d.bounds.Width
	for x := d.bounds.X; x < maxX; {
		next := ctx.Buffer.SetString(x, y, d.char, d.style, maxX)
		if next == x {
			break
		}
		x = next
	}
}
