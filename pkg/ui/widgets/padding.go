package widgets

import (
	"github.com/odvcencio/podium/pkg/ui/runtime"
)

var unbounded = runtime.Unbounded().MaxWidth

// Padding indents a child by fixed left/right margins, or holds it at a
// fixed width aligned within the available space.
type Padding struct {
	Base
	child runtime.Widget
	left  int
	right int
	width int
	align Align
}

// NewPadding indents child by left and right columns.
func NewPadding(child runtime.Widget, left, right int) *Padding {
	return &Padding{child: child, left: max(0, left), right: max(0, right)}
}

// NewFixedWidth holds child at width columns, aligned within whatever
// space is available. A narrower parent clips the width.
func NewFixedWidth(child runtime.Widget, width int, align Align) *Padding {
	return &Padding{child: child, width: max(0, width), align: align}
}

// SetWidth changes the fixed width.
func (p *Padding) SetWidth(width int) {
	p.width = max(0, width)
}

// Width returns the fixed width, or zero for margin padding.
func (p *Padding) Width() int {
	return p.width
}

// Child returns the wrapped widget.
func (p *Padding) Child() runtime.Widget {
	return p.child
}

// Measure returns the child's size plus margins.
func (p *Padding) Measure(constraints runtime.Constraints) runtime.Size {
	if p.width > 0 {
		w := min(p.width, constraints.MaxWidth)
		size := p.child.Measure(runtime.Constraints{MaxWidth: w, MaxHeight: constraints.MaxHeight})
		return constraints.Constrain(runtime.Size{Width: w, Height: size.Height})
	}

	inner := constraints.MaxWidth
	if inner != unbounded {
		inner = max(0, inner-p.left-p.right)
	}
	size := p.child.Measure(runtime.Constraints{MaxWidth: inner, MaxHeight: constraints.MaxHeight})
	return constraints.Constrain(runtime.Size{Width: size.Width + p.left + p.right, Height: size.Height})
}

// Layout positions the child inside the margins.
func (p *Padding) Layout(bounds runtime.Rect) {
	p.bounds = bounds
	if p.width == 0 {
		p.child.Layout(bounds.Inset(0, p.right, 0, p.left))
		return
	}

	// A self-sizing child (a table) settles against the full width first and
	// may call SetWidth from its change notification before it is placed.
	p.child.Layout(bounds)

	w := min(p.width, bounds.Width)
	x := bounds.X
	switch p.align {
	case AlignCenter:
		x += (bounds.Width - w) / 2
	case AlignRight:
		x += bounds.Width - w
	}
	p.child.Layout(runtime.Rect{X: x, Y: bounds.Y, Width: w, Height: bounds.Height})
}

// Render draws the child.
func (p *Padding) Render(ctx runtime.RenderContext) {
	p.child.Render(ctx)
}

// HandleMessage forwards to the child.
func (p *Padding) HandleMessage(msg runtime.Message) runtime.HandleResult {
	return p.child.HandleMessage(msg)
}
