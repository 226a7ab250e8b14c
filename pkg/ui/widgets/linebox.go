package widgets

import (
	"github.com/odvcencio/podium/pkg/ui/compositor"
	"github.com/odvcencio/podium/pkg/ui/runtime"
)

// LineBox frames a child with border glyphs. The fill style is layered
// under the child's content and the border.
type LineBox struct {
	Base
	child  runtime.Widget
	frame  runtime.Frame
	border compositor.Style
	fill   compositor.Style
}

// NewLineBox creates a framed box around child.
func NewLineBox(child runtime.Widget, frame runtime.Frame, border, fill compositor.Style) *LineBox {
	return &LineBox{child: child, frame: frame, border: border, fill: fill}
}

// Child returns the framed widget.
func (b *LineBox) Child() runtime.Widget {
	return b.child
}

// Frame returns the border glyphs.
func (b *LineBox) Frame() runtime.Frame {
	return b.frame
}

// Measure returns the child's size plus the frame.
func (b *LineBox) Measure(constraints runtime.Constraints) runtime.Size {
	top, right, bottom, left := b.frame.Insets()
	inner := constraints.MaxWidth
	if inner != unbounded {
		inner = max(0, inner-left-right)
	}
	size := b.child.Measure(runtime.Constraints{MaxWidth: inner, MaxHeight: runtime.Unbounded().MaxHeight})
	return constraints.Constrain(runtime.Size{
		Width:  size.Width + left + right,
		Height: size.Height + top + bottom,
	})
}

// Layout positions the child inside the frame.
func (b *LineBox) Layout(bounds runtime.Rect) {
	b.bounds = bounds
	top, right, bottom, left := b.frame.Insets()
	b.child.Layout(bounds.Inset(top, right, bottom, left))
}

// Render draws the child, the fill and then the frame.
func (b *LineBox) Render(ctx runtime.RenderContext) {
	b.child.Render(ctx)
	if !b.fill.Plain() {
		ctx.Buffer.Blend(b.bounds, b.fill)
	}
	ctx.Buffer.DrawFrame(b.bounds, b.frame, compositor.Merge(b.fill, b.border))
}

// HandleMessage forwards to the child.
func (b *LineBox) HandleMessage(msg runtime.Message) runtime.HandleResult {
	return b.child.HandleMessage(msg)
}
