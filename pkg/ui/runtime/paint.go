package runtime

// Paint measures root at the given width, lays it out at its natural
// height and renders it into a fresh buffer.
func Paint(root Widget, width int) *Buffer {
	width = max(0, width)
	size := root.Measure(Constraints{MaxWidth: width, MaxHeight: maxInt})
	bounds := Rect{Width: width, Height: size.Height}
	root.Layout(bounds)

	buf := NewBuffer(width, size.Height)
	root.Render(RenderContext{Buffer: buf, Bounds: bounds})
	return buf
}
