package runtime

// FlexDirection specifies the main axis of a flex container.
type FlexDirection int

const (
	Column FlexDirection = iota // Vertical (VBox)
	Row                         // Horizontal (HBox)
)

// FlexChild wraps a widget with flex layout properties.
type FlexChild struct {
	Widget Widget
	Grow   float64 // How much to grow (0 = fixed, 1+ = proportional)
	Basis  int     // Base size (-1 = use measured size)
}

// Fixed creates a child that keeps its measured size.
func Fixed(w Widget) FlexChild {
	return FlexChild{Widget: w, Grow: 0, Basis: -1}
}

// Expanded creates a child that grows to fill available space (Grow=1).
func Expanded(w Widget) FlexChild {
	return FlexChild{Widget: w, Grow: 1, Basis: -1}
}

// Sized creates a child with a fixed basis size on the main axis.
func Sized(w Widget, basis int) FlexChild {
	return FlexChild{Widget: w, Grow: 0, Basis: basis}
}

// Flex is a container that lays out children along an axis.
// A Column stacks children vertically at the container's full width
// (a pile); a Row places them side by side (columns).
type Flex struct {
	Direction FlexDirection
	Children  []FlexChild
	Gap       int // Space between children

	bounds      Rect
	childBounds []Rect
}

// VBox creates a vertical flex container.
func VBox(children ...FlexChild) *Flex {
	return &Flex{Direction: Column, Children: children}
}

// HBox creates a horizontal flex container.
func HBox(children ...FlexChild) *Flex {
	return &Flex{Direction: Row, Children: children}
}

// WithGap sets the gap between children.
func (f *Flex) WithGap(gap int) *Flex {
	f.Gap = gap
	return f
}

// Add appends a child to the flex container.
func (f *Flex) Add(child FlexChild) {
	f.Children = append(f.Children, child)
}

// Measure calculates the desired size of the flex container.
func (f *Flex) Measure(constraints Constraints) Size {
	if len(f.Children) == 0 {
		return constraints.MinSize()
	}

	if f.Direction == Column {
		width, height := 0, f.gaps()
		for _, child := range f.Children {
			size := child.Widget.Measure(Constraints{MaxWidth: constraints.MaxWidth, MaxHeight: maxInt})
			if child.Basis >= 0 {
				size.Height = child.Basis
			}
			width = max(width, size.Width)
			height += size.Height
		}
		return constraints.Constrain(Size{Width: width, Height: height})
	}

	widths := f.rowWidths(constraints.MaxWidth)
	width, height := f.gaps(), 0
	for i, child := range f.Children {
		size := child.Widget.Measure(TightWidth(widths[i]))
		width += widths[i]
		height = max(height, size.Height)
	}
	return constraints.Constrain(Size{Width: width, Height: height})
}

// Layout positions all children within the given bounds.
func (f *Flex) Layout(bounds Rect) {
	f.bounds = bounds
	f.childBounds = make([]Rect, len(f.Children))
	if len(f.Children) == 0 {
		return
	}

	if f.Direction == Row {
		widths := f.rowWidths(bounds.Width)
		x := bounds.X
		for i, child := range f.Children {
			f.childBounds[i] = Rect{X: x, Y: bounds.Y, Width: widths[i], Height: bounds.Height}
			child.Widget.Layout(f.childBounds[i])
			x += widths[i] + f.Gap
		}
		return
	}

	heights := make([]int, len(f.Children))
	fixed, totalGrow := f.gaps(), 0.0
	for i, child := range f.Children {
		switch {
		case child.Basis >= 0:
			heights[i] = child.Basis
		default:
			heights[i] = child.Widget.Measure(Constraints{MaxWidth: bounds.Width, MaxHeight: maxInt}).Height
		}
		if child.Grow > 0 {
			totalGrow += child.Grow
		}
		fixed += heights[i]
	}
	if extra := bounds.Height - fixed; extra > 0 && totalGrow > 0 {
		distribute(heights, f.Children, extra, totalGrow)
	}

	y := bounds.Y
	for i, child := range f.Children {
		f.childBounds[i] = Rect{X: bounds.X, Y: y, Width: bounds.Width, Height: heights[i]}
		child.Widget.Layout(f.childBounds[i])
		y += heights[i] + f.Gap
	}
}

// Bounds returns the assigned bounds for the flex container.
func (f *Flex) Bounds() Rect {
	return f.bounds
}

// Render draws all children.
func (f *Flex) Render(ctx RenderContext) {
	for i, child := range f.Children {
		if i < len(f.childBounds) {
			child.Widget.Render(ctx.Sub(f.childBounds[i]))
		}
	}
}

// HandleMessage dispatches to children. Mouse messages go to the child
// under the pointer; anything else goes to children in order and the
// first handler wins.
func (f *Flex) HandleMessage(msg Message) HandleResult {
	if mouse, ok := msg.(MouseMsg); ok {
		for i, child := range f.Children {
			if i < len(f.childBounds) && f.childBounds[i].Contains(mouse.X, mouse.Y) {
				return child.Widget.HandleMessage(msg)
			}
		}
		return Unhandled()
	}
	for _, child := range f.Children {
		if result := child.Widget.HandleMessage(msg); result.Handled {
			return result
		}
	}
	return Unhandled()
}

// rowWidths assigns widths to row children: fixed children first, then
// growing children share what is left.
func (f *Flex) rowWidths(available int) []int {
	widths := make([]int, len(f.Children))
	used, totalGrow := f.gaps(), 0.0
	for i, child := range f.Children {
		if child.Grow > 0 {
			totalGrow += child.Grow
			continue
		}
		if child.Basis >= 0 {
			widths[i] = child.Basis
		} else {
			widths[i] = child.Widget.Measure(Loose(max(0, available-used), maxInt)).Width
		}
		used += widths[i]
	}
	if totalGrow == 0 {
		return widths
	}

	if available == maxInt {
		// Unbounded: growers take their natural width.
		for i, child := range f.Children {
			if child.Grow > 0 {
				widths[i] = child.Widget.Measure(Unbounded()).Width
			}
		}
		return widths
	}
	distribute(widths, f.Children, max(0, available-used), totalGrow)
	return widths
}

func (f *Flex) gaps() int {
	if len(f.Children) < 2 {
		return 0
	}
	return f.Gap * (len(f.Children) - 1)
}

// distribute hands extra space to growing children in proportion to their
// grow factor. The last grower absorbs rounding.
func distribute(sizes []int, children []FlexChild, extra int, totalGrow float64) {
	last := -1
	given := 0
	for i, child := range children {
		if child.Grow <= 0 {
			continue
		}
		share := int(float64(extra) * child.Grow / totalGrow)
		sizes[i] += share
		given += share
		last = i
	}
	if last >= 0 {
		sizes[last] += extra - given
	}
}
