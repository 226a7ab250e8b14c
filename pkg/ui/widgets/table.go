package widgets

import (
	"slices"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/podium/pkg/ui/compositor"
	"github.com/odvcencio/podium/pkg/ui/runtime"
)

// TableStyle configures table spacing and colors.
type TableStyle struct {
	ColumnSpacing int
	HeaderDivider string
	Header        compositor.Style
	Cell          compositor.Style
	Divider       compositor.Style
}

// Table lays out a header row and a cell matrix in aligned columns. When
// it is laid out narrower than its natural width the widest columns give
// up cells first; subscribers hear about every change in total width.
type Table struct {
	Base
	headers []string
	cells   [][]string
	aligns  []Align
	style   TableStyle

	natural []int
	widths  []int

	subscribers []tableSubscriber
	nextID      int
}

type tableSubscriber struct {
	id int
	fn func(total int)
}

// NewTable creates a table. Rows shorter than the widest row are padded
// with empty cells; missing aligns default to left.
func NewTable(cells [][]string, headers []string, aligns []Align, style TableStyle) *Table {
	cols := len(headers)
	for _, row := range cells {
		cols = max(cols, len(row))
	}

	t := &Table{
		headers: slices.Clone(headers),
		cells:   cells,
		aligns:  make([]Align, cols),
		style:   style,
		natural: make([]int, cols),
	}
	t.style.ColumnSpacing = max(0, style.ColumnSpacing)
	copy(t.aligns, aligns)

	for i, h := range headers {
		t.natural[i] = runewidth.StringWidth(h)
	}
	for _, row := range cells {
		for i, cell := range row {
			t.natural[i] = max(t.natural[i], runewidth.StringWidth(cell))
		}
	}
	t.widths = slices.Clone(t.natural)
	return t
}

// ColumnWidths returns the current column widths.
func (t *Table) ColumnWidths() []int {
	return slices.Clone(t.widths)
}

// TotalWidth returns the current rendered width including column spacing.
func (t *Table) TotalWidth() int {
	return t.total(t.widths)
}

// OnChange registers fn to be called synchronously whenever the total
// width changes. The returned function removes the subscription.
func (t *Table) OnChange(fn func(total int)) (cancel func()) {
	id := t.nextID
	t.nextID++
	t.subscribers = append(t.subscribers, tableSubscriber{id: id, fn: fn})
	return func() {
		t.subscribers = slices.DeleteFunc(t.subscribers, func(s tableSubscriber) bool {
			return s.id == id
		})
	}
}

// Measure returns the table size when fitted to the maximum width.
func (t *Table) Measure(constraints runtime.Constraints) runtime.Size {
	widths := t.fit(constraints.MaxWidth)
	return constraints.Constrain(runtime.Size{Width: t.total(widths), Height: t.rows()})
}

// Layout fits the columns to the bounds and notifies subscribers when the
// total width moved.
func (t *Table) Layout(bounds runtime.Rect) {
	t.bounds = bounds
	widths := t.fit(bounds.Width)
	if slices.Equal(widths, t.widths) {
		return
	}
	before := t.TotalWidth()
	t.widths = widths
	if after := t.TotalWidth(); after != before {
		for _, sub := range slices.Clone(t.subscribers) {
			sub.fn(after)
		}
	}
}

// Render draws the header, divider and body rows.
func (t *Table) Render(ctx runtime.RenderContext) {
	y := t.bounds.Y
	bottom := t.bounds.Y + t.bounds.Height
	if len(t.headers) > 0 && y < bottom {
		t.drawRow(ctx.Buffer, y, t.headers, t.style.Header)
		y++
		if t.style.HeaderDivider != "" && y < bottom {
			t.drawDivider(ctx.Buffer, y)
			y++
		}
	}
	for _, row := range t.cells {
		if y >= bottom {
			return
		}
		t.drawRow(ctx.Buffer, y, row, t.style.Cell)
		y++
	}
}

func (t *Table) rows() int {
	n := len(t.cells)
	if len(t.headers) > 0 {
		n++
		if t.style.HeaderDivider != "" {
			n++
		}
	}
	return n
}

func (t *Table) total(widths []int) int {
	if len(widths) == 0 {
		return 0
	}
	sum := t.style.ColumnSpacing * (len(widths) - 1)
	for _, w := range widths {
		sum += w
	}
	return sum
}

// fit shrinks the widest column one cell at a time until the table fits
// in avail, never below one cell per column.
func (t *Table) fit(avail int) []int {
	widths := slices.Clone(t.natural)
	for t.total(widths) > avail {
		widest := -1
		for i, w := range widths {
			if w > 1 && (widest < 0 || w > widths[widest]) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		widths[widest]--
	}
	return widths
}

func (t *Table) drawRow(buf *runtime.Buffer, y int, row []string, style compositor.Style) {
	x := t.bounds.X
	maxX := t.bounds.X + t.bounds.Width
	for i, width := range t.widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		if runewidth.StringWidth(cell) > width {
			cell = runewidth.Truncate(cell, width, "…")
		}
		offset := 0
		switch t.aligns[i] {
		case AlignCenter:
			offset = (width - runewidth.StringWidth(cell)) / 2
		case AlignRight:
			offset = width - runewidth.StringWidth(cell)
		}
		buf.SetString(x+offset, y, cell, style, min(maxX, x+width))
		x += width + t.style.ColumnSpacing
	}
}

func (t *Table) drawDivider(buf *runtime.Buffer, y int) {
	x := t.bounds.X
	maxX := t.bounds.X + t.bounds.Width
	for _, width := range t.widths {
		end := min(maxX, x+width)
		for cx := x; cx < end; {
			next := buf.SetString(cx, y, t.style.HeaderDivider, t.style.Divider, end)
			if next == cx {
				break
			}
			cx = next
		}
		x += width + t.style.ColumnSpacing
	}
}
