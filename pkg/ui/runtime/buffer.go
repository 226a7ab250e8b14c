package runtime

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/podium/pkg/ui/compositor"
)

// Cell represents a single character cell in the buffer.
// Width is the number of columns the rune occupies; the trailing half of a
// wide rune is stored as a continuation cell with Width 0.
type Cell struct {
	Rune  rune
	Style compositor.Style
	Width uint8
}

func blankCell() Cell {
	return Cell{Rune: ' ', Style: compositor.DefaultStyle(), Width: 1}
}

// Buffer is a 2D grid of cells that widgets render into.
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

// NewBuffer creates a new buffer with the given dimensions.
func NewBuffer(w, h int) *Buffer {
	w = max(0, w)
	h = max(0, h)
	cells := make([]Cell, w*h)
	for i := range cells {
		cells[i] = blankCell()
	}
	return &Buffer{cells: cells, width: w, height: h}
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (w, h int) {
	return b.width, b.height
}

// Get returns the cell at the given position.
// Out of bounds returns a blank cell.
func (b *Buffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return blankCell()
	}
	return b.cells[y*b.width+x]
}

// Set sets a single-width cell at the given position.
// Out of bounds writes are silently ignored.
func (b *Buffer) Set(x, y int, r rune, s compositor.Style) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: r, Style: s, Width: 1}
}

// SetString writes s starting at (x, y) and stops before column maxX.
// Wide runes that would straddle maxX are dropped. Returns the column
// after the last written cell.
func (b *Buffer) SetString(x, y int, s string, style compositor.Style, maxX int) int {
	maxX = min(maxX, b.width)
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		if b.inBounds(x, y) {
			b.cells[y*b.width+x] = Cell{Rune: r, Style: style, Width: uint8(w)}
			for i := 1; i < w; i++ {
				if b.inBounds(x+i, y) {
					b.cells[y*b.width+x+i] = Cell{Style: style}
				}
			}
		}
		x += w
	}
	return x
}

// Fill fills a rectangle with a character and style.
func (b *Buffer) Fill(r Rect, ch rune, s compositor.Style) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			b.Set(x, y, ch, s)
		}
	}
}

// PlainLines returns the buffer rows as text with trailing blanks trimmed.
func (b *Buffer) PlainLines() []string {
	lines := make([]string, b.height)
	for y := 0; y < b.height; y++ {
		var sb strings.Builder
		for x := 0; x < b.width; x++ {
			cell := b.cells[y*b.width+x]
			if cell.Width == 0 {
				continue
			}
			sb.WriteRune(cell.Rune)
		}
		lines[y] = strings.TrimRight(sb.String(), " ")
	}
	return lines
}

// ANSILines returns the buffer rows encoded with SGR escape sequences.
// Trailing unstyled blanks are dropped from each row.
func (b *Buffer) ANSILines() []string {
	lines := make([]string, b.height)
	for y := 0; y < b.height; y++ {
		row := b.cells[y*b.width : (y+1)*b.width]
		end := len(row)
		for end > 0 && row[end-1].Rune == ' ' && row[end-1].Style.Plain() {
			end--
		}

		w := compositor.NewANSIWriter()
		for _, cell := range row[:end] {
			if cell.Width == 0 {
				continue
			}
			w.SetStyle(cell.Style)
			w.WriteRune(cell.Rune)
		}
		w.Reset()
		lines[y] = w.String()
	}
	return lines
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Frame describes the glyphs used to draw a box border. An empty glyph
// leaves that position blank; an edge whose glyphs are all empty is not
// drawn at all and takes no space.
type Frame struct {
	TopLeft, Top, TopRight          string
	Left, Right                     string
	BottomLeft, Bottom, BottomRight string
}

// Insets returns how many cells the frame occupies on each side.
func (f Frame) Insets() (top, right, bottom, left int) {
	if f.TopLeft != "" || f.Top != "" || f.TopRight != "" {
		top = 1
	}
	if f.BottomLeft != "" || f.Bottom != "" || f.BottomRight != "" {
		bottom = 1
	}
	if f.TopLeft != "" || f.Left != "" || f.BottomLeft != "" {
		left = 1
	}
	if f.TopRight != "" || f.Right != "" || f.BottomRight != "" {
		right = 1
	}
	return top, right, bottom, left
}

// DrawFrame draws f around the edge of r.
func (b *Buffer) DrawFrame(r Rect, f Frame, s compositor.Style) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	top, right, bottom, left := f.Insets()
	x2 := r.X + r.Width - 1
	y2 := r.Y + r.Height - 1
	maxX := r.X + r.Width

	edge := func(y int, lcorner, line, rcorner string) {
		if left > 0 {
			b.SetString(r.X, y, lcorner, s, maxX)
		}
		if line != "" {
			for x := r.X + left; x < maxX-right; {
				next := b.SetString(x, y, line, s, maxX-right)
				if next == x {
					break
				}
				x = next
			}
		}
		if right > 0 {
			b.SetString(x2, y, rcorner, s, maxX)
		}
	}

	if top > 0 {
		edge(r.Y, f.TopLeft, f.Top, f.TopRight)
	}
	if bottom > 0 && y2 >= r.Y+top {
		edge(y2, f.BottomLeft, f.Bottom, f.BottomRight)
	}
	for y := r.Y + top; y <= y2-bottom; y++ {
		if left > 0 {
			b.SetString(r.X, y, f.Left, s, maxX)
		}
		if right > 0 {
			b.SetString(x2, y, f.Right, s, maxX)
		}
	}
}

// Blend layers every cell in r on top of base, so cells without their own
// colors pick up base's colors.
func (b *Buffer) Blend(r Rect, base compositor.Style) {
	for y := max(0, r.Y); y < min(b.height, r.Y+r.Height); y++ {
		for x := max(0, r.X); x < min(b.width, r.X+r.Width); x++ {
			idx := y*b.width + x
			b.cells[idx].Style = compositor.Merge(base, b.cells[idx].Style)
		}
	}
}
