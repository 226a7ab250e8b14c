package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odvcencio/podium/pkg/ui/compositor"
	"github.com/odvcencio/podium/pkg/ui/runtime"
)

func TestSpacer(t *testing.T) {
	spacer := NewSpacer()
	assert.True(t, IsSpacer(spacer))
	assert.False(t, IsSpacer(NewDivider("─", compositor.DefaultStyle(), 0, 0)))
	assert.False(t, IsSpacer(plain("")))
	assert.Equal(t, 1, spacer.Measure(runtime.Loose(10, 10)).Height)
}

func TestDivider_RendersRuleWithPadding(t *testing.T) {
	rule := NewDivider("─", compositor.DefaultStyle(), 1, 1)
	buf := runtime.Paint(rule, 5)
	assert.Equal(t, []string{"", "─────", ""}, buf.PlainLines())
	assert.Equal(t, "─", rule.Char())
}

func TestPadding_Margins(t *testing.T) {
	pad := NewPadding(plain("abc"), 2, 1)
	assert.Equal(t, runtime.Size{Width: 6, Height: 1}, pad.Measure(runtime.Loose(10, 10)))

	buf := runtime.Paint(pad, 10)
	assert.Equal(t, []string{"  abc"}, buf.PlainLines())
}

func TestPadding_MarginsNarrowChild(t *testing.T) {
	buf := runtime.Paint(NewPadding(plain("aa bb"), 2, 2), 6)
	assert.Equal(t, []string{"  aa", "  bb"}, buf.PlainLines())
}

func TestPadding_FixedWidthCentres(t *testing.T) {
	pad := NewFixedWidth(plain("ab"), 4, AlignCenter)
	buf := runtime.Paint(pad, 10)
	assert.Equal(t, []string{"   ab"}, buf.PlainLines())

	pad.SetWidth(8)
	assert.Equal(t, 8, pad.Width())
	buf = runtime.Paint(pad, 10)
	assert.Equal(t, []string{" ab"}, buf.PlainLines())
}

func TestLineBox_OpenFrame(t *testing.T) {
	frame := runtime.Frame{TopLeft: "┌", Left: "╎", BottomLeft: "└"}
	fill := compositor.DefaultStyle().WithBG(compositor.ColorBlack)
	box := NewLineBox(plain("hi"), frame, compositor.DefaultStyle(), fill)

	assert.Equal(t, runtime.Size{Width: 3, Height: 3}, box.Measure(runtime.Loose(10, 10)))

	buf := runtime.Paint(box, 6)
	assert.Equal(t, []string{"┌", "╎hi", "└"}, buf.PlainLines())
	assert.Equal(t, compositor.ColorBlack, buf.Get(1, 1).Style.BG)
	assert.Equal(t, compositor.ColorBlack, buf.Get(0, 1).Style.BG)
}

func TestLineBox_ForwardsClicks(t *testing.T) {
	text := NewText(Span{Text: "go", Link: &Link{Text: "go", URL: "https://go.dev"}})
	box := NewLineBox(text, runtime.Frame{Left: "│"}, compositor.DefaultStyle(), compositor.DefaultStyle())
	runtime.Paint(box, 10)

	result := box.HandleMessage(runtime.MouseMsg{X: 1, Y: 0, Button: runtime.MouseLeft})
	assert.True(t, result.Handled)
}

func TestPadding_TracksTableWidth(t *testing.T) {
	table := sampleTable()
	pad := NewFixedWidth(table, table.TotalWidth()+2, AlignCenter)
	table.OnChange(func(total int) { pad.SetWidth(total + 2) })

	runtime.Paint(pad, 5)
	assert.Equal(t, 5, table.TotalWidth())
	assert.Equal(t, 7, pad.Width())

	runtime.Paint(pad, 30)
	assert.Equal(t, 7, table.TotalWidth(), "table grows back once space returns")
	assert.Equal(t, 9, pad.Width())
}
