package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/podium/pkg/token"
	"github.com/odvcencio/podium/pkg/ui/runtime"
	"github.com/odvcencio/podium/pkg/ui/style"
	"github.com/odvcencio/podium/pkg/ui/widgets"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n      int
		scheme string
		want   string
	}{
		{1, NumberingNumeric, "1"},
		{12, NumberingNumeric, "12"},
		{1, NumberingAlpha, "a"},
		{2, NumberingAlpha, "b"},
		{26, NumberingAlpha, "z"},
		{27, NumberingAlpha, "a"},
		{1, NumberingRoman, "i"},
		{4, NumberingRoman, "iv"},
		{9, NumberingRoman, "ix"},
		{14, NumberingRoman, "xiv"},
		{1994, NumberingRoman, "mcmxciv"},
		{3999, NumberingRoman, "mmmcmxcix"},
		{4000, NumberingRoman, "4000"},
		{999999999, NumberingRoman, "999999999"},
		{0, NumberingRoman, "0"},
		{-2, NumberingAlpha, "-2"},
		{3, "hebrew", "3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.n, tt.scheme), "%d %s", tt.n, tt.scheme)
	}
}

func TestListMarkers_DepthFallback(t *testing.T) {
	styles := style.NewResolver(nil)
	ordered := list(true, item(), item())
	bulleted := list(false, item())

	assert.Equal(t, []string{"1. ", "2. "}, listMarkers(styles, ordered, "1"))
	assert.Equal(t, []string{"a. ", "b. "}, listMarkers(styles, ordered, "2"))
	assert.Equal(t, []string{"i. ", "ii. "}, listMarkers(styles, ordered, "3"))
	assert.Equal(t, []string{"1. ", "2. "}, listMarkers(styles, ordered, "7"), "missing level uses numbering.default")

	assert.Equal(t, []string{"• "}, listMarkers(styles, bulleted, "1"))
	assert.Equal(t, []string{"⁃ "}, listMarkers(styles, bulleted, "2"))
	assert.Equal(t, []string{"• "}, listMarkers(styles, bulleted, "9"), "missing level uses bullets.default")
}

func TestListMarkers_StartAndBullet(t *testing.T) {
	styles := style.NewResolver(style.Default().Merge(map[string]any{
		"numbering": map[string]any{"1": "roman"},
	}))
	tok := list(true, item(), item(), item())
	tok.Attrs.Start = 3
	tok.Attrs.Bullet = ")"

	assert.Equal(t, []string{"iii) ", "iv) ", "v) "}, listMarkers(styles, tok, "1"))
}

func TestRender_OrderedListMarkers(t *testing.T) {
	r := NewRenderer()
	units := render(t, r, list(true,
		item(blockText("one")),
		item(blockText("two")),
		item(blockText("three")),
	))

	require.Len(t, units, 3)
	assert.True(t, widgets.IsSpacer(units[0]))
	assert.True(t, widgets.IsSpacer(units[2]))

	column := units[1].(*widgets.Padding).Child().(*runtime.Flex)
	require.Len(t, column.Children, 3)
	for i, want := range []string{"1. ", "2. ", "3. "} {
		row := column.Children[i].Widget.(*runtime.Flex)
		marker := row.Children[0]
		assert.Equal(t, want, marker.Widget.(*widgets.Text).PlainText())
		assert.Equal(t, 3, marker.Basis, "marker column fits the widest marker")
	}

	lines := runtime.Paint(units[1], 20).PlainLines()
	assert.Equal(t, []string{"  1. one", "", "  2. two", "", "  3. three", ""}, lines)
}

func TestRender_OrderedListFromZero(t *testing.T) {
	units := render(t, NewRenderer(), token.NewParser().ParseString("0. a\n1. b\n")...)

	require.Len(t, units, 3)
	lines := runtime.Paint(units[1], 40).PlainLines()
	assert.Equal(t, []string{"  0. a", "", "  1. b", ""}, lines)
}

func TestRender_MarkerColumnUsesWidestMarker(t *testing.T) {
	items := make([]*token.Token, 10)
	for i := range items {
		items[i] = item(blockText("x"))
	}
	units := render(t, NewRenderer(), list(true, items...))

	column := units[1].(*widgets.Padding).Child().(*runtime.Flex)
	for _, child := range column.Children {
		assert.Equal(t, 4, child.Widget.(*runtime.Flex).Children[0].Basis)
	}
}

func TestRender_NestedList(t *testing.T) {
	c := newCapture()
	r := NewRenderer(WithHandler(token.KindText, c.handler))

	units := render(t, r,
		list(false,
			item(blockText("outer"), list(false, item(blockText("inner")))),
		),
		token.Text("after"),
	)

	assert.Equal(t, 1, c.depths["outer"])
	assert.Equal(t, 2, c.depths["inner"])
	assert.Equal(t, 0, c.depths["after"], "depth restored after the list")

	require.Len(t, units, 4)
	lines := runtime.Paint(units[1], 20).PlainLines()
	assert.Equal(t, []string{"  • outer", "", "    ⁃ inner", ""}, lines)
}

func TestRender_ListItemErrorPropagates(t *testing.T) {
	r := NewRenderer()
	_, err := r.Render(t.Context(), []*token.Token{
		list(false, item(blockText("fine")), item(token.New("footnote"))),
	})
	require.Error(t, err)
}
