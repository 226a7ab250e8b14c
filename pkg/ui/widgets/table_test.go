package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odvcencio/podium/pkg/ui/runtime"
)

func sampleTable() *Table {
	return NewTable(
		[][]string{{"a", "bbbb"}, {"cc", "d"}},
		[]string{"H1", "H2"},
		[]Align{AlignLeft, AlignRight},
		TableStyle{ColumnSpacing: 1, HeaderDivider: "─"},
	)
}

func TestTable_NaturalLayout(t *testing.T) {
	table := sampleTable()
	assert.Equal(t, []int{2, 4}, table.ColumnWidths())
	assert.Equal(t, 7, table.TotalWidth())

	buf := runtime.Paint(table, 20)
	assert.Equal(t, []string{
		"H1   H2",
		"── ────",
		"a  bbbb",
		"cc    d",
	}, buf.PlainLines())
}

func TestTable_ShrinksAndNotifies(t *testing.T) {
	table := sampleTable()

	var totals []int
	cancel := table.OnChange(func(total int) {
		totals = append(totals, total)
	})

	table.Layout(runtime.Rect{Width: 5, Height: 4})
	assert.Equal(t, []int{2, 2}, table.ColumnWidths())
	assert.Equal(t, 5, table.TotalWidth())

	table.Layout(runtime.Rect{Width: 5, Height: 4})
	table.Layout(runtime.Rect{Width: 40, Height: 4})
	assert.Equal(t, []int{5, 7}, totals)

	cancel()
	table.Layout(runtime.Rect{Width: 5, Height: 4})
	assert.Equal(t, []int{5, 7}, totals)
}

func TestTable_TruncatesShrunkCells(t *testing.T) {
	table := sampleTable()
	buf := runtime.Paint(table, 5)
	assert.Equal(t, []string{"H1 H2", "── ──", "a  b…", "cc  d"}, buf.PlainLines())
}

func TestTable_RaggedRows(t *testing.T) {
	table := NewTable([][]string{{"x"}, {"y", "z", "w"}}, nil, nil, TableStyle{ColumnSpacing: 2})
	assert.Equal(t, []int{1, 1, 1}, table.ColumnWidths())

	buf := runtime.Paint(table, 20)
	assert.Equal(t, []string{"x", "y  z  w"}, buf.PlainLines())
}
