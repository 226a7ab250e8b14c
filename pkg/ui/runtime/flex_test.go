package runtime

import "testing"

// testWidget is a simple widget for testing layout.
type testWidget struct {
	preferredSize Size
	bounds        Rect
	clicks        int
}

func newTestWidget(w, h int) *testWidget {
	return &testWidget{preferredSize: Size{Width: w, Height: h}}
}

func (t *testWidget) Measure(constraints Constraints) Size {
	return constraints.Constrain(t.preferredSize)
}

func (t *testWidget) Layout(bounds Rect) {
	t.bounds = bounds
}

func (t *testWidget) Render(ctx RenderContext) {
	ctx.Buffer.Fill(t.bounds, '*', ctx.Buffer.Get(0, 0).Style)
}

func (t *testWidget) HandleMessage(msg Message) HandleResult {
	if _, ok := msg.(MouseMsg); ok {
		t.clicks++
		return Handled()
	}
	return Unhandled()
}

func TestVBox_FixedChildren(t *testing.T) {
	w1 := newTestWidget(100, 10)
	w2 := newTestWidget(100, 20)
	w3 := newTestWidget(100, 30)

	vbox := VBox(Fixed(w1), Fixed(w2), Fixed(w3))

	size := vbox.Measure(Loose(100, 100))
	if size.Height != 60 {
		t.Errorf("Measure height = %d, want 60", size.Height)
	}

	vbox.Layout(Rect{0, 0, 100, 100})

	if w1.bounds != (Rect{0, 0, 100, 10}) {
		t.Errorf("w1 bounds = %v, want {0,0,100,10}", w1.bounds)
	}
	if w2.bounds != (Rect{0, 10, 100, 20}) {
		t.Errorf("w2 bounds = %v, want {0,10,100,20}", w2.bounds)
	}
	if w3.bounds != (Rect{0, 30, 100, 30}) {
		t.Errorf("w3 bounds = %v, want {0,30,100,30}", w3.bounds)
	}
}

func TestVBox_ChildrenGetFullWidth(t *testing.T) {
	narrow := newTestWidget(4, 1)
	vbox := VBox(Fixed(narrow))

	vbox.Layout(Rect{0, 0, 30, 1})
	if narrow.bounds.Width != 30 {
		t.Errorf("narrow width = %d, want 30", narrow.bounds.Width)
	}
}

func TestVBox_Gap(t *testing.T) {
	vbox := VBox(Fixed(newTestWidget(5, 1)), Fixed(newTestWidget(5, 1))).WithGap(2)
	if got := vbox.Measure(Loose(10, 100)).Height; got != 4 {
		t.Errorf("height = %d, want 4", got)
	}
}

func TestHBox_SizedAndExpanded(t *testing.T) {
	marker := newTestWidget(2, 1)
	body := newTestWidget(50, 3)

	hbox := HBox(Sized(marker, 4), Expanded(body))

	size := hbox.Measure(Loose(40, maxInt))
	if size.Width != 40 || size.Height != 3 {
		t.Errorf("Measure = %v, want {40 3}", size)
	}

	hbox.Layout(Rect{X: 2, Y: 1, Width: 40, Height: 3})
	if marker.bounds != (Rect{2, 1, 4, 3}) {
		t.Errorf("marker bounds = %v", marker.bounds)
	}
	if body.bounds != (Rect{6, 1, 36, 3}) {
		t.Errorf("body bounds = %v", body.bounds)
	}
}

func TestHBox_GrowersShareRemainder(t *testing.T) {
	a := newTestWidget(1, 1)
	b := newTestWidget(1, 1)
	hbox := HBox(Expanded(a), Expanded(b))

	hbox.Layout(Rect{Width: 11, Height: 1})
	if a.bounds.Width+b.bounds.Width != 11 {
		t.Errorf("widths %d+%d, want 11", a.bounds.Width, b.bounds.Width)
	}
	if a.bounds.Width != 5 || b.bounds.Width != 6 {
		t.Errorf("widths = %d, %d; want 5, 6", a.bounds.Width, b.bounds.Width)
	}
}

func TestHBox_UnboundedUsesNaturalWidth(t *testing.T) {
	hbox := HBox(Fixed(newTestWidget(3, 1)), Expanded(newTestWidget(7, 2)))
	size := hbox.Measure(Unbounded())
	if size.Width != 10 || size.Height != 2 {
		t.Errorf("Measure = %v, want {10 2}", size)
	}
}

func TestFlex_Empty(t *testing.T) {
	if got := VBox().Measure(Loose(10, 10)); got != (Size{}) {
		t.Errorf("empty Measure = %v", got)
	}
}

func TestFlex_MouseRoutesToChildUnderPointer(t *testing.T) {
	left := newTestWidget(5, 1)
	right := newTestWidget(5, 1)
	hbox := HBox(Sized(left, 5), Sized(right, 5))
	hbox.Layout(Rect{Width: 10, Height: 1})

	result := hbox.HandleMessage(MouseMsg{X: 7, Y: 0, Button: MouseLeft, Action: MousePress})
	if !result.Handled {
		t.Fatal("expected click to be handled")
	}
	if left.clicks != 0 || right.clicks != 1 {
		t.Errorf("clicks left=%d right=%d, want 0/1", left.clicks, right.clicks)
	}

	if hbox.HandleMessage(MouseMsg{X: 20, Y: 0}).Handled {
		t.Error("click outside children should be unhandled")
	}
}

func TestPaint(t *testing.T) {
	root := VBox(Fixed(newTestWidget(3, 1)), Fixed(newTestWidget(3, 2)))
	buf := Paint(root, 4)

	w, h := buf.Size()
	if w != 4 || h != 3 {
		t.Fatalf("buffer = %dx%d, want 4x3", w, h)
	}
	for i, line := range buf.PlainLines() {
		if line != "****" {
			t.Errorf("line %d = %q, want ****", i, line)
		}
	}
}
