package runtime

import "testing"

func TestConstraints_Tight(t *testing.T) {
	c := Tight(80, 24)

	if c.MinWidth != 80 || c.MaxWidth != 80 {
		t.Errorf("expected width 80-80, got %d-%d", c.MinWidth, c.MaxWidth)
	}
	if c.MinHeight != 24 || c.MaxHeight != 24 {
		t.Errorf("expected height 24-24, got %d-%d", c.MinHeight, c.MaxHeight)
	}
	if !c.IsTight() {
		t.Error("expected IsTight() to be true")
	}
}

func TestConstraints_Loose(t *testing.T) {
	c := Loose(80, 24)

	if c.MinWidth != 0 || c.MaxWidth != 80 {
		t.Errorf("expected width 0-80, got %d-%d", c.MinWidth, c.MaxWidth)
	}
	if c.IsTight() {
		t.Error("expected IsTight() to be false")
	}
}

func TestConstraints_Constrain(t *testing.T) {
	c := Constraints{MinWidth: 10, MaxWidth: 100, MinHeight: 5, MaxHeight: 50}

	tests := []struct {
		input    Size
		expected Size
	}{
		{Size{50, 25}, Size{50, 25}},   // Within bounds
		{Size{5, 25}, Size{10, 25}},    // Below min width
		{Size{150, 25}, Size{100, 25}}, // Above max width
		{Size{50, 2}, Size{50, 5}},     // Below min height
		{Size{50, 100}, Size{50, 50}},  // Above max height
	}

	for _, tc := range tests {
		got := c.Constrain(tc.input)
		if got != tc.expected {
			t.Errorf("Constrain(%v) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}

func TestConstraints_TightWidth(t *testing.T) {
	c := TightWidth(40)
	if c.MinWidth != 40 || c.MaxWidth != 40 {
		t.Errorf("expected width 40-40, got %d-%d", c.MinWidth, c.MaxWidth)
	}
	if c.MaxHeight != maxInt {
		t.Error("expected unbounded height")
	}
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}

	tests := []struct {
		x, y     int
		expected bool
	}{
		{15, 15, true},  // Center
		{10, 10, true},  // Top-left corner
		{29, 29, true},  // Bottom-right (exclusive edge)
		{9, 15, false},  // Left of rect
		{30, 15, false}, // Right of rect
		{15, 9, false},  // Above rect
		{15, 30, false}, // Below rect
	}

	for _, tc := range tests {
		got := r.Contains(tc.x, tc.y)
		if got != tc.expected {
			t.Errorf("Contains(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.expected)
		}
	}
}

func TestRect_Inset(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 50}
	inset := r.Inset(5, 10, 5, 10)

	expected := Rect{X: 10, Y: 5, Width: 80, Height: 40}
	if inset != expected {
		t.Errorf("Inset = %v, want %v", inset, expected)
	}

	if got := (Rect{Width: 3, Height: 3}).Inset(2, 2, 2, 2); got.Width != 0 || got.Height != 0 {
		t.Errorf("Inset past zero = %v, want empty", got)
	}
}

func TestHandleResult(t *testing.T) {
	h := Handled()
	if !h.Handled || len(h.Commands) != 0 {
		t.Errorf("Handled() = %+v, want {Handled:true, Commands:[]}", h)
	}

	u := Unhandled()
	if u.Handled || len(u.Commands) != 0 {
		t.Errorf("Unhandled() = %+v, want {Handled:false, Commands:[]}", u)
	}

	wc := WithCommand(OpenLink{Text: "docs", URL: "https://example.com"})
	if !wc.Handled || len(wc.Commands) != 1 {
		t.Errorf("WithCommand() = %+v, want 1 command", wc)
	}
	if link, ok := wc.Commands[0].(OpenLink); !ok || link.URL != "https://example.com" {
		t.Errorf("command = %#v, want OpenLink", wc.Commands[0])
	}
}
