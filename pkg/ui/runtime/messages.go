package runtime

// Message represents an input event delivered to a widget tree.
type Message interface {
	isMessage()
}

// MouseMsg represents a mouse input event in buffer coordinates.
type MouseMsg struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
}

func (MouseMsg) isMessage() {}

// MouseButton identifies which mouse button was involved.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
)

// MouseAction identifies what happened with the mouse.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMove
)
