package runtime

// Command represents an action requested by a widget in response to a
// message. Commands bubble up to whoever dispatched the message.
type Command interface {
	isCommand()
}

// OpenLink asks the host to open a hyperlink that was clicked.
type OpenLink struct {
	Text string
	URL  string
}

func (OpenLink) isCommand() {}
