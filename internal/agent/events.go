package agent

// Event is one typed outbound item from a session: either a Status or a
// Message. The agent sends events to a Sink it does not own; whoever wires
// the session to a transport decides what to do with them.
type Event interface {
	event()
}

// Status is a machine-readable progress token with a human-readable detail.
type Status struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

func (Status) event() {}

// Message is a chat line shown to the user. Content is markdown.
type Message struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

func (Message) event() {}

// Sink receives the agent's outbound events.
type Sink interface {
	Send(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

func (f SinkFunc) Send(e Event) { f(e) }
