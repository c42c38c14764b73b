package game

// MessageKind distinguishes the three message streams the UI renders.
type MessageKind int

const (
	SystemMessage MessageKind = iota
	PlayerMessage
	GamemasterMessage
)

type Message struct {
	Kind MessageKind
	Text string
}

// History is the capped chat transcript shown in the message pane.
type History struct {
	messages []Message
	maxSize  int
}

func NewHistory(maxSize int) *History {
	return &History{
		messages: make([]Message, 0, maxSize),
		maxSize:  maxSize,
	}
}

func (h *History) AddSystem(text string) {
	h.add(Message{Kind: SystemMessage, Text: text})
}

func (h *History) AddPlayer(text string) {
	h.add(Message{Kind: PlayerMessage, Text: "You: " + text})
}

func (h *History) AddGamemaster(text string) {
	h.add(Message{Kind: GamemasterMessage, Text: "Gamemaster: " + text})
}

func (h *History) add(m Message) {
	h.messages = append(h.messages, m)

	if len(h.messages) > h.maxSize {
		h.messages = h.messages[len(h.messages)-h.maxSize:]
	}
}

func (h *History) Messages() []Message {
	result := make([]Message, len(h.messages))
	copy(result, h.messages)
	return result
}
