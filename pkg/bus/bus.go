package bus

// EventKind identifies what an inbound event carries.
type EventKind string

const (
	EventCommand  EventKind = "command"
	EventMedia    EventKind = "media"
	EventCallback EventKind = "callback"
)

// MediaKind is the transport-declared kind of an attachment.
type MediaKind string

const (
	MediaVoice    MediaKind = "voice"
	MediaAudio    MediaKind = "audio"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
)

// MediaAttachment describes a file attached to an inbound message. FileID is
// the transport's opaque handle, resolved to a local path on download.
type MediaAttachment struct {
	FileID   string
	Kind     MediaKind
	MimeType string
	FileName string
}

// InboundEvent represents one event received from a channel (e.g., Telegram).
// Exactly one of Command, Media, or Callback is meaningful, selected by Kind.
type InboundEvent struct {
	Kind     EventKind
	UserKey  string // chat identifier, stable per conversation
	Command  string
	Media    *MediaAttachment // nil when the message carried no usable media
	Callback string           // raw callback token from a button press
}

// Button is one inline keyboard button: a visible label and the opaque token
// sent back when the user taps it.
type Button struct {
	Label string
	Data  string
}

// OutboundMessage represents a message to be sent back to a channel. When
// Buttons is non-empty the channel renders Text as a prompt above an inline
// keyboard.
type OutboundMessage struct {
	UserKey string
	Text    string
	Buttons []Button
}

// MessageBus routes events between channels and the dispatcher.
type MessageBus struct {
	Inbound  chan InboundEvent
	Outbound chan OutboundMessage
}

// NewMessageBus creates a new initialized MessageBus.
func NewMessageBus() *MessageBus {
	return &MessageBus{
		Inbound:  make(chan InboundEvent, 100),
		Outbound: make(chan OutboundMessage, 100),
	}
}

func (b *MessageBus) SendInbound(ev InboundEvent) {
	b.Inbound <- ev
}

func (b *MessageBus) SendOutbound(msg OutboundMessage) {
	b.Outbound <- msg
}
