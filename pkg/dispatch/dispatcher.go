package dispatch

import (
	"context"
	"errors"
	"log"

	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/bus"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/flow"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/intake"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/languages"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/pipeline"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/session"
)

const greeting = "Hi! Send me a voice message, audio file, or video and I'll turn it into text.\n" +
	"We'll pick the audio's language and the translation language first."

// Transport sends messages back to the chat service.
type Transport interface {
	SendText(chatID, content string) error
	SendButtons(chatID, prompt string, buttons []bus.Button) error
}

// Dispatcher routes inbound events to intake and the selection flow, and
// outbound messages to the transport. It is the error boundary: every failure
// a user can trigger becomes a chat message here, never a crash.
type Dispatcher struct {
	bus       *bus.MessageBus
	transport Transport
	intake    *intake.Intake
	flow      *flow.Flow
}

// New creates the dispatcher.
func New(b *bus.MessageBus, transport Transport, in *intake.Intake, fl *flow.Flow) *Dispatcher {
	return &Dispatcher{
		bus:       b,
		transport: transport,
		intake:    in,
		flow:      fl,
	}
}

// Run consumes the bus until ctx is canceled. Each inbound event is handled
// in its own goroutine so one user's slow download or transcription never
// stalls another user's button press.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.bus.Inbound:
			go d.handle(ctx, ev)
		case msg := <-d.bus.Outbound:
			d.deliver(msg)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, ev bus.InboundEvent) {
	var err error
	switch ev.Kind {
	case bus.EventCommand:
		d.handleCommand(ev)
	case bus.EventMedia:
		err = d.intake.HandleMedia(ctx, ev.UserKey, ev.Media)
	case bus.EventCallback:
		err = d.handleCallback(ctx, ev)
	default:
		log.Printf("⚠️ Dropping event of unknown kind %q", ev.Kind)
	}

	if err != nil {
		log.Printf("❌ Event from user %s failed: %v", ev.UserKey, err)
		d.bus.SendOutbound(bus.OutboundMessage{
			UserKey: ev.UserKey,
			Text:    userMessage(err),
		})
	}
}

func (d *Dispatcher) handleCommand(ev bus.InboundEvent) {
	switch ev.Command {
	case "start", "help":
		d.bus.SendOutbound(bus.OutboundMessage{UserKey: ev.UserKey, Text: greeting})
	default:
		d.bus.SendOutbound(bus.OutboundMessage{
			UserKey: ev.UserKey,
			Text:    "Unknown command. Send /start for instructions.",
		})
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, ev bus.InboundEvent) error {
	tok, err := flow.ParseToken(ev.Callback)
	if err != nil {
		return err
	}
	if tok.Kind == flow.SelectSource {
		return d.flow.HandleSource(ctx, ev.UserKey, tok)
	}
	return d.flow.HandleTarget(ctx, ev.UserKey, tok)
}

func (d *Dispatcher) deliver(msg bus.OutboundMessage) {
	var err error
	if len(msg.Buttons) > 0 {
		err = d.transport.SendButtons(msg.UserKey, msg.Text, msg.Buttons)
	} else {
		err = d.transport.SendText(msg.UserKey, msg.Text)
	}
	if err != nil {
		log.Printf("❌ Failed to send message to %s: %v", msg.UserKey, err)
	}
}

// userMessage translates an internal error into the reply the user sees.
func userMessage(err error) string {
	switch {
	case errors.Is(err, intake.ErrUnsupportedMedia):
		return "Please send a voice message, audio file, or video."
	case errors.Is(err, intake.ErrRetrievalFailed):
		return "I couldn't download that file. Please try sending it again."
	case errors.Is(err, session.ErrDuplicateSession):
		return "You already have a file in progress. Finish choosing its languages first."
	case errors.Is(err, languages.ErrUnknownLanguage):
		return "That language isn't available. Please pick one of the offered options."
	case errors.Is(err, pipeline.ErrTranscriptionFailed):
		return "Transcription failed. Please resend the media file to try again."
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrInvalidPhase),
		errors.Is(err, flow.ErrBadToken):
		return "That selection is no longer valid. Please resend the media file."
	default:
		return "Something went wrong. Please resend the media file."
	}
}
