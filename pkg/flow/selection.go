package flow

import (
	"context"
	"fmt"
	"log"

	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/bus"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/languages"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/session"
)

// Runner processes a completed session into the final user-facing message.
type Runner interface {
	Run(ctx context.Context, sess session.Session) (string, error)
}

// Flow advances a session through its two language selections. Each handler
// accepts only tokens of its own kind, validates the code against the
// registry, and lets the store enforce phase ordering.
type Flow struct {
	store  *session.Store
	langs  *languages.Registry
	out    *bus.MessageBus
	runner Runner
}

// New creates the selection flow.
func New(store *session.Store, langs *languages.Registry, out *bus.MessageBus, runner Runner) *Flow {
	return &Flow{
		store:  store,
		langs:  langs,
		out:    out,
		runner: runner,
	}
}

// LanguageButtons renders the registry as one button per language, each
// carrying a token of the given kind.
func LanguageButtons(kind SelectionKind, langs *languages.Registry) []bus.Button {
	opts := langs.Options()
	buttons := make([]bus.Button, 0, len(opts))
	for _, opt := range opts {
		buttons = append(buttons, bus.Button{
			Label: opt.Label,
			Data:  Token{Kind: kind, Code: opt.Code}.Encode(),
		})
	}
	return buttons
}

// HandleSource records the source language and asks for the target language.
func (f *Flow) HandleSource(ctx context.Context, userKey string, tok Token) error {
	if tok.Kind != SelectSource {
		return fmt.Errorf("%w: kind %s for source selection", ErrBadToken, tok.Kind)
	}
	if !f.langs.Has(tok.Code) {
		return fmt.Errorf("%w: %q", languages.ErrUnknownLanguage, tok.Code)
	}

	if _, err := f.store.SetSourceLanguage(userKey, tok.Code); err != nil {
		return err
	}

	f.out.SendOutbound(bus.OutboundMessage{
		UserKey: userKey,
		Text:    "Which language should I translate into?",
		Buttons: LanguageButtons(SelectTarget, f.langs),
	})
	return nil
}

// HandleTarget records the target language and runs the pipeline. The user is
// told processing has started before the remote calls begin.
func (f *Flow) HandleTarget(ctx context.Context, userKey string, tok Token) error {
	if tok.Kind != SelectTarget {
		return fmt.Errorf("%w: kind %s for target selection", ErrBadToken, tok.Kind)
	}
	if !f.langs.Has(tok.Code) {
		return fmt.Errorf("%w: %q", languages.ErrUnknownLanguage, tok.Code)
	}

	sess, err := f.store.SetTargetLanguage(userKey, tok.Code)
	if err != nil {
		return err
	}

	f.out.SendOutbound(bus.OutboundMessage{
		UserKey: userKey,
		Text:    "Processing your file, this can take a moment...",
	})

	log.Printf("🎬 Session %s ready: %s -> %s", sess.ID, sess.SourceLang, sess.TargetLang)

	result, err := f.runner.Run(ctx, sess)
	if err != nil {
		return err
	}

	f.out.SendOutbound(bus.OutboundMessage{
		UserKey: userKey,
		Text:    result,
	})
	return nil
}
