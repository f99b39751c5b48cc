package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/languages"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/providers"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/session"
)

var (
	// ErrTranscriptionFailed means the speech-to-text call did not produce text.
	ErrTranscriptionFailed = errors.New("transcription failed")
	// ErrTranslationFailed means the translation call failed; the transcript
	// itself is still delivered.
	ErrTranslationFailed = errors.New("translation failed")
)

// Pipeline turns a completed session into the final user-facing message:
// transcribe, translate unless both languages match, format both texts. The
// session and its media file are torn down on every path, so a failed run can
// never block the user's next request.
type Pipeline struct {
	transcriber       providers.Transcriber
	translator        providers.Translator
	langs             *languages.Registry
	store             *session.Store
	transcribeTimeout time.Duration
	translateTimeout  time.Duration
}

// New creates the pipeline. Zero timeouts fall back to defaults (5m for
// transcription, 60s for translation).
func New(transcriber providers.Transcriber, translator providers.Translator, langs *languages.Registry, store *session.Store, transcribeTimeout, translateTimeout time.Duration) *Pipeline {
	if transcribeTimeout <= 0 {
		transcribeTimeout = 5 * time.Minute
	}
	if translateTimeout <= 0 {
		translateTimeout = 60 * time.Second
	}
	return &Pipeline{
		transcriber:       transcriber,
		translator:        translator,
		langs:             langs,
		store:             store,
		transcribeTimeout: transcribeTimeout,
		translateTimeout:  translateTimeout,
	}
}

// Run processes one ready session and returns the formatted result message.
func (p *Pipeline) Run(ctx context.Context, sess session.Session) (string, error) {
	defer p.teardown(sess)

	tctx, cancel := context.WithTimeout(ctx, p.transcribeTimeout)
	defer cancel()

	transcript, err := p.transcriber.Transcribe(tctx, sess.MediaPath, sess.SourceLang)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	log.Printf("📝 Transcribed session %s (%d chars)", sess.ID, len(transcript))

	translated := transcript
	translationFailed := false
	if sess.SourceLang != sess.TargetLang {
		xctx, cancel := context.WithTimeout(ctx, p.translateTimeout)
		defer cancel()

		translated, err = p.translator.Translate(xctx, transcript, sess.SourceLang, sess.TargetLang)
		if err != nil {
			// Degrade to transcript-only output instead of losing the work.
			log.Printf("⚠️ %v for session %s: %v", ErrTranslationFailed, sess.ID, err)
			translationFailed = true
		}
	}

	if translationFailed {
		return fmt.Sprintf("%s\n\n⚠️ Translation failed, so here is the transcript only.",
			p.labeled("Original", sess.SourceLang, transcript)), nil
	}

	return fmt.Sprintf("%s\n\n%s",
		p.labeled("Original", sess.SourceLang, transcript),
		p.labeled("Translation", sess.TargetLang, translated)), nil
}

func (p *Pipeline) labeled(heading, code, text string) string {
	label, err := p.langs.LabelOf(code)
	if err != nil {
		label = code
	}
	return fmt.Sprintf("%s (%s):\n%s", heading, label, text)
}

func (p *Pipeline) teardown(sess session.Session) {
	p.store.Release(sess.UserKey, sess.ID)
	if sess.MediaPath == "" {
		return
	}
	if err := os.Remove(sess.MediaPath); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Failed to remove media file %s: %v", sess.MediaPath, err)
	}
}
