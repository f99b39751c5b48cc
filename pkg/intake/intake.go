package intake

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/bus"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/flow"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/languages"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/session"
)

var (
	// ErrUnsupportedMedia means the message carried no transcribable media.
	ErrUnsupportedMedia = errors.New("unsupported media type")
	// ErrRetrievalFailed means the media file could not be downloaded.
	ErrRetrievalFailed = errors.New("failed to retrieve media file")
)

// Fetcher downloads a transport file handle to a local path.
type Fetcher interface {
	Fetch(ctx context.Context, fileID string) (string, error)
}

// Intake validates inbound media, downloads it, and opens a session.
type Intake struct {
	store *session.Store
	langs *languages.Registry
	fetch Fetcher
	out   *bus.MessageBus
}

// New creates the media intake.
func New(store *session.Store, langs *languages.Registry, fetch Fetcher, out *bus.MessageBus) *Intake {
	return &Intake{
		store: store,
		langs: langs,
		fetch: fetch,
		out:   out,
	}
}

// HandleMedia opens a session for a supported attachment and asks for the
// source language. Nothing is created when the media is unsupported or the
// download fails.
func (in *Intake) HandleMedia(ctx context.Context, userKey string, media *bus.MediaAttachment) error {
	if !Supported(media) {
		return ErrUnsupportedMedia
	}

	path, err := in.fetch.Fetch(ctx, media.FileID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRetrievalFailed, err)
	}

	sess, displaced, err := in.store.Create(userKey, path, string(media.Kind))
	if err != nil {
		// The downloaded file belongs to no session; clean it up.
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Printf("⚠️ Failed to remove orphaned media file %s: %v", path, rmErr)
		}
		return err
	}

	if displaced != nil && displaced.MediaPath != "" {
		log.Printf("♻️ Replacing in-flight session %s for user %s", displaced.ID, userKey)
		if rmErr := os.Remove(displaced.MediaPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Printf("⚠️ Failed to remove replaced media file %s: %v", displaced.MediaPath, rmErr)
		}
	}

	log.Printf("📥 Session %s opened for user %s (%s)", sess.ID, userKey, media.Kind)

	in.out.SendOutbound(bus.OutboundMessage{
		UserKey: userKey,
		Text:    "Which language is the audio in?",
		Buttons: flow.LanguageButtons(flow.SelectSource, in.langs),
	})
	return nil
}

// Supported reports whether the attachment is transcribable: a voice note,
// audio track, video, or a document whose declared content type is audio or
// video.
func Supported(media *bus.MediaAttachment) bool {
	if media == nil {
		return false
	}
	switch media.Kind {
	case bus.MediaVoice, bus.MediaAudio, bus.MediaVideo:
		return true
	case bus.MediaDocument:
		return strings.HasPrefix(media.MimeType, "audio/") ||
			strings.HasPrefix(media.MimeType, "video/")
	default:
		return false
	}
}
