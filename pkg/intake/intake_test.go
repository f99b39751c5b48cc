package intake

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/bus"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/flow"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/languages"
	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/session"
)

type fakeFetcher struct {
	dir     string
	err     error
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, fileID string) (string, error) {
	f.fetched = append(f.fetched, fileID)
	if f.err != nil {
		return "", f.err
	}
	path := filepath.Join(f.dir, fileID+".ogg")
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func testRegistry() *languages.Registry {
	return languages.New([]languages.Option{
		{Code: "en", Label: "English"},
		{Code: "fa", Label: "Persian"},
	})
}

func drainOutbound(b *bus.MessageBus) []bus.OutboundMessage {
	var out []bus.OutboundMessage
	for {
		select {
		case msg := <-b.Outbound:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestHandleMediaOpensSessionAndOffersSources(t *testing.T) {
	t.Parallel()

	store := session.NewStore(session.PolicyReplace)
	msgBus := bus.NewMessageBus()
	fetcher := &fakeFetcher{dir: t.TempDir()}
	in := New(store, testRegistry(), fetcher, msgBus)

	err := in.HandleMedia(context.Background(), "42", &bus.MediaAttachment{
		FileID: "file-1",
		Kind:   bus.MediaVoice,
	})
	if err != nil {
		t.Fatalf("intake failed: %v", err)
	}

	sess, err := store.Get("42")
	if err != nil {
		t.Fatalf("expected a session: %v", err)
	}
	if sess.Phase != session.PhaseAwaitingSourceLanguage {
		t.Fatalf("unexpected phase: %s", sess.Phase)
	}
	if _, err := os.Stat(sess.MediaPath); err != nil {
		t.Fatalf("media file should exist: %v", err)
	}

	out := drainOutbound(msgBus)
	if len(out) != 1 {
		t.Fatalf("expected one outbound message, got %d", len(out))
	}
	if len(out[0].Buttons) != 2 {
		t.Fatalf("expected a source button per language, got %d", len(out[0].Buttons))
	}
	tok, err := flow.ParseToken(out[0].Buttons[0].Data)
	if err != nil || tok.Kind != flow.SelectSource {
		t.Fatalf("expected source-kind tokens, got %v (%v)", tok, err)
	}
}

func TestHandleMediaRejectsUnsupportedKinds(t *testing.T) {
	t.Parallel()

	store := session.NewStore(session.PolicyReplace)
	msgBus := bus.NewMessageBus()
	fetcher := &fakeFetcher{dir: t.TempDir()}
	in := New(store, testRegistry(), fetcher, msgBus)

	// A PNG document is not transcribable.
	err := in.HandleMedia(context.Background(), "42", &bus.MediaAttachment{
		FileID:   "file-1",
		Kind:     bus.MediaDocument,
		MimeType: "image/png",
	})
	if !errors.Is(err, ErrUnsupportedMedia) {
		t.Fatalf("expected ErrUnsupportedMedia, got %v", err)
	}

	// A message without media at all.
	if err := in.HandleMedia(context.Background(), "42", nil); !errors.Is(err, ErrUnsupportedMedia) {
		t.Fatalf("expected ErrUnsupportedMedia for nil media, got %v", err)
	}

	if len(fetcher.fetched) != 0 {
		t.Fatalf("nothing should be downloaded for unsupported media")
	}
	if _, err := store.Get("42"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("no session should be created, got %v", err)
	}
}

func TestHandleMediaAcceptsAudioDocuments(t *testing.T) {
	t.Parallel()

	store := session.NewStore(session.PolicyReplace)
	in := New(store, testRegistry(), &fakeFetcher{dir: t.TempDir()}, bus.NewMessageBus())

	err := in.HandleMedia(context.Background(), "42", &bus.MediaAttachment{
		FileID:   "file-1",
		Kind:     bus.MediaDocument,
		MimeType: "audio/mpeg",
		FileName: "song.mp3",
	})
	if err != nil {
		t.Fatalf("audio document should be accepted: %v", err)
	}
	if _, err := store.Get("42"); err != nil {
		t.Fatalf("expected a session: %v", err)
	}
}

func TestHandleMediaFetchFailureCreatesNoSession(t *testing.T) {
	t.Parallel()

	store := session.NewStore(session.PolicyReplace)
	msgBus := bus.NewMessageBus()
	in := New(store, testRegistry(), &fakeFetcher{err: errors.New("network down")}, msgBus)

	err := in.HandleMedia(context.Background(), "42", &bus.MediaAttachment{
		FileID: "file-1",
		Kind:   bus.MediaVoice,
	})
	if !errors.Is(err, ErrRetrievalFailed) {
		t.Fatalf("expected ErrRetrievalFailed, got %v", err)
	}
	if _, err := store.Get("42"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("no session should be created on fetch failure, got %v", err)
	}
	if len(drainOutbound(msgBus)) != 0 {
		t.Fatalf("intake should not message the user itself on failure")
	}
}

func TestHandleMediaReplaceDeletesDisplacedFile(t *testing.T) {
	t.Parallel()

	store := session.NewStore(session.PolicyReplace)
	fetcher := &fakeFetcher{dir: t.TempDir()}
	in := New(store, testRegistry(), fetcher, bus.NewMessageBus())

	if err := in.HandleMedia(context.Background(), "42", &bus.MediaAttachment{FileID: "first", Kind: bus.MediaVoice}); err != nil {
		t.Fatalf("first intake failed: %v", err)
	}
	firstPath := filepath.Join(fetcher.dir, "first.ogg")

	if err := in.HandleMedia(context.Background(), "42", &bus.MediaAttachment{FileID: "second", Kind: bus.MediaVoice}); err != nil {
		t.Fatalf("second intake failed: %v", err)
	}

	if _, err := os.Stat(firstPath); !os.IsNotExist(err) {
		t.Fatalf("displaced media file should be deleted")
	}
	sess, err := store.Get("42")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if filepath.Base(sess.MediaPath) != "second.ogg" {
		t.Fatalf("store should hold the new media, got %s", sess.MediaPath)
	}
}

func TestHandleMediaRejectPolicyCleansUpDownload(t *testing.T) {
	t.Parallel()

	store := session.NewStore(session.PolicyReject)
	fetcher := &fakeFetcher{dir: t.TempDir()}
	in := New(store, testRegistry(), fetcher, bus.NewMessageBus())

	if err := in.HandleMedia(context.Background(), "42", &bus.MediaAttachment{FileID: "first", Kind: bus.MediaVoice}); err != nil {
		t.Fatalf("first intake failed: %v", err)
	}

	err := in.HandleMedia(context.Background(), "42", &bus.MediaAttachment{FileID: "second", Kind: bus.MediaVoice})
	if !errors.Is(err, session.ErrDuplicateSession) {
		t.Fatalf("expected ErrDuplicateSession, got %v", err)
	}

	// The rejected download must not linger on disk.
	if _, err := os.Stat(filepath.Join(fetcher.dir, "second.ogg")); !os.IsNotExist(err) {
		t.Fatalf("orphaned download should be deleted")
	}
	// And the original session keeps its file.
	if _, err := os.Stat(filepath.Join(fetcher.dir, "first.ogg")); err != nil {
		t.Fatalf("original media should survive: %v", err)
	}
}

func TestSupported(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		media *bus.MediaAttachment
		want  bool
	}{
		{"voice", &bus.MediaAttachment{Kind: bus.MediaVoice}, true},
		{"audio", &bus.MediaAttachment{Kind: bus.MediaAudio}, true},
		{"video", &bus.MediaAttachment{Kind: bus.MediaVideo}, true},
		{"audio document", &bus.MediaAttachment{Kind: bus.MediaDocument, MimeType: "audio/ogg"}, true},
		{"video document", &bus.MediaAttachment{Kind: bus.MediaDocument, MimeType: "video/mp4"}, true},
		{"image document", &bus.MediaAttachment{Kind: bus.MediaDocument, MimeType: "image/png"}, false},
		{"typeless document", &bus.MediaAttachment{Kind: bus.MediaDocument}, false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		if got := Supported(tc.media); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
