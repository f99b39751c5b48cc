package telegram

import (
	"testing"

	"github.com/masoodnia1234-bot/rift-voice-to-text/pkg/bus"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestClassifyMedia(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		msg  *tgbotapi.Message
		want *bus.MediaAttachment
	}{
		{
			name: "voice note",
			msg:  &tgbotapi.Message{Voice: &tgbotapi.Voice{FileID: "v1", MimeType: "audio/ogg"}},
			want: &bus.MediaAttachment{FileID: "v1", Kind: bus.MediaVoice, MimeType: "audio/ogg"},
		},
		{
			name: "audio track",
			msg:  &tgbotapi.Message{Audio: &tgbotapi.Audio{FileID: "a1", MimeType: "audio/mpeg", FileName: "song.mp3"}},
			want: &bus.MediaAttachment{FileID: "a1", Kind: bus.MediaAudio, MimeType: "audio/mpeg", FileName: "song.mp3"},
		},
		{
			name: "video",
			msg:  &tgbotapi.Message{Video: &tgbotapi.Video{FileID: "vid1", MimeType: "video/mp4"}},
			want: &bus.MediaAttachment{FileID: "vid1", Kind: bus.MediaVideo, MimeType: "video/mp4"},
		},
		{
			name: "document keeps mime type",
			msg:  &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "d1", MimeType: "image/png", FileName: "pic.png"}},
			want: &bus.MediaAttachment{FileID: "d1", Kind: bus.MediaDocument, MimeType: "image/png", FileName: "pic.png"},
		},
		{
			name: "plain text",
			msg:  &tgbotapi.Message{Text: "hello"},
			want: nil,
		},
	}

	for _, tc := range cases {
		got := ClassifyMedia(tc.msg)
		if tc.want == nil {
			if got != nil {
				t.Fatalf("%s: expected nil attachment, got %+v", tc.name, got)
			}
			continue
		}
		if got == nil || *got != *tc.want {
			t.Fatalf("%s: expected %+v, got %+v", tc.name, tc.want, got)
		}
	}
}
