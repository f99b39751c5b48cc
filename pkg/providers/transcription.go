package providers

import (
	"context"
)

// Transcriber defines the interface for audio-to-text transcription.
type Transcriber interface {
	// Transcribe takes a local path to an audio file and the declared
	// language of its speech, and returns the transcription.
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
}
