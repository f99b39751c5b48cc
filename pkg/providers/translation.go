package providers

import (
	"context"
)

// Translator defines the interface for text translation between two
// languages identified by their codes.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}
