package flow

import (
	"errors"
	"fmt"
	"strings"
)

// SelectionKind says which of the two language choices a token encodes.
type SelectionKind string

const (
	SelectSource SelectionKind = "source"
	SelectTarget SelectionKind = "target"
)

// ErrBadToken is returned when callback data cannot be parsed as a token.
var ErrBadToken = errors.New("malformed callback token")

const (
	sourcePrefix = "src:"
	targetPrefix = "tgt:"
)

// Token is the parsed form of a button's callback data. The wire string stays
// opaque to everything outside this package; handlers only ever see a Token.
type Token struct {
	Kind SelectionKind
	Code string
}

// Encode renders the token as callback data.
func (t Token) Encode() string {
	if t.Kind == SelectTarget {
		return targetPrefix + t.Code
	}
	return sourcePrefix + t.Code
}

// ParseToken validates raw callback data and recovers the selection it
// encodes.
func ParseToken(raw string) (Token, error) {
	switch {
	case strings.HasPrefix(raw, sourcePrefix):
		code := strings.TrimPrefix(raw, sourcePrefix)
		if code == "" {
			return Token{}, fmt.Errorf("%w: %q", ErrBadToken, raw)
		}
		return Token{Kind: SelectSource, Code: code}, nil
	case strings.HasPrefix(raw, targetPrefix):
		code := strings.TrimPrefix(raw, targetPrefix)
		if code == "" {
			return Token{}, fmt.Errorf("%w: %q", ErrBadToken, raw)
		}
		return Token{Kind: SelectTarget, Code: code}, nil
	default:
		return Token{}, fmt.Errorf("%w: %q", ErrBadToken, raw)
	}
}
