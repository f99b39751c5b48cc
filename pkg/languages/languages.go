package languages

import (
	"errors"
	"fmt"
)

// Option pairs a language code with its display label.
type Option struct {
	Code  string
	Label string
}

// ErrUnknownLanguage is returned when a code is not part of the registry.
var ErrUnknownLanguage = errors.New("unknown language")

// Registry is a closed, ordered set of languages the bot offers. It is built
// once at startup and never mutated afterwards.
type Registry struct {
	options []Option
	byCode  map[string]string
}

// New builds a registry from the given options, keeping registration order.
// Later duplicates of a code are ignored.
func New(options []Option) *Registry {
	r := &Registry{
		byCode: make(map[string]string, len(options)),
	}
	for _, opt := range options {
		if _, exists := r.byCode[opt.Code]; exists {
			continue
		}
		r.byCode[opt.Code] = opt.Label
		r.options = append(r.options, opt)
	}
	return r
}

// Default returns the stock language table.
func Default() *Registry {
	return New([]Option{
		{Code: "en", Label: "English"},
		{Code: "fa", Label: "Persian"},
		{Code: "ar", Label: "Arabic"},
		{Code: "es", Label: "Spanish"},
		{Code: "fr", Label: "French"},
		{Code: "de", Label: "German"},
		{Code: "ru", Label: "Russian"},
		{Code: "tr", Label: "Turkish"},
	})
}

// LabelOf resolves a language code to its display label.
func (r *Registry) LabelOf(code string) (string, error) {
	label, ok := r.byCode[code]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
	}
	return label, nil
}

// Has reports whether code is part of the registry.
func (r *Registry) Has(code string) bool {
	_, ok := r.byCode[code]
	return ok
}

// Options returns the languages in registration order.
func (r *Registry) Options() []Option {
	out := make([]Option, len(r.options))
	copy(out, r.options)
	return out
}
