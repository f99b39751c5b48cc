package languages

import (
	"errors"
	"testing"
)

func TestLabelOf(t *testing.T) {
	t.Parallel()

	r := Default()

	label, err := r.LabelOf("en")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if label != "English" {
		t.Fatalf("unexpected label: %q", label)
	}

	label, err = r.LabelOf("fa")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if label != "Persian" {
		t.Fatalf("unexpected label: %q", label)
	}
}

func TestLabelOfUnknownCode(t *testing.T) {
	t.Parallel()

	r := Default()

	if _, err := r.LabelOf("xx"); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
	if r.Has("xx") {
		t.Fatalf("Has should be false for unknown code")
	}
}

func TestOptionsKeepRegistrationOrder(t *testing.T) {
	t.Parallel()

	r := New([]Option{
		{Code: "fa", Label: "Persian"},
		{Code: "en", Label: "English"},
		{Code: "ar", Label: "Arabic"},
	})

	opts := r.Options()
	if len(opts) != 3 {
		t.Fatalf("expected 3 options, got %d", len(opts))
	}
	want := []string{"fa", "en", "ar"}
	for i, code := range want {
		if opts[i].Code != code {
			t.Fatalf("option %d: expected %q, got %q", i, code, opts[i].Code)
		}
	}
}

func TestDuplicateRegistrationIgnored(t *testing.T) {
	t.Parallel()

	r := New([]Option{
		{Code: "en", Label: "English"},
		{Code: "en", Label: "Anglais"},
	})

	if len(r.Options()) != 1 {
		t.Fatalf("expected duplicate code to be ignored")
	}
	label, err := r.LabelOf("en")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if label != "English" {
		t.Fatalf("first registration should win, got %q", label)
	}
}
