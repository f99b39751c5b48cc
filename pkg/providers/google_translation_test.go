package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoogleTranslatorParsesSegmentedResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate_a/single" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("sl") != "en" || q.Get("tl") != "fa" || q.Get("q") != "hello world" {
			t.Errorf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		// Two sentence segments, each [translated, original, ...]
		w.Write([]byte(`[[["سلام ","hello ",null],["دنیا","world",null]],null,"en"]`))
	}))
	defer srv.Close()

	p := NewGoogleTranslator()
	p.BaseURL = srv.URL

	got, err := p.Translate(context.Background(), "hello world", "en", "fa")
	if err != nil {
		t.Fatalf("translate failed: %v", err)
	}
	if got != "سلام دنیا" {
		t.Fatalf("unexpected translation: %q", got)
	}
}

func TestGoogleTranslatorRejectsErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewGoogleTranslator()
	p.BaseURL = srv.URL

	if _, err := p.Translate(context.Background(), "hello", "en", "fa"); err == nil {
		t.Fatalf("expected an error on non-200 response")
	}
}

func TestGoogleTranslatorRejectsEmptyPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	p := NewGoogleTranslator()
	p.BaseURL = srv.URL

	if _, err := p.Translate(context.Background(), "hello", "en", "fa"); err == nil {
		t.Fatalf("expected an error on empty payload")
	}
}
