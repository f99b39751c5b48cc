package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestJanitorSweepRemovesIdleSessionsAndFiles(t *testing.T) {
	t.Parallel()

	store := NewStore(PolicyReplace)
	now := time.Now()
	store.now = func() time.Time { return now }

	mediaPath := filepath.Join(t.TempDir(), "stale.ogg")
	if err := os.WriteFile(mediaPath, []byte("audio"), 0644); err != nil {
		t.Fatalf("failed to write media file: %v", err)
	}
	if _, _, err := store.Create("42", mediaPath, "voice"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var notified []string
	j := NewJanitor(store, 30*time.Minute, time.Minute, func(userKey, text string) {
		notified = append(notified, userKey)
	})

	// Not idle long enough yet.
	j.sweep()
	if _, err := store.Get("42"); err != nil {
		t.Fatalf("fresh session should survive a sweep: %v", err)
	}

	now = now.Add(time.Hour)
	j.sweep()

	if _, err := store.Get("42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("idle session should be expired, got %v", err)
	}
	if _, err := os.Stat(mediaPath); !os.IsNotExist(err) {
		t.Fatalf("expired session's media file should be deleted")
	}
	if len(notified) != 1 || notified[0] != "42" {
		t.Fatalf("user should be notified once, got %v", notified)
	}
}
