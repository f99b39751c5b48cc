package session

import (
	"context"
	"log"
	"os"
	"time"
)

// Janitor runs a periodic background loop that sweeps abandoned sessions, so
// a user who sent media and never finished picking languages does not leave a
// downloaded file on disk forever.
type Janitor struct {
	store    *Store
	ttl      time.Duration
	interval time.Duration
	notify   func(userKey, text string)
}

// NewJanitor creates a new background sweep daemon. notify may be nil.
func NewJanitor(store *Store, ttl, interval time.Duration, notify func(userKey, text string)) *Janitor {
	return &Janitor{
		store:    store,
		ttl:      ttl,
		interval: interval,
		notify:   notify,
	}
}

// Start begins the sweep ticker. It blocks until ctx is canceled.
func (j *Janitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Session janitor stopping...")
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *Janitor) sweep() {
	expired := j.store.ExpireIdle(j.ttl)
	for _, sess := range expired {
		log.Printf("🧹 Expiring idle session for user %s (phase %s)", sess.UserKey, sess.Phase)
		if sess.MediaPath != "" {
			if err := os.Remove(sess.MediaPath); err != nil && !os.IsNotExist(err) {
				log.Printf("⚠️ Failed to remove media file %s: %v", sess.MediaPath, err)
			}
		}
		if j.notify != nil {
			j.notify(sess.UserKey, "Your request timed out. Please resend the media file to start over.")
		}
	}
}
