package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase is the session's position in its forward-only lifecycle.
type Phase string

const (
	PhaseAwaitingSourceLanguage Phase = "awaiting_source_language"
	PhaseAwaitingTargetLanguage Phase = "awaiting_target_language"
	PhaseReadyForProcessing     Phase = "ready_for_processing"
)

// CreatePolicy decides what happens when media arrives while a session for the
// same user is still in flight.
type CreatePolicy string

const (
	// PolicyReplace discards the in-flight session and starts over.
	PolicyReplace CreatePolicy = "replace"
	// PolicyReject refuses the new media until the in-flight session finishes.
	PolicyReject CreatePolicy = "reject"
)

var (
	ErrNotFound         = errors.New("no active session")
	ErrInvalidPhase     = errors.New("session is not in the expected phase")
	ErrDuplicateSession = errors.New("a session is already in progress")
)

// Session tracks one in-flight media -> transcript -> translation request.
type Session struct {
	ID         string
	UserKey    string
	MediaPath  string
	MediaKind  string
	SourceLang string
	TargetLang string
	Phase      Phase
	UpdatedAt  time.Time
}

// Store holds at most one session per user key. All operations go through a
// single mutex, so mutations on the same key are linearizable: when two
// callbacks race (a double-tapped button), exactly one of them advances the
// session and the other fails with ErrInvalidPhase.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	policy   CreatePolicy
	now      func() time.Time
}

// NewStore creates an empty store with the given duplicate-media policy.
func NewStore(policy CreatePolicy) *Store {
	if policy == "" {
		policy = PolicyReplace
	}
	return &Store{
		sessions: make(map[string]*Session),
		policy:   policy,
		now:      time.Now,
	}
}

// Create opens a session in PhaseAwaitingSourceLanguage. Under PolicyReplace
// any in-flight session is displaced and returned so the caller can release
// its media file; under PolicyReject the call fails with ErrDuplicateSession.
func (s *Store) Create(userKey, mediaPath, mediaKind string) (Session, *Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var displaced *Session
	if prev, ok := s.sessions[userKey]; ok {
		if s.policy == PolicyReject {
			return Session{}, nil, fmt.Errorf("%w for user %s", ErrDuplicateSession, userKey)
		}
		prevCopy := *prev
		displaced = &prevCopy
	}

	sess := &Session{
		ID:        uuid.NewString(),
		UserKey:   userKey,
		MediaPath: mediaPath,
		MediaKind: mediaKind,
		Phase:     PhaseAwaitingSourceLanguage,
		UpdatedAt: s.now(),
	}
	s.sessions[userKey] = sess
	return *sess, displaced, nil
}

// Get returns a snapshot of the user's session.
func (s *Store) Get(userKey string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userKey]
	if !ok {
		return Session{}, fmt.Errorf("%w for user %s", ErrNotFound, userKey)
	}
	return *sess, nil
}

// SetSourceLanguage records the source language and advances the session to
// PhaseAwaitingTargetLanguage.
func (s *Store) SetSourceLanguage(userKey, code string) (Session, error) {
	return s.advance(userKey, PhaseAwaitingSourceLanguage, func(sess *Session) {
		sess.SourceLang = code
		sess.Phase = PhaseAwaitingTargetLanguage
	})
}

// SetTargetLanguage records the target language and advances the session to
// PhaseReadyForProcessing.
func (s *Store) SetTargetLanguage(userKey, code string) (Session, error) {
	return s.advance(userKey, PhaseAwaitingTargetLanguage, func(sess *Session) {
		sess.TargetLang = code
		sess.Phase = PhaseReadyForProcessing
	})
}

func (s *Store) advance(userKey string, want Phase, mutate func(*Session)) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userKey]
	if !ok {
		return Session{}, fmt.Errorf("%w for user %s", ErrNotFound, userKey)
	}
	if sess.Phase != want {
		return Session{}, fmt.Errorf("%w: in %s", ErrInvalidPhase, sess.Phase)
	}
	mutate(sess)
	sess.UpdatedAt = s.now()
	return *sess, nil
}

// Remove deletes the user's session if one exists. Idempotent.
func (s *Store) Remove(userKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userKey)
}

// Release removes the session only if it is still the one identified by
// sessionID. A pipeline run finishing after the user already started a new
// session must not delete the new one. Reports whether a session was removed.
func (s *Store) Release(userKey, sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userKey]
	if !ok || sess.ID != sessionID {
		return false
	}
	delete(s.sessions, userKey)
	return true
}

// ExpireIdle removes every session that has not been touched for olderThan and
// returns snapshots of the removed sessions.
func (s *Store) ExpireIdle(olderThan time.Duration) []Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-olderThan)
	var expired []Session
	for key, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			expired = append(expired, *sess)
			delete(s.sessions, key)
		}
	}
	return expired
}
