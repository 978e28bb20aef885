// Copyright (c) 2025 LegalEagle Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the signed-in user for eagle-tui.
//
// There is exactly one session at a time. All fields change together on
// sign-in and are cleared together on sign-out; no partial updates. The
// session persists across restarts via the local store, with the access
// token sealed at rest using AES-256-GCM.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/legaleagle/eagle-tui/internal/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotSignedIn indicates no session is active.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrEmptyUserID indicates a sign-in attempt without a user id.
	ErrEmptyUserID = errors.New("user id cannot be empty")
)

// =============================================================================
// SESSION
// =============================================================================

// Session identifies the signed-in user. A zero UserID means signed out.
type Session struct {
	UserID      string
	DisplayName string
	Email       string
	AccessToken string
}

// IsSignedIn reports whether the session identifies a user.
func (s Session) IsSignedIn() bool {
	return s.UserID != ""
}

// Storage keys for the persisted session. The token is sealed before it
// touches disk; the rest is stored as-is.
const (
	keyPrefix      = "session."
	keyUserID      = "session.user_id"
	keyDisplayName = "session.display_name"
	keyEmail       = "session.email"
	keyToken       = "session.token"
)

// =============================================================================
// STORE
// =============================================================================

// Store is the single-writer holder of the current session. Reads are
// served from memory; mutations persist to the local store before they
// become visible.
type Store struct {
	mu      sync.RWMutex
	db      *storage.Store
	sealer  *Sealer
	current Session
}

// NewStore restores any persisted session from db. A missing or
// unreadable token does not fail restore; the session comes back
// signed out and the stale keys are cleared.
func NewStore(db *storage.Store, sealer *Sealer) (*Store, error) {
	st := &Store{db: db, sealer: sealer}
	if err := st.restore(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) restore() error {
	userID, err := s.db.Get(keyUserID)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	sess := Session{UserID: userID}
	if v, err := s.db.Get(keyDisplayName); err == nil {
		sess.DisplayName = v
	}
	if v, err := s.db.Get(keyEmail); err == nil {
		sess.Email = v
	}

	sealed, err := s.db.Get(keyToken)
	if err == nil {
		token, err := s.sealer.Open(sealed)
		if err != nil {
			// Sealing key changed or data corrupted. Treat as signed out
			// rather than carrying a session with no usable credentials.
			_ = s.db.DeletePrefix(keyPrefix)
			return nil
		}
		sess.AccessToken = token
	}

	s.current = sess
	return nil
}

// Current returns a copy of the active session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// UserID returns the signed-in user id, or empty when signed out.
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.UserID
}

// SignIn replaces the session wholesale and persists it.
func (s *Store) SignIn(sess Session) error {
	if sess.UserID == "" {
		return ErrEmptyUserID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := s.sealer.Seal(sess.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to seal access token: %w", err)
	}

	if err := s.db.Set(keyUserID, sess.UserID); err != nil {
		return err
	}
	if err := s.db.Set(keyDisplayName, sess.DisplayName); err != nil {
		return err
	}
	if err := s.db.Set(keyEmail, sess.Email); err != nil {
		return err
	}
	if err := s.db.Set(keyToken, sealed); err != nil {
		return err
	}

	s.current = sess
	return nil
}

// SignOut clears the session in memory and on disk. Signing out while
// already signed out is a no-op.
func (s *Store) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeletePrefix(keyPrefix); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.current = Session{}
	return nil
}
