// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: prefs/session.go
// Summary: Local login session.

package prefs

import (
	"context"
	"errors"
	"strings"

	"github.com/framegrace/deckreview/apperrors"
)

// Session remembers who is logged in.
type Session struct {
	store Store
}

// NewSession wraps store.
func NewSession(store Store) *Session {
	return &Session{store: store}
}

// Login records username as the current user.
func (s *Session) Login(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return apperrors.Validation("login", map[string]string{KeyUsername: "Username is required"})
	}
	if err := s.store.Set(ctx, KeyIsAuthenticated, "true"); err != nil {
		return err
	}
	return s.store.Set(ctx, KeyUsername, username)
}

// Logout forgets the current user.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeyIsAuthenticated); err != nil {
		return err
	}
	return s.store.Delete(ctx, KeyUsername)
}

// Current returns the logged-in user.
func (s *Session) Current(ctx context.Context) (string, bool, error) {
	auth, err := s.store.Get(ctx, KeyIsAuthenticated)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	user, err := s.store.Get(ctx, KeyUsername)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if auth != "true" || user == "" {
		return "", false, nil
	}
	return user, true, nil
}
