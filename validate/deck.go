// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: validate/deck.go
// Summary: Loads pitch deck files picked by path.

package validate

import (
	"io"
	"os"
	"path/filepath"

	"github.com/framegrace/deckreview/apperrors"
)

// ReadDeck loads a pitch deck from disk, reading at most one byte past the
// size limit so oversized files still fail DeckError.
func ReadDeck(path string) (Deck, error) {
	const op = "read pitch deck"
	f, err := os.Open(path)
	if err != nil {
		return Deck{}, apperrors.New(apperrors.KindValidation, op, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxDeckSize+1))
	if err != nil {
		return Deck{}, apperrors.New(apperrors.KindInternal, op, err)
	}
	return Deck{Name: filepath.Base(path), Data: data}, nil
}
