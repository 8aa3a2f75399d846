// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framegrace/deckreview/apperrors"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]Store{"memory": NewMemoryStore(), "sqlite": sqlite}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "k", "v1"))
			require.NoError(t, s.Set(ctx, "k", "v2"))
			v, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v2", v)

			require.NoError(t, s.Delete(ctx, "k"))
			require.NoError(t, s.Delete(ctx, "k"))
			_, err = s.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSQLiteReopenKeepsValues(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyUsername, "reviewer"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(ctx, KeyUsername)
	require.NoError(t, err)
	assert.Equal(t, "reviewer", v)
}

func TestFiltersLifecycle(t *testing.T) {
	ctx := context.Background()
	ids := []string{"f-1", "f-2"}
	f := NewFilters(NewMemoryStore())
	f.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	list, err := f.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	deep, err := f.Create(ctx, "  Deep tech ", "Prefer defensible IP", DefaultDimensions())
	require.NoError(t, err)
	assert.Equal(t, "Deep tech", deep.Name)
	assert.Equal(t, 75, deep.Dimensions.Founders)
	_, err = f.Create(ctx, "Traction first", "Weight revenue", Dimensions{Traction: 90})
	require.NoError(t, err)

	_, err = f.Create(ctx, "", "x", DefaultDimensions())
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	list, err = f.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "f-1", list[0].ID)

	filter, selected, err := f.Toggle(ctx, "f-1")
	require.NoError(t, err)
	assert.True(t, selected)
	title, desc := ToggleMessage(filter, selected)
	assert.Equal(t, "Filter Selected", title)
	assert.Equal(t, `"Deep tech" will be used for evaluations`, desc)

	current, ok, err := f.Selected(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "f-1", current.ID)

	_, selected, err = f.Toggle(ctx, "f-2")
	require.NoError(t, err)
	assert.True(t, selected, "selecting another filter switches the selection")

	filter, selected, err = f.Toggle(ctx, "f-2")
	require.NoError(t, err)
	assert.False(t, selected, "toggling the selected filter clears it")
	title, desc = ToggleMessage(filter, selected)
	assert.Equal(t, "Filter Deselected", title)
	assert.Equal(t, "No filter is currently active", desc)
	_, ok, err = f.Selected(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = f.Toggle(ctx, "nope")
	assert.ErrorIs(t, err, ErrFilterNotFound)

	_, _, err = f.Toggle(ctx, "f-1")
	require.NoError(t, err)
	require.NoError(t, f.Delete(ctx, "f-1"))
	_, ok, err = f.Selected(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "deleting the selected filter clears the selection")
	assert.ErrorIs(t, f.Delete(ctx, "f-1"), ErrFilterNotFound)
}

func TestFiltersCorruptData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyFilters, "{not json"))
	_, err := NewFilters(store).List(ctx)
	assert.Equal(t, apperrors.KindParse, apperrors.KindOf(err))
}

func TestDimensionsAccessors(t *testing.T) {
	d := DefaultDimensions()
	require.NoError(t, d.Set("vision", 40))
	assert.Equal(t, 40, d.Get("vision"))
	assert.Error(t, d.Set("luck", 1))
	assert.Len(t, d.Map(), 6)
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	s := NewSession(NewMemoryStore())

	_, ok, err := s.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(s.Login(ctx, "  ")))
	require.NoError(t, s.Login(ctx, " ada "))
	user, ok, err := s.Current(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ada", user)

	require.NoError(t, s.Logout(ctx))
	_, ok, err = s.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
