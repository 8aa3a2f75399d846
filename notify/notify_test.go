// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueExpiresAfterLifetime(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	q := NewQueue(3 * time.Second)
	q.now = func() time.Time { return now }

	Info(q, "Success", "Raw data updated successfully")
	now = now.Add(2 * time.Second)
	Error(q, "Error", "Failed to save changes")

	active := q.Active()
	require.Len(t, active, 2)
	assert.Equal(t, SeverityError, active[1].Severity)

	expiry, ok := q.NextExpiry()
	require.True(t, ok)
	assert.Equal(t, now.Add(time.Second), expiry)

	now = now.Add(1500 * time.Millisecond)
	active = q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Failed to save changes", active[0].Description)

	q.Dismiss()
	assert.Empty(t, q.Active())
}

func TestMultiAndFunc(t *testing.T) {
	var got []Notice
	collect := Func(func(n Notice) { got = append(got, n) })
	m := Multi{collect, nil, collect}
	Info(m, "Filter Selected", "\"Deep tech\" will be used for evaluations")
	assert.Len(t, got, 2)
	assert.Equal(t, "default", got[0].Severity.String())

	Info(nil, "ignored", "")
}
