// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package highlight

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "{\n  \"startup_name\": \"Acme\",\n  \"score\": 7.5,\n  \"active\": true\n}\n"

func TestLinesPreserveText(t *testing.T) {
	lines := Lines(sample, "")
	require.Len(t, lines, 5)

	var got []string
	for _, l := range lines {
		got = append(got, l.Text())
	}
	assert.Equal(t, strings.TrimSuffix(sample, "\n"), strings.Join(got, "\n"))
}

func TestLinesColourSomething(t *testing.T) {
	coloured := false
	for _, l := range Lines(sample, DefaultStyle) {
		for _, seg := range l {
			fg, _, _ := seg.Style.Decompose()
			if fg != tcell.ColorDefault {
				coloured = true
			}
		}
	}
	assert.True(t, coloured, "expected at least one token with its own colour")
}

func TestLinesToleratesInvalidJSON(t *testing.T) {
	lines := Lines("{not json", "")
	require.NotEmpty(t, lines)
	assert.Equal(t, "{not json", lines[0].Text())
}

func TestWriteEmitsEscapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, `{"a": 1}`, ""))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "\"a\"")
}
