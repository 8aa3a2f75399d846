// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/config"
	"github.com/framegrace/deckreview/tree"
	"github.com/framegrace/deckreview/validate"
)

const zeron = `{
	"id": "app-001",
	"startup_name": "Zeron Cybersecurity",
	"contact_name": "Ada Lovelace",
	"contact_email": "ada@zeron.io",
	"website_url": "https://zeron.io",
	"status": "completed",
	"score": 7.5,
	"created_at": "2025-01-10T10:00:00Z",
	"raw": {
		"market": {"tam": "$1B", "regulatory_domain": ["GDPR"]},
		"product": {"is_scalable": false}
	},
	"results": {
		"market": {"score": 8.5, "bucket": "Strong market", "confidenceScore": 80}
	},
	"issues": ["Missing revenue data"]
}`

const acme = `{"id": "app-002", "startup_name": "Acme Robotics", "status": "submitted"}`

// upstream fakes the evaluation backend.
type upstream struct {
	mu      sync.Mutex
	patches []tree.Value
	uploads int
	actions []string
	creates int
}

func newUpstream(t *testing.T) (*upstream, string) {
	t.Helper()
	u := &upstream{}
	srv := httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(srv.Close)
	return u, srv.URL
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (u *upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/applications":
		writeJSON(w, http.StatusOK, "["+zeron+","+acme+"]")
	case r.Method == http.MethodGet && r.URL.Path == "/applications/app-001":
		writeJSON(w, http.StatusOK, zeron)
	case r.Method == http.MethodPatch && r.URL.Path == "/applications/app-001":
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			u.uploads++
			writeJSON(w, http.StatusOK, `{}`)
			return
		}
		v, err := tree.Decode(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, `{"detail":"bad json"}`)
			return
		}
		u.patches = append(u.patches, v)
		writeJSON(w, http.StatusOK, `{}`)
	case r.Method == http.MethodPost && r.URL.Path == "/applications/app-001":
		u.actions = append(u.actions, r.URL.Query().Get("action"))
		writeJSON(w, http.StatusOK, `{}`)
	case r.Method == http.MethodPost && r.URL.Path == "/applications":
		u.creates++
		writeJSON(w, http.StatusCreated, `{"id":"app-009"}`)
	default:
		writeJSON(w, http.StatusNotFound, `{"detail":"missing"}`)
	}
}

type testEnv struct {
	t      *testing.T
	dir    string
	url    string
	stderr string
}

func newTestEnv(t *testing.T, url string) *testEnv {
	return &testEnv{t: t, dir: t.TempDir(), url: url}
}

func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	var out, errOut bytes.Buffer
	c := newCLI(&out, &errOut, func(key string) string {
		if key == config.EnvDataDir {
			return e.dir
		}
		return ""
	})
	c.now = func() time.Time { return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC) }
	cmd := c.rootCommand()
	cmd.SetArgs(append([]string{"--config", filepath.Join(e.dir, "deckreview.json"), "--api-url", e.url}, args...))
	err := cmd.ExecuteContext(context.Background())
	e.stderr = errOut.String()
	return out.String(), err
}

func (e *testEnv) file(name string, data []byte) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(e.t, os.WriteFile(path, data, 0o644))
	return path
}

func TestListPrintsMetricsAndRows(t *testing.T) {
	_, url := newUpstream(t)
	env := newTestEnv(t, url)

	out, err := env.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Applications: 2")
	assert.Contains(t, out, "Pending Review: 1")
	assert.Contains(t, out, "Completed: 1")
	assert.Contains(t, out, "Zeron Cybersecurity")
	assert.Contains(t, out, "Acme Robotics")
	assert.Contains(t, out, "7.5/10")
	assert.Contains(t, out, "Not provided")
	assert.NotContains(t, out, "\x1b[", "piped output is plain")
}

func TestListJSON(t *testing.T) {
	_, url := newUpstream(t)
	env := newTestEnv(t, url)

	out, err := env.run("list", "-o", "json")
	require.NoError(t, err)
	v, err := tree.Parse([]byte(out))
	require.NoError(t, err)
	require.Equal(t, 2, v.Len())
	assert.Equal(t, "Zeron Cybersecurity", v.Items()[0].Field("companyName").Text())
	assert.Equal(t, "2025-01-10", v.Items()[0].Field("submittedAt").Text())
}

func TestShowText(t *testing.T) {
	_, url := newUpstream(t)
	env := newTestEnv(t, url)

	out, err := env.run("show", "app-001")
	require.NoError(t, err)
	for _, want := range []string{
		"Zeron Cybersecurity",
		"Status: Completed",
		"Website: https://zeron.io",
		"8.5/10  80% confidence  Strong market",
		"Not Computed · Evaluation pending",
		"Raw Extracted Data",
		"GDPR",
		"Issues & Action Items (1)",
		"• Missing revenue data",
	} {
		assert.Contains(t, out, want)
	}
}

func TestShowSectionFormats(t *testing.T) {
	_, url := newUpstream(t)
	env := newTestEnv(t, url)

	out, err := env.run("show", "app-001", "--section", "market", "-o", "json")
	require.NoError(t, err)
	v, err := tree.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "$1B", v.Field("tam").Text())

	out, err = env.run("show", "app-001", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "startup_name: Zeron Cybersecurity")

	_, err = env.run("show", "app-001", "--section", "vision")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	_, err = env.run("show", "app-001", "-o", "xml")
	assert.Error(t, err)
}

func TestShowNotFound(t *testing.T) {
	_, url := newUpstream(t)
	env := newTestEnv(t, url)

	out, err := env.run("show", "nonexistent")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Empty(t, out, "no partial data is printed")
}

func TestSetSavesWholeRawDocument(t *testing.T) {
	up, url := newUpstream(t)
	env := newTestEnv(t, url)

	out, err := env.run("set", "app-001", "market.tam", "$2B")
	require.NoError(t, err)
	assert.Contains(t, out, "Raw data updated successfully")

	_, err = env.run("set", "app-001", "market.regulatory_domain", "GDPR", "HIPAA")
	require.NoError(t, err)

	_, err = env.run("set", "app-001", "product.is_scalable", "Yes")
	require.NoError(t, err)

	require.Len(t, up.patches, 3)
	raw := up.patches[0].Field("raw")
	assert.Equal(t, "$2B", raw.Field("market").Field("tam").Text())
	assert.Equal(t, []string{"GDPR"}, raw.Field("market").Field("regulatory_domain").StringItems())
	assert.False(t, raw.Field("product").Field("is_scalable").AsBool())

	raw = up.patches[1].Field("raw")
	assert.Equal(t, []string{"GDPR", "HIPAA"}, raw.Field("market").Field("regulatory_domain").StringItems())
	assert.Equal(t, "$1B", raw.Field("market").Field("tam").Text())

	assert.True(t, up.patches[2].Field("raw").Field("product").Field("is_scalable").AsBool())
}

func TestSetRejectsBadPaths(t *testing.T) {
	up, url := newUpstream(t)
	env := newTestEnv(t, url)

	_, err := env.run("set", "app-001", "market.nope", "x")
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))

	_, err = env.run("set", "app-001", "market", "x")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation), "objects are not set directly")

	_, err = env.run("set", "app-001", "[0].x", "x")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = env.run("set", "app-001", "vision.statement", "x")
	assert.Error(t, err)

	assert.Empty(t, up.patches)
}

func TestCreateValidatesBeforeRequest(t *testing.T) {
	up, url := newUpstream(t)
	env := newTestEnv(t, url)

	_, err := env.run("create", "--startup", "Zeron", "--contact", "Ada", "--email", "ada@zeron.io", "--website", "ht!tp://bad")
	require.Error(t, err)
	fields := apperrors.Fields(err)
	assert.Contains(t, fields, validate.FieldWebsiteURL)
	assert.Contains(t, fields, validate.FieldFile)
	assert.Zero(t, up.creates, "no request is issued")

	deck := env.file("deck.pdf", []byte("%PDF-1.7\nbody"))
	out, err := env.run("create", "--startup", "Zeron", "--contact", "Ada", "--email", "ada@zeron.io", "--website", "https://zeron.io", "--deck", deck)
	require.NoError(t, err)
	assert.Contains(t, out, "Application created successfully")
	assert.Contains(t, out, "ID: app-009")
	assert.Equal(t, 1, up.creates)
}

func TestUploadDeck(t *testing.T) {
	up, url := newUpstream(t)
	env := newTestEnv(t, url)

	_, err := env.run("upload", "app-001", env.file("notes.txt", []byte("plain text notes")))
	require.Error(t, err)
	assert.Equal(t, "Only PDF files are allowed", apperrors.Fields(err)[validate.FieldFile])
	assert.Zero(t, up.uploads)

	out, err := env.run("upload", "app-001", env.file("deck.pdf", []byte("%PDF-1.7\nbody")))
	require.NoError(t, err)
	assert.Contains(t, out, "Pitch deck updated successfully")
	assert.Equal(t, 1, up.uploads)
}

func TestActionTriggers(t *testing.T) {
	up, url := newUpstream(t)
	env := newTestEnv(t, url)

	out, err := env.run("action", "app-001", "evaluate")
	require.NoError(t, err)
	assert.Contains(t, env.stderr, "Running evaluation models...")
	assert.Contains(t, out, "The evaluate process has completed.")
	assert.Equal(t, []string{"evaluate"}, up.actions)

	_, err = env.run("action", "app-001", "dance")
	assert.Error(t, err)
	assert.Len(t, up.actions, 1)
}

func TestFiltersLifecycle(t *testing.T) {
	env := newTestEnv(t, "http://localhost:8000")

	out, err := env.run("filters", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No filters created yet")

	_, err = env.run("filters", "create", "--prompt", "Focus on IP")
	require.Error(t, err)
	assert.Contains(t, apperrors.Fields(err), validate.FieldFilterName)

	_, err = env.run("filters", "create", "--name", "Deep tech", "--prompt", "Focus on IP", "--weight", "charisma=5")
	assert.Error(t, err)

	out, err = env.run("filters", "create", "--name", "Deep tech", "--prompt", "Focus on IP", "--weight", "market=80")
	require.NoError(t, err)
	m := regexp.MustCompile(`ID: (\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2)
	id := m[1]

	out, err = env.run("filters", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Deep tech")
	assert.Contains(t, out, "80")
	assert.Contains(t, out, "75")
	assert.NotContains(t, out, "✓")

	out, err = env.run("filters", "toggle", id)
	require.NoError(t, err)
	assert.Contains(t, out, `"Deep tech" will be used for evaluations`)

	out, err = env.run("filters", "list", "-o", "json")
	require.NoError(t, err)
	v, err := tree.Parse([]byte(out))
	require.NoError(t, err)
	require.Equal(t, 1, v.Len())
	assert.Equal(t, "Focus on IP", v.Items()[0].Field("customPrompt").Text())

	out, err = env.run("filters", "toggle", id)
	require.NoError(t, err)
	assert.Contains(t, out, "No filter is currently active")

	_, err = env.run("filters", "delete", id)
	require.NoError(t, err)
	out, err = env.run("filters", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No filters created yet")
}

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t, "http://localhost:8000")

	_, err := env.run("login", "   ")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	out, err := env.run("login", " alice ")
	require.NoError(t, err)
	assert.Equal(t, "Signed in as alice\n", out)

	out, err = env.run("logout")
	require.NoError(t, err)
	assert.Equal(t, "Signed out alice\n", out)

	out, err = env.run("logout")
	require.NoError(t, err)
	assert.Equal(t, "Not signed in\n", out)
}

func TestBadAPIURL(t *testing.T) {
	env := newTestEnv(t, "ftp://nowhere")
	_, err := env.run("list")
	assert.Error(t, err)
}

func TestReportListsFields(t *testing.T) {
	var buf bytes.Buffer
	report(&buf, apperrors.Validation("create application", map[string]string{
		"website_url":  "Please enter a valid URL",
		"contact_name": "Contact name is required",
	}))
	assert.Equal(t, "Error: invalid input\n  contact_name: Contact name is required\n  website_url: Please enter a valid URL\n", buf.String())

	buf.Reset()
	report(&buf, io.ErrUnexpectedEOF)
	assert.Equal(t, "Error: unexpected EOF\n", buf.String())
}

func TestConfigShowAndSet(t *testing.T) {
	env := newTestEnv(t, "http://unused.example")

	out, err := env.run("config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.dir, "deckreview.json")+"\n", out)

	out, err = env.run("config", "show", "ui")
	require.NoError(t, err)
	ui, err := tree.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"color", "toast_seconds"}, ui.Keys())
	assert.True(t, ui.Field("color").AsBool())
	assert.Equal(t, 3.0, ui.Field("toast_seconds").AsNumber())

	out, err = env.run("config", "set", "ui.toast_seconds", "5")
	require.NoError(t, err)
	assert.Equal(t, "ui.toast_seconds = 5\n", out)
	out, err = env.run("config", "set", "server.listen", "127.0.0.1:4000")
	require.NoError(t, err)
	assert.Equal(t, `server.listen = "127.0.0.1:4000"`+"\n", out)

	out, err = env.run("config", "show", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "toast_seconds: 5")
	assert.Contains(t, out, "127.0.0.1:4000")

	_, err = env.run("config", "set", "api.base_url", "ftp://nope")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	_, err = env.run("config", "set", "nodot", "x")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	_, err = env.run("config", "show", "nope")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	data, err := os.ReadFile(filepath.Join(env.dir, "deckreview.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "http://localhost:8000", "rejected values are never saved")
}

func TestConfigSetRepairsBrokenSettings(t *testing.T) {
	env := newTestEnv(t, "http://unused.example")
	env.file("deckreview.json", []byte(`{"api": {"base_url": "ftp://broken"}}`))

	_, err := env.run("list")
	require.Error(t, err)

	out, err := env.run("config", "set", "api.base_url", "https://review.example.com")
	require.NoError(t, err)
	assert.Equal(t, `api.base_url = "https://review.example.com"`+"\n", out)
}
