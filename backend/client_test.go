// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/application"
	"github.com/framegrace/deckreview/tree"
	"github.com/framegrace/deckreview/validate"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	c, err := New(srv.URL + "/")
	require.NoError(t, err)
	return c, &calls
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestListApplicationsQueryAndDecode(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/applications", r.URL.Path)
		assert.Equal(t, "completed", r.URL.Query().Get("status"))
		assert.Equal(t, "zeron ai", r.URL.Query().Get("search"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		writeJSON(w, http.StatusOK, `[{"id":"app-001","status":"completed"}]`)
	})

	list, err := c.ListApplications(context.Background(), ListOptions{Status: application.StatusCompleted, Search: "zeron ai"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Len())
}

func TestListOptionsDropAll(t *testing.T) {
	q := ListOptions{Status: application.StatusAll}.Query()
	assert.Empty(t, q.Encode())
}

func TestListApplicationsRejectsNonJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html></html>")
	})
	_, err := c.ListApplications(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNetwork, apperrors.KindOf(err))
	assert.Equal(t, "Invalid response format", apperrors.Message(err))
}

func TestGetApplicationNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/applications/nonexistent", r.URL.Path)
		writeJSON(w, http.StatusNotFound, `{"detail":"missing"}`)
	})
	v, err := c.GetApplication(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "Application not found", apperrors.Message(err))
	assert.True(t, v.IsNull(), "no partial data on failure")
}

func TestGetApplicationServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadGateway, `{}`)
	})
	_, err := c.GetApplication(context.Background(), "app-1")
	assert.Equal(t, apperrors.KindNetwork, apperrors.KindOf(err))
	assert.Equal(t, "HTTP error! status: 502", apperrors.Message(err))
	assert.Equal(t, http.StatusBadGateway, apperrors.StatusOf(err))
}

func TestSaveRawSendsPatch(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"raw":{"market":{"tam":"5B"}}}`, string(body))
		w.WriteHeader(http.StatusNoContent)
	})
	raw := tree.Object(tree.Entry("market", tree.Object(tree.Entry("tam", tree.String("5B")))))
	require.NoError(t, c.SaveRaw(context.Background(), "app-1", raw))
}

func TestTriggerAction(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "evaluate", r.URL.Query().Get("action"))
		writeJSON(w, http.StatusInternalServerError, `{}`)
	})
	_, err := c.Trigger(context.Background(), "app-1", application.ActionEvaluate)
	assert.Equal(t, "Failed to trigger evaluate", apperrors.Message(err))

	_, err = c.Trigger(context.Background(), "app-1", application.Action("nuke"))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCreateApplicationValidatesBeforeSending(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"id":"app-9"}`)
	})
	form := validate.NewApplication{
		StartupName:  "Zeron",
		ContactName:  "Sanket",
		ContactEmail: "a@b.co",
		WebsiteURL:   "ht!tp://bad",
		Deck:         &validate.Deck{Name: "deck.pdf", Data: []byte("%PDF-1.4 data")},
	}
	_, err := c.CreateApplication(context.Background(), form)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "Please enter a valid website URL", apperrors.Fields(err)[validate.FieldWebsiteURL])
	assert.Equal(t, int32(0), atomic.LoadInt32(calls), "invalid forms never reach the network")
}

func TestCreateApplicationSendsTrimmedMultipart(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/applications", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		form, err := DecodeForm(r.MultipartForm)
		require.NoError(t, err)
		assert.Equal(t, "Zeron", form.StartupName)
		assert.Equal(t, "https://zeron.one", form.WebsiteURL)
		require.NotNil(t, form.Deck)
		assert.Equal(t, "deck.pdf", form.Deck.Name)
		assert.Equal(t, validate.PDFContentType, form.Deck.ContentType())
		writeJSON(w, http.StatusCreated, `{"id":"app-9"}`)
	})
	form := validate.NewApplication{
		StartupName:  "  Zeron ",
		ContactName:  "Sanket",
		ContactEmail: "a@b.co",
		WebsiteURL:   "https://zeron.one",
		Deck:         &validate.Deck{Name: "/home/me/deck.pdf", Data: []byte("%PDF-1.4 data")},
	}
	created, err := c.CreateApplication(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "app-9", created.Field("id").AsString())
}

func TestUploadDeck(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		deck, err := DecodeDeck(r.MultipartForm)
		require.NoError(t, err)
		require.NotNil(t, deck)
		w.WriteHeader(http.StatusOK)
	})
	_, err := c.UploadDeck(context.Background(), "app-1", validate.Deck{Name: "notes.txt", Data: []byte("hello")})
	assert.Equal(t, "Only PDF files are allowed", apperrors.Fields(err)[validate.FieldFile])
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))

	_, err = c.UploadDeck(context.Background(), "app-1", validate.Deck{Name: "deck.pdf", Data: []byte("%PDF-1.4 data")})
	require.NoError(t, err)
}

func TestTimeoutIsNetworkFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)
	_, err = c.ListApplications(context.Background(), ListOptions{})
	assert.Equal(t, apperrors.KindNetwork, apperrors.KindOf(err))
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
