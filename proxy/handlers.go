// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: proxy/handlers.go
// Summary: Route handlers and JSON response helpers.

package proxy

import (
	"io"
	"mime"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/application"
	"github.com/framegrace/deckreview/backend"
	"github.com/framegrace/deckreview/tree"
	"github.com/framegrace/deckreview/validate"
)

const (
	maxJSONBody      = 16 << 20
	maxMultipartBody = validate.MaxDeckSize + 1<<20
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (s *Server) listApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := backend.ListOptions{
		Status: application.Status(q.Get("status")),
		Search: q.Get("search"),
	}
	list, err := s.backend.ListApplications(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err, "Failed to fetch applications")
		return
	}
	m := application.RawMetrics(list)
	writeValue(w, http.StatusOK, tree.Object(
		tree.Entry("applications", list),
		tree.Entry("status", tree.Object(
			tree.Entry("total", tree.Number(float64(m.Total))),
			tree.Entry("submitted", tree.Number(float64(m.Submitted))),
			tree.Entry("completed", tree.Number(float64(m.Completed))),
		)),
	))
}

func (s *Server) getApplication(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	app, err := s.backend.GetApplication(r.Context(), id)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			writeError(w, http.StatusNotFound, "Application not found", nil)
			return
		}
		s.fail(w, r, err, "Failed to fetch application")
		return
	}
	writeValue(w, http.StatusOK, app)
}

// updateApplication forwards a JSON patch, or a pitch deck upload when the
// body is multipart.
func (s *Server) updateApplication(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if isMultipart(r) {
		s.uploadDeck(w, r, id)
		return
	}
	patch, err := tree.Decode(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", nil)
		return
	}
	updated, err := s.backend.UpdateApplication(r.Context(), id, patch)
	if err != nil {
		s.fail(w, r, err, "Failed to update application")
		return
	}
	writeValue(w, http.StatusOK, updated)
}

func (s *Server) uploadDeck(w http.ResponseWriter, r *http.Request, id string) {
	if err := r.ParseMultipartForm(maxMultipartBody); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data", nil)
		return
	}
	deck, err := backend.DecodeDeck(r.MultipartForm)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data", nil)
		return
	}
	if deck == nil {
		deck = &validate.Deck{}
	}
	updated, err := s.backend.UploadDeck(r.Context(), id, *deck)
	if err != nil {
		s.fail(w, r, err, "Failed to upload pitch deck")
		return
	}
	writeValue(w, http.StatusOK, updated)
}

func (s *Server) triggerAction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	action, err := application.ParseAction(r.URL.Query().Get("action"))
	if err != nil {
		writeError(w, http.StatusBadRequest, apperrors.Message(err), apperrors.Fields(err))
		return
	}
	result, err := s.backend.Trigger(r.Context(), id, action)
	if err != nil {
		s.fail(w, r, err, action.Failed())
		return
	}
	writeValue(w, http.StatusOK, result)
}

func (s *Server) createApplication(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		writeError(w, http.StatusBadRequest, "Expected multipart form data", nil)
		return
	}
	if err := r.ParseMultipartForm(maxMultipartBody); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data", nil)
		return
	}
	form, err := backend.DecodeForm(r.MultipartForm)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data", nil)
		return
	}
	if errs := validate.Application(form); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "Validation failed", errs)
		return
	}
	created, err := s.backend.CreateApplication(r.Context(), form)
	if err != nil {
		s.fail(w, r, err, "Failed to create application. Please try again.")
		return
	}
	writeValue(w, http.StatusCreated, created)
}

// fail maps a backend error to a response. Validation errors are the
// caller's fault; upstream statuses pass through; everything else is a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	if apperrors.Is(err, apperrors.KindValidation) {
		writeError(w, http.StatusBadRequest, "Validation failed", apperrors.Fields(err))
		return
	}
	klog.FromContext(r.Context()).Error(err, "Proxy request failed", "method", r.Method, "path", r.URL.Path)
	status := apperrors.StatusOf(err)
	if status < 400 {
		status = http.StatusInternalServerError
	}
	writeError(w, status, message, nil)
}

func writeValue(w http.ResponseWriter, status int, v tree.Value) {
	if v.IsNull() {
		v = tree.Object()
	}
	data, err := v.MarshalJSON()
	if err != nil {
		klog.ErrorS(err, "Failed to encode response")
		http.Error(w, `{"error":"Internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	members := []tree.Member{tree.Entry("error", tree.String(message))}
	if len(fields) > 0 {
		obj := make([]tree.Member, 0, len(fields))
		for _, k := range sortedKeys(fields) {
			obj = append(obj, tree.Entry(k, tree.String(fields[k])))
		}
		members = append(members, tree.Entry("fields", tree.Object(obj...)))
	}
	writeValue(w, status, tree.Object(members...))
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mt, "multipart/")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
