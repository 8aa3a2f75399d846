// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: proxy/server.go
// Summary: HTTP proxy in front of the review backend.
// Usage: deckreview serve starts it; routes live under /api.

package proxy

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/application"
	"github.com/framegrace/deckreview/backend"
	"github.com/framegrace/deckreview/tree"
	"github.com/framegrace/deckreview/validate"
)

// Backend is the subset of the backend client the proxy forwards to.
type Backend interface {
	ListApplications(ctx context.Context, opts backend.ListOptions) (tree.Value, error)
	GetApplication(ctx context.Context, id string) (tree.Value, error)
	UpdateApplication(ctx context.Context, id string, patch tree.Value) (tree.Value, error)
	UploadDeck(ctx context.Context, id string, deck validate.Deck) (tree.Value, error)
	Trigger(ctx context.Context, id string, action application.Action) (tree.Value, error)
	CreateApplication(ctx context.Context, form validate.NewApplication) (tree.Value, error)
}

// Server serves the /api routes.
type Server struct {
	backend Backend
	router  *mux.Router
}

// New builds a server with all routes registered.
func New(b Backend) *Server {
	s := &Server{backend: b, router: mux.NewRouter()}
	s.router.Use(logRequests)
	s.Register(s.router)
	return s
}

// Register adds the proxy routes to r.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/applications", s.listApplications).Methods(http.MethodGet)
	api.HandleFunc("/applications", s.createApplication).Methods(http.MethodPost)
	api.HandleFunc("/application/{id}", s.getApplication).Methods(http.MethodGet)
	api.HandleFunc("/application/{id}", s.updateApplication).Methods(http.MethodPatch)
	api.HandleFunc("/application/{id}", s.triggerAction).Methods(http.MethodPost)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	klog.InfoS("Proxy listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	klog.InfoS("Proxy shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		klog.V(1).InfoS("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
