// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: backend/client.go
// Summary: HTTP client for the evaluation backend's REST surface.
// Usage: Shared by the terminal UI, the CLI commands and the proxy service.

package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/application"
	"github.com/framegrace/deckreview/tree"
	"github.com/framegrace/deckreview/validate"
)

// DefaultTimeout bounds every request; the backend can be slow.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 64 << 20

// Client talks to the backend.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidation, "parse backend url", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, apperrors.Newf(apperrors.KindValidation, "parse backend url", "unsupported backend url %q", baseURL)
	}
	c := &Client{base: u, http: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.base.String() }

// ListOptions filter the application list.
type ListOptions struct {
	Status application.Status
	Search string
}

// Query encodes the options, dropping the "all" status.
func (o ListOptions) Query() url.Values {
	q := url.Values{}
	if o.Status != "" && o.Status != application.StatusAll {
		q.Set("status", string(o.Status))
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	return q
}

// ListApplications returns the raw application list.
func (c *Client) ListApplications(ctx context.Context, opts ListOptions) (tree.Value, error) {
	const op = "list applications"
	resp, err := c.do(ctx, op, http.MethodGet, c.endpoint(opts.Query(), "applications"), nil, "")
	if err != nil {
		return tree.Value{}, err
	}
	defer resp.Body.Close()
	if err := checkStatus(op, resp, "Failed to fetch applications"); err != nil {
		return tree.Value{}, err
	}
	if !isJSON(resp.Header.Get("Content-Type")) {
		return tree.Value{}, &apperrors.Error{Kind: apperrors.KindNetwork, Op: op, Message: "Invalid response format", Status: resp.StatusCode}
	}
	list, err := decodeBody(op, resp)
	if err != nil {
		return tree.Value{}, err
	}
	if list.Kind() != tree.KindList {
		return tree.Value{}, apperrors.Newf(apperrors.KindParse, op, "expected a list, got %s", list.Kind())
	}
	klog.FromContext(ctx).V(2).Info("Fetched applications", "count", list.Len())
	return list, nil
}

// GetApplication returns one application record.
func (c *Client) GetApplication(ctx context.Context, id string) (tree.Value, error) {
	const op = "get application"
	resp, err := c.do(ctx, op, http.MethodGet, c.endpoint(nil, "applications", id), nil, "")
	if err != nil {
		return tree.Value{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		drain(resp)
		return tree.Value{}, &apperrors.Error{Kind: apperrors.KindNotFound, Op: op, Message: "Application not found", Status: resp.StatusCode}
	}
	if err := checkStatus(op, resp, fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)); err != nil {
		return tree.Value{}, err
	}
	return decodeBody(op, resp)
}

// UpdateApplication sends a JSON partial update.
func (c *Client) UpdateApplication(ctx context.Context, id string, patch tree.Value) (tree.Value, error) {
	const op = "update application"
	body, err := patch.MarshalJSON()
	if err != nil {
		return tree.Value{}, apperrors.New(apperrors.KindInternal, op, err)
	}
	resp, err := c.do(ctx, op, http.MethodPatch, c.endpoint(nil, "applications", id), bytes.NewReader(body), "application/json")
	if err != nil {
		return tree.Value{}, err
	}
	defer resp.Body.Close()
	if err := checkStatus(op, resp, "Failed to update application"); err != nil {
		return tree.Value{}, err
	}
	return decodeOptional(op, resp)
}

// SaveRaw replaces the raw extracted data of an application.
func (c *Client) SaveRaw(ctx context.Context, id string, raw tree.Value) error {
	_, err := c.UpdateApplication(ctx, id, tree.Object(tree.Entry("raw", raw)))
	return err
}

// UploadDeck replaces the pitch deck of an application.
func (c *Client) UploadDeck(ctx context.Context, id string, deck validate.Deck) (tree.Value, error) {
	const op = "upload pitch deck"
	if msg := validate.DeckError(&deck); msg != "" {
		return tree.Value{}, validate.Errors{validate.FieldFile: msg}.Err(op)
	}
	body, contentType, err := encodeForm(nil, &deck)
	if err != nil {
		return tree.Value{}, apperrors.New(apperrors.KindInternal, op, err)
	}
	resp, err := c.do(ctx, op, http.MethodPatch, c.endpoint(nil, "applications", id), body, contentType)
	if err != nil {
		return tree.Value{}, err
	}
	defer resp.Body.Close()
	if err := checkStatus(op, resp, "Failed to upload pitch deck"); err != nil {
		return tree.Value{}, err
	}
	return decodeOptional(op, resp)
}

// Trigger asks the backend to run a processing action.
func (c *Client) Trigger(ctx context.Context, id string, action application.Action) (tree.Value, error) {
	op := "trigger " + string(action)
	if _, err := application.ParseAction(string(action)); err != nil {
		return tree.Value{}, err
	}
	q := url.Values{"action": {string(action)}}
	resp, err := c.do(ctx, op, http.MethodPost, c.endpoint(q, "applications", id), nil, "application/json")
	if err != nil {
		return tree.Value{}, err
	}
	defer resp.Body.Close()
	if err := checkStatus(op, resp, action.Failed()); err != nil {
		return tree.Value{}, err
	}
	return decodeOptional(op, resp)
}

// CreateApplication validates the form and submits it. Invalid forms never
// reach the network.
func (c *Client) CreateApplication(ctx context.Context, form validate.NewApplication) (tree.Value, error) {
	const op = "create application"
	if err := validate.Application(form).Err(op); err != nil {
		return tree.Value{}, err
	}
	form = form.Trimmed()
	body, contentType, err := encodeForm(&form, form.Deck)
	if err != nil {
		return tree.Value{}, apperrors.New(apperrors.KindInternal, op, err)
	}
	resp, err := c.do(ctx, op, http.MethodPost, c.endpoint(nil, "applications"), body, contentType)
	if err != nil {
		return tree.Value{}, err
	}
	defer resp.Body.Close()
	if err := checkStatus(op, resp, "Failed to create application. Please try again."); err != nil {
		return tree.Value{}, err
	}
	return decodeOptional(op, resp)
}

func (c *Client) endpoint(q url.Values, segments ...string) string {
	u := *c.base
	for _, s := range segments {
		u = *u.JoinPath(url.PathEscape(s))
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, op, method, target string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, apperrors.New(apperrors.KindInternal, op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	log := klog.FromContext(ctx)
	log.V(2).Info("Backend request", "method", method, "url", target)
	resp, err := c.http.Do(req)
	if err != nil {
		log.Error(err, "Backend request failed", "op", op)
		return nil, apperrors.New(apperrors.KindNetwork, op, err)
	}
	return resp, nil
}

func checkStatus(op string, resp *http.Response, message string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	drain(resp)
	klog.InfoS("Backend returned error status", "op", op, "status", resp.Status)
	return &apperrors.Error{
		Kind:    apperrors.KindNetwork,
		Op:      op,
		Message: message,
		Status:  resp.StatusCode,
		Err:     fmt.Errorf("backend returned %s", resp.Status),
	}
}

func decodeBody(op string, resp *http.Response) (tree.Value, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return tree.Value{}, apperrors.New(apperrors.KindNetwork, op, err)
	}
	v, err := tree.Parse(data)
	if err != nil {
		return tree.Value{}, apperrors.New(apperrors.KindParse, op, err)
	}
	return v, nil
}

// decodeOptional tolerates empty bodies from endpoints that may not echo.
func decodeOptional(op string, resp *http.Response) (tree.Value, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return tree.Value{}, apperrors.New(apperrors.KindNetwork, op, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return tree.Null(), nil
	}
	v, err := tree.Parse(data)
	if err != nil {
		return tree.Value{}, apperrors.New(apperrors.KindParse, op, err)
	}
	return v, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && (mt == "application/json" || strings.HasSuffix(mt, "+json"))
}
