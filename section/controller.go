// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: section/controller.go
// Summary: Owns a document and its single section edit session.
// Usage: BeginEdit, Update, then CommitEdit or CancelEdit.
// Notes: At most one working copy exists at any time. Commit always ends the
// session; the document only advances when persistence succeeds.

package section

import (
	"context"
	"errors"
	"sync"

	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/notify"
	"github.com/framegrace/deckreview/tree"
)

var (
	// ErrEditInProgress is returned by BeginEdit while a session is open.
	ErrEditInProgress = errors.New("another section is being edited")
	// ErrNotEditing is returned by session operations while viewing.
	ErrNotEditing = errors.New("no section is being edited")
	// ErrCommitInProgress is returned while a commit is being persisted.
	ErrCommitInProgress = errors.New("a commit is in progress")
	// ErrUnknownSection is returned when the section key is not in the document.
	ErrUnknownSection = errors.New("unknown section")
)

// State of the controller.
type State int

const (
	StateViewing State = iota
	StateEditing
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateCommitting:
		return "committing"
	}
	return "viewing"
}

// PersistFunc stores a whole new document. It is called without the
// controller lock held.
type PersistFunc func(ctx context.Context, doc tree.Value) error

// Messages are the notice texts sent after a commit.
type Messages struct {
	SuccessTitle string
	Success      string
	FailureTitle string
	Failure      string
}

// DefaultMessages describe raw data saves.
var DefaultMessages = Messages{
	SuccessTitle: "Success",
	Success:      "Raw data updated successfully",
	FailureTitle: "Error",
	Failure:      "Failed to save changes",
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier reports commit outcomes to n.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithMessages overrides the commit notice texts.
func WithMessages(m Messages) Option {
	return func(c *Controller) { c.messages = m }
}

// Controller holds the authoritative document and the edit session.
type Controller struct {
	mu       sync.Mutex
	doc      tree.Value
	state    State
	key      string
	working  tree.Value
	persist  PersistFunc
	notifier notify.Notifier
	messages Messages
}

// New creates a controller in the viewing state.
func New(doc tree.Value, persist PersistFunc, opts ...Option) *Controller {
	c := &Controller{doc: doc, persist: persist, messages: DefaultMessages}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Document returns the current document.
func (c *Controller) Document() tree.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc
}

// Sections returns the top-level keys in document order.
func (c *Controller) Sections() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Keys()
}

// Section returns the committed value of one section.
func (c *Controller) Section(key string) (tree.Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Lookup(key)
}

// State returns the state and, unless viewing, the section being edited.
func (c *Controller) State() (State, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.key
}

// Editing reports whether key is the section under edit.
func (c *Controller) Editing(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != StateViewing && c.key == key
}

// WorkingCopy returns the working copy of the open session.
func (c *Controller) WorkingCopy() (tree.Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateViewing {
		return tree.Value{}, false
	}
	return c.working, true
}

// BeginEdit opens a session on key with a deep copy of its value.
func (c *Controller) BeginEdit(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateEditing:
		return apperrors.New(apperrors.KindConflict, "begin edit "+key, ErrEditInProgress)
	case StateCommitting:
		return apperrors.New(apperrors.KindConflict, "begin edit "+key, ErrCommitInProgress)
	}
	v, ok := c.doc.Lookup(key)
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "begin edit "+key, ErrUnknownSection)
	}
	c.state = StateEditing
	c.key = key
	c.working = v.Clone()
	klog.V(2).InfoS("Section edit started", "section", key)
	return nil
}

// Update assigns v at path inside the working copy.
func (c *Controller) Update(path tree.Path, v tree.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireEditing("update " + path.String()); err != nil {
		return err
	}
	next, err := c.working.With(path, v)
	if err != nil {
		return apperrors.New(apperrors.KindNotFound, "update "+c.key, err)
	}
	c.working = next
	return nil
}

// CancelEdit discards the working copy.
func (c *Controller) CancelEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireEditing("cancel edit"); err != nil {
		return err
	}
	klog.V(2).InfoS("Section edit cancelled", "section", c.key)
	c.reset()
	return nil
}

// CommitEdit persists the document with the edited section replaced. The
// session ends whatever the outcome; on failure the previous document stays
// current and the error is both notified and returned.
func (c *Controller) CommitEdit(ctx context.Context) error {
	c.mu.Lock()
	if err := c.requireEditing("commit edit"); err != nil {
		c.mu.Unlock()
		return err
	}
	key := c.key
	next, err := c.doc.With(tree.Path{tree.Key(key)}, c.working)
	if err != nil {
		c.reset()
		c.mu.Unlock()
		return apperrors.New(apperrors.KindInternal, "commit "+key, err)
	}
	c.state = StateCommitting
	persist := c.persist
	c.mu.Unlock()

	log := klog.FromContext(ctx)
	if persist != nil {
		err = persist(ctx, next)
	}

	c.mu.Lock()
	if err == nil {
		c.doc = next
	}
	c.reset()
	c.mu.Unlock()

	if err != nil {
		log.Error(err, "Section commit failed", "section", key)
		notify.Error(c.notifier, c.messages.FailureTitle, c.messages.Failure)
		return err
	}
	log.Info("Section committed", "section", key)
	notify.Info(c.notifier, c.messages.SuccessTitle, c.messages.Success)
	return nil
}

// Replace swaps in a freshly fetched document. An open session survives and
// will commit into the new document.
func (c *Controller) Replace(doc tree.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc = doc
}

func (c *Controller) requireEditing(op string) error {
	switch c.state {
	case StateViewing:
		return apperrors.New(apperrors.KindConflict, op, ErrNotEditing)
	case StateCommitting:
		return apperrors.New(apperrors.KindConflict, op, ErrCommitInProgress)
	}
	return nil
}

func (c *Controller) reset() {
	c.state = StateViewing
	c.key = ""
	c.working = tree.Value{}
}
