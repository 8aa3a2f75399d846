// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: application/action.go
// Summary: Backend processing actions and their user-facing texts.

package application

import (
	"fmt"

	"github.com/framegrace/deckreview/apperrors"
)

// Action is a backend processing step.
type Action string

const (
	ActionExtract  Action = "extract"
	ActionEnhance  Action = "enhance"
	ActionEvaluate Action = "evaluate"
)

// Actions in button order.
var Actions = []Action{ActionExtract, ActionEnhance, ActionEvaluate}

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", apperrors.Newf(apperrors.KindValidation, "parse action", "unknown action %q", s)
}

// Label is the trigger button text.
func (a Action) Label() string {
	switch a {
	case ActionExtract:
		return "Trigger Data Extract"
	case ActionEnhance:
		return "Trigger Data Enhancement"
	case ActionEvaluate:
		return "Trigger Evaluation"
	}
	return string(a)
}

// Busy is the button text while the action runs.
func (a Action) Busy() string {
	switch a {
	case ActionExtract:
		return "Extracting..."
	case ActionEnhance:
		return "Enhancing..."
	case ActionEvaluate:
		return "Evaluating..."
	}
	return string(a) + "..."
}

// Progress is the full-screen message while the action runs.
func (a Action) Progress() string {
	switch a {
	case ActionExtract:
		return "Extracting latest data from source..."
	case ActionEnhance:
		return "Enhancing data with external sources..."
	case ActionEvaluate:
		return "Running evaluation models..."
	}
	return "Processing..."
}

// Completed is the success notice text.
func (a Action) Completed() string {
	return fmt.Sprintf("The %s process has completed. Refreshing data...", a)
}

// Failed is the failure notice text.
func (a Action) Failed() string {
	return fmt.Sprintf("Failed to trigger %s", a)
}
