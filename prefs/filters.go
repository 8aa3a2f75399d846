// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: prefs/filters.go
// Summary: Evaluation filter presets and the active selection.

package prefs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/framegrace/deckreview/apperrors"
	"github.com/framegrace/deckreview/validate"
)

// ErrFilterNotFound is returned for an unknown filter id.
var ErrFilterNotFound = errors.New("filter not found")

// DimensionNames lists the weighted dimensions in form order.
var DimensionNames = []string{"founders", "market", "product", "traction", "investors", "vision"}

// Dimensions are per-dimension weights in 0..100.
type Dimensions struct {
	Founders  int `json:"founders"`
	Market    int `json:"market"`
	Product   int `json:"product"`
	Traction  int `json:"traction"`
	Investors int `json:"investors"`
	Vision    int `json:"vision"`
}

// DefaultDimensions are the weights a new filter starts with.
func DefaultDimensions() Dimensions {
	return Dimensions{Founders: 75, Market: 60, Product: 35, Traction: 15, Investors: 5, Vision: 10}
}

func (d *Dimensions) field(name string) *int {
	switch name {
	case "founders":
		return &d.Founders
	case "market":
		return &d.Market
	case "product":
		return &d.Product
	case "traction":
		return &d.Traction
	case "investors":
		return &d.Investors
	case "vision":
		return &d.Vision
	}
	return nil
}

// Get returns the weight of a dimension.
func (d Dimensions) Get(name string) int {
	if p := d.field(name); p != nil {
		return *p
	}
	return 0
}

// Set changes the weight of a dimension.
func (d *Dimensions) Set(name string, weight int) error {
	p := d.field(name)
	if p == nil {
		return fmt.Errorf("unknown dimension %q", name)
	}
	*p = weight
	return nil
}

// Map returns the weights keyed by dimension name.
func (d Dimensions) Map() map[string]int {
	out := make(map[string]int, len(DimensionNames))
	for _, name := range DimensionNames {
		out[name] = d.Get(name)
	}
	return out
}

// Filter is a named evaluation preset.
type Filter struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	CustomPrompt string     `json:"customPrompt"`
	Dimensions   Dimensions `json:"dimensions"`
}

// Filters manages filter presets in a Store.
type Filters struct {
	store Store
	newID func() string
}

// NewFilters wraps store.
func NewFilters(store Store) *Filters {
	return &Filters{store: store, newID: uuid.NewString}
}

// List returns all presets in creation order.
func (f *Filters) List(ctx context.Context) ([]Filter, error) {
	raw, err := f.store.Get(ctx, KeyFilters)
	if errors.Is(err, ErrNotFound) {
		return []Filter{}, nil
	}
	if err != nil {
		return nil, err
	}
	var out []Filter
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, apperrors.New(apperrors.KindParse, "load filters", err)
	}
	if out == nil {
		out = []Filter{}
	}
	return out, nil
}

// Create validates and stores a new preset.
func (f *Filters) Create(ctx context.Context, name, customPrompt string, dims Dimensions) (Filter, error) {
	if err := validate.Filter(name, customPrompt, dims.Map()).Err("create filter"); err != nil {
		return Filter{}, err
	}
	list, err := f.List(ctx)
	if err != nil {
		return Filter{}, err
	}
	filter := Filter{
		ID:           f.newID(),
		Name:         strings.TrimSpace(name),
		CustomPrompt: strings.TrimSpace(customPrompt),
		Dimensions:   dims,
	}
	if err := f.save(ctx, append(list, filter)); err != nil {
		return Filter{}, err
	}
	klog.FromContext(ctx).Info("Filter created", "id", filter.ID, "name", filter.Name)
	return filter, nil
}

// Delete removes a preset, clearing the selection if it pointed at it.
func (f *Filters) Delete(ctx context.Context, id string) error {
	list, err := f.List(ctx)
	if err != nil {
		return err
	}
	kept := list[:0]
	found := false
	for _, filter := range list {
		if filter.ID == id {
			found = true
			continue
		}
		kept = append(kept, filter)
	}
	if !found {
		return apperrors.New(apperrors.KindNotFound, "delete filter "+id, ErrFilterNotFound)
	}
	if err := f.save(ctx, kept); err != nil {
		return err
	}
	if current, err := f.store.Get(ctx, KeySelectedFilter); err == nil && current == id {
		return f.store.Delete(ctx, KeySelectedFilter)
	}
	return nil
}

// Toggle selects id, or clears the selection when id is already selected.
// It reports the filter and whether it is now selected.
func (f *Filters) Toggle(ctx context.Context, id string) (Filter, bool, error) {
	filter, err := f.find(ctx, id)
	if err != nil {
		return Filter{}, false, err
	}
	current, err := f.store.Get(ctx, KeySelectedFilter)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Filter{}, false, err
	}
	if current == id {
		return filter, false, f.store.Delete(ctx, KeySelectedFilter)
	}
	return filter, true, f.store.Set(ctx, KeySelectedFilter, id)
}

// Selected returns the active preset, if any. A selection pointing at a
// deleted preset counts as none.
func (f *Filters) Selected(ctx context.Context) (Filter, bool, error) {
	id, err := f.store.Get(ctx, KeySelectedFilter)
	if errors.Is(err, ErrNotFound) {
		return Filter{}, false, nil
	}
	if err != nil {
		return Filter{}, false, err
	}
	filter, err := f.find(ctx, id)
	if errors.Is(err, ErrFilterNotFound) {
		return Filter{}, false, nil
	}
	if err != nil {
		return Filter{}, false, err
	}
	return filter, true, nil
}

// ToggleMessage returns the notice texts for a Toggle outcome.
func ToggleMessage(filter Filter, selected bool) (title, description string) {
	if selected {
		return "Filter Selected", fmt.Sprintf("%q will be used for evaluations", filter.Name)
	}
	return "Filter Deselected", "No filter is currently active"
}

func (f *Filters) find(ctx context.Context, id string) (Filter, error) {
	list, err := f.List(ctx)
	if err != nil {
		return Filter{}, err
	}
	for _, filter := range list {
		if filter.ID == id {
			return filter, nil
		}
	}
	return Filter{}, apperrors.New(apperrors.KindNotFound, "find filter "+id, ErrFilterNotFound)
}

func (f *Filters) save(ctx context.Context, list []Filter) error {
	data, err := json.Marshal(list)
	if err != nil {
		return apperrors.New(apperrors.KindInternal, "save filters", err)
	}
	return f.store.Set(ctx, KeyFilters, string(data))
}
