// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package alerts

import (
	"strings"
	"sync"

	"github.com/tomtom215/bgpwatch/internal/models"
)

// Filter is the operator's selected category.
type Filter struct {
	mu       sync.RWMutex
	selected string
}

// NewFilter returns a filter selecting every category.
func NewFilter() *Filter {
	return &Filter{selected: models.CategoryAll}
}

// Select sets the category. A blank category selects models.CategoryAll.
// Categories are not checked against the store: selecting one that has
// not been seen yet simply projects to nothing until it arrives.
func (f *Filter) Select(category string) {
	if strings.TrimSpace(category) == "" {
		category = models.CategoryAll
	}
	f.mu.Lock()
	f.selected = category
	f.mu.Unlock()
}

// Reset selects models.CategoryAll.
func (f *Filter) Reset() {
	f.Select(models.CategoryAll)
}

// Selected returns the current category.
func (f *Filter) Selected() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.selected
}
