// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package alerts

import (
	"sync"

	"github.com/tomtom215/bgpwatch/internal/metrics"
	"github.com/tomtom215/bgpwatch/internal/models"
)

// Store is the append-only alert log for one session.
// Append may run concurrently with any read; reads return copies.
type Store struct {
	mu         sync.RWMutex
	alerts     []models.Alert
	categories []string
	seen       map[string]struct{}
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		alerts: make([]models.Alert, 0, 256),
		seen:   make(map[string]struct{}),
	}
}

// Append adds one alert to the end of the log and returns its 1-based
// position, which is also the store length right after the append.
func (s *Store) Append(a models.Alert) int {
	s.mu.Lock()
	s.alerts = append(s.alerts, a)
	seq := len(s.alerts)
	if _, ok := s.seen[a.AnomalyType]; !ok {
		s.seen[a.AnomalyType] = struct{}{}
		s.categories = append(s.categories, a.AnomalyType)
	}
	s.mu.Unlock()

	metrics.RecordAlert(a.AnomalyType)
	return seq
}

// All returns a snapshot of every alert in arrival order.
func (s *Store) All() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Since returns the alerts appended after the first n, in arrival order.
// A negative n is treated as zero; n past the end yields an empty slice.
// The websocket hub uses it to resend alerts a client missed.
func (s *Store) Since(n int) []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n < 0 {
		n = 0
	}
	if n >= len(s.alerts) {
		return []models.Alert{}
	}
	out := make([]models.Alert, len(s.alerts)-n)
	copy(out, s.alerts[n:])
	return out
}

// Len returns the number of alerts received so far.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alerts)
}

// KnownCategories returns models.CategoryAll followed by every distinct
// anomaly type in first-seen order.
func (s *Store) KnownCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.categories)+1)
	out = append(out, models.CategoryAll)
	out = append(out, s.categories...)
	return out
}
