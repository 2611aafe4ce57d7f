// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// mockService fails failures times, then runs until canceled.
type mockService struct {
	name     string
	starts   atomic.Int32
	failures atomic.Int32
}

func newMockService(name string, failures int32) *mockService {
	m := &mockService{name: name}
	m.failures.Store(failures)
	return m
}

func (m *mockService) Serve(ctx context.Context) error {
	m.starts.Add(1)
	if m.failures.Add(-1) >= 0 {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string { return m.name }
