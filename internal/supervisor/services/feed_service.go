// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/bgpwatch/internal/stream"
)

// FeedRunner is the blocking half of stream.Client.
type FeedRunner interface {
	Run(ctx context.Context) error
	String() string
}

// FeedService supervises an alert stream client. The client reconnects on
// its own; Serve only returns when the client gives up or ctx ends.
type FeedService struct {
	feed FeedRunner
}

// NewFeedService wraps feed.
func NewFeedService(feed FeedRunner) *FeedService {
	return &FeedService{feed: feed}
}

// Serve runs the feed until ctx is canceled. A feed that is already running,
// for example through Start, reports stream.ErrAlreadyStarted and is not
// restarted.
func (s *FeedService) Serve(ctx context.Context) error {
	err := s.feed.Run(ctx)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, stream.ErrAlreadyStarted):
		return fmt.Errorf("%s: %w: %w", s.feed, err, suture.ErrDoNotRestart)
	case err != nil:
		return fmt.Errorf("%s: %w", s.feed, err)
	default:
		return nil
	}
}

func (s *FeedService) String() string {
	return s.feed.String()
}
