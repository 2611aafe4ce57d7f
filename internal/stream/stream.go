// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package stream

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/bgpwatch/internal/logging"
	"github.com/tomtom215/bgpwatch/internal/metrics"
	"github.com/tomtom215/bgpwatch/internal/models"
)

// Consumer receives alerts in delivery order.
type Consumer func(models.Alert)

// Client is an alert feed.
type Client interface {
	// Subscribe registers the consumer, replacing any previous one. The
	// returned func removes it if it is still the registered consumer.
	Subscribe(Consumer) func()

	// Run connects and delivers until ctx is cancelled.
	Run(ctx context.Context) error

	// Start runs the client in the background. Stop cancels and waits.
	Start(ctx context.Context) error
	Stop() error

	IsConnected() bool
	String() string
}

// ErrAlreadyStarted is returned by Start or Run on a client that is already
// running, whichever way it was started.
var ErrAlreadyStarted = errors.New("stream client already started")

const initialReconnectDelay = time.Second

// dispatcher holds the single consumer registration.
type dispatcher struct {
	mu       sync.RWMutex
	consumer Consumer
	gen      uint64
}

func (d *dispatcher) Subscribe(c Consumer) func() {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.consumer = c
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.gen == gen {
			d.consumer = nil
		}
	}
}

func (d *dispatcher) deliver(a models.Alert) {
	d.mu.RLock()
	c := d.consumer
	d.mu.RUnlock()
	if c != nil {
		c(a)
	}
}

// decodeAlert validates a payload, recording and logging rejections.
func (d *dispatcher) decodeAlert(transport string, payload []byte) {
	a, err := models.ParseAlert(payload)
	if err != nil {
		reason := "decode"
		if errors.Is(err, models.ErrInvalidAlert) {
			reason = "invalid"
		}
		metrics.RecordRejectedAlert(reason)
		logging.Warn().Err(err).Str("transport", transport).Int("bytes", len(payload)).Msg("Dropping alert payload")
		return
	}
	d.deliver(a)
}

// runner implements Start/Stop on top of a listen func and keeps a client
// from being driven twice: once through Start and once through Run, or by
// two concurrent Run calls.
type runner struct {
	mu     sync.Mutex
	active bool
	cancel context.CancelFunc
	done   chan struct{}
}

// exclusive runs listen in the caller's goroutine, failing fast when the
// client is already running.
func (r *runner) exclusive(ctx context.Context, listen func(context.Context) error) error {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.active = true
	r.mu.Unlock()

	defer r.release()
	return listen(ctx)
}

func (r *runner) release() {
	r.mu.Lock()
	r.active = false
	r.mu.Unlock()
}

func (r *runner) start(ctx context.Context, listen func(context.Context) error, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		return ErrAlreadyStarted
	}
	r.active = true
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	go func(done chan struct{}) {
		defer close(done)
		defer r.release()
		if err := listen(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Str("client", name).Msg("Stream client stopped with error")
		}
	}(r.done)
	return nil
}

func (r *runner) stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// backoff doubles delay up to limit.
func backoff(delay, limit time.Duration) time.Duration {
	delay *= 2
	if delay > limit {
		return limit
	}
	return delay
}

// sleepCtx waits for d or ctx, reporting false when ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

var (
	_ Client = (*SocketIOClient)(nil)
	_ Client = (*NATSClient)(nil)
)
