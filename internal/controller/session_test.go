// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package controller

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/bgpwatch/internal/backend"
	"github.com/tomtom215/bgpwatch/internal/commands"
	"github.com/tomtom215/bgpwatch/internal/models"
	"github.com/tomtom215/bgpwatch/internal/stream"
	"github.com/tomtom215/bgpwatch/internal/voice"
)

type fakeAPI struct {
	mu        sync.Mutex
	uploads   []string
	downloads int
	heals     []models.RemediationRequest
	uploadErr error
}

func (f *fakeAPI) Upload(_ context.Context, filename string, content io.Reader) (*models.RemediationResponse, error) {
	data, _ := io.ReadAll(content)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, filename+":"+string(data))
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &models.RemediationResponse{Message: "File uploaded and processed successfully"}, nil
}

func (f *fakeAPI) Download(context.Context) (*backend.Download, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads++
	return &backend.Download{Filename: backend.SampleFilename, Data: []byte("sample")}, nil
}

func (f *fakeAPI) TriggerHeal(_ context.Context, req models.RemediationRequest) (*models.RemediationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heals = append(f.heals, req)
	return &models.RemediationResponse{Message: "Self-heal triggered successfully"}, nil
}

type recordingHub struct {
	mu            sync.Mutex
	alerts        []models.Alert
	seqs          []int
	notifications []interface{}
	modes         []string
}

func (h *recordingHub) BroadcastAlert(seq int, a models.Alert) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.alerts = append(h.alerts, a)
	h.seqs = append(h.seqs, seq)
}

func (h *recordingHub) BroadcastNotification(n interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notifications = append(h.notifications, n)
}

func (h *recordingHub) BroadcastMode(m string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.modes = append(h.modes, m)
}

func (h *recordingHub) notificationCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.notifications)
}

// fakeFeed is a stream.Client driven by the test.
type fakeFeed struct {
	mu       sync.Mutex
	consumer stream.Consumer
}

func (f *fakeFeed) Subscribe(c stream.Consumer) func() {
	f.mu.Lock()
	f.consumer = c
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.consumer = nil
		f.mu.Unlock()
	}
}

func (f *fakeFeed) push(a models.Alert) {
	f.mu.Lock()
	c := f.consumer
	f.mu.Unlock()
	if c != nil {
		c(a)
	}
}

func (f *fakeFeed) Run(ctx context.Context) error { <-ctx.Done(); return ctx.Err() }
func (f *fakeFeed) Start(context.Context) error   { return nil }
func (f *fakeFeed) Stop() error                   { return nil }
func (f *fakeFeed) IsConnected() bool             { return true }
func (f *fakeFeed) String() string                { return "fake-feed" }

var defaultHeal = models.RemediationRequest{Prefix: "192.168.1.0/24", NextHop: "192.168.1.1"}

func newSession(t *testing.T) (*Session, *fakeAPI, *recordingHub, *fakeFeed) {
	t.Helper()
	api := &fakeAPI{}
	hub := &recordingHub{}
	d := commands.NewDispatcher(api, nil, commands.Options{DefaultHeal: defaultHeal})
	s := NewSession(d, hub)
	feed := &fakeFeed{}
	t.Cleanup(s.Attach(feed))
	return s, api, hub, feed
}

func alert(ts, category string, score float64) models.Alert {
	return models.Alert{Timestamp: models.NewTimestamp(ts), AnomalyType: category, ConfidenceScore: score}
}

func TestSession_FeedToViewAndHub(t *testing.T) {
	s, _, hub, feed := newSession(t)

	feed.push(alert("t1", "Route Leak", 0.9))
	feed.push(alert("t2", "Hijack", 0.4))
	feed.push(alert("t3", "Route Leak", 0.7))

	if got := len(hub.alerts); got != 3 {
		t.Fatalf("broadcast %d alerts, want 3", got)
	}
	for i, seq := range hub.seqs {
		if seq != i+1 {
			t.Errorf("broadcast %d seq = %d, want %d", i, seq, i+1)
		}
	}
	if snap := s.Snapshot(); snap.Seq != 3 || len(snap.Alerts) != 3 {
		t.Errorf("Snapshot() seq = %d with %d alerts, want 3", snap.Seq, len(snap.Alerts))
	}

	all := s.View("")
	if all.Category != models.CategoryAll || len(all.Alerts) != 3 {
		t.Fatalf("View(\"\") = %+v", all)
	}
	wantCats := []string{models.CategoryAll, "Route Leak", "Hijack"}
	for i, c := range wantCats {
		if all.Categories[i] != c {
			t.Errorf("Categories[%d] = %q, want %q", i, all.Categories[i], c)
		}
	}

	s.SelectCategory("Route Leak")
	leaks := s.View("")
	if leaks.Category != "Route Leak" || len(leaks.Alerts) != 2 {
		t.Fatalf("filtered view = %+v", leaks)
	}
	if leaks.Alerts[0].Timestamp.String() != "t1" || leaks.Alerts[1].Timestamp.String() != "t3" {
		t.Errorf("filtered order = %v", leaks.Alerts)
	}

	if got := s.View("Hijack"); len(got.Alerts) != 1 {
		t.Errorf("explicit category view has %d alerts, want 1", len(got.Alerts))
	}

	sum := s.Summary("")
	if sum.Count != 2 || sum.MaxConfidence != 0.9 {
		t.Errorf("Summary() = %+v", sum)
	}

	s.ResetFilter()
	if got := s.View(""); got.Category != models.CategoryAll {
		t.Errorf("after reset category = %q", got.Category)
	}
	if got := s.SelectCategory("  "); got != models.CategoryAll {
		t.Errorf("SelectCategory(blank) = %q, want All", got)
	}
}

func TestSession_Detach(t *testing.T) {
	api := &fakeAPI{}
	s := NewSession(commands.NewDispatcher(api, nil, commands.Options{}), nil)
	feed := &fakeFeed{}

	detach := s.Attach(feed)
	feed.push(alert("t1", "Hijack", 0.5))
	detach()
	feed.push(alert("t2", "Hijack", 0.5))

	if s.Store().Len() != 1 {
		t.Errorf("store has %d alerts after detach, want 1", s.Store().Len())
	}
}

func TestSession_UploadClearsSelection(t *testing.T) {
	s, api, _, _ := newSession(t)

	n := s.Upload(context.Background())
	var verr *commands.ValidationError
	if n.Success || !errors.As(n.Err, &verr) {
		t.Fatalf("Upload without file = %+v, want ValidationError", n)
	}
	if len(api.uploads) != 0 {
		t.Fatal("network call made without a file")
	}

	s.SelectFile("routes.mrt", []byte("data"))
	if s.Snapshot().SelectedFile != "routes.mrt" {
		t.Error("snapshot missing selected file")
	}

	n = s.Upload(context.Background())
	if !n.Success {
		t.Fatalf("Upload() = %+v", n)
	}
	if api.uploads[0] != "routes.mrt:data" {
		t.Errorf("uploaded %q", api.uploads[0])
	}
	if s.SelectedFile() != nil {
		t.Error("selection not cleared after success")
	}
}

func TestSession_UploadFailureKeepsSelection(t *testing.T) {
	s, api, _, _ := newSession(t)
	api.uploadErr = &backend.StatusError{StatusCode: 502, Message: "bad gateway"}

	task := s.SelectFile("routes.mrt", []byte("data"))
	if n := s.Upload(context.Background()); n.Success {
		t.Fatal("Upload() succeeded, want failure")
	}
	if s.SelectedFile() != task {
		t.Error("selection lost after failed upload")
	}

	s.ClearFile()
	if s.SelectedFile() != nil {
		t.Error("ClearFile did not clear")
	}
}

func TestSession_Voice(t *testing.T) {
	tests := []struct {
		name       string
		fragments  []string
		transcript string
		want       voice.Intent
		dispatched bool
	}{
		{"download", nil, "download now", voice.IntentDownload, true},
		{"heal", nil, "please self-heal the route", voice.IntentTriggerHeal, true},
		{"upload without file", nil, "upload it", voice.IntentUpload, true},
		{"nothing", nil, "show me the chart", voice.IntentNone, false},
		{"fragments", []string{"please", "down"}, "load", voice.IntentNone, false},
		{"fragments joined", []string{"please"}, "download", voice.IntentDownload, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _, _ := newSession(t)
			for _, f := range tt.fragments {
				if res := s.VoiceFragment(f); res.Intent != voice.IntentNone {
					t.Fatalf("VoiceFragment(%q) intent = %v", f, res.Intent)
				}
			}
			res := s.Voice(context.Background(), tt.transcript)
			if res.Intent != tt.want {
				t.Errorf("intent = %v, want %v", res.Intent, tt.want)
			}
			if (res.Notification != nil) != tt.dispatched {
				t.Errorf("dispatched = %v, want %v", res.Notification != nil, tt.dispatched)
			}

			// The buffer is always cleared.
			if res := s.Voice(context.Background(), ""); res.Intent != voice.IntentNone {
				t.Errorf("second parse = %v, want none", res.Intent)
			}
		})
	}
}

func TestSession_VoiceHealUsesDefaults(t *testing.T) {
	s, api, _, _ := newSession(t)
	res := s.Voice(context.Background(), "Self-Heal")
	if res.Notification == nil || !res.Notification.Success {
		t.Fatalf("Voice() = %+v", res)
	}
	if len(api.heals) != 1 || api.heals[0] != defaultHeal {
		t.Errorf("heals = %+v", api.heals)
	}
}

func TestSession_VoiceUploadUsesSelection(t *testing.T) {
	s, api, _, _ := newSession(t)
	s.SelectFile("a.csv", []byte("x"))

	res := s.Voice(context.Background(), "UPLOAD please")
	if res.Notification == nil || !res.Notification.Success {
		t.Fatalf("Voice() = %+v", res)
	}
	if len(api.uploads) != 1 || s.SelectedFile() != nil {
		t.Errorf("uploads = %v selected = %v", api.uploads, s.SelectedFile())
	}
}

func TestSession_ToggleModeBroadcasts(t *testing.T) {
	s, _, hub, _ := newSession(t)

	if s.Mode() != commands.ModeNormal {
		t.Fatalf("initial mode = %v", s.Mode())
	}
	if got := s.ToggleMode(context.Background()); got != commands.ModeHighContrast {
		t.Errorf("ToggleMode() = %v", got)
	}
	if got := s.ToggleMode(context.Background()); got != commands.ModeNormal {
		t.Errorf("ToggleMode() = %v", got)
	}
	if len(hub.modes) != 2 || hub.modes[0] != "high_contrast" || hub.modes[1] != "normal" {
		t.Errorf("broadcast modes = %v", hub.modes)
	}
	if s.Snapshot().Mode != commands.ModeNormal {
		t.Error("snapshot mode mismatch")
	}
}

func TestSession_ExportUsesProjection(t *testing.T) {
	s, _, _, feed := newSession(t)
	feed.push(alert("t1", "Hijack", 0.87))
	feed.push(alert("t2", "Route Leak", 0.5))

	art, n := s.ExportCSV(context.Background(), "Hijack")
	if !n.Success || art == nil {
		t.Fatalf("ExportCSV() = %+v", n)
	}
	want := "timestamp,anomaly_type,confidence_score\nt1,Hijack,0.87\n"
	if string(art.Data) != want {
		t.Errorf("csv = %q, want %q", art.Data, want)
	}

	art, n = s.ExportPDF(context.Background(), "")
	if !n.Success || art == nil || len(art.Data) == 0 {
		t.Fatalf("ExportPDF() = %+v", n)
	}
}

func TestSession_Download(t *testing.T) {
	s, api, _, _ := newSession(t)
	if n := s.Download(context.Background()); !n.Success {
		t.Fatalf("Download() = %+v", n)
	}
	if n := s.TriggerHeal(context.Background(), models.RemediationRequest{Prefix: "bad"}); n.Success {
		t.Error("TriggerHeal accepted an invalid request")
	}
	if api.downloads != 1 || len(api.heals) != 0 {
		t.Errorf("downloads=%d heals=%d", api.downloads, len(api.heals))
	}
}

func TestNotificationPump(t *testing.T) {
	api := &fakeAPI{}
	hub := &recordingHub{}
	d := commands.NewDispatcher(api, nil, commands.Options{})
	pump := NewNotificationPump(d, hub)
	if pump.String() != "notification-pump" {
		t.Errorf("String() = %q", pump.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- pump.Serve(ctx) }()

	d.Download(context.Background())
	d.ToggleMode(context.Background())

	deadline := time.Now().Add(time.Second)
	for hub.notificationCount() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("forwarded %d notifications, want 2", hub.notificationCount())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}
