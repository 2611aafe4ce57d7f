// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package controller

import (
	"context"
	"sync"

	"github.com/tomtom215/bgpwatch/internal/alerts"
	"github.com/tomtom215/bgpwatch/internal/commands"
	"github.com/tomtom215/bgpwatch/internal/logging"
	"github.com/tomtom215/bgpwatch/internal/models"
	"github.com/tomtom215/bgpwatch/internal/stream"
	"github.com/tomtom215/bgpwatch/internal/voice"
)

// Broadcaster pushes session changes to connected clients.
// Satisfied by *websocket.Hub.
type Broadcaster interface {
	BroadcastAlert(seq int, alert models.Alert)
	BroadcastNotification(interface{})
	BroadcastMode(string)
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastAlert(int, models.Alert)  {}
func (nopBroadcaster) BroadcastNotification(interface{}) {}
func (nopBroadcaster) BroadcastMode(string)              {}

// Session is the state of one dashboard.
type Session struct {
	store      *alerts.Store
	filter     *alerts.Filter
	parser     *voice.Parser
	dispatcher *commands.Dispatcher
	hub        Broadcaster

	taskMu sync.Mutex
	task   *commands.UploadTask
}

// NewSession creates a session with an empty store around dispatcher. hub
// may be nil.
func NewSession(dispatcher *commands.Dispatcher, hub Broadcaster) *Session {
	if hub == nil {
		hub = nopBroadcaster{}
	}
	return &Session{
		store:      alerts.NewStore(),
		filter:     alerts.NewFilter(),
		parser:     voice.NewParser(),
		dispatcher: dispatcher,
		hub:        hub,
	}
}

// Attach registers the session as the feed's consumer. The returned func
// detaches it.
func (s *Session) Attach(feed stream.Client) func() {
	logging.Info().Str("feed", feed.String()).Msg("Session attached to feed")
	return feed.Subscribe(s.onAlert)
}

func (s *Session) onAlert(a models.Alert) {
	seq := s.store.Append(a)
	s.hub.BroadcastAlert(seq, a)
}

// Store exposes the underlying alert store.
func (s *Session) Store() *alerts.Store {
	return s.store
}

// View is the visible table: the projection for one category.
type View struct {
	Category   string         `json:"category"`
	Categories []string       `json:"categories"`
	Alerts     []models.Alert `json:"alerts"`
}

// View projects the store for category. An empty category uses the
// session's selected filter.
func (s *Session) View(category string) View {
	if category == "" {
		category = s.filter.Selected()
	}
	return View{
		Category:   category,
		Categories: s.store.KnownCategories(),
		Alerts:     alerts.Project(s.store.All(), category),
	}
}

// Summary aggregates the projection for category (see View).
func (s *Session) Summary(category string) alerts.Summary {
	return alerts.Summarize(s.View(category).Alerts)
}

// Categories lists the known categories, All first.
func (s *Session) Categories() []string {
	return s.store.KnownCategories()
}

// SelectCategory sets the filter. A blank category selects All.
func (s *Session) SelectCategory(category string) string {
	s.filter.Select(category)
	return s.filter.Selected()
}

// ResetFilter selects All.
func (s *Session) ResetFilter() {
	s.filter.Reset()
}

// Snapshot is sent to a browser when it connects.
type Snapshot struct {
	Alerts []models.Alert `json:"alerts"`
	// Seq is the store position of the last alert in Alerts.
	Seq            int            `json:"seq"`
	Categories     []string       `json:"categories"`
	Category       string         `json:"category"`
	Mode           commands.Mode  `json:"mode"`
	SelectedFile   string         `json:"selected_file,omitempty"`
	UploadInFlight bool           `json:"upload_in_flight"`
}

// Snapshot captures the full session state.
func (s *Session) Snapshot() Snapshot {
	task := s.SelectedFile()
	all := s.store.All()
	snap := Snapshot{
		Alerts:     all,
		Seq:        len(all),
		Categories: s.store.KnownCategories(),
		Category:   s.filter.Selected(),
		Mode:       s.dispatcher.Mode(),
	}
	if task != nil {
		snap.SelectedFile = task.Filename
		snap.UploadInFlight = task.InFlight()
	}
	return snap
}

// SelectFile makes name the file for the next upload, replacing any
// previous selection.
func (s *Session) SelectFile(name string, data []byte) *commands.UploadTask {
	task := commands.NewUploadTask(name, data)
	s.taskMu.Lock()
	s.task = task
	s.taskMu.Unlock()
	logging.Debug().Str("filename", name).Int("bytes", len(data)).Msg("File selected for upload")
	return task
}

// ClearFile drops the selected file.
func (s *Session) ClearFile() {
	s.taskMu.Lock()
	s.task = nil
	s.taskMu.Unlock()
}

// SelectedFile returns the selected upload, or nil.
func (s *Session) SelectedFile() *commands.UploadTask {
	s.taskMu.Lock()
	defer s.taskMu.Unlock()
	return s.task
}

// Upload sends the selected file. The selection is cleared after a
// successful upload unless another file was selected meanwhile.
func (s *Session) Upload(ctx context.Context) commands.Notification {
	task := s.SelectedFile()
	n := s.dispatcher.Upload(ctx, task)
	if n.Success {
		s.taskMu.Lock()
		if s.task == task {
			s.task = nil
		}
		s.taskMu.Unlock()
	}
	return n
}

// Download fetches the sample file.
func (s *Session) Download(ctx context.Context) commands.Notification {
	return s.dispatcher.Download(ctx)
}

// TriggerHeal posts a remediation request.
func (s *Session) TriggerHeal(ctx context.Context, req models.RemediationRequest) commands.Notification {
	return s.dispatcher.TriggerHeal(ctx, req)
}

// ExportCSV exports the rows currently visible for category.
func (s *Session) ExportCSV(ctx context.Context, category string) (*commands.Artifact, commands.Notification) {
	return s.dispatcher.ExportCSV(ctx, s.View(category).Alerts)
}

// ExportPDF exports the rows currently visible for category.
func (s *Session) ExportPDF(ctx context.Context, category string) (*commands.Artifact, commands.Notification) {
	return s.dispatcher.ExportPDF(ctx, s.View(category).Alerts)
}

// ToggleMode flips the display mode and tells every client.
func (s *Session) ToggleMode(ctx context.Context) commands.Mode {
	mode := s.dispatcher.ToggleMode(ctx)
	s.hub.BroadcastMode(mode.String())
	return mode
}

// Mode returns the current display mode.
func (s *Session) Mode() commands.Mode {
	return s.dispatcher.Mode()
}

// VoiceResult is the outcome of one voice request.
type VoiceResult struct {
	Intent       voice.Intent           `json:"intent"`
	Pending      string                 `json:"pending,omitempty"`
	Notification *commands.Notification `json:"notification,omitempty"`
}

// VoiceFragment buffers a partial transcript without classifying it.
func (s *Session) VoiceFragment(fragment string) VoiceResult {
	s.parser.Append(fragment)
	return VoiceResult{Intent: voice.IntentNone, Pending: s.parser.Pending()}
}

// Voice classifies the buffered transcript plus transcript and runs the
// matching command. Unrecognized speech dispatches nothing.
func (s *Session) Voice(ctx context.Context, transcript string) VoiceResult {
	intent := s.parser.Parse(transcript)
	res := VoiceResult{Intent: intent}

	var (
		n  commands.Notification
		ok bool
	)
	if intent == voice.IntentUpload {
		n, ok = s.Upload(ctx), true
	} else {
		n, ok = s.dispatcher.Dispatch(ctx, intent, nil)
	}
	if ok {
		res.Notification = &n
	}
	logging.Ctx(ctx).Info().Str("intent", intent.String()).Bool("dispatched", ok).Msg("Voice command")
	return res
}
