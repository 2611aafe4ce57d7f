// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package commands

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tomtom215/bgpwatch/internal/backend"
	"github.com/tomtom215/bgpwatch/internal/export"
	"github.com/tomtom215/bgpwatch/internal/logging"
	"github.com/tomtom215/bgpwatch/internal/metrics"
	"github.com/tomtom215/bgpwatch/internal/models"
	"github.com/tomtom215/bgpwatch/internal/voice"
)

const defaultNotificationBuffer = 64

// Options configures a Dispatcher.
type Options struct {
	// AllowOverlappingUploads lets Upload start while another upload is in flight.
	AllowOverlappingUploads bool

	// DefaultHeal is sent when a heal is triggered by voice.
	DefaultHeal models.RemediationRequest

	// NotificationBuffer is the notification channel capacity.
	NotificationBuffer int
}

// Artifact is a rendered export.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	SavedTo     string
}

// Dispatcher runs operator commands against the backend and export engine.
type Dispatcher struct {
	api   backend.API
	saver export.Saver
	opts  Options

	notifications chan Notification
	uploading     atomic.Int32
	mode          atomic.Int32
}

// NewDispatcher creates a dispatcher. saver may be nil, in which case
// artifacts are only returned to the caller.
func NewDispatcher(api backend.API, saver export.Saver, opts Options) *Dispatcher {
	if opts.NotificationBuffer <= 0 {
		opts.NotificationBuffer = defaultNotificationBuffer
	}
	return &Dispatcher{
		api:           api,
		saver:         saver,
		opts:          opts,
		notifications: make(chan Notification, opts.NotificationBuffer),
	}
}

// Notifications delivers every command outcome. When the buffer is full new
// notifications are dropped and logged, so commands never block on readers.
func (d *Dispatcher) Notifications() <-chan Notification {
	return d.notifications
}

func (d *Dispatcher) publish(ctx context.Context, n Notification, started time.Time) Notification {
	metrics.RecordCommand(n.Command, time.Since(started), n.Err)

	logger := logging.Ctx(ctx)
	if n.Success {
		logger.Info().Str("command", n.Command).Str("notification_id", n.ID).Msg(n.Message)
	} else {
		logger.Warn().Err(n.Err).Str("command", n.Command).Str("notification_id", n.ID).Msg("Command failed")
	}

	select {
	case d.notifications <- n:
	default:
		logger.Warn().Str("command", n.Command).Msg("Notification channel full, dropping notification")
	}
	return n
}

// Upload sends the selected file. A nil task or one without a file yields a
// ValidationError and no network call.
func (d *Dispatcher) Upload(ctx context.Context, task *UploadTask) Notification {
	started := time.Now()
	id := ""
	if task != nil {
		id = task.ID
	}
	n := newNotification(id, CommandUpload)
	ctx = logging.ContextWithCommandID(ctx, n.ID)

	if !task.HasFile() {
		return d.publish(ctx, n.fail(&ValidationError{Field: "file", Err: ErrNoFileSelected}), started)
	}

	if d.uploading.Add(1) > 1 && !d.opts.AllowOverlappingUploads {
		d.uploading.Add(-1)
		return d.publish(ctx, n.fail(&ValidationError{Field: "file", Err: ErrUploadInFlight}), started)
	}
	task.inFlight.Store(true)
	metrics.TrackUploadInFlight(true)
	defer func() {
		task.inFlight.Store(false)
		metrics.TrackUploadInFlight(false)
		d.uploading.Add(-1)
	}()

	logging.Ctx(ctx).Debug().Str("filename", task.Filename).Int("bytes", len(task.Data)).Msg("Uploading file")
	resp, err := d.api.Upload(ctx, task.Filename, bytes.NewReader(task.Data))
	if err != nil {
		return d.publish(ctx, n.fail(classify("upload", err)), started)
	}
	msg := resp.Message
	if msg == "" {
		msg = fmt.Sprintf("Uploaded %s", task.Filename)
	}
	return d.publish(ctx, n.succeed(msg), started)
}

// Download fetches the sample file and saves it as backend.SampleFilename.
func (d *Dispatcher) Download(ctx context.Context) Notification {
	started := time.Now()
	n := newNotification("", CommandDownload)
	ctx = logging.ContextWithCommandID(ctx, n.ID)

	dl, err := d.api.Download(ctx)
	if err != nil {
		return d.publish(ctx, n.fail(classify("download", err)), started)
	}

	if d.saver == nil {
		return d.publish(ctx, n.succeed(fmt.Sprintf("Downloaded %s (%d bytes)", dl.Filename, len(dl.Data))), started)
	}
	path, err := d.saver.Save(dl.Filename, dl.Data)
	if err != nil {
		return d.publish(ctx, n.fail(&TransportError{Op: "save " + dl.Filename, Err: err}), started)
	}
	return d.publish(ctx, n.succeed(fmt.Sprintf("Downloaded %s to %s", dl.Filename, path)), started)
}

// TriggerHeal validates req and posts it. The backend's message is
// surfaced verbatim.
func (d *Dispatcher) TriggerHeal(ctx context.Context, req models.RemediationRequest) Notification {
	started := time.Now()
	n := newNotification("", CommandTriggerHeal)
	ctx = logging.ContextWithCommandID(ctx, n.ID)

	if err := req.Validate(); err != nil {
		return d.publish(ctx, n.fail(&ValidationError{Err: err}), started)
	}

	logging.Ctx(ctx).Info().Str("prefix", req.Prefix).Str("next_hop", req.NextHop).Msg("Triggering self-heal")
	resp, err := d.api.TriggerHeal(ctx, req)
	if err != nil {
		return d.publish(ctx, n.fail(classify("trigger-heal", err)), started)
	}
	return d.publish(ctx, n.succeed(resp.Message), started)
}

// ExportCSV renders rows as CSV and saves the artifact.
func (d *Dispatcher) ExportCSV(ctx context.Context, rows []models.Alert) (*Artifact, Notification) {
	return d.exportArtifact(ctx, CommandExportCSV, export.CSVFilename, export.CSVMime, rows, export.ToCSV)
}

// ExportPDF renders rows as a PDF report and saves the artifact.
func (d *Dispatcher) ExportPDF(ctx context.Context, rows []models.Alert) (*Artifact, Notification) {
	return d.exportArtifact(ctx, CommandExportPDF, export.PDFFilename, export.PDFMime, rows, export.ToPDF)
}

func (d *Dispatcher) exportArtifact(
	ctx context.Context,
	command, filename, mime string,
	rows []models.Alert,
	render func([]models.Alert) ([]byte, error),
) (*Artifact, Notification) {
	started := time.Now()
	n := newNotification("", command)
	ctx = logging.ContextWithCommandID(ctx, n.ID)

	data, err := render(rows)
	if err != nil {
		return nil, d.publish(ctx, n.fail(&TransportError{Op: "render " + filename, Err: err}), started)
	}
	art := &Artifact{Filename: filename, ContentType: mime, Data: data}

	if d.saver != nil {
		path, err := d.saver.Save(filename, data)
		if err != nil {
			return art, d.publish(ctx, n.fail(&TransportError{Op: "save " + filename, Err: err}), started)
		}
		art.SavedTo = path
	}
	return art, d.publish(ctx, n.succeed(fmt.Sprintf("Exported %d alerts to %s", len(rows), filename)), started)
}

// ToggleMode flips between normal and high-contrast display and returns
// the new mode.
func (d *Dispatcher) ToggleMode(ctx context.Context) Mode {
	started := time.Now()
	var next Mode
	for {
		cur := d.mode.Load()
		next = ModeHighContrast
		if Mode(cur) == ModeHighContrast {
			next = ModeNormal
		}
		if d.mode.CompareAndSwap(cur, int32(next)) {
			break
		}
	}
	n := newNotification("", CommandToggleMode)
	d.publish(ctx, n.succeed("Display mode: "+next.String()), started)
	return next
}

// Mode returns the current display mode.
func (d *Dispatcher) Mode() Mode {
	return Mode(d.mode.Load())
}

// Dispatch runs the command for a voice intent. Upload uses task; heal uses
// Options.DefaultHeal. It reports false for voice.IntentNone.
func (d *Dispatcher) Dispatch(ctx context.Context, intent voice.Intent, task *UploadTask) (Notification, bool) {
	switch intent {
	case voice.IntentUpload:
		return d.Upload(ctx, task), true
	case voice.IntentDownload:
		return d.Download(ctx), true
	case voice.IntentTriggerHeal:
		return d.TriggerHeal(ctx, d.opts.DefaultHeal), true
	default:
		return Notification{}, false
	}
}
