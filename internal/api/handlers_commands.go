// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/tomtom215/bgpwatch/internal/commands"
	"github.com/tomtom215/bgpwatch/internal/logging"
	"github.com/tomtom215/bgpwatch/internal/models"
)

// maxUploadBytes bounds a multipart upload.
const maxUploadBytes = 32 << 20

// errNoMultipartFile means the request carried no "file" part.
var errNoMultipartFile = errors.New("no file part")

// SelectedFileResponse describes the file queued for upload.
type SelectedFileResponse struct {
	ID       string `json:"id,omitempty"`
	Filename string `json:"filename,omitempty"`
	Bytes    int    `json:"bytes"`
	InFlight bool   `json:"in_flight"`
	Selected bool   `json:"selected"`
}

// VoiceRequest carries a speech transcript. Partial fragments are buffered
// until a final transcript arrives.
type VoiceRequest struct {
	Transcript string `json:"transcript" validate:"max=4096"`
	Partial    bool   `json:"partial"`
}

func (h *Handler) selectedFile() SelectedFileResponse {
	task := h.session.SelectedFile()
	if task == nil {
		return SelectedFileResponse{}
	}
	return SelectedFileResponse{
		ID:       task.ID,
		Filename: task.Filename,
		Bytes:    len(task.Data),
		InFlight: task.InFlight(),
		Selected: task.HasFile(),
	}
}

// readMultipartFile returns the "file" part of a multipart request, or
// errNoMultipartFile when the request is not multipart or has no such part.
func readMultipartFile(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		return "", nil, errNoMultipartFile
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", nil, fmt.Errorf("parse multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil, errNoMultipartFile
	}
	if err != nil {
		return "", nil, fmt.Errorf("read file part: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("read file part: %w", err)
	}
	return filepath.Base(header.Filename), data, nil
}

// SelectedFile reports the file queued for upload.
func (h *Handler) SelectedFile(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.selectedFile(), 0)
}

// SelectFile queues the multipart "file" part for the next upload.
func (h *Handler) SelectFile(w http.ResponseWriter, r *http.Request) {
	name, data, err := readMultipartFile(w, r)
	switch {
	case errors.Is(err, errNoMultipartFile):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "multipart field \"file\" is required", nil)
		return
	case err != nil:
		respondError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Could not read uploaded file", err)
		return
	}

	h.session.SelectFile(name, data)
	respondSuccess(w, h.selectedFile(), 0)
}

// ClearFile drops the queued file.
func (h *Handler) ClearFile(w http.ResponseWriter, r *http.Request) {
	h.session.ClearFile()
	respondSuccess(w, h.selectedFile(), 0)
}

// Upload sends the queued file to the backend. A multipart "file" part in
// the same request is selected first.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	name, data, err := readMultipartFile(w, r)
	switch {
	case err == nil:
		h.session.SelectFile(name, data)
	case !errors.Is(err, errNoMultipartFile):
		respondError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Could not read uploaded file", err)
		return
	}

	respondNotification(w, h.session.Upload(r.Context()))
}

// Download fetches the sample file from the backend.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	respondNotification(w, h.session.Download(r.Context()))
}

// TriggerHeal posts a remediation request.
func (h *Handler) TriggerHeal(w http.ResponseWriter, r *http.Request) {
	var req models.RemediationRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	respondNotification(w, h.session.TriggerHeal(r.Context(), req))
}

// ExportCSV returns the visible rows for ?category= as a CSV attachment.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	art, n := h.session.ExportCSV(r.Context(), r.URL.Query().Get("category"))
	respondArtifact(w, r, art, n)
}

// ExportPDF returns the visible rows for ?category= as a PDF attachment.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	art, n := h.session.ExportPDF(r.Context(), r.URL.Query().Get("category"))
	respondArtifact(w, r, art, n)
}

// respondArtifact streams a rendered export. A save failure still serves
// the rendered bytes; the failure reaches clients as a notification.
func respondArtifact(w http.ResponseWriter, r *http.Request, art *commands.Artifact, n commands.Notification) {
	if art == nil {
		respondNotification(w, n)
		return
	}
	if !n.Success {
		logging.Ctx(r.Context()).Warn().Str("command", n.Command).Str("message", n.Message).Msg("Export rendered but not saved")
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Command-ID", n.ID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(art.Data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("filename", art.Filename).Msg("Failed to write export")
	}
}

// Mode returns the display mode.
func (h *Handler) Mode(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]interface{}{"mode": h.session.Mode()}, 0)
}

// ToggleMode flips the display mode.
func (h *Handler) ToggleMode(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]interface{}{"mode": h.session.ToggleMode(r.Context())}, 0)
}

// Voice classifies a transcript and runs the recognised command. Partial
// transcripts are buffered. The command outcome is part of the 200
// response; unrecognised speech is not an error.
func (h *Handler) Voice(w http.ResponseWriter, r *http.Request) {
	var req VoiceRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	if req.Partial {
		respondSuccess(w, h.session.VoiceFragment(req.Transcript), 0)
		return
	}
	respondSuccess(w, h.session.Voice(r.Context(), req.Transcript), 0)
}
