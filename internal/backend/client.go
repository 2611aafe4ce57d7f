// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bgpwatch/internal/config"
	"github.com/tomtom215/bgpwatch/internal/models"
)

// SampleFilename is the name the downloaded sample is saved under.
const SampleFilename = "sample_file"

// maxDownloadSize caps the sample download.
const maxDownloadSize = 64 << 20

// API is the set of backend calls the dispatcher makes.
// Both Client and CircuitBreakerClient implement it.
type API interface {
	Upload(ctx context.Context, filename string, content io.Reader) (*models.RemediationResponse, error)
	Download(ctx context.Context) (*Download, error)
	TriggerHeal(ctx context.Context, req models.RemediationRequest) (*models.RemediationResponse, error)
}

var _ API = (*Client)(nil)

// Download is a fetched sample file.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StatusError is a non-2xx reply. Message is the server's {"error"} text
// when it sent one, otherwise the raw body.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether the failure is on the server side.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500
}

// Client is a plain HTTP client for the remediation service.
type Client struct {
	baseURL      string
	uploadPath   string
	downloadPath string
	healPath     string
	httpClient   *http.Client
}

// NewClient creates a client from the backend configuration.
func NewClient(cfg *config.BackendConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimSuffix(cfg.URL, "/"),
		uploadPath:   cfg.UploadPath,
		downloadPath: cfg.DownloadPath,
		healPath:     cfg.HealPath,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// Upload posts content as the multipart field "file".
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (*models.RemediationResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create multipart field: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read upload content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.uploadPath, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.doMessage(req)
}

// Download fetches the sample file.
func (c *Client) Download(ctx context.Context) (*Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.downloadPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, readStatusError(resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read download body: %w", err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("download exceeds %d bytes", maxDownloadSize)
	}
	return &Download{
		Filename:    SampleFilename,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// TriggerHeal posts a remediation request as JSON.
func (c *Client) TriggerHeal(ctx context.Context, rr models.RemediationRequest) (*models.RemediationResponse, error) {
	payload, err := json.Marshal(rr)
	if err != nil {
		return nil, fmt.Errorf("failed to encode remediation request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.healPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create heal request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doMessage(req)
}

// doMessage sends req and decodes a {"message"} reply.
func (c *Client) doMessage(req *http.Request) (*models.RemediationResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, readStatusError(resp)
	}

	var out models.RemediationResponse
	// Replies are small JSON objects; 1 MiB is plenty.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	// An empty 2xx body is a success with no message.
	if len(bytes.TrimSpace(body)) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &out, nil
}

// DecodeError is a 2xx reply whose body is not the expected JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "failed to decode backend response: " + e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// readStatusError builds a StatusError from a non-2xx reply, preferring the
// {"error"} field and falling back to the trimmed body.
func readStatusError(resp *http.Response) *StatusError {
	se := &StatusError{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return se
	}
	var parsed models.RemediationResponse
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != "" {
		se.Message = parsed.Error
		return se
	}
	se.Message = strings.TrimSpace(string(body))
	return se
}
