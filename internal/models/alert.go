// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package models

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bgpwatch/internal/validation"
)

// CategoryAll is the filter sentinel that matches every anomaly type.
const CategoryAll = "All"

// Timestamp is the detector's ordering key, kept exactly as it arrived.
// The detector may send an ISO-8601 string or a numeric epoch; both are
// preserved verbatim so exports reproduce the original text.
type Timestamp struct {
	raw     string
	numeric bool
}

// NewTimestamp returns a string timestamp.
func NewTimestamp(s string) Timestamp {
	return Timestamp{raw: s}
}

// ErrNotNumber is returned by NewNumericTimestamp for text that is not a
// JSON number.
var ErrNotNumber = errors.New("not a JSON number")

// NewNumericTimestamp returns a numeric timestamp. raw must be a JSON number.
func NewNumericTimestamp(raw string) (Timestamp, error) {
	if raw == "" || !strings.ContainsRune("-0123456789", rune(raw[0])) || !json.Valid([]byte(raw)) {
		return Timestamp{}, fmt.Errorf("numeric timestamp %q: %w", raw, ErrNotNumber)
	}
	return Timestamp{raw: raw, numeric: true}, nil
}

// String returns the timestamp text as received.
func (t Timestamp) String() string { return t.raw }

// IsNumeric reports whether the detector sent a JSON number.
func (t Timestamp) IsNumeric() bool { return t.numeric }

// Equal compares timestamps by text. The kind is not compared: text-only
// formats such as CSV cannot carry it, so "1714557600" sent as a string and
// 1714557600 sent as a number are the same timestamp.
func (t Timestamp) Equal(o Timestamp) bool { return t.raw == o.raw }

// IsZero reports whether no timestamp was set.
func (t Timestamp) IsZero() bool { return t.raw == "" }

// MarshalJSON writes numbers back as numbers and strings as strings.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.numeric {
		return []byte(t.raw), nil
	}
	return json.Marshal(t.raw)
}

// UnmarshalJSON accepts a JSON string or a JSON number.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Timestamp{raw: s}
		return nil
	}
	ts, err := NewNumericTimestamp(string(data))
	if err != nil {
		return err
	}
	*t = ts
	return nil
}

// Alert is one detection event from the BGP anomaly detector.
// Alerts are immutable once received.
type Alert struct {
	Timestamp       Timestamp `json:"timestamp"`
	AnomalyType     string    `json:"anomaly_type" validate:"required"`
	ConfidenceScore float64   `json:"confidence_score" validate:"gte=0,lte=1"`
}

// ErrMissingTimestamp is returned by Validate for alerts without a timestamp.
var ErrMissingTimestamp = errors.New("timestamp is required")

// ErrInvalidAlert wraps ParseAlert failures on well-formed JSON that does not
// describe a usable alert.
var ErrInvalidAlert = errors.New("invalid alert")

// Validate checks the payload shape. ConfidenceScore must be within [0, 1]
// and is never rescaled.
func (a *Alert) Validate() error {
	if a.Timestamp.IsZero() {
		return ErrMissingTimestamp
	}
	if verr := validation.ValidateStruct(a); verr != nil {
		return verr
	}
	return nil
}

// Equal reports whether a and b describe the same alert, comparing
// timestamps by text.
func (a *Alert) Equal(b *Alert) bool {
	return a.Timestamp.Equal(b.Timestamp) &&
		a.AnomalyType == b.AnomalyType &&
		a.ConfidenceScore == b.ConfidenceScore
}

// Percent is the display form of the confidence score.
func (a *Alert) Percent() float64 {
	return a.ConfidenceScore * 100
}

// ConfidenceText formats the score with the fewest digits that round-trip,
// e.g. 0.87 rather than 0.870000.
func (a *Alert) ConfidenceText() string {
	return strconv.FormatFloat(a.ConfidenceScore, 'f', -1, 64)
}

// ParseAlert decodes and validates a single alert payload.
func ParseAlert(data []byte) (Alert, error) {
	var a Alert
	if err := json.Unmarshal(data, &a); err != nil {
		return Alert{}, fmt.Errorf("decode alert: %w", err)
	}
	if err := a.Validate(); err != nil {
		return Alert{}, fmt.Errorf("%w: %w", ErrInvalidAlert, err)
	}
	return a, nil
}
