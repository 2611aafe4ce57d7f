// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tomtom215/bgpwatch/internal/models"
)

func mustNumeric(t *testing.T, raw string) models.Timestamp {
	t.Helper()
	ts, err := models.NewNumericTimestamp(raw)
	if err != nil {
		t.Fatalf("NewNumericTimestamp(%q): %v", raw, err)
	}
	return ts
}

func TestToCSV_SingleRow(t *testing.T) {
	rows := []models.Alert{{
		Timestamp:       models.NewTimestamp("t1"),
		AnomalyType:     "hijack",
		ConfidenceScore: 0.87,
	}}

	got, err := ToCSV(rows)
	if err != nil {
		t.Fatalf("ToCSV() error = %v", err)
	}
	want := "timestamp,anomaly_type,confidence_score\nt1,hijack,0.87\n"
	if string(got) != want {
		t.Errorf("ToCSV() = %q, want %q", got, want)
	}
}

func TestToCSV_Empty(t *testing.T) {
	got, err := ToCSV(nil)
	if err != nil {
		t.Fatalf("ToCSV() error = %v", err)
	}
	if string(got) != "timestamp,anomaly_type,confidence_score\n" {
		t.Errorf("ToCSV(nil) = %q", got)
	}
}

func TestToCSV_Quoting(t *testing.T) {
	rows := []models.Alert{{
		Timestamp:       models.NewTimestamp("2024-05-01 10:00:00"),
		AnomalyType:     `route "leak", origin AS65000`,
		ConfidenceScore: 1,
	}}
	got, err := ToCSV(rows)
	if err != nil {
		t.Fatalf("ToCSV() error = %v", err)
	}
	want := "timestamp,anomaly_type,confidence_score\n" +
		`2024-05-01 10:00:00,"route ""leak"", origin AS65000",1` + "\n"
	if string(got) != want {
		t.Errorf("ToCSV() = %q, want %q", got, want)
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	rows := []models.Alert{
		{Timestamp: models.NewTimestamp("2024-05-01T10:00:00Z"), AnomalyType: "hijack", ConfidenceScore: 0.87},
		{Timestamp: models.NewTimestamp("2024-05-01T10:00:00Z"), AnomalyType: "hijack", ConfidenceScore: 0.87},
		{Timestamp: mustNumeric(t, "1714557600"), AnomalyType: "leak", ConfidenceScore: 0},
		{Timestamp: models.NewTimestamp("1714557601"), AnomalyType: "leak", ConfidenceScore: 0.3},
		{Timestamp: models.NewTimestamp("t4"), AnomalyType: "multi\nline, \"quoted\"", ConfidenceScore: 1},
		{Timestamp: models.NewTimestamp("t5"), AnomalyType: "flap", ConfidenceScore: 0.1234567890123},
	}
	for i := 0; i < 50; i++ {
		rows = append(rows, models.Alert{
			Timestamp:       models.NewTimestamp(fmt.Sprintf("2024-05-02T00:00:%02dZ", i)),
			AnomalyType:     fmt.Sprintf("type-%d", i%4),
			ConfidenceScore: float64(i) / 50,
		})
	}

	data, err := ToCSV(rows)
	if err != nil {
		t.Fatalf("ToCSV() error = %v", err)
	}
	parsed, err := ParseCSV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if len(parsed) != len(rows) {
		t.Fatalf("round trip yielded %d rows, want %d", len(parsed), len(rows))
	}
	for i := range rows {
		if !parsed[i].Equal(&rows[i]) {
			t.Errorf("row %d: got %+v, want %+v", i, parsed[i], rows[i])
		}
	}

	again, err := ToCSV(parsed)
	if err != nil {
		t.Fatalf("ToCSV(parsed) error = %v", err)
	}
	if !bytes.Equal(again, data) {
		t.Errorf("re-export differs:\n%s\nwant:\n%s", again, data)
	}
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantHdr bool
	}{
		{"empty", "", true},
		{"wrong header", "time,type,score\nt1,hijack,0.5\n", true},
		{"bad score", "timestamp,anomaly_type,confidence_score\nt1,hijack,high\n", false},
		{"score out of range", "timestamp,anomaly_type,confidence_score\nt1,hijack,2\n", false},
		{"missing field", "timestamp,anomaly_type,confidence_score\nt1,hijack\n", false},
		{"empty type", "timestamp,anomaly_type,confidence_score\nt1,,0.5\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantHdr && !errors.Is(err, ErrCSVHeader) {
				t.Errorf("error = %v, want ErrCSVHeader", err)
			}
		})
	}
}

func TestParseCSV_BOM(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("\ufefftimestamp,anomaly_type,confidence_score\nt1,hijack,0.5\n"))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	if len(rows) != 1 || rows[0].AnomalyType != "hijack" {
		t.Errorf("rows = %+v", rows)
	}
}
