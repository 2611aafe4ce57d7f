// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tomtom215/bgpwatch/internal/models"
)

// CSV artifact identity.
const (
	CSVFilename = "BGP_Alerts.csv"
	CSVMime     = "text/csv"
)

var csvHeader = []string{"timestamp", "anomaly_type", "confidence_score"}

// ToCSV renders rows with a header line and one record per alert.
func ToCSV(rows []models.Alert) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i := range rows {
		record := []string{
			rows[i].Timestamp.String(),
			rows[i].AnomalyType,
			rows[i].ConfidenceText(),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ErrCSVHeader is returned by ParseCSV when the header row does not match.
var ErrCSVHeader = errors.New("csv header must be timestamp,anomaly_type,confidence_score")

// ParseCSV reads a file produced by ToCSV back into alerts. A timestamp that
// is a valid number is restored as numeric, since CSV does not record the
// kind. Parsed alerts are Equal to the exported ones and export to the same
// bytes.
func ParseCSV(r io.Reader) ([]models.Alert, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrCSVHeader
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range header {
		if strings.TrimPrefix(h, "\ufeff") != csvHeader[i] {
			return nil, ErrCSVHeader
		}
	}

	var out []models.Alert
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		score, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: confidence_score: %w", line, err)
		}

		ts := models.NewTimestamp(record[0])
		if num, nerr := models.NewNumericTimestamp(record[0]); nerr == nil {
			ts = num
		}

		a := models.Alert{Timestamp: ts, AnomalyType: record[1], ConfidenceScore: score}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		out = append(out, a)
	}
	return out, nil
}
