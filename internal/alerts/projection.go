// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package alerts

import (
	"github.com/tomtom215/bgpwatch/internal/models"
)

// Project returns the alerts whose anomaly type equals category, in order.
// For models.CategoryAll the input is returned unchanged.
func Project(alerts []models.Alert, category string) []models.Alert {
	if category == models.CategoryAll {
		return alerts
	}
	out := make([]models.Alert, 0, len(alerts))
	for i := range alerts {
		if alerts[i].AnomalyType == category {
			out = append(out, alerts[i])
		}
	}
	return out
}

// CategoryCount is the number of alerts of one anomaly type.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Point is one sample of the confidence-over-time chart.
type Point struct {
	Timestamp  models.Timestamp `json:"timestamp"`
	Confidence float64          `json:"confidence_score"`
}

// Summary aggregates a sequence of alerts for the dashboard chart.
type Summary struct {
	Count          int             `json:"count"`
	ByCategory     []CategoryCount `json:"by_category"`
	MeanConfidence float64         `json:"mean_confidence"`
	MaxConfidence  float64         `json:"max_confidence"`
	Series         []Point         `json:"series"`
}

// Summarize computes counts per category (first-seen order) and the mean
// and maximum confidence. An empty input yields zero values.
func Summarize(alerts []models.Alert) Summary {
	s := Summary{
		Count:      len(alerts),
		ByCategory: []CategoryCount{},
		Series:     make([]Point, 0, len(alerts)),
	}
	if len(alerts) == 0 {
		return s
	}

	index := make(map[string]int)
	var total float64
	for i := range alerts {
		a := &alerts[i]
		pos, ok := index[a.AnomalyType]
		if !ok {
			pos = len(s.ByCategory)
			index[a.AnomalyType] = pos
			s.ByCategory = append(s.ByCategory, CategoryCount{Category: a.AnomalyType})
		}
		s.ByCategory[pos].Count++

		total += a.ConfidenceScore
		if a.ConfidenceScore > s.MaxConfidence {
			s.MaxConfidence = a.ConfidenceScore
		}
		s.Series = append(s.Series, Point{Timestamp: a.Timestamp, Confidence: a.ConfidenceScore})
	}
	s.MeanConfidence = total / float64(len(alerts))
	return s
}
