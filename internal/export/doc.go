// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Package export renders alert rows as downloadable artifacts.

ToCSV and ToPDF are pure: they take the rows the operator is looking at and
return bytes. Writing the bytes somewhere is the job of a Saver.

CSV layout (UTF-8, RFC 4180 quoting):

	timestamp,anomaly_type,confidence_score
	2024-05-01T10:00:00Z,hijack,0.87

PDF layout: the title "BGP Alerts Report" followed by one table with the
columns Timestamp, Type and Confidence. The header row repeats on every page.
*/
package export
