// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package voice

// Intent is the command recognised in a transcript.
type Intent int

const (
	IntentNone Intent = iota
	IntentUpload
	IntentDownload
	IntentTriggerHeal
)

// String returns the lowercase intent name used in logs and metrics.
func (i Intent) String() string {
	switch i {
	case IntentUpload:
		return "upload"
	case IntentDownload:
		return "download"
	case IntentTriggerHeal:
		return "trigger_heal"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler so intents render by name
// in JSON responses.
func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Keyword binds a transcript keyword to an intent.
type Keyword struct {
	Text   string
	Intent Intent
}

// DefaultKeywords is the keyword table in priority order.
var DefaultKeywords = []Keyword{
	{Text: "upload", Intent: IntentUpload},
	{Text: "download", Intent: IntentDownload},
	{Text: "self-heal", Intent: IntentTriggerHeal},
}
