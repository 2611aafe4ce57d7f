// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package commands

// Mode is the dashboard display mode.
type Mode int32

const (
	ModeNormal Mode = iota
	ModeHighContrast
)

func (m Mode) String() string {
	if m == ModeHighContrast {
		return "high_contrast"
	}
	return "normal"
}

// MarshalText renders the mode by name in JSON.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
