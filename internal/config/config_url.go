// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package config

import (
	"fmt"
	"net/url"
	"slices"
)

// validateHTTPURL accepts an http(s) base URL with a host and no query.
func validateHTTPURL(rawURL, fieldName string) error {
	return validateURL(rawURL, fieldName, "http", "https")
}

// validateSocketIOURL accepts http(s) or ws(s); the client derives the
// /socket.io/ endpoint from the base.
func validateSocketIOURL(rawURL, fieldName string) error {
	return validateURL(rawURL, fieldName, "http", "https", "ws", "wss")
}

func validateNATSURL(rawURL, fieldName string) error {
	return validateURL(rawURL, fieldName, "nats", "tls")
}

func validateURL(rawURL, fieldName string, schemes ...string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	if !slices.Contains(schemes, parsedURL.Scheme) {
		return fmt.Errorf("%s scheme must be one of %v, got: %q", fieldName, schemes, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}
