// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Package commands executes operator actions: upload, download, trigger
remediation, export and display-mode toggle.

Every entry point of Dispatcher performs at most one external call, turns
the outcome into a Notification, publishes it on the notification channel
and returns it. Failures are classified as:

  - *ValidationError: the request could not be sent (no file selected,
    malformed remediation request, upload already in flight)
  - *TransportError:  the backend was unreachable, replied non-2xx, the
    circuit breaker refused the call, or an artifact could not be written
  - *ParseError:      the backend replied 2xx with a body that is not the
    expected JSON

None of these escape as panics, and none stop the alert feed.

Upload lifecycle:

	Idle --Upload(task with file)--> InFlight --reply or error--> Idle

While one upload is in flight a second one is rejected with a
ValidationError unless Options.AllowOverlappingUploads is set.
*/
package commands
