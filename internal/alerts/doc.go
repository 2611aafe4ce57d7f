// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Package alerts holds the session's alert history and the views derived from it.

Store is an append-only, arrival-ordered log of alerts. Alerts are never
reordered, deduplicated or removed; two alerts with the same timestamp are
both kept. The set of known categories is maintained on append so that
KnownCategories does not rescan the log.

Project and Summarize are pure functions over a snapshot:

	rows := alerts.Project(store.All(), filter.Selected())
	summary := alerts.Summarize(rows)

Filter holds the operator's selected category. It defaults to
models.CategoryAll and is never persisted.

The log grows without bound for the lifetime of the process.
*/
package alerts
