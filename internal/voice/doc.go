// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

/*
Package voice turns speech transcripts into dashboard commands.

A transcript maps to exactly one Intent. Keywords are matched as
case-insensitive substrings against an ordered table:

	upload    -> IntentUpload
	download  -> IntentDownload
	self-heal -> IntentTriggerHeal

When several keywords occur, the one earliest in the table wins, regardless
of where it appears in the transcript: "please upload and self-heal" is an
upload. Note that "download" contains "load" but not "upload", so the two
never collide.

Parser buffers fragments from incremental recognizers. Every Parse clears
the buffer, so a stale fragment cannot trigger a second command.
*/
package voice
