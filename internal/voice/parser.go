// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package voice

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tomtom215/bgpwatch/internal/logging"
)

// MaxBuffer bounds the buffered transcript in bytes. When fragments push it
// past the bound the oldest text is dropped, cut at a word boundary where
// one exists.
const MaxBuffer = 16 << 10

// Parser maps transcripts to intents.
type Parser struct {
	mu      sync.Mutex
	buf     strings.Builder
	matcher *matcher
}

// NewParser returns a parser using DefaultKeywords.
func NewParser() *Parser {
	return NewParserWithKeywords(DefaultKeywords)
}

// NewParserWithKeywords returns a parser for a custom keyword table.
// Earlier entries take priority.
func NewParserWithKeywords(keywords []Keyword) *Parser {
	table := make([]Keyword, len(keywords))
	copy(table, keywords)
	return &Parser{matcher: newMatcher(table)}
}

// Append buffers a recognizer fragment. Fragments are joined with a space.
func (p *Parser) Append(fragment string) {
	if fragment == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.write(fragment)
}

// write appends text to the buffer and enforces MaxBuffer. Must be called
// with mu held.
func (p *Parser) write(text string) {
	if p.buf.Len() > 0 {
		p.buf.WriteByte(' ')
	}
	p.buf.WriteString(text)
	if p.buf.Len() <= MaxBuffer {
		return
	}

	full := p.buf.String()
	cut := len(full) - MaxBuffer
	for cut < len(full) && !utf8.RuneStart(full[cut]) {
		cut++
	}
	tail := full[cut:]
	if i := strings.IndexByte(tail, ' '); i >= 0 && i < len(tail)-1 {
		tail = tail[i+1:]
	}
	logging.Debug().Int("dropped_bytes", len(full)-len(tail)).Msg("Voice buffer full, dropping oldest text")
	p.buf.Reset()
	p.buf.WriteString(tail)
}

// Parse appends transcript to the buffer, classifies the whole buffer and
// clears it. Parse("") classifies whatever Append collected.
func (p *Parser) Parse(transcript string) Intent {
	p.mu.Lock()
	if transcript != "" {
		p.write(transcript)
	}
	text := p.buf.String()
	p.buf.Reset()
	p.mu.Unlock()

	kw, ok := p.matcher.best(text)
	if !ok {
		logging.Debug().Str("transcript", text).Msg("No voice intent recognised")
		return IntentNone
	}
	logging.Debug().Str("transcript", text).Str("keyword", kw.Text).Stringer("intent", kw.Intent).Msg("Voice intent recognised")
	return kw.Intent
}

// Reset discards buffered fragments.
func (p *Parser) Reset() {
	p.mu.Lock()
	p.buf.Reset()
	p.mu.Unlock()
}

// Pending returns the buffered transcript without consuming it.
func (p *Parser) Pending() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.String()
}
