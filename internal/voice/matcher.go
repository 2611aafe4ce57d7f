// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package voice

import "strings"

// matcher is an Aho-Corasick automaton over the keyword table. One pass over
// the transcript finds every keyword; the lowest table index among the
// matches is reported. The automaton is immutable after newMatcher.
type matcher struct {
	root     *acNode
	keywords []Keyword
}

type acNode struct {
	children map[rune]*acNode
	failure  *acNode
	output   []int // keyword indexes ending here, including via failure links
}

func newACNode() *acNode {
	return &acNode{children: make(map[rune]*acNode)}
}

func newMatcher(keywords []Keyword) *matcher {
	m := &matcher{root: newACNode(), keywords: keywords}
	for i, kw := range keywords {
		if kw.Text == "" {
			continue
		}
		m.insert(i, strings.ToLower(kw.Text))
	}
	m.buildFailureLinks()
	return m
}

func (m *matcher) insert(index int, text string) {
	node := m.root
	for _, ch := range text {
		next := node.children[ch]
		if next == nil {
			next = newACNode()
			node.children[ch] = next
		}
		node = next
	}
	node.output = append(node.output, index)
}

// buildFailureLinks walks the trie breadth-first so every node's failure
// target is finished before its children are visited.
func (m *matcher) buildFailureLinks() {
	queue := make([]*acNode, 0, len(m.root.children))
	for _, child := range m.root.children {
		child.failure = m.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}
			if fail == nil {
				child.failure = m.root
				continue
			}
			child.failure = fail.children[ch]
			child.output = append(child.output, child.failure.output...)
		}
	}
}

// best returns the highest-priority keyword present in text.
func (m *matcher) best(text string) (Keyword, bool) {
	bestIdx := -1
	node := m.root
	for _, ch := range strings.ToLower(text) {
		for node != m.root && node.children[ch] == nil {
			node = node.failure
		}
		if next := node.children[ch]; next != nil {
			node = next
		}
		for _, idx := range node.output {
			if bestIdx == -1 || idx < bestIdx {
				bestIdx = idx
			}
		}
		if bestIdx == 0 {
			break
		}
	}
	if bestIdx == -1 {
		return Keyword{}, false
	}
	return m.keywords[bestIdx], true
}
