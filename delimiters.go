// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package actmd

import (
	"fmt"
	"slices"
)

// delimiterKind is the purpose of an entry in the delimiter stack.
type delimiterKind int8

const (
	linkOpener delimiterKind = 1 + iota
	imageOpener
	emphasisRun
	// nestedLinkMarker is a link opener that can no longer form a link
	// because a link was closed after it.
	nestedLinkMarker
)

func (k delimiterKind) String() string {
	switch k {
	case linkOpener:
		return "["
	case imageOpener:
		return "!["
	case emphasisRun:
		return "emphasis"
	case nestedLinkMarker:
		return "nested ["
	default:
		return fmt.Sprintf("delimiterKind(%d)", int8(k))
	}
}

// A delimiter is an entry in the [delimiter stack].
// node is the [PlainKind] node in the scanner's output list
// holding the delimiter's text.
//
// [delimiter stack]: https://spec.commonmark.org/0.30/#delimiter-stack
type delimiter struct {
	kind delimiterKind
	node *Inline
	// pos is the offset just past a bracket opener.
	pos int

	char     byte
	canOpen  bool
	canClose bool
	// n is the length of the original delimiter run.
	n int
}

// classifyRun reports whether a [delimiter run] of ch
// [can open emphasis] and whether it [can close emphasis].
// prev and next are the characters around the run.
//
// [delimiter run]: https://spec.commonmark.org/0.30/#delimiter-run
// [can open emphasis]: https://spec.commonmark.org/0.30/#can-open-emphasis
// [can close emphasis]: https://spec.commonmark.org/0.30/#can-close-emphasis
func classifyRun(ch byte, prev, next rune) (canOpen, canClose bool) {
	left := flanks(prev, next)
	right := flanks(next, prev)
	if ch == '*' {
		return left, right
	}
	return left && (!right || isUnicodePunctuation(prev)),
		right && (!left || isUnicodePunctuation(next))
}

// flanks reports whether a run with outside before it and inside after it
// is flanking on the inside.
func flanks(outside, inside rune) bool {
	if isUnicodeWhitespace(inside) {
		return false
	}
	return !isUnicodePunctuation(inside) ||
		isUnicodeWhitespace(outside) ||
		isUnicodePunctuation(outside)
}

// closes reports whether d can close emphasis opened by open
// under rules 9 and 10 of [emphasis and strong emphasis].
//
// [emphasis and strong emphasis]: https://spec.commonmark.org/0.30/#emphasis-and-strong-emphasis
func (d delimiter) closes(open delimiter) bool {
	if open.kind != emphasisRun || open.char != d.char || !open.canOpen || !d.canClose {
		return false
	}
	if !open.canClose && !d.canOpen {
		return true
	}
	return (open.n+d.n)%3 != 0 || (open.n%3 == 0 && d.n%3 == 0)
}

// searchClass groups closers that share a lower bound
// for their opener search.
type searchClass struct {
	char    byte
	canOpen bool
	mod     int8
}

func (d delimiter) searchClass() searchClass {
	if d.char == '_' {
		return searchClass{char: '_'}
	}
	return searchClass{char: d.char, canOpen: d.canOpen, mod: int8(d.n % 3)}
}

// An emphasisPair is an opener and closer in a delimiter stack
// that together produce a single emphasis or strong emphasis node.
type emphasisPair struct {
	open, close int
	// use is the number of delimiter characters consumed from each side.
	use int
}

func (p emphasisPair) kind() InlineKind {
	if p.use == 2 {
		return StrongKind
	}
	return EmphasisKind
}

// pairEmphasis runs the [process emphasis procedure] over stack
// without modifying it.
// It returns the pairs in the order they are formed
// and the number of characters of each entry left unpaired.
// Entries removed from the stack by a pair around them have none left.
//
// [process emphasis procedure]: https://spec.commonmark.org/0.30/#process-emphasis
func pairEmphasis(stack []delimiter) (pairs []emphasisPair, left []int) {
	left = make([]int, len(stack))
	for i, d := range stack {
		if d.kind == emphasisRun {
			left[i] = len(d.node.text)
		}
	}
	floor := make(map[searchClass]int)
	for i, closer := range stack {
		if closer.kind != emphasisRun || !closer.canClose {
			continue
		}
		for left[i] > 0 {
			class := closer.searchClass()
			j := i - 1
			for j >= floor[class] && !(left[j] > 0 && closer.closes(stack[j])) {
				j--
			}
			if j < floor[class] {
				floor[class] = i
				break
			}
			use := 1
			if left[j] >= 2 && left[i] >= 2 {
				use = 2
			}
			left[j] -= use
			left[i] -= use
			clear(left[j+1 : i])
			pairs = append(pairs, emphasisPair{open: j, close: i, use: use})
		}
	}
	return pairs, left
}

// resolveEmphasis turns the emphasis delimiters at index bottom and above
// into emphasis nodes, then removes them from the stack.
func (s *inlineScanner) resolveEmphasis(bottom int) {
	runs := s.stack[bottom:]
	pairs, _ := pairEmphasis(runs)
	for _, p := range pairs {
		opener, closer := runs[p.open].node, runs[p.close].node
		opener.text = opener.text[:len(opener.text)-p.use]
		closer.text = closer.text[p.use:]
		s.wrap(p.kind(), opener, closer)
		if opener.text == "" {
			s.remove(opener)
		}
		if closer.text == "" {
			s.remove(closer)
		}
	}
	s.stack = slices.Delete(s.stack, bottom, len(s.stack))
}

// unmatchedEmphasis reports whether the emphasis delimiters above
// stack index bottom would leave an opener unclosed
// or would close an opener below bottom.
// A bracket at bottom cannot form a shortcut reference in that case.
func (s *inlineScanner) unmatchedEmphasis(bottom int) bool {
	above := s.stack[bottom+1:]
	_, left := pairEmphasis(above)
	for i, d := range above {
		if left[i] == 0 {
			continue
		}
		if d.canOpen {
			return true
		}
		for _, below := range s.stack[:bottom] {
			if d.closes(below) {
				return true
			}
		}
	}
	return false
}

// wrap replaces the nodes strictly between first and last in the output list
// with a single node of the given kind that contains them.
func (s *inlineScanner) wrap(kind InlineKind, first, last *Inline) {
	i := s.indexOf(first) + 1
	j := s.indexOf(last)
	node := &Inline{kind: kind, children: slices.Clone(s.list[i:j])}
	s.list = slices.Replace(s.list, i, j, node)
}

func (s *inlineScanner) remove(node *Inline) {
	i := s.indexOf(node)
	s.list = slices.Delete(s.list, i, i+1)
}

func (s *inlineScanner) indexOf(node *Inline) int {
	for i := len(s.list) - 1; i >= 0; i-- {
		if s.list[i] == node {
			return i
		}
	}
	panic("actmd: delimiter node not in list")
}
