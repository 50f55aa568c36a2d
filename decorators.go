// Copyright 2024 Ross Light
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

// paragraphStop ends a paragraph at a blank line
// or at the start of a line that begins a block
// which can [interrupt a paragraph].
// Interrupting headings, code fences and thematic breaks
// are parsed while looking ahead and kept in next.
//
// Once stopped, the cursor stays at end of input
// unless it is reset to a position before the stop.
//
// [interrupt a paragraph]: https://spec.commonmark.org/0.30/#paragraphs
type paragraphStop struct {
	cursor
	p *blockParser
	// ignore is a character that never interrupts the paragraph.
	ignore  rune
	stopped bool
	stopPos int

	next       *Block
	nextBraces int
}

func newParagraphStop(c cursor, p *blockParser, ignore rune) *paragraphStop {
	return &paragraphStop{cursor: newLookahead(c), p: p, ignore: ignore}
}

func (s *paragraphStop) peek() rune {
	if s.stopped {
		return eof
	}
	return s.cursor.peek()
}

func (s *paragraphStop) pos() int {
	if s.stopped {
		return s.stopPos
	}
	return s.cursor.pos()
}

func (s *paragraphStop) reset(pos int) error {
	if s.stopped && pos >= s.stopPos {
		return nil
	}
	if err := s.cursor.reset(pos); err != nil {
		return err
	}
	s.stopped = false
	s.next = nil
	s.nextBraces = 0
	return nil
}

func (s *paragraphStop) advance() {
	if s.stopped {
		return
	}
	prev := s.cursor.peek()
	s.cursor.advance()
	r := s.cursor.peek()
	if r == eof {
		s.stop(s.cursor.pos())
		return
	}
	if !isNewline(prev) || prev == '\r' && r == '\n' {
		return
	}
	lineStart := s.cursor.pos()
	if s.interrupted(lineStart) {
		s.stop(lineStart)
	}
}

func (s *paragraphStop) stop(pos int) {
	s.stopped = true
	s.stopPos = pos
}

// interrupted reports whether the line starting at the cursor ends the paragraph.
// The cursor is left at lineStart unless a block was stored in next.
func (s *paragraphStop) interrupted(lineStart int) bool {
	c := s.cursor
	indent := skipAll(c, lineSpace)
	if atLineEnd(c) {
		mustReset(c, lineStart)
		return true
	}
	ch := c.peek()
	if ch == s.ignore || indent >= 4 {
		mustReset(c, lineStart)
		return false
	}
	switch ch {
	case '>':
		mustReset(c, lineStart)
		return true
	case '#':
		if b, braces := s.p.heading(c); b != nil {
			s.next, s.nextBraces = b, braces
			return true
		}
	case '`', '~':
		if b := s.p.fencedCode(c, indent); b != nil {
			s.next = b
			return true
		}
	}
	if ch == '*' || ch == '-' || ch == '_' {
		if b := s.p.thematicBreak(c); b != nil {
			s.next = b
			return true
		}
	}
	stop := false
	switch {
	case ch == '*' || ch == '-' || ch == '+':
		c.advance()
		stop = nonEmptyItemStart(c)
	case ch == '1':
		c.advance()
		stop = skip(c, charSet(".)")) && nonEmptyItemStart(c)
	}
	mustReset(c, lineStart)
	return stop
}

// nonEmptyItemStart reports whether the cursor is at the whitespace
// following a list marker and the rest of the line is not blank.
func nonEmptyItemStart(c cursor) bool {
	if skipAll(c, lineSpace) == 0 {
		return false
	}
	return !atLineEnd(c)
}

// appendNext appends the block that interrupted the paragraph, if any.
func (s *paragraphStop) appendNext(blocks []*Block) []*Block {
	if s.next == nil {
		return blocks
	}
	s.p.openBraces += s.nextBraces
	blocks = append(blocks, s.next)
	s.next = nil
	s.nextBraces = 0
	return blocks
}

// quoteFilter hides the [block quote marker] at the start of each line.
// Lines without a marker are passed through as lazy continuation lines.
//
// [block quote marker]: https://spec.commonmark.org/0.30/#block-quote-marker
type quoteFilter struct {
	cursor
}

func (q *quoteFilter) advance() {
	prev := q.cursor.peek()
	q.cursor.advance()
	r := q.cursor.peek()
	if r == eof || !isNewline(prev) || prev == '\r' && r == '\n' {
		return
	}
	lineStart := q.cursor.pos()
	skipAll(q.cursor, lineSpace)
	if skip(q.cursor, char('>')) {
		skip(q.cursor, lineSpace)
		return
	}
	mustReset(q.cursor, lineStart)
}

// itemFilter strips a list item's content indentation from each line.
// It stops at the start of the first non-blank line
// that is not indented enough to belong to the item.
type itemFilter struct {
	cursor
	indent  int
	stopped bool
	stopPos int
}

func (f *itemFilter) peek() rune {
	if f.stopped {
		return eof
	}
	return f.cursor.peek()
}

func (f *itemFilter) pos() int {
	if f.stopped {
		return f.stopPos
	}
	return f.cursor.pos()
}

func (f *itemFilter) reset(pos int) error {
	if f.stopped && pos >= f.stopPos {
		return nil
	}
	if err := f.cursor.reset(pos); err != nil {
		return err
	}
	f.stopped = false
	return nil
}

func (f *itemFilter) advance() {
	if f.stopped {
		return
	}
	prev := f.cursor.peek()
	f.cursor.advance()
	r := f.cursor.peek()
	if r == eof || !isNewline(prev) || prev == '\r' && r == '\n' || isNewline(r) {
		return
	}
	lineStart := f.cursor.pos()
	for col := 0; col < f.indent; {
		switch f.cursor.peek() {
		case ' ':
			col++
		case '\t':
			col += tabStopSize - col%tabStopSize
		default:
			if atLineEnd(f.cursor) {
				// Whitespace-only lines belong to the item.
				return
			}
			mustReset(f.cursor, lineStart)
			f.stopped = true
			f.stopPos = lineStart
			return
		}
		f.cursor.advance()
	}
}

// lineStop ends input at a fixed position on the current line.
type lineStop struct {
	cursor
	end int
}

func (l *lineStop) peek() rune {
	if l.cursor.pos() >= l.end {
		return eof
	}
	return l.cursor.peek()
}

func (l *lineStop) advance() {
	if l.cursor.pos() >= l.end {
		return
	}
	l.cursor.advance()
}
