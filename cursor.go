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

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// eof is returned by [cursor.peek] at the end of input.
const eof rune = -1

// A cursor reads a document one character at a time.
// Decorators wrap a cursor to hide parts of the input
// (block quote markers, list item indentation, the rest of a paragraph).
type cursor interface {
	settings() Settings
	// peek returns the current character or eof.
	peek() rune
	// advance moves past the current character.
	// It is a no-op at the end of input.
	advance()
	pos() int
	// reset moves the cursor back to a position previously returned by pos.
	reset(pos int) error
}

var errRewind = errors.New("rewind past start of transaction")

func mustReset(c cursor, pos int) {
	if err := c.reset(pos); err != nil {
		panic("actmd: " + err.Error())
	}
}

// stringCursor is the base cursor over an in-memory document.
type stringCursor struct {
	s     Settings
	src   string
	off   int
	r     rune
	width int
}

func newStringCursor(src string, s Settings) *stringCursor {
	c := &stringCursor{s: s, src: src}
	c.load()
	return c
}

func (c *stringCursor) load() {
	if c.off >= len(c.src) {
		c.off = len(c.src)
		c.r = eof
		c.width = 0
		return
	}
	c.r, c.width = utf8.DecodeRuneInString(c.src[c.off:])
	if c.r == 0 {
		c.r = utf8.RuneError
	}
}

func (c *stringCursor) settings() Settings { return c.s }
func (c *stringCursor) peek() rune         { return c.r }
func (c *stringCursor) pos() int           { return c.off }

func (c *stringCursor) advance() {
	if c.r == eof {
		return
	}
	c.off += c.width
	c.load()
}

func (c *stringCursor) reset(pos int) error {
	if pos < 0 || pos > len(c.src) {
		return errors.New("reset out of bounds")
	}
	c.off = pos
	c.load()
	return nil
}

// lookahead remembers the current character and offset of a cursor.
// Decorators read their inner cursor through a lookahead
// so that a stack of decorators answers peek and pos
// without consulting every layer below it.
// The wrapped cursor must not be moved except through the lookahead.
type lookahead struct {
	cursor
	valid bool
	r     rune
	off   int
}

func newLookahead(c cursor) *lookahead {
	if l, ok := c.(*lookahead); ok {
		return l
	}
	return &lookahead{cursor: c}
}

func (l *lookahead) load() {
	if !l.valid {
		l.r = l.cursor.peek()
		l.off = l.cursor.pos()
		l.valid = true
	}
}

func (l *lookahead) peek() rune {
	l.load()
	return l.r
}

func (l *lookahead) pos() int {
	l.load()
	return l.off
}

func (l *lookahead) advance() {
	l.cursor.advance()
	l.valid = false
}

func (l *lookahead) reset(pos int) error {
	l.valid = false
	return l.cursor.reset(pos)
}

// A pattern matches a single character.
type pattern interface {
	match(r rune) bool
}

type char rune

func (ch char) match(r rune) bool { return rune(ch) == r }

// charSet matches any of the characters in the string.
type charSet string

func (set charSet) match(r rune) bool {
	return r != eof && strings.ContainsRune(string(set), r)
}

type predicate func(rune) bool

func (f predicate) match(r rune) bool { return r != eof && f(r) }

const (
	lineSpace  = charSet(" \t")
	newlines   = charSet("\r\n")
	whitespace = charSet(" \t\r\n")
)

func lookingAt(c cursor, p pattern) bool {
	return p.match(c.peek())
}

// skip advances past one character if it matches p.
func skip(c cursor, p pattern) bool {
	if !p.match(c.peek()) {
		return false
	}
	c.advance()
	return true
}

// skipAll advances past every matching character
// and returns the number of characters skipped.
func skipAll(c cursor, p pattern) int {
	n := 0
	for p.match(c.peek()) {
		c.advance()
		n++
	}
	return n
}

// skipNewline advances past one line ending: "\n", "\r" or "\r\n".
func skipNewline(c cursor) bool {
	switch c.peek() {
	case '\n':
		c.advance()
		return true
	case '\r':
		c.advance()
		skip(c, char('\n'))
		return true
	default:
		return false
	}
}

// skipSeq advances past s if the input continues with it.
// Otherwise the cursor is left unchanged.
func skipSeq(c cursor, s string) bool {
	t := begin(c)
	defer t.rollback()
	for _, r := range s {
		if !skip(t, char(r)) {
			return false
		}
	}
	t.commit()
	return true
}

// atLineEnd reports whether the cursor is at a line ending or the end of input.
func atLineEnd(c cursor) bool {
	r := c.peek()
	return r == eof || isNewline(r)
}

// copyAll appends characters to buf while they match p.
func copyAll(c cursor, buf *[]byte, p pattern) int {
	n := 0
	for r := c.peek(); p.match(r); r = c.peek() {
		*buf = utf8.AppendRune(*buf, r)
		c.advance()
		n++
	}
	return n
}

// copyUntil appends characters to buf up to and including
// the first character that matches p.
// It reports false if the end of input came first.
func copyUntil(c cursor, buf *[]byte, p pattern) bool {
	for {
		r := c.peek()
		if r == eof {
			return false
		}
		*buf = utf8.AppendRune(*buf, r)
		c.advance()
		if p.match(r) {
			return true
		}
	}
}

// copyUntilSeq appends characters to buf up to and including seq.
// It reports false if the end of input came first.
func copyUntilSeq(c cursor, buf *[]byte, seq string) bool {
	start := len(*buf)
	for {
		r := c.peek()
		if r == eof {
			return false
		}
		*buf = utf8.AppendRune(*buf, r)
		c.advance()
		if len(*buf)-start >= len(seq) && strings.HasSuffix(string((*buf)[start:]), seq) {
			return true
		}
	}
}

// copyUntilMatch appends characters to buf until the close character
// that balances an already consumed open character.
// The final close character is appended.
// A backslash before open, close or another backslash is dropped
// and the escaped character is copied literally.
// On failure, buf is restored to its original length
// but the cursor is left where it stopped.
func copyUntilMatch(c cursor, buf *[]byte, open, close rune) bool {
	start := len(*buf)
	depth := 1
	for {
		r := c.peek()
		switch r {
		case eof:
			*buf = (*buf)[:start]
			return false
		case '\\':
			c.advance()
			if next := c.peek(); next == open || next == close || next == '\\' {
				*buf = utf8.AppendRune(*buf, next)
				c.advance()
			} else {
				*buf = append(*buf, '\\')
			}
			continue
		case open:
			depth++
		case close:
			depth--
		}
		*buf = utf8.AppendRune(*buf, r)
		c.advance()
		if depth == 0 {
			return true
		}
	}
}
