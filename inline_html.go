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
	"strings"
	"unicode/utf8"
)

// htmlScanner copies raw HTML from a cursor.
// When embedded code is enabled,
// code inside quoted attribute values is split out into separate nodes.
type htmlScanner struct {
	c        cursor
	embedded bool
	buf      []byte
	bufBegin int
	parts    []*Inline
}

func newHTMLScanner(c cursor, embedded bool) *htmlScanner {
	return &htmlScanner{c: c, embedded: embedded, bufBegin: c.pos()}
}

// copy appends the current character to the buffer.
func (h *htmlScanner) copy() {
	h.buf = utf8.AppendRune(h.buf, h.c.peek())
	h.c.advance()
}

func (h *htmlScanner) copySeq(s string) bool {
	if !skipSeq(h.c, s) {
		return false
	}
	h.buf = append(h.buf, s...)
	return true
}

func (h *htmlScanner) flush(end int) {
	if len(h.buf) == 0 {
		return
	}
	h.parts = append(h.parts, &Inline{
		kind: RawHTMLKind,
		text: string(h.buf),
		loc:  Location{Begin: positionAt(h.bufBegin), End: positionAt(end)},
	})
	h.buf = nil
}

// space copies spaces, tabs and up to one line ending.
// ok is false if a blank line follows.
func (h *htmlScanner) space() (n int, ok bool) {
	n = copyAll(h.c, &h.buf, lineSpace)
	if r := h.c.peek(); isNewline(r) {
		h.copy()
		if r == '\r' && h.c.peek() == '\n' {
			h.copy()
		}
		n++
		n += copyAll(h.c, &h.buf, lineSpace)
		if isNewline(h.c.peek()) {
			return n, false
		}
	}
	return n, true
}

// inlineHTML parses [raw HTML] starting at '<'.
// It returns nil if rawHTML is false or the input is not an HTML construct.
//
// [raw HTML]: https://spec.commonmark.org/0.30/#raw-html
func inlineHTML(c cursor, rawHTML, embedded bool) []*Inline {
	if !rawHTML || c.peek() != '<' {
		return nil
	}
	t := begin(c)
	defer t.rollback()
	h := newHTMLScanner(t, embedded)
	h.copy()
	var ok bool
	switch t.peek() {
	case '?':
		h.copy()
		ok = copyUntilSeq(t, &h.buf, "?>")
	case '!':
		h.copy()
		ok = h.markupDeclaration()
	case '/':
		ok = h.closingTag()
	default:
		ok = h.openTag()
	}
	if !ok {
		return nil
	}
	h.flush(t.pos())
	t.commit()
	return h.parts
}

// markupDeclaration parses the rest of a comment, CDATA section or declaration
// after "<!".
func (h *htmlScanner) markupDeclaration() bool {
	c := h.c
	switch {
	case h.copySeq("--"):
		if c.peek() == '>' || skipSeq(c, "->") {
			return false
		}
		if !copyUntilSeq(c, &h.buf, "--") {
			return false
		}
		// "--" may not appear inside a comment.
		if c.peek() != '>' {
			return false
		}
		h.copy()
		return true
	case h.copySeq("[CDATA["):
		return copyUntilSeq(c, &h.buf, "]]>")
	case lookingAt(c, predicate(isASCIILetter)):
		return copyUntil(c, &h.buf, char('>'))
	default:
		return false
	}
}

// openTag parses an [open tag] after the leading '<'.
//
// [open tag]: https://spec.commonmark.org/0.30/#open-tag
func (h *htmlScanner) openTag() bool {
	if !h.tagName() {
		return false
	}
	for {
		n, ok := h.space()
		if !ok {
			return false
		}
		switch h.c.peek() {
		case '/':
			h.copy()
			if h.c.peek() != '>' {
				return false
			}
			h.copy()
			return true
		case '>':
			h.copy()
			return true
		}
		if n == 0 || !h.attribute() {
			return false
		}
	}
}

// closingTag parses a [closing tag] after the leading '<'.
//
// [closing tag]: https://spec.commonmark.org/0.30/#closing-tag
func (h *htmlScanner) closingTag() bool {
	if h.c.peek() != '/' {
		return false
	}
	h.copy()
	if !h.tagName() {
		return false
	}
	if _, ok := h.space(); !ok {
		return false
	}
	if h.c.peek() != '>' {
		return false
	}
	h.copy()
	return true
}

func (h *htmlScanner) tagName() bool {
	if !lookingAt(h.c, predicate(isASCIILetter)) {
		return false
	}
	copyAll(h.c, &h.buf, predicate(func(r rune) bool {
		return isASCIIAlnum(r) || r == '-'
	}))
	return true
}

func (h *htmlScanner) attribute() bool {
	c := h.c
	if r := c.peek(); !isASCIILetter(r) && r != '_' && r != ':' {
		return false
	}
	copyAll(c, &h.buf, predicate(func(r rune) bool {
		return isASCIIAlnum(r) || strings.ContainsRune("_.:-", r)
	}))

	// Don't consume space unless it is followed by an equal sign,
	// since it will cause future attributes to fail.
	pos, n := c.pos(), len(h.buf)
	if _, ok := h.space(); !ok || c.peek() != '=' {
		mustReset(c, pos)
		h.buf = h.buf[:n]
		return true
	}
	h.copy()
	if _, ok := h.space(); !ok {
		return false
	}
	switch r := c.peek(); {
	case r == '"' || r == '\'':
		h.copy()
		if h.embedded {
			return h.embeddedValue(r)
		}
		return copyUntil(c, &h.buf, char(r))
	case isUnquotedAttributeValueChar(r):
		copyAll(c, &h.buf, predicate(isUnquotedAttributeValueChar))
		return true
	default:
		return false
	}
}

// embeddedValue copies the rest of a quoted attribute value,
// splitting out embedded code.
// Braces opened by code in the value may be closed by a '}' in the value.
func (h *htmlScanner) embeddedValue(quote rune) bool {
	c := h.c
	openBraces := 0
	for {
		switch r := c.peek(); {
		case r == eof:
			return false
		case r == quote:
			h.copy()
			return true
		case r == '@':
			start := c.pos()
			c.advance()
			if skip(c, char('@')) {
				h.buf = append(h.buf, '@')
				continue
			}
			node, braces := scanEmbedded(c, start, true)
			if node == nil {
				h.buf = append(h.buf, '@')
				continue
			}
			h.flush(start)
			h.parts = append(h.parts, node)
			h.bufBegin = c.pos()
			openBraces += braces
		case r == '}' && openBraces > 0:
			start := c.pos()
			c.advance()
			openBraces--
			h.flush(start)
			h.parts = append(h.parts, &Inline{
				kind: EmbeddedStatementKind,
				text: "}",
				loc:  Location{Begin: positionAt(start), End: positionAt(c.pos())},
			})
			skipAll(c, char(' '))
			h.bufBegin = c.pos()
		default:
			h.copy()
		}
	}
}

func isUnquotedAttributeValueChar(r rune) bool {
	return r != eof && !isLineSpace(r) && !isNewline(r) && !strings.ContainsRune("\"'=<>`", r)
}
