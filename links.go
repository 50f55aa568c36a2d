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

// maxLinkLabelLength is the maximum number of characters in a [link label].
//
// [link label]: https://spec.commonmark.org/0.30/#link-label
const maxLinkLabelLength = 999

// skipLinkSpace skips spaces, tabs and up to one line ending.
// It reports whether anything was skipped.
// ok is false if a blank line follows.
func skipLinkSpace(c cursor) (skipped, ok bool) {
	start := c.pos()
	skipAll(c, lineSpace)
	if skipNewline(c) {
		skipAll(c, lineSpace)
		if isNewline(c.peek()) {
			return true, false
		}
	}
	return c.pos() != start, true
}

// linkArgs parses the parenthesized destination and title
// that follow the text of an [inline link].
//
// [inline link]: https://spec.commonmark.org/0.30/#inline-link
func linkArgs(c cursor) (dest, title string, ok bool) {
	t := begin(c)
	defer t.rollback()
	if !skip(t, char('(')) {
		return "", "", false
	}
	if _, ok := skipLinkSpace(t); !ok {
		return "", "", false
	}
	dest, ok = linkDestination(t)
	if !ok {
		return "", "", false
	}
	spaced, ok := skipLinkSpace(t)
	if !ok {
		return "", "", false
	}
	if spaced {
		var found bool
		title, found, ok = linkTitle(t)
		if !ok {
			return "", "", false
		}
		if found {
			if _, ok := skipLinkSpace(t); !ok {
				return "", "", false
			}
		}
	}
	if !skip(t, char(')')) {
		return "", "", false
	}
	t.commit()
	return dest, title, true
}

// linkDestination parses a [link destination].
// Backslash escapes and entities are decoded.
//
// [link destination]: https://spec.commonmark.org/0.30/#link-destination
func linkDestination(c cursor) (string, bool) {
	var dest []byte
	if skip(c, char('<')) {
		for {
			switch r := c.peek(); {
			case r == '>':
				c.advance()
				return string(dest), true
			case r == eof || r == '<' || isNewline(r):
				return "", false
			case r == '\\':
				escaped(c, &dest)
			case r == '&':
				entity(c, &dest)
			default:
				dest = utf8.AppendRune(dest, r)
				c.advance()
			}
		}
	}

	depth := 0
	for {
		switch r := c.peek(); {
		case r == eof || r == ' ' || isNewline(r) || r == '\t':
			return string(dest), depth == 0
		case r == ')' && depth == 0:
			return string(dest), true
		case r == '\\':
			escaped(c, &dest)
		case r == '&':
			entity(c, &dest)
		case r < 0x20 || r == 0x7f:
			return "", false
		default:
			if r == '(' {
				depth++
			} else if r == ')' {
				depth--
			}
			dest = utf8.AppendRune(dest, r)
			c.advance()
		}
	}
}

// escaped consumes a backslash and appends the escaped punctuation character.
// A backslash before anything else is appended literally.
func escaped(c cursor, buf *[]byte) {
	c.advance()
	if r := c.peek(); isASCIIPunctuation(r) {
		*buf = append(*buf, byte(r))
		c.advance()
		return
	}
	*buf = append(*buf, '\\')
}

// linkTitle parses a [link title].
// found is false if the cursor is not at a title delimiter.
// ok is false if a title started but was malformed.
//
// [link title]: https://spec.commonmark.org/0.30/#link-title
func linkTitle(c cursor) (title string, found, ok bool) {
	var open, close rune
	switch r := c.peek(); r {
	case '"', '\'':
		open, close = r, r
	case '(':
		open, close = '(', ')'
	default:
		return "", false, true
	}
	c.advance()
	var buf []byte
	for {
		switch r := c.peek(); {
		case r == eof:
			return "", true, false
		case r == close:
			c.advance()
			skipAll(c, lineSpace)
			return string(buf), true, true
		case r == open:
			return "", true, false
		case r == '\\':
			escaped(c, &buf)
		case r == '&':
			entity(c, &buf)
		case isNewline(r):
			skipNewline(c)
			buf = append(buf, '\n')
			copyAll(c, &buf, lineSpace)
			if atLineEnd(c) {
				return "", true, false
			}
		default:
			buf = utf8.AppendRune(buf, r)
			c.advance()
		}
	}
}

// linkLabel parses a bracketed [link label].
// Escaped brackets are unescaped.
//
// [link label]: https://spec.commonmark.org/0.30/#link-label
func linkLabel(c cursor) (string, bool) {
	if c.peek() != '[' {
		return "", false
	}
	t := begin(c)
	defer t.rollback()
	t.advance()
	var label []byte
	for n := 0; n <= maxLinkLabelLength; n++ {
		switch r := t.peek(); r {
		case eof, '[':
			return "", false
		case ']':
			t.advance()
			t.commit()
			return string(label), true
		case '\\':
			t.advance()
			next := t.peek()
			if next == eof {
				return "", false
			}
			if next != '[' && next != ']' {
				label = append(label, '\\')
			}
			label = utf8.AppendRune(label, next)
			t.advance()
		default:
			label = utf8.AppendRune(label, r)
			t.advance()
		}
	}
	return "", false
}

// linkDef parses a [link reference definition].
//
// [link reference definition]: https://spec.commonmark.org/0.30/#link-reference-definitions
func linkDef(c cursor) *Block {
	t := begin(c)
	defer t.rollback()
	start := t.pos()
	label, ok := linkLabel(t)
	if !ok || isBlank(label) || !skip(t, char(':')) {
		return nil
	}
	skipAll(t, lineSpace)
	if skipNewline(t) {
		skipAll(t, lineSpace)
		if atLineEnd(t) {
			return nil
		}
	}
	angled := t.peek() == '<'
	dest, ok := linkDestination(t)
	if !ok || dest == "" && !angled {
		return nil
	}
	b := &Block{kind: LinkDefKind, info: label, text: dest}

	spaced := skipAll(t, lineSpace) > 0
	if atLineEnd(t) {
		b.loc = Location{Begin: positionAt(start), End: positionAt(t.pos())}
		if skipNewline(t) {
			if title, end, ok := titleLine(t); ok {
				b.title = title
				b.loc.End = positionAt(end)
			}
		}
		t.commit()
		return b
	}
	if !spaced {
		return nil
	}
	title, found, ok := linkTitle(t)
	if !found || !ok || !atLineEnd(t) {
		return nil
	}
	b.title = title
	b.loc = Location{Begin: positionAt(start), End: positionAt(t.pos())}
	skipNewline(t)
	t.commit()
	return b
}

// titleLine parses a link definition title that fills the rest of a line.
// The cursor is unchanged if there is no such title.
func titleLine(c cursor) (title string, end int, ok bool) {
	t := begin(c)
	defer t.rollback()
	skipAll(t, lineSpace)
	title, found, ok := linkTitle(t)
	if !found || !ok || !atLineEnd(t) {
		return "", 0, false
	}
	end = t.pos()
	skipNewline(t)
	t.commit()
	return title, end, true
}

// autolink parses an [autolink] or an email autolink.
//
// [autolink]: https://spec.commonmark.org/0.30/#autolinks
func autolink(c cursor) *Inline {
	t := begin(c)
	defer t.rollback()
	start := t.pos()
	if !skip(t, char('<')) {
		return nil
	}
	var text []byte
	isURI, isEmail := true, true
	colon, at := -1, -1
	for {
		r := t.peek()
		if r == '>' {
			break
		}
		if r == eof || r == '<' || r <= ' ' || r > '~' {
			return nil
		}
		switch {
		case r == ':' && colon < 0:
			if at >= 0 {
				return nil
			}
			colon = len(text)
			if colon < 2 || colon > 32 {
				isURI = false
			}
		case r == '@':
			if at >= 0 || len(text) == 0 || colon >= 0 {
				isEmail = false
			}
			if at < 0 {
				at = len(text)
			}
		default:
			if colon < 0 && (len(text) == 0 && !isASCIILetter(r) || !isASCIIAlnum(r) && !strings.ContainsRune("+.-", r)) {
				isURI = false
			}
			if at < 0 && strings.ContainsRune(`()[]",;\:<>`, r) || at >= 0 && !isASCIIAlnum(r) && r != '-' && r != '.' {
				isEmail = false
			}
		}
		if !isURI && !isEmail {
			return nil
		}
		text = append(text, byte(r))
		t.advance()
	}
	contentEnd := t.pos()
	t.advance()
	if colon < 0 {
		isURI = false
	}
	if at < 0 || at == len(text)-1 {
		isEmail = false
	}

	node := &Inline{
		kind: LinkKind,
		children: []*Inline{{
			kind: PlainKind,
			text: string(text),
			loc:  Location{Begin: positionAt(start + 1), End: positionAt(contentEnd)},
		}},
		loc: Location{Begin: positionAt(start), End: positionAt(t.pos())},
	}
	switch {
	case isURI:
		node.dest = string(text)
	case isEmail:
		node.dest = "mailto:" + string(text)
	default:
		return nil
	}
	t.commit()
	return node
}
