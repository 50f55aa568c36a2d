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
	"bytes"
	"slices"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// inlineScanner converts the text of a paragraph or heading
// into a sequence of inline nodes.
// Brackets and emphasis delimiters are first emitted as [PlainKind] nodes
// and recorded in a delimiter stack.
// They are converted into links and emphasis once their closer is found.
type inlineScanner struct {
	c   cursor
	log *log.Logger
	// stopOnEmbEnd ends the paragraph at a '}' that does not
	// close a brace opened inside the paragraph.
	stopOnEmbEnd bool

	list      []*Inline
	text      []byte
	textBegin int
	stack     []delimiter
	// keep is the length of the pending text produced by entity references.
	// Trailing whitespace is trimmed only after it.
	keep int

	// openBraces is the number of embedded code braces
	// opened in the paragraph and not yet closed.
	openBraces int
	// end is the offset where scanning stopped.
	end int
}

func (s *inlineScanner) scan() []*Inline {
	c := s.c
	skipAll(c, lineSpace)
	s.textBegin = c.pos()
	embedded := c.settings().Has(Embedded)
	rawHTML := c.settings().Has(HTML)
loop:
	for {
		start := c.pos()
		switch r := c.peek(); {
		case r == eof:
			break loop
		case isNewline(r):
			s.newline()
		case isLineSpace(r):
			s.spaces()
		case r == '\\':
			s.backslash()
		case r == '`':
			s.codeSpan()
		case r == '&':
			s.mark(start)
			entity(c, &s.text)
			s.keep = len(s.text)
		case r == '<':
			if node := autolink(c); node != nil {
				s.push(start, node)
			} else if parts := inlineHTML(c, rawHTML, embedded); parts != nil {
				s.flush(start)
				s.list = append(s.list, parts...)
				s.textBegin = c.pos()
			} else {
				s.char(start)
			}
		case r == '!':
			c.advance()
			if skip(c, char('[')) {
				s.openBracket(start, imageOpener, "![")
			} else {
				s.literal(start, "!")
			}
		case r == '[':
			c.advance()
			s.openBracket(start, linkOpener, "[")
		case r == ']':
			s.closeBracket()
		case r == '*' || r == '_':
			s.delimiterRun()
		case r == '@' && embedded:
			s.embedded()
		case r == '}' && embedded:
			if s.closeBrace() {
				break loop
			}
		default:
			s.char(start)
		}
	}
	s.end = c.pos()
	s.trimTrailingSpace()
	s.flush(s.end)
	s.resolveEmphasis(0)
	return normalizeInlines(s.list)
}

// mark records pos as the start of the pending text
// if no text is pending.
func (s *inlineScanner) mark(pos int) {
	if len(s.text) == 0 {
		s.textBegin = pos
	}
}

func (s *inlineScanner) literal(start int, text string) {
	s.mark(start)
	s.text = append(s.text, text...)
}

// char appends the current character to the pending text.
func (s *inlineScanner) char(start int) {
	s.mark(start)
	s.text = utf8.AppendRune(s.text, s.c.peek())
	s.c.advance()
}

// flush moves the pending text into a [PlainKind] node.
func (s *inlineScanner) flush(end int) {
	if len(s.text) == 0 {
		return
	}
	s.list = append(s.list, &Inline{
		kind: PlainKind,
		text: string(s.text),
		loc:  Location{Begin: positionAt(s.textBegin), End: positionAt(end)},
	})
	s.text = s.text[:0]
	s.keep = 0
}

// trimTrailingSpace drops spaces and tabs from the end of the pending text
// that were not written as character references.
func (s *inlineScanner) trimTrailingSpace() {
	n := len(bytes.TrimRight(s.text, " \t"))
	s.text = s.text[:max(n, s.keep)]
}

// push appends a node that started at start and ends at the cursor.
func (s *inlineScanner) push(start int, node *Inline) {
	s.flush(start)
	if node.loc == (Location{}) {
		node.loc = Location{Begin: positionAt(start), End: positionAt(s.c.pos())}
	}
	s.list = append(s.list, node)
	s.textBegin = s.c.pos()
}

// prevRune returns the character before the cursor
// for the purpose of classifying delimiter runs.
func (s *inlineScanner) prevRune() rune {
	if len(s.text) > 0 {
		r, _ := utf8.DecodeLastRune(s.text)
		return r
	}
	if len(s.list) == 0 {
		return ' '
	}
	switch last := s.list[len(s.list)-1]; last.kind {
	case PlainKind:
		if last.text == "" {
			return ' '
		}
		r, _ := utf8.DecodeLastRuneInString(last.text)
		return r
	case SoftBreakKind, HardBreakKind:
		return ' '
	default:
		return '.'
	}
}

// newline turns a line ending into a soft line break.
// Leading whitespace on the next line is dropped.
func (s *inlineScanner) newline() {
	c := s.c
	start := c.pos()
	s.flush(start)
	skipNewline(c)
	skipAll(c, lineSpace)
	if c.peek() != eof {
		s.list = append(s.list, &Inline{kind: SoftBreakKind})
	}
	s.textBegin = c.pos()
}

// spaces handles a run of spaces and tabs.
// At the end of a line the run is dropped,
// or becomes a [hard line break] if it has two or more trailing spaces.
//
// [hard line break]: https://spec.commonmark.org/0.30/#hard-line-breaks
func (s *inlineScanner) spaces() {
	c := s.c
	start := c.pos()
	var ws []byte
	copyAll(c, &ws, lineSpace)
	if !atLineEnd(c) {
		s.literal(start, string(ws))
		return
	}
	if c.peek() == eof || len(ws)-len(bytes.TrimRight(ws, " ")) < 2 {
		return
	}
	s.flush(start)
	skipNewline(c)
	skipAll(c, lineSpace)
	if c.peek() != eof {
		s.list = append(s.list, &Inline{kind: HardBreakKind})
	}
	s.textBegin = c.pos()
}

// backslash handles a [backslash escape]
// or a backslash at the end of a line, which is a hard line break.
//
// [backslash escape]: https://spec.commonmark.org/0.30/#backslash-escapes
func (s *inlineScanner) backslash() {
	c := s.c
	start := c.pos()
	c.advance()
	switch r := c.peek(); {
	case isNewline(r):
		end := c.pos()
		skipNewline(c)
		skipAll(c, lineSpace)
		if c.peek() == eof {
			s.literal(start, "\\")
			return
		}
		s.flush(start)
		s.list = append(s.list, &Inline{
			kind: HardBreakKind,
			loc:  Location{Begin: positionAt(start), End: positionAt(end)},
		})
		s.textBegin = c.pos()
	case isASCIIPunctuation(r):
		s.literal(start, string(r))
		c.advance()
	default:
		s.literal(start, "\\")
	}
}

// codeSpan parses a [code span].
// A backtick string without a matching closer is literal text.
//
// [code span]: https://spec.commonmark.org/0.30/#code-spans
func (s *inlineScanner) codeSpan() {
	c := s.c
	start := c.pos()
	t := begin(c)
	defer t.rollback()
	n := skipAll(t, char('`'))
	var text []byte
	for {
		r := t.peek()
		if r == eof {
			t.rollback()
			s.mark(start)
			copyAll(c, &s.text, char('`'))
			return
		}
		if r == '`' {
			k := skipAll(t, char('`'))
			if k == n {
				break
			}
			text = append(text, bytes.Repeat([]byte{'`'}, k)...)
			continue
		}
		if isNewline(r) {
			skipNewline(t)
			skipAll(t, lineSpace)
			text = append(text, ' ')
			continue
		}
		text = utf8.AppendRune(text, r)
		t.advance()
	}
	t.commit()
	if len(text) >= 2 && text[0] == ' ' && text[len(text)-1] == ' ' && len(bytes.Trim(text, " ")) > 0 {
		text = text[1 : len(text)-1]
	}
	s.push(start, &Inline{kind: CodeSpanKind, text: string(text)})
}

// delimiterRun scans a [delimiter run] of '*' or '_'.
//
// [delimiter run]: https://spec.commonmark.org/0.30/#delimiter-run
func (s *inlineScanner) delimiterRun() {
	c := s.c
	start := c.pos()
	ch := byte(c.peek())
	prev := s.prevRune()
	var run []byte
	n := copyAll(c, &run, char(ch))
	canOpen, canClose := classifyRun(ch, prev, c.peek())
	node := &Inline{kind: PlainKind, text: string(run)}
	s.push(start, node)
	if canOpen || canClose {
		s.stack = append(s.stack, delimiter{
			kind:     emphasisRun,
			node:     node,
			char:     ch,
			canOpen:  canOpen,
			canClose: canClose,
			n:        n,
		})
	}
}

func (s *inlineScanner) openBracket(start int, kind delimiterKind, text string) {
	node := &Inline{kind: PlainKind, text: text}
	s.push(start, node)
	s.stack = append(s.stack, delimiter{kind: kind, node: node, pos: s.c.pos()})
}

// closeBracket handles a ']' by looking for a [link or image].
//
// [link or image]: https://spec.commonmark.org/0.30/#look-for-link-or-image
func (s *inlineScanner) closeBracket() {
	c := s.c
	start := c.pos()
	c.advance()
	s.flush(start)

	idx := -1
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].kind != emphasisRun {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.literal(start, "]")
		return
	}
	opener := s.stack[idx]
	if opener.kind == nestedLinkMarker {
		s.stack = slices.Delete(s.stack, idx, idx+1)
		s.literal(start, "]")
		s.log.Debug("link nested inside a link", "offset", start)
		return
	}

	isImage := opener.kind == imageOpener
	afterBracket := c.pos()
	if dest, title, ok := linkArgs(c); ok {
		kind := LinkKind
		if isImage {
			kind = ImageKind
		}
		s.closeLink(idx, &Inline{kind: kind, dest: dest, title: title})
		return
	}

	label, hasLabel := linkLabel(c)
	kind := LinkRefKind
	if isImage {
		kind = ImageRefKind
	}
	if hasLabel && !isBlank(label) {
		s.closeLink(idx, &Inline{kind: kind, label: label})
		return
	}
	if !hasLabel || label != "" {
		// Not a collapsed reference: the bracket ends the shortcut.
		mustReset(c, afterBracket)
	}

	// A shortcut or collapsed reference is labeled by its own text.
	if s.unmatchedEmphasis(idx) || isBlank(textContent(s.list[s.indexOf(opener.node)+1:])) {
		mustReset(c, afterBracket)
		s.stack = slices.Delete(s.stack, idx, idx+1)
		s.literal(start, "]")
		return
	}
	end := c.pos()
	label = s.sourceText(opener.pos, start)
	mustReset(c, end)
	node := &Inline{kind: kind, label: label}
	s.closeLink(idx, node)
	node.children = nil
}

// sourceText returns the characters between two offsets before the cursor
// and leaves the cursor at to.
func (s *inlineScanner) sourceText(from, to int) string {
	c := s.c
	mustReset(c, from)
	var text []byte
	for c.pos() < to && c.peek() != eof {
		text = utf8.AppendRune(text, c.peek())
		c.advance()
	}
	return string(text)
}

// closeLink turns the nodes after the bracket opener at stack index idx
// into the children of node and replaces the opener with node.
func (s *inlineScanner) closeLink(idx int, node *Inline) {
	opener := s.stack[idx]
	s.resolveEmphasis(idx + 1)
	i := s.indexOf(opener.node)
	node.children = slices.Clone(s.list[i+1:])
	node.loc = Location{Begin: opener.node.loc.Begin, End: positionAt(s.c.pos())}
	s.list = append(slices.Delete(s.list, i, len(s.list)), node)
	s.stack = slices.Delete(s.stack, idx, len(s.stack))
	if node.kind == LinkKind || node.kind == LinkRefKind {
		// Links may not contain other links.
		for j := range s.stack {
			if s.stack[j].kind == linkOpener {
				s.stack[j].kind = nestedLinkMarker
			}
		}
	}
	s.textBegin = s.c.pos()
}

// embedded handles code introduced by '@'.
// "@@" is a literal '@'.
func (s *inlineScanner) embedded() {
	c := s.c
	start := c.pos()
	c.advance()
	if skip(c, char('@')) {
		s.literal(start, "@")
		return
	}
	node, braces := scanEmbedded(c, start, true)
	if node == nil {
		s.literal(start, "@")
		return
	}
	s.push(start, node)
	s.openBraces += braces
}

// closeBrace handles a '}'.
// It closes a brace opened earlier in the paragraph if there is one.
// Otherwise, it reports whether the '}' ends the paragraph
// or appends it as literal text.
func (s *inlineScanner) closeBrace() (stop bool) {
	c := s.c
	start := c.pos()
	if s.openBraces == 0 {
		if s.stopOnEmbEnd && (len(s.list) > 0 || len(bytes.TrimSpace(s.text)) > 0) {
			if len(s.text) == 0 && len(s.list) > 0 && s.list[len(s.list)-1].kind == SoftBreakKind {
				s.list = s.list[:len(s.list)-1]
			}
			return true
		}
		s.char(start)
		return false
	}

	c.advance()
	node := &Inline{kind: EmbeddedStatementKind, text: "}"}
	if elseBrace(c) {
		node.text = "} else {"
	} else {
		s.openBraces--
	}
	s.flush(start)
	if n := len(s.list); n > 0 && s.list[n-1].kind == SoftBreakKind {
		s.list = s.list[:n-1]
	}
	s.push(start, node)
	skipAll(c, lineSpace)
	s.textBegin = c.pos()
	return false
}

// normalizeInlines merges adjacent [PlainKind] nodes
// and removes empty ones throughout the tree.
func normalizeInlines(list []*Inline) []*Inline {
	out := list[:0]
	for _, node := range list {
		if node.kind == PlainKind {
			if node.text == "" {
				continue
			}
			if n := len(out); n > 0 && out[n-1].kind == PlainKind {
				prev := out[n-1]
				out[n-1] = &Inline{
					kind: PlainKind,
					text: prev.text + node.text,
					loc:  Location{Begin: prev.loc.Begin, End: node.loc.End},
				}
				continue
			}
		}
		if len(node.children) > 0 {
			node.children = normalizeInlines(node.children)
		}
		out = append(out, node)
	}
	for i := len(out); i < len(list); i++ {
		list[i] = nil
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
