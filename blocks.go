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
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

const (
	tabStopSize          = 4
	codeBlockIndentLimit = 4
	maxListMarkerDigits  = 9
)

// blockParser splits a document into blocks.
// Container blocks recurse into body through decorated cursors.
type blockParser struct {
	log *log.Logger
	// openBraces is the number of embedded code blocks
	// opened with "{" and not yet closed.
	openBraces int
}

// body parses blocks until the end of input.
func (p *blockParser) body(c cursor) []*Block {
	var blocks []*Block
	for c.peek() != eof {
		start := c.pos()
		blocks = p.block(c, blocks)
		if c.pos() == start && c.peek() != eof {
			panic(fmt.Sprintf("actmd: no progress parsing block at offset %d", start))
		}
	}
	return blocks
}

// block parses a single block and appends it to blocks.
// A paragraph that was interrupted by another block
// appends both.
func (p *blockParser) block(c cursor, blocks []*Block) []*Block {
	var indent int
	for {
		indent = skipAll(c, lineSpace)
		if !skipNewline(c) {
			break
		}
	}
	start := c.pos()
	ch := c.peek()
	if ch == eof {
		return blocks
	}
	add := func(b *Block) []*Block {
		p.log.Debug("block", "kind", b.Kind(), "offset", start)
		return append(blocks, b)
	}

	if ch == '#' {
		if b, braces := p.heading(c); b != nil {
			p.openBraces += braces
			return add(b)
		}
	}
	if ch == '>' {
		stop := newParagraphStop(c, p, '>')
		if b := p.quote(stop); b != nil {
			blocks = add(b)
			return stop.appendNext(blocks)
		}
	}
	if ch == '`' || ch == '~' {
		if b := p.fencedCode(c, indent); b != nil {
			return add(b)
		}
	}
	if ch == '*' || ch == '-' || ch == '_' {
		if b := p.thematicBreak(c); b != nil {
			return add(b)
		}
	}
	if ch == '*' || ch == '-' || ch == '+' {
		if b := p.unorderedList(c, indent); b != nil {
			return add(b)
		}
	}
	if isASCIIDigit(ch) {
		if b := p.orderedList(c, indent); b != nil {
			return add(b)
		}
	}
	if ch == '@' && c.settings().Has(Embedded) {
		if b := p.embeddedBlock(c); b != nil {
			return add(b)
		}
	}
	if ch == '}' && p.openBraces > 0 {
		return add(p.closeBrace(c))
	}
	if ch == '<' && c.settings().Has(HTML) {
		if html := p.htmlBlock(c, indent); len(html) > 0 {
			p.log.Debug("block", "kind", HTMLBlockKind, "offset", start, "parts", len(html))
			return append(blocks, html...)
		}
	}

	stop := newParagraphStop(c, p, 0)
	b, braces := p.paragraph(stop, p.openBraces > 0)
	p.openBraces += braces
	if b != nil {
		blocks = add(b)
	}
	return stop.appendNext(blocks)
}

// heading parses an [ATX heading].
// It also returns the number of embedded code braces left open
// by the heading's content.
//
// [ATX heading]: https://spec.commonmark.org/0.30/#atx-headings
func (p *blockParser) heading(c cursor) (_ *Block, braces int) {
	t := begin(c)
	defer t.rollback()
	start := t.pos()
	level := skipAll(t, char('#'))
	if level == 0 || level > 6 {
		return nil, 0
	}
	b := &Block{kind: HeadingKind, level: level}
	if atLineEnd(t) {
		b.loc = Location{Begin: positionAt(start), End: positionAt(t.pos())}
		skipNewline(t)
		t.commit()
		return b, 0
	}
	if skipAll(t, lineSpace) == 0 {
		return nil, 0
	}

	contentStart := t.pos()
	var line []rune
	var offsets []int
	for !atLineEnd(t) {
		line = append(line, t.peek())
		offsets = append(offsets, t.pos())
		t.advance()
	}
	lineEnd := t.pos()
	contentEnd := lineEnd
	if n := atxContentEnd(line); n < len(line) {
		contentEnd = offsets[n]
	}

	mustReset(t, contentStart)
	content, braces := p.paragraph(&lineStop{cursor: newLookahead(t), end: contentEnd}, false)
	switch content.Kind() {
	case ParagraphKind:
		b.inlines = content.inlines
	case LinkDefKind:
		// Link reference definitions cannot be headings.
		braces = 0
		n := len(line)
		for i, off := range offsets {
			if off >= contentEnd {
				n = i
				break
			}
		}
		b.inlines = []*Inline{{
			kind: PlainKind,
			text: string(line[:n]),
			loc:  Location{Begin: positionAt(contentStart), End: positionAt(contentEnd)},
		}}
	}
	mustReset(t, lineEnd)
	b.loc = Location{Begin: positionAt(start), End: positionAt(lineEnd)}
	skipNewline(t)
	t.commit()
	return b, braces
}

// atxContentEnd returns the end of an ATX heading's content
// with the optional closing sequence of '#' characters removed.
func atxContentEnd(line []rune) int {
	end := len(line)
	for end > 0 && isLineSpace(line[end-1]) {
		end--
	}
	hashEnd := end
	for end > 0 && line[end-1] == '#' {
		end--
	}
	if end == hashEnd || end > 0 && !isLineSpace(line[end-1]) {
		return hashEnd
	}
	for end > 0 && isLineSpace(line[end-1]) {
		end--
	}
	return end
}

// quote parses a [block quote].
//
// [block quote]: https://spec.commonmark.org/0.30/#block-quotes
func (p *blockParser) quote(c cursor) *Block {
	start := c.pos()
	if !skip(c, char('>')) {
		return nil
	}
	skip(c, lineSpace)
	b := &Block{
		kind:   QuoteKind,
		blocks: p.body(&quoteFilter{cursor: newLookahead(c)}),
	}
	b.loc = Location{Begin: positionAt(start), End: positionAt(c.pos())}
	return b
}

// fencedCode parses a [fenced code block].
// indent is the number of spaces before the opening fence,
// which is removed from each content line.
//
// [fenced code block]: https://spec.commonmark.org/0.30/#fenced-code-blocks
func (p *blockParser) fencedCode(c cursor, indent int) *Block {
	fence := c.peek()
	if fence != '`' && fence != '~' {
		return nil
	}
	t := begin(c)
	defer t.rollback()
	start := t.pos()
	fenceLen := skipAll(t, char(fence))
	if fenceLen < 3 {
		return nil
	}
	skipAll(t, lineSpace)

	var info []byte
	for !atLineEnd(t) {
		switch r := t.peek(); {
		case r == '`' && fence == '`':
			return nil
		case r == '&':
			entity(t, &info)
		case r == '\\':
			t.advance()
			if next := t.peek(); isASCIIPunctuation(next) {
				info = append(info, byte(next))
				t.advance()
			} else {
				info = append(info, '\\')
			}
		default:
			info = utf8.AppendRune(info, r)
			t.advance()
		}
	}
	b := &Block{
		kind: CodeBlockKind,
		info: strings.TrimRight(string(info), " \t"),
	}

	var text []byte
	notNewline := predicate(func(r rune) bool { return !isNewline(r) })
	closed := false
	if skipNewline(t) {
		for t.peek() != eof {
			lineStart := t.pos()
			if skipAll(t, char(' ')) < codeBlockIndentLimit && skipAll(t, char(fence)) >= fenceLen {
				skipAll(t, lineSpace)
				if atLineEnd(t) {
					skipNewline(t)
					closed = true
					break
				}
			}
			mustReset(t, lineStart)
			for i := 0; i < indent && skip(t, char(' ')); i++ {
			}
			copyAll(t, &text, notNewline)
			text = append(text, '\n')
			skipNewline(t)
		}
	}
	if !closed {
		p.log.Debug("code block runs to end of input", "offset", start)
	}
	b.text = string(text)
	b.loc = Location{Begin: positionAt(start), End: positionAt(t.pos())}
	t.commit()
	return b
}

// thematicBreak parses a [thematic break].
//
// [thematic break]: https://spec.commonmark.org/0.30/#thematic-breaks
func (p *blockParser) thematicBreak(c cursor) *Block {
	marker := c.peek()
	if marker != '*' && marker != '-' && marker != '_' {
		return nil
	}
	t := begin(c)
	defer t.rollback()
	start := t.pos()
	n := 0
	for {
		skipAll(t, lineSpace)
		if k := skipAll(t, char(marker)); k > 0 {
			n += k
			continue
		}
		if n < 3 || !atLineEnd(t) {
			return nil
		}
		b := &Block{
			kind: ThematicBreakKind,
			loc:  Location{Begin: positionAt(start), End: positionAt(t.pos())},
		}
		skipNewline(t)
		t.commit()
		return b
	}
}

// unorderedList parses a [bullet list].
// lead is the indentation before the first marker.
//
// [bullet list]: https://spec.commonmark.org/0.30/#lists
func (p *blockParser) unorderedList(c cursor, lead int) *Block {
	marker := c.peek()
	if marker != '*' && marker != '-' && marker != '+' {
		return nil
	}
	t := begin(c)
	defer t.rollback()
	start := t.pos()
	t.advance()
	items, ok := p.listItems(t, lead, 1, func(c cursor) int {
		if skip(c, char(marker)) {
			return 1
		}
		return 0
	})
	if !ok {
		return nil
	}
	t.commit()
	return &Block{
		kind:  UnorderedListKind,
		items: items,
		loc:   Location{Begin: positionAt(start), End: positionAt(t.pos())},
	}
}

// orderedList parses an [ordered list].
// lead is the indentation before the first marker.
//
// [ordered list]: https://spec.commonmark.org/0.30/#lists
func (p *blockParser) orderedList(c cursor, lead int) *Block {
	t := begin(c)
	defer t.rollback()
	start := t.pos()
	var num []byte
	copyAll(t, &num, predicate(isASCIIDigit))
	if len(num) == 0 || len(num) > maxListMarkerDigits {
		return nil
	}
	delim := t.peek()
	if delim != '.' && delim != ')' {
		return nil
	}
	t.advance()
	items, ok := p.listItems(t, lead, len(num)+1, func(c cursor) int {
		n := skipAll(c, predicate(isASCIIDigit))
		if n == 0 || n > maxListMarkerDigits || !skip(c, char(delim)) {
			return 0
		}
		return n + 1
	})
	if !ok {
		return nil
	}
	t.commit()
	return &Block{
		kind:  OrderedListKind,
		info:  string(num),
		items: items,
		loc:   Location{Begin: positionAt(start), End: positionAt(t.pos())},
	}
}

// listItems parses the items of a list.
// The cursor must be positioned after the first item's marker,
// which is width characters wide.
// marker consumes a following item's marker and returns its width
// or returns zero if the marker does not continue the list.
func (p *blockParser) listItems(c cursor, lead, width int, marker func(cursor) int) ([][]*Block, bool) {
	spacing, ok := p.itemSpacing(c)
	if !ok {
		return nil, false
	}
	var items [][]*Block
	for {
		f := &itemFilter{cursor: newLookahead(c), indent: lead + width + spacing}
		items = append(items, p.body(f))

		pos := c.pos()
		if p.atThematicBreak(c) {
			break
		}
		lead = skipAll(c, char(' '))
		if lead >= codeBlockIndentLimit {
			mustReset(c, pos)
			break
		}
		if width = marker(c); width == 0 {
			mustReset(c, pos)
			break
		}
		if spacing, ok = p.itemSpacing(c); !ok {
			mustReset(c, pos)
			break
		}
	}
	return items, true
}

func (p *blockParser) atThematicBreak(c cursor) bool {
	t := begin(c)
	defer t.rollback()
	skipAll(t, lineSpace)
	return p.thematicBreak(t) != nil
}

// itemSpacing consumes the whitespace after a list marker
// and returns its width in columns.
func (p *blockParser) itemSpacing(c cursor) (int, bool) {
	switch r := c.peek(); {
	case r == eof:
		return 1, true
	case isNewline(r):
		p.log.Warn("list item starts with a blank line", "offset", c.pos())
		return 1, true
	case isLineSpace(r):
		start := c.pos()
		col := 0
		for {
			switch c.peek() {
			case ' ':
				col++
			case '\t':
				col += tabStopSize - col%tabStopSize
			default:
				if col > codeBlockIndentLimit {
					// Content starts after a single space.
					mustReset(c, start)
					c.advance()
					return 1, true
				}
				return col, true
			}
			c.advance()
		}
	default:
		return 0, false
	}
}

// embeddedBlock parses an embedded code block starting with '@':
// "@{" followed by lines of code and a closing "}" line,
// a single-line "@{...}",
// or a lone "@" which is an empty statement.
func (p *blockParser) embeddedBlock(c cursor) *Block {
	t := begin(c)
	defer t.rollback()
	start := t.pos()
	if !skip(t, char('@')) {
		return nil
	}
	b := &Block{kind: EmbeddedStatementBlockKind}
	if skipNewline(t) {
		b.loc = Location{Begin: positionAt(start), End: positionAt(start + 1)}
		t.commit()
		return b
	}
	if !skip(t, char('{')) {
		return nil
	}
	contentStart := t.pos()
	skipAll(t, lineSpace)
	if skipNewline(t) {
		contentStart = t.pos()
		b.text, b.loc.End = p.embeddedLines(t)
		b.loc.Begin = positionAt(contentStart)
		t.commit()
		return b
	}

	mustReset(t, contentStart)
	var code []byte
	if !copyUntilMatch(t, &code, '{', '}') {
		return nil
	}
	contentEnd := t.pos() - 1
	skipAll(t, lineSpace)
	if !atLineEnd(t) {
		return nil
	}
	skipNewline(t)
	b.text = string(code[:len(code)-1])
	b.loc = Location{Begin: positionAt(contentStart), End: positionAt(contentEnd)}
	t.commit()
	return b
}

// embeddedLines copies lines verbatim until a line consisting of "}" or "@}".
func (p *blockParser) embeddedLines(c cursor) (string, Position) {
	var text []byte
	notNewline := predicate(func(r rune) bool { return !isNewline(r) })
	for c.peek() != eof {
		lineStart := c.pos()
		skipAll(c, lineSpace)
		skip(c, char('@'))
		if skip(c, char('}')) {
			skipAll(c, lineSpace)
			if atLineEnd(c) {
				skipNewline(c)
				return string(text), positionAt(lineStart)
			}
		}
		mustReset(c, lineStart)
		copyAll(c, &text, notNewline)
		if skipNewline(c) {
			text = append(text, '\n')
		}
	}
	p.log.Warn("embedded code block not closed before end of input", "offset", c.pos())
	return string(text), positionAt(c.pos())
}

// closeBrace consumes a '}' that closes an embedded code block.
// "} else {" closes one block and opens another.
func (p *blockParser) closeBrace(c cursor) *Block {
	start := c.pos()
	c.advance()
	b := &Block{kind: EmbeddedStatementBlockKind, text: "}"}
	if elseBrace(c) {
		b.text = "} else {"
	} else {
		p.openBraces--
	}
	b.loc = Location{Begin: positionAt(start), End: positionAt(c.pos())}
	skipAll(c, lineSpace)
	skipNewline(c)
	return b
}

// elseBrace consumes " else {" if it follows the cursor.
func elseBrace(c cursor) bool {
	t := begin(c)
	defer t.rollback()
	skipAll(t, lineSpace)
	if !skipSeq(t, "else") {
		return false
	}
	skipAll(t, lineSpace)
	if !skip(t, char('{')) {
		return false
	}
	t.commit()
	return true
}

// paragraph parses the inline content of a paragraph.
// If the paragraph is a link reference definition, a [LinkDefKind] block is returned.
// If the paragraph has no content, paragraph returns nil.
// stopOnEmbEnd allows an unmatched '}' to end the paragraph.
// It also returns the number of embedded code braces left open.
func (p *blockParser) paragraph(c cursor, stopOnEmbEnd bool) (_ *Block, braces int) {
	start := c.pos()
	if c.peek() == '[' {
		if def := linkDef(c); def != nil {
			return def, 0
		}
	}
	s := &inlineScanner{c: c, log: p.log, stopOnEmbEnd: stopOnEmbEnd}
	inlines := s.scan()
	if len(inlines) == 0 {
		return nil, s.openBraces
	}
	return &Block{
		kind:    ParagraphKind,
		inlines: inlines,
		loc:     Location{Begin: positionAt(start), End: positionAt(s.end)},
	}, s.openBraces
}
