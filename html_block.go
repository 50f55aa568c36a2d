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
	"bytes"
	"strings"

	"golang.org/x/net/html/atom"
)

// htmlBlockCondition is one of the seven kinds of [HTML block],
// numbered as in CommonMark.
//
// [HTML block]: https://spec.commonmark.org/0.30/#html-blocks
type htmlBlockCondition int

const (
	htmlBlockRawText     htmlBlockCondition = 1
	htmlBlockComment     htmlBlockCondition = 2
	htmlBlockProcessing  htmlBlockCondition = 3
	htmlBlockDeclaration htmlBlockCondition = 4
	htmlBlockCDATA       htmlBlockCondition = 5
	htmlBlockKnownTag    htmlBlockCondition = 6
	htmlBlockAnyTag      htmlBlockCondition = 7
)

// endMarkers returns the strings that end a block
// started by a condition that ends on the line containing them.
func (cond htmlBlockCondition) endMarkers() []string {
	switch cond {
	case htmlBlockRawText:
		return []string{"</pre>", "</script>", "</style>", "</textarea>"}
	case htmlBlockComment:
		return []string{"-->"}
	case htmlBlockProcessing:
		return []string{"?>"}
	case htmlBlockDeclaration:
		return []string{">"}
	case htmlBlockCDATA:
		return []string{"]]>"}
	default:
		return nil
	}
}

var rawTextTags = []string{"pre", "script", "style", "textarea"}

// blockTags is the set of tag names that start a
// condition 6 HTML block.
var blockTags = map[atom.Atom]bool{
	atom.Address:    true,
	atom.Article:    true,
	atom.Aside:      true,
	atom.Base:       true,
	atom.Basefont:   true,
	atom.Blockquote: true,
	atom.Body:       true,
	atom.Caption:    true,
	atom.Center:     true,
	atom.Col:        true,
	atom.Colgroup:   true,
	atom.Dd:         true,
	atom.Details:    true,
	atom.Dialog:     true,
	atom.Dir:        true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Dt:         true,
	atom.Fieldset:   true,
	atom.Figcaption: true,
	atom.Figure:     true,
	atom.Footer:     true,
	atom.Form:       true,
	atom.Frame:      true,
	atom.Frameset:   true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Head:       true,
	atom.Header:     true,
	atom.Hr:         true,
	atom.Html:       true,
	atom.Iframe:     true,
	atom.Legend:     true,
	atom.Li:         true,
	atom.Link:       true,
	atom.Main:       true,
	atom.Menu:       true,
	atom.Menuitem:   true,
	atom.Meta:       true,
	atom.Nav:        true,
	atom.Noframes:   true,
	atom.Ol:         true,
	atom.Optgroup:   true,
	atom.Option:     true,
	atom.P:          true,
	atom.Param:      true,
	atom.Section:    true,
	atom.Source:     true,
	atom.Summary:    true,
	atom.Table:      true,
	atom.Tbody:      true,
	atom.Td:         true,
	atom.Tfoot:      true,
	atom.Th:         true,
	atom.Thead:      true,
	atom.Title:      true,
	atom.Tr:         true,
	atom.Track:      true,
	atom.Ul:         true,
}

// htmlBlockStart returns the kind of HTML block that starts at the cursor
// or zero if none does. The cursor is not moved.
func htmlBlockStart(c cursor) htmlBlockCondition {
	t := begin(c)
	defer t.rollback()
	start := t.pos()
	if !skip(t, char('<')) {
		return 0
	}
	switch {
	case skipSeq(t, "!--"):
		return htmlBlockComment
	case skipSeq(t, "![CDATA["):
		return htmlBlockCDATA
	case skip(t, char('!')):
		if lookingAt(t, predicate(isASCIILetter)) {
			return htmlBlockDeclaration
		}
		return 0
	case skip(t, char('?')):
		return htmlBlockProcessing
	}

	closing := skip(t, char('/'))
	if !lookingAt(t, predicate(isASCIILetter)) {
		return 0
	}
	var name []byte
	copyAll(t, &name, predicate(func(r rune) bool { return isASCIIAlnum(r) || r == '-' }))
	name = bytes.ToLower(name)
	r := t.peek()
	endsName := r == eof || whitespace.match(r) || r == '>'
	if !closing && endsName {
		for _, tag := range rawTextTags {
			if string(name) == tag {
				return htmlBlockRawText
			}
		}
	}
	if blockTags[atom.Lookup(name)] && (endsName || skipSeq(t, "/>")) {
		return htmlBlockKnownTag
	}

	mustReset(t, start)
	if completeTagLine(t) {
		return htmlBlockAnyTag
	}
	return 0
}

// completeTagLine reports whether the line at the cursor
// is a complete open or closing tag followed only by whitespace.
func completeTagLine(c cursor) bool {
	t := begin(c)
	defer t.rollback()
	lineStart := t.pos()
	skipAll(t, predicate(func(r rune) bool { return !isNewline(r) }))
	lineEnd := t.pos()
	mustReset(t, lineStart)

	line := &lineStop{cursor: t, end: lineEnd}
	h := newHTMLScanner(line, false)
	h.copy()
	var ok bool
	if line.peek() == '/' {
		ok = h.closingTag()
	} else {
		ok = h.openTag()
	}
	skipAll(line, lineSpace)
	return ok && line.peek() == eof
}

// htmlBlock parses an [HTML block].
// indent is the number of spaces before the '<', which are kept in the content.
// With embedded code enabled, a block that ends at a blank line
// is split into HTML and embedded code blocks,
// and ends early at a line that starts with '@' or closes an embedded brace.
//
// [HTML block]: https://spec.commonmark.org/0.30/#html-blocks
func (p *blockParser) htmlBlock(c cursor, indent int) []*Block {
	cond := htmlBlockStart(c)
	if cond == 0 {
		return nil
	}
	buf := []byte(strings.Repeat(" ", indent))
	if cond == htmlBlockKnownTag || cond == htmlBlockAnyTag {
		return p.htmlUntilBlankLine(c, buf)
	}

	start := c.pos()
	markers := cond.endMarkers()
	notNewline := predicate(func(r rune) bool { return !isNewline(r) })
	for {
		lineStart := len(buf)
		copyAll(c, &buf, notNewline)
		done := containsAnyFold(buf[lineStart:], markers)
		if !skipNewline(c) {
			if len(buf) > 0 && !done {
				p.log.Debug("HTML block runs to end of input", "offset", start)
			}
			break
		}
		buf = append(buf, '\n')
		if done || c.peek() == eof {
			break
		}
	}
	if len(buf) > 0 && buf[len(buf)-1] != '\n' {
		buf = append(buf, '\n')
	}
	return []*Block{{
		kind: HTMLBlockKind,
		text: string(buf),
		loc:  Location{Begin: positionAt(start), End: positionAt(c.pos())},
	}}
}

func (p *blockParser) htmlUntilBlankLine(c cursor, buf []byte) []*Block {
	embedded := c.settings().Has(Embedded)
	var blocks []*Block
	partStart := c.pos()
	emit := func(end int) {
		if len(buf) == 0 {
			return
		}
		blocks = append(blocks, &Block{
			kind: HTMLBlockKind,
			text: string(buf),
			loc:  Location{Begin: positionAt(partStart), End: positionAt(end)},
		})
		buf = nil
	}

loop:
	for {
		switch r := c.peek(); {
		case r == eof:
			if len(buf) > 0 && buf[len(buf)-1] != '\n' {
				buf = append(buf, '\n')
			}
			break loop
		case isNewline(r):
			skipNewline(c)
			buf = append(buf, '\n')
			lineStart := c.pos()
			skipAll(c, lineSpace)
			blank := atLineEnd(c)
			mustReset(c, lineStart)
			if blank {
				break loop
			}
			if embedded && (c.peek() == '@' || p.openBraces > 0 && c.peek() == '}') {
				break loop
			}
		case r == '@' && embedded:
			at := c.pos()
			c.advance()
			if skip(c, char('@')) {
				buf = append(buf, '@')
				continue
			}
			node, braces := scanEmbedded(c, at, false)
			if node == nil {
				buf = append(buf, '@')
				continue
			}
			emit(at)
			b := &Block{kind: EmbeddedStatementBlockKind, text: node.text, loc: node.loc}
			if node.kind == EmbeddedExpressionKind {
				b.kind = EmbeddedExpressionBlockKind
			}
			blocks = append(blocks, b)
			p.openBraces += braces
			partStart = c.pos()
		default:
			buf = append(buf, string(r)...)
			c.advance()
		}
	}
	emit(c.pos())
	return blocks
}

// containsAnyFold reports whether line contains any of the markers,
// ignoring ASCII case.
func containsAnyFold(line []byte, markers []string) bool {
	lower := bytes.ToLower(line)
	for _, m := range markers {
		if bytes.Contains(lower, []byte(m)) {
			return true
		}
	}
	return false
}
