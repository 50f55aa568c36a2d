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

// Package format provides a function to write a parsed document
// back out as Markdown that parses to an equivalent document.
package format

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"zombiezen.com/go/actmd"
)

// Format writes doc's header and body to w as Markdown.
// Source formatting such as indentation, list markers and
// reference link styles is normalized.
func Format(w io.Writer, doc *actmd.Document) error {
	p := new(printer)
	p.header(doc.Header)
	if len(doc.Header) > 0 && len(doc.Body) > 0 {
		p.dst = append(p.dst, '\n')
	}
	bodyStart := len(p.dst)
	p.blocks(doc.Body)
	if len(doc.Header) == 0 && looksLikeHeader(p.dst[bodyStart:]) {
		// Keep the first line from being read as a header field.
		p.dst = append([]byte{'\n'}, p.dst...)
	}
	if _, err := w.Write(p.dst); err != nil {
		return fmt.Errorf("format markdown: %w", err)
	}
	return nil
}

type printer struct {
	dst []byte
	// htmlOpen is true while the output is in the middle of an HTML block
	// that was split around embedded code.
	htmlOpen bool
	// lineStart is true if the next inline starts a line.
	lineStart bool
}

func (p *printer) header(fields []actmd.HeaderField) {
	for _, f := range fields {
		p.dst = append(p.dst, f.Key...)
		p.dst = append(p.dst, ':')
		for i, line := range strings.Split(f.Value, "\n") {
			if i == 0 {
				if line != "" {
					p.dst = append(p.dst, ' ')
				}
			} else {
				p.dst = append(p.dst, "\n "...)
			}
			p.dst = append(p.dst, line...)
		}
		p.dst = append(p.dst, '\n')
	}
}

// looksLikeHeader reports whether the first line of body
// would be parsed as a header field or header comment.
func looksLikeHeader(body []byte) bool {
	line := body
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if bytes.HasPrefix(line, []byte("//")) {
		return true
	}
	i := bytes.IndexByte(line, ':')
	if i <= 0 {
		return false
	}
	for _, r := range string(line[:i]) {
		if !(r >= 0x80 || isAlnum(r) || strings.ContainsRune("_.-", r)) {
			return false
		}
	}
	return i+1 == len(line) || line[i+1] == ' ' || line[i+1] == '\t'
}

func (p *printer) blocks(blocks []*actmd.Block) {
	for i, b := range blocks {
		isEmbedded := b.Kind() == actmd.EmbeddedStatementBlockKind || b.Kind() == actmd.EmbeddedExpressionBlockKind
		if p.htmlOpen && (isEmbedded || b.Kind() == actmd.HTMLBlockKind) {
			p.block(b, nil)
			continue
		}
		if p.htmlOpen {
			p.dst = append(p.dst, '\n')
			p.htmlOpen = false
		}
		var prev *actmd.Block
		if i > 0 {
			p.dst = append(p.dst, '\n')
			prev = blocks[i-1]
		}
		p.block(b, prev)
	}
	if p.htmlOpen {
		p.dst = append(p.dst, '\n')
		p.htmlOpen = false
	}
}

// block writes b followed by a newline.
// prev is the preceding sibling block, if any.
func (p *printer) block(b, prev *actmd.Block) {
	switch b.Kind() {
	case actmd.ParagraphKind:
		p.lineStart = true
		p.inlines(b.Inlines())
		p.dst = append(p.dst, '\n')
	case actmd.HeadingKind:
		p.dst = append(p.dst, strings.Repeat("#", b.HeadingLevel())...)
		if len(b.Inlines()) > 0 {
			p.dst = append(p.dst, ' ')
			p.lineStart = false
			p.inlines(b.Inlines())
		}
		p.dst = append(p.dst, '\n')
	case actmd.ThematicBreakKind:
		p.dst = append(p.dst, "---\n"...)
	case actmd.CodeBlockKind:
		p.codeBlock(b)
	case actmd.QuoteKind:
		sub := new(printer)
		sub.blocks(b.Blocks())
		p.dst = prefixLines(p.dst, sub.dst, "> ", "> ")
		if len(b.Blocks()) == 0 {
			p.dst = append(p.dst, ">\n"...)
		}
	case actmd.OrderedListKind, actmd.UnorderedListKind:
		p.list(b, prev)
	case actmd.HTMLBlockKind:
		p.dst = append(p.dst, b.Text()...)
		p.htmlOpen = !strings.HasSuffix(b.Text(), "\n")
	case actmd.LinkDefKind:
		p.dst = append(p.dst, '[')
		p.dst = appendLabel(p.dst, b.Label())
		p.dst = append(p.dst, "]: "...)
		p.dst = appendDestination(p.dst, b.Destination())
		if b.Title() != "" {
			p.dst = append(p.dst, ' ')
			p.dst = appendTitle(p.dst, b.Title())
		}
		p.dst = append(p.dst, '\n')
	case actmd.EmbeddedStatementBlockKind:
		if p.htmlOpen {
			p.dst = appendStatement(p.dst, b.Text())
			return
		}
		p.statementBlock(b.Text())
	case actmd.EmbeddedExpressionBlockKind:
		p.dst = appendExpression(p.dst, b.Text())
		if !p.htmlOpen {
			p.dst = append(p.dst, '\n')
		}
	}
}

func (p *printer) statementBlock(code string) {
	switch {
	case code == "}" || code == "} else {":
		p.dst = append(p.dst, code...)
	case strings.Contains(code, "\n"):
		p.dst = append(p.dst, "@{\n"...)
		p.dst = append(p.dst, code...)
		if !strings.HasSuffix(code, "\n") {
			p.dst = append(p.dst, '\n')
		}
		p.dst = append(p.dst, '}')
	default:
		p.dst = appendStatement(p.dst, code)
	}
	p.dst = append(p.dst, '\n')
}

func (p *printer) codeBlock(b *actmd.Block) {
	fenceChar := "`"
	if strings.Contains(b.InfoString(), "`") {
		fenceChar = "~"
	}
	n := 3
	for _, line := range strings.Split(b.Text(), "\n") {
		line = strings.TrimLeft(line, " ")
		if k := len(line) - len(strings.TrimLeft(line, fenceChar)); k >= n {
			n = k + 1
		}
	}
	fence := strings.Repeat(fenceChar, n)
	p.dst = append(p.dst, fence...)
	p.dst = append(p.dst, b.InfoString()...)
	p.dst = append(p.dst, '\n')
	p.dst = append(p.dst, b.Text()...)
	if text := b.Text(); text != "" && !strings.HasSuffix(text, "\n") {
		p.dst = append(p.dst, '\n')
	}
	p.dst = append(p.dst, fence...)
	p.dst = append(p.dst, '\n')
}

// list writes a list block.
// A list that directly follows another list of the same kind
// uses a different marker so the two are not merged.
func (p *printer) list(b, prev *actmd.Block) {
	alternate := prev.Kind() == b.Kind()
	start := 1
	if b.Kind() == actmd.OrderedListKind {
		if n, err := strconv.Atoi(b.ListStart()); err == nil {
			start = n
		}
	}
	loose := isLoose(b)
	for i, item := range b.Items() {
		if i > 0 && loose {
			p.dst = append(p.dst, '\n')
		}
		var marker string
		switch {
		case b.Kind() == actmd.UnorderedListKind && alternate:
			marker = "*"
		case b.Kind() == actmd.UnorderedListKind:
			marker = "-"
		case i == 0:
			marker = b.ListStart()
		default:
			marker = strconv.Itoa(start + i)
		}
		if b.Kind() == actmd.OrderedListKind {
			if alternate {
				marker += ")"
			} else {
				marker += "."
			}
		}
		if len(item) == 0 {
			p.dst = append(p.dst, marker...)
			p.dst = append(p.dst, '\n')
			continue
		}
		sub := new(printer)
		sub.blocks(item)
		p.dst = prefixLines(p.dst, sub.dst, marker+" ", strings.Repeat(" ", len(marker)+1))
	}
}

// isLoose reports whether any item in the list has more than one paragraph.
func isLoose(list *actmd.Block) bool {
	for _, item := range list.Items() {
		n := 0
		for _, b := range item {
			if b.Kind() == actmd.ParagraphKind {
				n++
			}
		}
		if n > 1 {
			return true
		}
	}
	return false
}

// prefixLines appends each line of text to dst,
// preceded by first for the first line and rest for the others.
// Blank lines get the prefix with trailing spaces removed.
func prefixLines(dst, text []byte, first, rest string) []byte {
	text = bytes.TrimSuffix(text, []byte("\n"))
	for i, line := range bytes.Split(text, []byte("\n")) {
		prefix := rest
		if i == 0 {
			prefix = first
		}
		if len(line) == 0 {
			prefix = strings.TrimRight(prefix, " ")
		}
		dst = append(dst, prefix...)
		dst = append(dst, line...)
		dst = append(dst, '\n')
	}
	return dst
}
