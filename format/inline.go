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

package format

import (
	"strings"

	"zombiezen.com/go/actmd"
)

func (p *printer) inlines(list []*actmd.Inline) {
	for i, inline := range list {
		if inline.Kind() == actmd.PlainKind && i+1 < len(list) {
			if k := list[i+1].Kind(); k == actmd.LinkKind || k == actmd.LinkRefKind {
				// Keep "!" followed by a link from becoming an image.
				text := inline.Text()
				if strings.HasSuffix(text, "!") {
					p.text(text[:len(text)-1])
					p.dst = append(p.dst, `\!`...)
					continue
				}
			}
		}
		p.inline(inline)
	}
}

func (p *printer) inline(inline *actmd.Inline) {
	switch inline.Kind() {
	case actmd.PlainKind:
		p.text(inline.Text())
	case actmd.RawHTMLKind:
		p.dst = append(p.dst, inline.Text()...)
		p.lineStart = strings.HasSuffix(inline.Text(), "\n")
	case actmd.CodeSpanKind:
		p.dst = appendCodeSpan(p.dst, inline.Text())
		p.lineStart = false
	case actmd.SoftBreakKind:
		p.dst = append(p.dst, '\n')
		p.lineStart = true
	case actmd.HardBreakKind:
		p.dst = append(p.dst, "\\\n"...)
		p.lineStart = true
	case actmd.EmphasisKind:
		p.dst = append(p.dst, '*')
		p.lineStart = false
		p.inlines(inline.Children())
		p.dst = append(p.dst, '*')
	case actmd.StrongKind:
		p.dst = append(p.dst, "**"...)
		p.lineStart = false
		p.inlines(inline.Children())
		p.dst = append(p.dst, "**"...)
	case actmd.LinkKind, actmd.ImageKind:
		p.linkText(inline)
		p.dst = append(p.dst, '(')
		p.dst = appendDestination(p.dst, inline.Destination())
		if inline.Title() != "" {
			p.dst = append(p.dst, ' ')
			p.dst = appendTitle(p.dst, inline.Title())
		}
		p.dst = append(p.dst, ')')
	case actmd.LinkRefKind, actmd.ImageRefKind:
		if len(inline.Children()) == 0 {
			// Shortcut references are written as collapsed references.
			if inline.Kind() == actmd.ImageRefKind {
				p.dst = append(p.dst, '!')
			}
			p.dst = append(p.dst, '[')
			p.dst = append(p.dst, inline.Label()...)
			p.dst = append(p.dst, "][]"...)
			p.lineStart = false
			break
		}
		p.linkText(inline)
		p.dst = append(p.dst, '[')
		p.dst = appendLabel(p.dst, inline.Label())
		p.dst = append(p.dst, ']')
	case actmd.EmbeddedStatementKind:
		code := inline.Text()
		switch {
		case code == "}" || code == "} else {":
			p.dst = append(p.dst, code...)
		case isLineComment(code) || isControlHead(code):
			p.dst = append(p.dst, '@')
			p.dst = append(p.dst, code...)
		default:
			p.dst = appendStatement(p.dst, code)
		}
		p.lineStart = strings.HasSuffix(code, "\n")
	case actmd.EmbeddedExpressionKind:
		p.dst = appendExpression(p.dst, inline.Text())
		p.lineStart = false
	}
}

func (p *printer) linkText(inline *actmd.Inline) {
	if k := inline.Kind(); k == actmd.ImageKind || k == actmd.ImageRefKind {
		p.dst = append(p.dst, '!')
	}
	p.dst = append(p.dst, '[')
	p.lineStart = false
	p.inlines(inline.Children())
	p.dst = append(p.dst, ']')
}

// text appends plain text with Markdown syntax characters escaped.
func (p *printer) text(s string) {
	if s == "" {
		return
	}
	i := 0
	if p.lineStart {
		// Block markers only matter at the start of a line.
		switch s[0] {
		case '-', '+', '~', '=':
			p.dst = append(p.dst, '\\', s[0])
			i = 1
		default:
			n := 0
			for n < len(s) && '0' <= s[n] && s[n] <= '9' {
				n++
			}
			if n > 0 && n < len(s) && (s[n] == '.' || s[n] == ')') {
				p.dst = append(p.dst, s[:n]...)
				p.dst = append(p.dst, '\\', s[n])
				i = n + 1
			}
		}
		p.lineStart = false
	}
	for ; i < len(s); i++ {
		if strings.IndexByte("\\`*_[]<>&#@}", s[i]) >= 0 {
			p.dst = append(p.dst, '\\')
		}
		p.dst = append(p.dst, s[i])
	}
}

func appendCodeSpan(dst []byte, code string) []byte {
	longest, run := 0, 0
	for i := 0; i < len(code); i++ {
		if code[i] == '`' {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}
	fence := strings.Repeat("`", longest+1)
	pad := strings.HasPrefix(code, "`") || strings.HasSuffix(code, "`") ||
		strings.HasPrefix(code, " ") && strings.HasSuffix(code, " ") && strings.Trim(code, " ") != ""
	dst = append(dst, fence...)
	if pad {
		dst = append(dst, ' ')
	}
	dst = append(dst, code...)
	if pad {
		dst = append(dst, ' ')
	}
	return append(dst, fence...)
}

// appendDestination appends a link destination,
// using the angle-bracket form if the destination is empty or has spaces.
func appendDestination(dst []byte, dest string) []byte {
	if dest == "" || strings.ContainsAny(dest, " \t<>") || strings.IndexFunc(dest, isControl) >= 0 {
		dst = append(dst, '<')
		dst = appendEscaped(dst, dest, `\<>&`)
		return append(dst, '>')
	}
	return appendEscaped(dst, dest, `\()&`)
}

func appendTitle(dst []byte, title string) []byte {
	dst = append(dst, '"')
	dst = appendEscaped(dst, title, `\"&`)
	return append(dst, '"')
}

func appendLabel(dst []byte, label string) []byte {
	return appendEscaped(dst, label, `[]`)
}

func appendStatement(dst []byte, code string) []byte {
	dst = append(dst, "@{"...)
	dst = append(dst, code...)
	return append(dst, '}')
}

func appendExpression(dst []byte, code string) []byte {
	dst = append(dst, "@("...)
	dst = append(dst, code...)
	return append(dst, ')')
}

func appendEscaped(dst []byte, s, special string) []byte {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			dst = append(dst, '\\')
		}
		dst = append(dst, s[i])
	}
	return dst
}

// isLineComment reports whether code is a "//" comment
// that was terminated by the end of its line.
func isLineComment(code string) bool {
	return strings.HasPrefix(code, "//") && strings.HasSuffix(code, "\n")
}

// isControlHead reports whether code is the head of a control statement
// like "if x {" that leaves braces open.
func isControlHead(code string) bool {
	word, _, _ := strings.Cut(code, " ")
	switch word {
	case "if", "for", "while", "loop":
	default:
		return false
	}
	return strings.Count(code, "{") > strings.Count(code, "}")
}

func isAlnum(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9'
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
