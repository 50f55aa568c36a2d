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

// Package htmlrender converts parsed actmd documents into HTML.
package htmlrender

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go4.org/bytereplacer"
	"golang.org/x/net/html/atom"
	"zombiezen.com/go/actmd"
)

// A Renderer converts parsed documents into HTML.
//
// # Security considerations
//
// Documents may contain [raw HTML], which can introduce
// [Cross-Site Scripting (XSS)] vulnerabilities and [HTML parse errors]
// when used with untrusted inputs.
// There are a few options to mitigate this risk:
//
//   - The resulting HTML can be sent through an HTML sanitizer.
//     This is highly recommended.
//   - Set IgnoreRaw to prevent inclusion of raw HTML.
//     This eliminates any raw HTML usage,
//     so the output is guaranteed to use a fixed set of elements
//     and avoid parse errors.
//     However, this can lead to content being omitted from the document entirely,
//     which may be surprising to end-users for legitimate use cases.
//   - FilterTag can be used to prevent some tags from being used
//     while still showing the source text.
//     Note that this does not prevent parse errors.
//     For untrusted inputs, this technique should be combined with sanitization.
//
// [Cross-Site Scripting (XSS)]: https://owasp.org/www-community/attacks/xss/
// [HTML parse errors]: https://html.spec.whatwg.org/multipage/parsing.html#parse-errors
// [raw HTML]: https://spec.commonmark.org/0.30/#raw-html
type Renderer struct {
	// ReferenceMap holds the link reference definitions used to resolve
	// [actmd.LinkRefKind] and [actmd.ImageRefKind] nodes.
	// If nil, the definitions in the rendered document are used.
	ReferenceMap actmd.ReferenceMap
	// SoftBreakBehavior determines how soft line breaks are rendered.
	SoftBreakBehavior SoftBreakBehavior
	// If IgnoreRaw is true, the renderer skips any HTML blocks or raw HTML.
	IgnoreRaw bool
	// FilterTag is a predicate function
	// that reports whether an element with the given lowercased tag name
	// should have its leading angle bracket escaped.
	// If FilterTag is nil, then no filtering will occur.
	//
	// FilterTag functions must not modify the byte slice
	// nor retain the slice after the function returns.
	FilterTag func(tag []byte) bool
	// Embedded appends the output for a piece of embedded code.
	// If Embedded is nil, embedded code is omitted.
	Embedded EmbeddedFunc
}

// EmbeddedFunc appends the rendering of embedded code to dst
// and returns the resulting byte slice.
// expression is true for code whose value is written to the output.
type EmbeddedFunc func(dst []byte, code string, expression bool) []byte

// EmbeddedAsComment is an [EmbeddedFunc] that keeps embedded code
// in the output as HTML comments.
func EmbeddedAsComment(dst []byte, code string, expression bool) []byte {
	code = strings.ReplaceAll(code, "--", "- -")
	if expression {
		return append(append(append(dst, "<!--@("...), code...), ")-->"...)
	}
	return append(append(append(dst, "<!--@{"...), code...), "}-->"...)
}

// Render writes the body of doc to w as HTML
// using the default options for [Renderer].
func Render(w io.Writer, doc *actmd.Document) error {
	return new(Renderer).Render(w, doc)
}

// Render writes the body of doc to w as HTML.
// It will return the first error encountered, if any.
func (r *Renderer) Render(w io.Writer, doc *actmd.Document) error {
	refMap := r.ReferenceMap
	if refMap == nil {
		refMap = make(actmd.ReferenceMap)
		refMap.Extract(doc.Body)
	}
	state := &renderState{Renderer: r, refMap: refMap}
	for _, b := range doc.Body {
		state.dst = state.dst[:0]
		state.block(b, false)
		if _, err := w.Write(state.dst); err != nil {
			return fmt.Errorf("render markdown to html: %w", err)
		}
	}
	return nil
}

// AppendBlock appends the rendered HTML of a block to dst
// and returns the resulting byte slice.
func (r *Renderer) AppendBlock(dst []byte, block *actmd.Block) []byte {
	state := &renderState{Renderer: r, refMap: r.ReferenceMap, dst: dst}
	state.block(block, false)
	return state.dst
}

type renderState struct {
	*Renderer
	refMap   actmd.ReferenceMap
	dst      []byte
	lowerBuf []byte
}

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

func (r *renderState) text(s string) {
	r.dst = append(r.dst, htmlEscaper.Replace([]byte(s))...)
}

func (r *renderState) openTagAttr(name atom.Atom) {
	start := len(r.dst)
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, name.String()...)
	if r.FilterTag != nil && r.FilterTag(r.dst[start+1:]) {
		r.dst = r.dst[:start]
		r.dst = append(r.dst, "&lt;"...)
		r.dst = append(r.dst, name.String()...)
	}
}

func (r *renderState) openTag(name atom.Atom) {
	r.openTagAttr(name)
	r.dst = append(r.dst, '>')
}

func (r *renderState) closeTag(name atom.Atom) {
	start := len(r.dst)
	r.dst = append(r.dst, "</"...)
	r.dst = append(r.dst, name.String()...)
	if r.FilterTag != nil && r.FilterTag(r.dst[start+2:]) {
		r.dst = r.dst[:start]
		r.dst = append(r.dst, "&lt;/"...)
		r.dst = append(r.dst, name.String()...)
	}
	r.dst = append(r.dst, '>')
}

func (r *renderState) attr(name, value string) {
	r.dst = append(r.dst, ' ')
	r.dst = append(r.dst, name...)
	r.dst = append(r.dst, `="`...)
	r.text(value)
	r.dst = append(r.dst, '"')
}

var headingTags = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// block renders a block followed by a newline.
// In a tight list, paragraphs are rendered without their tags.
func (r *renderState) block(block *actmd.Block, tight bool) {
	switch block.Kind() {
	case actmd.ParagraphKind:
		if !tight {
			r.openTag(atom.P)
		}
		r.inlines(block.Inlines())
		if !tight {
			r.closeTag(atom.P)
		}
	case actmd.ThematicBreakKind:
		r.openTagAttr(atom.Hr)
		r.dst = append(r.dst, " />"...)
	case actmd.HeadingKind:
		tagName := headingTags[block.HeadingLevel()-1]
		r.openTag(tagName)
		r.inlines(block.Inlines())
		r.closeTag(tagName)
	case actmd.CodeBlockKind:
		r.openTag(atom.Pre)
		r.openTagAttr(atom.Code)
		if words := strings.Fields(block.InfoString()); len(words) > 0 {
			r.attr("class", "language-"+words[0])
		}
		r.dst = append(r.dst, ">"...)
		r.text(block.Text())
		r.closeTag(atom.Code)
		r.closeTag(atom.Pre)
	case actmd.QuoteKind:
		r.openTag(atom.Blockquote)
		r.dst = append(r.dst, '\n')
		for _, c := range block.Blocks() {
			r.block(c, false)
		}
		r.closeTag(atom.Blockquote)
	case actmd.OrderedListKind, actmd.UnorderedListKind:
		r.list(block)
	case actmd.HTMLBlockKind:
		if !r.IgnoreRaw {
			r.raw(block.Text())
		}
		return
	case actmd.EmbeddedStatementBlockKind, actmd.EmbeddedExpressionBlockKind:
		if r.Embedded != nil {
			r.dst = r.Embedded(r.dst, block.Text(), block.Kind() == actmd.EmbeddedExpressionBlockKind)
		}
		return
	default:
		return
	}
	r.dst = append(r.dst, '\n')
}

func (r *renderState) list(block *actmd.Block) {
	tagName := atom.Ul
	if block.Kind() == actmd.OrderedListKind {
		tagName = atom.Ol
		r.openTagAttr(tagName)
		if n, err := strconv.Atoi(block.ListStart()); err == nil && n != 1 {
			r.attr("start", strconv.Itoa(n))
		}
		r.dst = append(r.dst, '>')
	} else {
		r.openTag(tagName)
	}
	r.dst = append(r.dst, '\n')
	tight := isTight(block)
	for _, item := range block.Items() {
		r.openTag(atom.Li)
		for i, c := range item {
			if i == 0 && (!tight || c.Kind() != actmd.ParagraphKind) {
				r.dst = append(r.dst, '\n')
			}
			r.block(c, tight)
		}
		if n := len(r.dst); tight && n > 0 && r.dst[n-1] == '\n' && len(item) > 0 && item[len(item)-1].Kind() == actmd.ParagraphKind {
			r.dst = r.dst[:n-1]
		}
		r.closeTag(atom.Li)
		r.dst = append(r.dst, '\n')
	}
	r.closeTag(tagName)
}

// isTight reports whether no item in the list has more than one paragraph.
func isTight(list *actmd.Block) bool {
	for _, item := range list.Items() {
		n := 0
		for _, b := range item {
			if b.Kind() == actmd.ParagraphKind {
				n++
			}
		}
		if n > 1 {
			return false
		}
	}
	return true
}

func (r *renderState) inlines(inlines []*actmd.Inline) {
	for _, c := range inlines {
		r.inline(c)
	}
}

func (r *renderState) inline(inline *actmd.Inline) {
	const hardLineBreak = "<br />\n"
	switch inline.Kind() {
	case actmd.PlainKind:
		r.text(inline.Text())
	case actmd.RawHTMLKind:
		if !r.IgnoreRaw {
			r.raw(inline.Text())
		}
	case actmd.SoftBreakKind:
		switch r.SoftBreakBehavior {
		case SoftBreakHarden:
			r.dst = append(r.dst, hardLineBreak...)
		case SoftBreakSpace:
			r.dst = append(r.dst, ' ')
		default:
			r.dst = append(r.dst, '\n')
		}
	case actmd.HardBreakKind:
		r.dst = append(r.dst, hardLineBreak...)
	case actmd.EmphasisKind:
		r.openTag(atom.Em)
		r.inlines(inline.Children())
		r.closeTag(atom.Em)
	case actmd.StrongKind:
		r.openTag(atom.Strong)
		r.inlines(inline.Children())
		r.closeTag(atom.Strong)
	case actmd.CodeSpanKind:
		r.openTag(atom.Code)
		r.text(inline.Text())
		r.closeTag(atom.Code)
	case actmd.LinkKind:
		r.link(inline, actmd.LinkDefinition{
			Destination: inline.Destination(),
			Title:       inline.Title(),
		})
	case actmd.ImageKind:
		r.image(inline, actmd.LinkDefinition{
			Destination: inline.Destination(),
			Title:       inline.Title(),
		})
	case actmd.LinkRefKind, actmd.ImageRefKind:
		def, ok := r.refMap.Resolve(inline)
		switch {
		case !ok:
			r.unresolved(inline)
		case inline.Kind() == actmd.LinkRefKind:
			r.link(inline, def)
		default:
			r.image(inline, def)
		}
	case actmd.EmbeddedStatementKind, actmd.EmbeddedExpressionKind:
		if r.Embedded != nil {
			r.dst = r.Embedded(r.dst, inline.Text(), inline.Kind() == actmd.EmbeddedExpressionKind)
		}
	}
}

func (r *renderState) link(inline *actmd.Inline, def actmd.LinkDefinition) {
	r.openTagAttr(atom.A)
	r.attr("href", NormalizeURI(def.Destination))
	if def.Title != "" {
		r.attr("title", def.Title)
	}
	r.dst = append(r.dst, ">"...)
	r.inlines(inline.LinkText())
	r.closeTag(atom.A)
}

func (r *renderState) image(inline *actmd.Inline, def actmd.LinkDefinition) {
	r.openTagAttr(atom.Img)
	r.attr("src", NormalizeURI(def.Destination))
	r.attr("alt", plainText(inline.LinkText()))
	if def.Title != "" {
		r.attr("title", def.Title)
	}
	r.dst = append(r.dst, " />"...)
}

// unresolved renders a reference without a matching definition
// as the text it was written with.
func (r *renderState) unresolved(inline *actmd.Inline) {
	if inline.Kind() == actmd.ImageRefKind {
		r.dst = append(r.dst, '!')
	}
	r.dst = append(r.dst, '[')
	r.inlines(inline.LinkText())
	r.dst = append(r.dst, ']')
	if len(inline.Children()) > 0 {
		r.dst = append(r.dst, '[')
		r.text(inline.Label())
		r.dst = append(r.dst, ']')
	}
}

// plainText returns the text content of a sequence of inlines,
// as used for image descriptions.
func plainText(inlines []*actmd.Inline) string {
	sb := new(strings.Builder)
	stack := make([]*actmd.Inline, 0, len(inlines))
	for i := len(inlines) - 1; i >= 0; i-- {
		stack = append(stack, inlines[i])
	}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch curr.Kind() {
		case actmd.PlainKind, actmd.CodeSpanKind:
			sb.WriteString(curr.Text())
		case actmd.SoftBreakKind, actmd.HardBreakKind:
			sb.WriteByte(' ')
		default:
			children := curr.Children()
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}
	}
	return sb.String()
}

func (r *renderState) raw(s string) {
	if r.FilterTag == nil {
		r.dst = append(r.dst, s...)
		return
	}
	r.filterRaw([]byte(s))
}

// SoftBreakBehavior is an enumeration of rendering styles for [soft line breaks].
//
// [soft line breaks]: https://spec.commonmark.org/0.30/#soft-line-breaks
type SoftBreakBehavior int

const (
	// SoftBreakPreserve indicates that a soft line break should be rendered as a newline.
	SoftBreakPreserve SoftBreakBehavior = iota
	// SoftBreakSpace indicates that a soft line break should be rendered as a space.
	SoftBreakSpace
	// SoftBreakHarden indicates that a soft line break should be rendered as a hard line break.
	SoftBreakHarden
)

func (b SoftBreakBehavior) String() string {
	switch b {
	case SoftBreakPreserve:
		return "preserve"
	case SoftBreakSpace:
		return "space"
	case SoftBreakHarden:
		return "harden"
	default:
		return fmt.Sprintf("SoftBreakBehavior(%d)", int(b))
	}
}

// ParseSoftBreakBehavior returns the behavior with the given name
// as returned by [SoftBreakBehavior.String].
func ParseSoftBreakBehavior(s string) (SoftBreakBehavior, error) {
	for b := SoftBreakPreserve; b <= SoftBreakHarden; b++ {
		if s == b.String() {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown soft break behavior %q", s)
}
