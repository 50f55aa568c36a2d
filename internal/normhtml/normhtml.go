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

// Package normhtml normalizes rendered HTML so that tests can compare
// output while ignoring insignificant differences,
// in the manner of the [CommonMark test normalization].
//
// [CommonMark test normalization]: https://github.com/commonmark/commonmark-spec/blob/0.30.0/test/normalize.py
package normhtml

import (
	"bytes"
	"regexp"
	"sort"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Options controls normalization.
type Options struct {
	// If DropComments is true, comments are removed from the output.
	// Embedded code rendered as comments is then ignored in comparisons.
	DropComments bool
}

// NormalizeHTML strips insignificant output differences from HTML.
func NormalizeHTML(b []byte) []byte {
	return new(Options).Normalize(b)
}

// NormalizeString is [NormalizeHTML] for strings.
func NormalizeString(s string) string {
	return string(NormalizeHTML([]byte(s)))
}

// Normalize strips insignificant output differences from HTML.
func (opts *Options) Normalize(b []byte) []byte {
	n := &normalizer{
		opts: opts,
		tok:  html.NewTokenizerFragment(bytes.NewReader(b), "div"),
		last: html.StartTagToken,
	}
	for {
		tt := n.tok.Next()
		switch tt {
		case html.ErrorToken:
			return n.out
		case html.TextToken:
			n.text()
		case html.EndTagToken:
			n.endTag()
		case html.StartTagToken, html.SelfClosingTagToken:
			n.startTag()
		case html.CommentToken:
			if !opts.DropComments {
				n.out = append(n.out, n.tok.Raw()...)
			}
		}
		n.last = tt
		if tt == html.SelfClosingTagToken {
			n.last = html.EndTagToken
		}
	}
}

var whitespaceRE = regexp.MustCompile(`\s+`)

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

type normalizer struct {
	opts    *Options
	tok     *html.Tokenizer
	out     []byte
	last    html.TokenType
	lastTag []byte
	inPre   bool
}

func (n *normalizer) text() {
	data := bytes.Clone(n.tok.Text())
	afterTag := n.last == html.EndTagToken || n.last == html.StartTagToken
	if afterTag && atom.Lookup(n.lastTag) == atom.Br {
		data = bytes.TrimLeft(data, "\n")
	}
	if !n.inPre {
		data = whitespaceRE.ReplaceAll(data, []byte(" "))
		if afterTag && isBlockTag(n.lastTag) {
			switch n.last {
			case html.StartTagToken:
				data = bytes.TrimLeftFunc(data, unicode.IsSpace)
			case html.EndTagToken:
				data = bytes.TrimSpace(data)
			}
		}
	}
	n.out = append(n.out, htmlEscaper.Replace(data)...)
}

func (n *normalizer) endTag() {
	tag, _ := n.tok.TagName()
	if atom.Lookup(tag) == atom.Pre {
		n.inPre = false
	} else if isBlockTag(tag) {
		n.out = bytes.TrimRightFunc(n.out, unicode.IsSpace)
	}
	n.out = append(n.out, "</"...)
	n.out = append(n.out, tag...)
	n.out = append(n.out, '>')
	n.lastTag = append(n.lastTag[:0], tag...)
}

func (n *normalizer) startTag() {
	type attribute struct {
		key   string
		value string
	}

	tag, hasAttr := n.tok.TagName()
	if atom.Lookup(tag) == atom.Pre {
		n.inPre = true
	}
	if isBlockTag(tag) {
		n.out = bytes.TrimRightFunc(n.out, unicode.IsSpace)
	}
	n.out = append(n.out, '<')
	n.out = append(n.out, tag...)
	n.lastTag = append(n.lastTag[:0], tag...)
	var attrs []attribute
	for more := hasAttr; more; {
		var k, v []byte
		k, v, more = n.tok.TagAttr()
		attrs = append(attrs, attribute{string(k), string(v)})
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].key < attrs[j].key
	})
	for _, attr := range attrs {
		n.out = append(n.out, ' ')
		n.out = append(n.out, attr.key...)
		if attr.value != "" {
			n.out = append(n.out, `="`...)
			n.out = append(n.out, html.EscapeString(attr.value)...)
			n.out = append(n.out, '"')
		}
	}
	n.out = append(n.out, '>')
}

// blockTags is the set of elements around which whitespace is insignificant.
var blockTags = map[atom.Atom]bool{
	atom.Article:    true,
	atom.Aside:      true,
	atom.Blockquote: true,
	atom.Body:       true,
	atom.Button:     true,
	atom.Canvas:     true,
	atom.Caption:    true,
	atom.Col:        true,
	atom.Colgroup:   true,
	atom.Dd:         true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Dt:         true,
	atom.Embed:      true,
	atom.Fieldset:   true,
	atom.Figcaption: true,
	atom.Figure:     true,
	atom.Footer:     true,
	atom.Form:       true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Header:     true,
	atom.Hgroup:     true,
	atom.Hr:         true,
	atom.Iframe:     true,
	atom.Li:         true,
	atom.Map:        true,
	atom.Object:     true,
	atom.Ol:         true,
	atom.Output:     true,
	atom.P:          true,
	atom.Pre:        true,
	atom.Progress:   true,
	atom.Script:     true,
	atom.Section:    true,
	atom.Style:      true,
	atom.Table:      true,
	atom.Tbody:      true,
	atom.Td:         true,
	atom.Textarea:   true,
	atom.Tfoot:      true,
	atom.Th:         true,
	atom.Thead:      true,
	atom.Tr:         true,
	atom.Ul:         true,
	atom.Video:      true,
}

func isBlockTag(tag []byte) bool {
	return blockTags[atom.Lookup(tag)]
}
