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

package htmlrender

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/atom"
)

const (
	htmlCommentPrefix           = "<!--"
	htmlCommentSuffix           = "-->"
	processingInstructionPrefix = "<?"
	processingInstructionSuffix = "?>"
	cdataPrefix                 = "<![CDATA["
	cdataSuffix                 = "]]>"
)

// filterRaw performs the tag filtering
// described in https://github.github.com/gfm/#disallowed-raw-html-extension-.
//
// It cannot use a conventional HTML parser,
// since raw HTML in Markdown may be incomplete or start in the middle of a tag.
func (r *renderState) filterRaw(rawHTML []byte) {
	const (
		copyState = iota
		commentState
		piState
		declState
		cdataState
	)
	state := copyState
	copyStart := 0
	for i := 0; i < len(rawHTML); {
		switch state {
		case copyState:
			if rawHTML[i] != '<' {
				i++
				continue
			}
			switch rest := rawHTML[i:]; {
			case bytes.HasPrefix(rest, []byte(cdataPrefix)):
				state = cdataState
				i += len(cdataPrefix)
			case bytes.HasPrefix(rest, []byte(htmlCommentPrefix)):
				state = commentState
				i += len(htmlCommentPrefix)
			case bytes.HasPrefix(rest, []byte(processingInstructionPrefix)):
				state = piState
				i += len(processingInstructionPrefix)
			case hasHTMLDeclarationPrefix(rest):
				state = declState
				i += len("<!x")
			default:
				tagNameStart := i + 1
				if tagNameStart < len(rawHTML) && rawHTML[tagNameStart] == '/' {
					tagNameStart++
				}
				tagEnd := len(rawHTML)
				if j := bytes.IndexByte(rawHTML[tagNameStart:], '>'); j >= 0 {
					tagEnd = tagNameStart + j + len(">")
				}
				tagNameEnd := tagNameStart + htmlTagNameEnd(rawHTML[tagNameStart:tagEnd])
				if tagNameEnd > tagNameStart {
					tagName := maybeLower(rawHTML[tagNameStart:tagNameEnd], &r.lowerBuf)
					if r.FilterTag(tagName) {
						r.dst = append(r.dst, rawHTML[copyStart:i]...)
						r.dst = append(r.dst, "&lt;"...)
						r.dst = append(r.dst, rawHTML[i+1:tagEnd]...)
						copyStart = tagEnd
					}
				}
				i = tagEnd
			}
		case commentState:
			if bytes.HasPrefix(rawHTML[i:], []byte(htmlCommentSuffix)) {
				state = copyState
				i += len(htmlCommentSuffix)
			} else {
				i++
			}
		case piState:
			if bytes.HasPrefix(rawHTML[i:], []byte(processingInstructionSuffix)) {
				state = copyState
				i += len(processingInstructionSuffix)
			} else {
				i++
			}
		case declState:
			if rawHTML[i] == '>' {
				state = copyState
			}
			i++
		case cdataState:
			if bytes.HasPrefix(rawHTML[i:], []byte(cdataSuffix)) {
				state = copyState
				i += len(cdataSuffix)
			} else {
				i++
			}
		default:
			panic("unreachable")
		}
	}

	r.dst = append(r.dst, rawHTML[copyStart:]...)
}

func hasHTMLDeclarationPrefix(b []byte) bool {
	return len(b) >= 3 && b[0] == '<' && b[1] == '!' && isASCIILetter(b[2])
}

// htmlTagNameEnd returns the length of the tag name at the start of b.
func htmlTagNameEnd(b []byte) int {
	if len(b) == 0 || !isASCIILetter(b[0]) {
		return 0
	}
	i := 1
	for i < len(b) && (isASCIILetter(b[i]) || '0' <= b[i] && b[i] <= '9' || b[i] == '-') {
		i++
	}
	return i
}

func isASCIILetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func maybeLower(x []byte, buf *[]byte) []byte {
	hasUpper := false
	for _, b := range x {
		if 'A' <= b && b <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return x
	}

	*buf = (*buf)[:0]
	for _, b := range x {
		if 'A' <= b && b <= 'Z' {
			*buf = append(*buf, b-'A'+'a')
		} else {
			*buf = append(*buf, b)
		}
	}
	return *buf
}

// FilterTagGFM performs the same tag filtering as the
// GitHub Flavored Markdown [tagfilter extension].
// It is suitable for use as the FilterTag field in [Renderer].
//
// [tagfilter extension]: https://github.github.com/gfm/#disallowed-raw-html-extension-
func FilterTagGFM(tag []byte) bool {
	switch atom.Lookup(tag) {
	case atom.Title, atom.Textarea, atom.Style, atom.Xmp, atom.Iframe,
		atom.Noembed, atom.Noframes, atom.Script, atom.Plaintext:
		return true
	default:
		return false
	}
}

// NormalizeURI percent-encodes any characters in a string
// that are not reserved or unreserved URI characters.
// This is commonly used for transforming link destinations
// into strings suitable for href or src attributes.
func NormalizeURI(s string) string {
	// RFC 3986 reserved and unreserved characters.
	const safeSet = `;/?:@&=+$,-_.!~*'()#`

	sb := new(strings.Builder)
	sb.Grow(len(s))
	skip := 0
	var buf [utf8.UTFMax]byte
	for i, c := range s {
		if skip > 0 {
			skip--
			sb.WriteRune(c)
			continue
		}
		switch {
		case c == '%':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				skip = 2
				sb.WriteByte('%')
			} else {
				sb.WriteString("%25")
			}
		case c < 0x80 && (isASCIILetter(byte(c)) || '0' <= c && c <= '9') || strings.ContainsRune(safeSet, c):
			sb.WriteRune(c)
		default:
			n := utf8.EncodeRune(buf[:], c)
			for _, b := range buf[:n] {
				sb.WriteByte('%')
				sb.WriteByte(urlHexDigit(b >> 4))
				sb.WriteByte(urlHexDigit(b & 0x0f))
			}
		}
	}
	return sb.String()
}

func isHex(c byte) bool {
	return 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F' || '0' <= c && c <= '9'
}

func urlHexDigit(x byte) byte {
	switch {
	case x < 0xa:
		return '0' + x
	case x < 0x10:
		return 'A' + x - 0xa
	default:
		panic("out of bounds")
	}
}
