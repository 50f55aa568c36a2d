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
	"unicode"
)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

func isNewline(r rune) bool {
	return r == '\n' || r == '\r'
}

func isLineSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func isASCIIDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isASCIIHexDigit(r rune) bool {
	return isASCIIDigit(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

func isASCIILetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isASCIIAlnum(r rune) bool {
	return isASCIILetter(r) || isASCIIDigit(r)
}

// isASCIIPunctuation reports whether r is an [ASCII punctuation character].
//
// [ASCII punctuation character]: https://spec.commonmark.org/0.29/#ascii-punctuation-character
func isASCIIPunctuation(r rune) bool {
	return 0 < r && r < 0x80 && strings.ContainsRune(asciiPunctuation, r)
}

// isUnicodeWhitespace reports whether r is a [Unicode whitespace character].
// The end of input counts as whitespace.
//
// [Unicode whitespace character]: https://spec.commonmark.org/0.29/#unicode-whitespace-character
func isUnicodeWhitespace(r rune) bool {
	return r == eof || r == '\t' || r == '\n' || r == '\f' || r == '\r' || unicode.Is(unicode.Zs, r)
}

// isUnicodePunctuation reports whether r is a [punctuation character].
//
// [punctuation character]: https://spec.commonmark.org/0.29/#punctuation-character
func isUnicodePunctuation(r rune) bool {
	return isASCIIPunctuation(r) || r >= 0x80 && unicode.IsPunct(r)
}

func isBlank(s string) bool {
	return strings.TrimLeft(s, " \t\r\n") == ""
}
