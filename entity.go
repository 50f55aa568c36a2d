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
	"sort"
	"strconv"
	"unicode/utf8"
)

//go:generate go run ./internal/cmd/genentities -o entities_table.go

// Limits on the digits of a [numeric character reference].
//
// [numeric character reference]: https://spec.commonmark.org/0.30/#entity-and-numeric-character-references
const (
	maxDecimalEntityDigits = 7
	maxHexEntityDigits     = 6
)

// entity consumes an [entity or numeric character reference]
// starting at '&' and appends its decoded value to buf.
// Anything that does not form a valid reference
// is appended as literal text, up to where scanning stopped.
//
// [entity or numeric character reference]: https://spec.commonmark.org/0.30/#entity-and-numeric-character-references
func entity(c cursor, buf *[]byte) {
	if !skip(c, char('&')) {
		return
	}
	start := len(*buf)
	*buf = append(*buf, '&')
	switch r := c.peek(); {
	case r == '#':
		*buf = append(*buf, '#')
		c.advance()
		numericEntity(c, buf, start)
	case isASCIILetter(r):
		nameStart := len(*buf)
		copyAll(c, buf, predicate(isASCIIAlnum))
		if !skip(c, char(';')) {
			return
		}
		if value, ok := lookupEntity(string((*buf)[nameStart:])); ok {
			*buf = append((*buf)[:start], value...)
		} else {
			*buf = append(*buf, ';')
		}
	}
}

func numericEntity(c cursor, buf *[]byte, start int) {
	base, limit := 10, maxDecimalEntityDigits
	isDigit := isASCIIDigit
	switch r := c.peek(); {
	case r == 'x' || r == 'X':
		*buf = utf8.AppendRune(*buf, r)
		c.advance()
		base, limit, isDigit = 16, maxHexEntityDigits, isASCIIHexDigit
	case !isASCIIDigit(r):
		return
	}
	digitsStart := len(*buf)
	for isDigit(c.peek()) {
		if len(*buf)-digitsStart == limit {
			return
		}
		*buf = append(*buf, byte(c.peek()))
		c.advance()
	}
	if !skip(c, char(';')) {
		return
	}
	digits := string((*buf)[digitsStart:])
	n, err := strconv.ParseUint(digits, base, 32)
	if digits == "" || err != nil {
		*buf = append(*buf, ';')
		return
	}
	r := rune(n)
	if r == 0 || !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	*buf = utf8.AppendRune((*buf)[:start], r)
}

func lookupEntity(name string) (string, bool) {
	i := sort.Search(len(entityTable), func(i int) bool {
		return entityTable[i].name >= name
	})
	if i >= len(entityTable) || entityTable[i].name != name {
		return "", false
	}
	return entityTable[i].value, true
}
