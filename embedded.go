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
	"unicode/utf8"
)

// controlKeywords start an embedded statement that opens a brace.
var controlKeywords = []string{"if", "for", "while", "loop"}

func isControlKeyword(word string) bool {
	for _, kw := range controlKeywords {
		if word == kw {
			return true
		}
	}
	return false
}

// scanEmbedded parses the embedded code that follows an '@'.
// The cursor must be positioned after the '@', which is at offset start.
// It returns nil if the input does not form embedded code,
// leaving the cursor unchanged.
//
// The recognized forms are:
//
//	@{ code }          statement
//	@( expr )          expression
//	@name              expression
//	@name(args)        expression
//	@name!(args)       expression
//	@if cond {         statement opening a brace (also for, while, loop)
//	@// comment        statement through the end of the line
//	@/* comment */     statement
//	@ at end of line   empty statement that joins the lines
//
// If bare is false, only the first, second and fourth forms are accepted.
// braces is the number of braces opened by the statement.
func scanEmbedded(c cursor, start int, bare bool) (_ *Inline, braces int) {
	t := begin(c)
	defer t.rollback()
	node := &Inline{kind: EmbeddedStatementKind}
	var code []byte
	switch r := t.peek(); {
	case r == '{':
		t.advance()
		if !copyUntilMatch(t, &code, '{', '}') {
			return nil, 0
		}
		code = code[:len(code)-1]
	case r == '(':
		t.advance()
		if !copyUntilMatch(t, &code, '(', ')') {
			return nil, 0
		}
		code = code[:len(code)-1]
		node.kind = EmbeddedExpressionKind
	case bare && isNewline(r):
		skipNewline(t)
		skipAll(t, lineSpace)
	case bare && r == '/':
		t.advance()
		switch t.peek() {
		case '/':
			t.advance()
			code = append(code, "//"...)
			copyAll(t, &code, predicate(func(r rune) bool { return !isNewline(r) }))
			if skipNewline(t) {
				code = append(code, '\n')
				skipAll(t, lineSpace)
			}
		case '*':
			t.advance()
			code = append(code, "/*"...)
			copyUntilSeq(t, &code, "*/")
		default:
			return nil, 0
		}
	case isASCIIAlnum(r) || r == '_' || r == '&':
		name := scanName(t)
		if bare && isControlKeyword(name) {
			code = append(code, name...)
			if !controlHead(t, &code) {
				return nil, 0
			}
			braces = 1
			for nestedControlHead(t, &code) {
				braces++
			}
			break
		}
		node.kind = EmbeddedExpressionKind
		code = append(code, name...)
		if !callArgs(t, &code) && !bare {
			return nil, 0
		}
	default:
		return nil, 0
	}
	node.text = string(code)
	node.loc = Location{Begin: positionAt(start), End: positionAt(t.pos())}
	t.commit()
	return node, braces
}

// scanName consumes a name made of ASCII letters, digits and "_&:.".
// A trailing '.' or ':' is not part of the name.
func scanName(c cursor) string {
	var name []byte
	end, n := c.pos(), 0
	for r := c.peek(); r != eof && (isASCIIAlnum(r) || strings.ContainsRune("_&:.", r)); r = c.peek() {
		name = append(name, byte(r))
		c.advance()
		if r != '.' && r != ':' {
			end, n = c.pos(), len(name)
		}
	}
	mustReset(c, end)
	return string(name[:n])
}

// controlHead copies the rest of a control statement's head
// up to and including its opening brace.
func controlHead(c cursor, code *[]byte) bool {
	for {
		r := c.peek()
		if r == eof || isNewline(r) {
			return false
		}
		*code = utf8.AppendRune(*code, r)
		c.advance()
		if r == '{' {
			return true
		}
	}
}

// nestedControlHead consumes another control statement head
// that immediately follows an opening brace, as in "if a { if b {".
func nestedControlHead(c cursor, code *[]byte) bool {
	t := begin(c)
	defer t.rollback()
	n := len(*code)
	copyAll(t, code, lineSpace)
	var word []byte
	copyAll(t, &word, predicate(isASCIILetter))
	if !isControlKeyword(string(word)) || !lookingAt(t, lineSpace) {
		*code = (*code)[:n]
		return false
	}
	*code = append(*code, word...)
	if !controlHead(t, code) {
		*code = (*code)[:n]
		return false
	}
	t.commit()
	return true
}

// callArgs copies a parenthesized argument list,
// optionally preceded by '!', if one follows the cursor.
func callArgs(c cursor, code *[]byte) bool {
	t := begin(c)
	defer t.rollback()
	n := len(*code)
	if skip(t, char('!')) {
		*code = append(*code, '!')
	}
	if !skip(t, char('(')) {
		*code = (*code)[:n]
		return false
	}
	*code = append(*code, '(')
	if !copyUntilMatch(t, code, '(', ')') {
		*code = (*code)[:n]
		return false
	}
	t.commit()
	return true
}
