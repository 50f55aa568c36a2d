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
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/text/cases"
)

// ErrInvalidUTF8 is returned by [ParseFile]
// when the file's content is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// A Document is a parsed source file:
// an optional header of key/value fields followed by a sequence of blocks.
type Document struct {
	// Source is the text the document was parsed from, byte for byte.
	// The parser reads each NUL byte in Source as U+FFFD,
	// so node text may differ from Source there,
	// but locations are always offsets into Source.
	Source string
	// Path is the file the document was read from, if any.
	Path string
	// Header is the list of fields at the start of the document in source order.
	// Keys are case-folded.
	Header []HeaderField
	// Body is the sequence of top-level blocks.
	Body []*Block
}

// A HeaderField is a single "key: value" line in a document header.
type HeaderField struct {
	Key   string
	Value string
}

// Lookup returns the value of the last header field with the given key.
// Keys are compared case-insensitively.
func (doc *Document) Lookup(key string) (value string, ok bool) {
	key = foldKey(key)
	for i := len(doc.Header) - 1; i >= 0; i-- {
		if doc.Header[i].Key == key {
			return doc.Header[i].Value, true
		}
	}
	return "", false
}

// Values returns the values of every header field with the given key
// in source order.
func (doc *Document) Values(key string) []string {
	key = foldKey(key)
	var values []string
	for _, f := range doc.Header {
		if f.Key == key {
			values = append(values, f.Value)
		}
	}
	return values
}

// AddHeader appends a header field to the document.
// A later field with the same key overrides earlier ones in [*Document.Lookup].
func (doc *Document) AddHeader(key, value string) {
	doc.Header = append(doc.Header, HeaderField{Key: foldKey(key), Value: value})
}

func foldKey(key string) string {
	return cases.Fold().String(key)
}

// A Parser holds the options for parsing documents.
// The zero value parses with no extensions enabled.
type Parser struct {
	Settings Settings
	// Logger receives diagnostics about tolerated irregularities in the input.
	// If nil, nothing is logged.
	Logger *log.Logger
}

// Parse parses a document with [DefaultSettings].
func Parse(src string) *Document {
	p := &Parser{Settings: DefaultSettings}
	return p.Parse(src)
}

// ParseFile reads and parses a file with [DefaultSettings].
func ParseFile(path string) (*Document, error) {
	p := &Parser{Settings: DefaultSettings}
	return p.ParseFile(path)
}

// Parse parses a document.
// Every input produces a document:
// malformed constructs are treated as literal text.
// Parse panics if an embedded code block opened with a brace is never closed.
func (p *Parser) Parse(src string) *Document {
	c := newStringCursor(src, p.Settings)
	doc := &Document{Source: src}
	doc.Header = parseHeader(c)
	bp := &blockParser{log: p.logger()}
	doc.Body = bp.body(c)
	if bp.openBraces != 0 {
		panic(fmt.Sprintf("actmd: %d embedded code blocks still open at end of document", bp.openBraces))
	}
	return doc
}

// ParseFile reads and parses the file at the given path.
func (p *Parser) ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("parse %s: %w", path, ErrInvalidUTF8)
	}
	doc := p.Parse(string(data))
	doc.Path = path
	return doc, nil
}

// ParseInlines parses text as the content of a paragraph.
// Locations in the result are relative to text.
func (p *Parser) ParseInlines(text string) []*Inline {
	s := &inlineScanner{c: newStringCursor(text, p.Settings), log: p.logger()}
	return s.scan()
}

func (p *Parser) logger() *log.Logger {
	if p.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
	}
	return p.Logger
}

// parseHeader reads "key: value" lines and "//" comment lines
// from the start of the document.
// It stops at the first line that is neither.
func parseHeader(c cursor) []HeaderField {
	var fields []HeaderField
	for {
		if headerComment(c) {
			continue
		}
		f, ok := headerField(c)
		if !ok {
			return fields
		}
		fields = append(fields, f)
	}
}

func headerComment(c cursor) bool {
	t := begin(c)
	defer t.rollback()
	if !skip(t, char('/')) || !skip(t, char('/')) {
		return false
	}
	skipAll(t, predicate(func(r rune) bool { return !isNewline(r) }))
	skipNewline(t)
	t.commit()
	return true
}

func isHeaderKeyChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("_.-", r)
}

func headerField(c cursor) (HeaderField, bool) {
	t := begin(c)
	defer t.rollback()
	if r := t.peek(); r == eof || !unicode.IsLetter(r) && !unicode.IsDigit(r) {
		return HeaderField{}, false
	}
	var key []byte
	copyAll(t, &key, predicate(isHeaderKeyChar))
	if !skip(t, char(':')) {
		return HeaderField{}, false
	}
	if r := t.peek(); r != eof && !whitespace.match(r) {
		return HeaderField{}, false
	}
	skipAll(t, lineSpace)

	var value []byte
	notNewline := predicate(func(r rune) bool { return !isNewline(r) })
	for {
		copyAll(t, &value, notNewline)
		value = []byte(strings.TrimRight(string(value), " \t"))
		if !skipNewline(t) {
			break
		}
		// A continuation line starts with whitespace.
		// Only its first whitespace character is dropped.
		contStart := t.pos()
		if !skip(t, lineSpace) {
			break
		}
		indentEnd := t.pos()
		skipAll(t, lineSpace)
		if atLineEnd(t) {
			mustReset(t, contStart)
			break
		}
		mustReset(t, indentEnd)
		if len(value) > 0 {
			value = append(value, '\n')
		}
	}
	t.commit()
	return HeaderField{Key: foldKey(string(key)), Value: string(value)}, true
}
