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

import "strings"

// Settings is a set of syntax extensions enabled during parsing.
type Settings uint8

const (
	// HTML enables [HTML blocks] and [raw HTML] inlines.
	// Without it, angle brackets that do not form an autolink are literal text.
	//
	// [HTML blocks]: https://spec.commonmark.org/0.29/#html-blocks
	// [raw HTML]: https://spec.commonmark.org/0.29/#raw-html
	HTML Settings = 1 << iota
	// Embedded enables the @ template syntax:
	// @name, @(expr), @{statements}, @if/@for/@while/@loop blocks
	// and @// or @/* */ comments.
	Embedded
)

const (
	// DefaultSettings enables every extension.
	DefaultSettings = HTML | Embedded
	// CommonMarkSettings parses plain CommonMark.
	CommonMarkSettings = HTML
)

// Has reports whether every flag in x is set in s.
func (s Settings) Has(x Settings) bool {
	return s&x == x
}

func (s Settings) String() string {
	if s == 0 {
		return "0"
	}
	var parts []string
	if s.Has(HTML) {
		parts = append(parts, "HTML")
	}
	if s.Has(Embedded) {
		parts = append(parts, "Embedded")
	}
	return strings.Join(parts, "|")
}
