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

package actmd

import (
	"strings"

	"golang.org/x/text/cases"
)

// LinkDefinition is the data of a [link reference definition].
//
// [link reference definition]: https://spec.commonmark.org/0.30/#link-reference-definition
type LinkDefinition struct {
	Destination string
	Title       string
}

// ReferenceMap is a mapping of [normalized labels] to link definitions.
//
// [normalized labels]: https://spec.commonmark.org/0.30/#matches
type ReferenceMap map[string]LinkDefinition

// NormalizeLabel returns the form of a link label used as a [ReferenceMap] key:
// surrounding whitespace is removed,
// internal runs of whitespace become a single space,
// and the result is case-folded.
func NormalizeLabel(label string) string {
	return cases.Fold().String(strings.Join(strings.Fields(label), " "))
}

// Extract adds any link reference definitions in blocks
// (including inside block quotes and lists) to the map.
// In case of conflicts,
// Extract will not replace any existing definitions in the map
// and will use the first definition in source order.
func (m ReferenceMap) Extract(blocks []*Block) {
	stack := make([]*Block, 0, len(blocks))
	for i := len(blocks) - 1; i >= 0; i-- {
		stack = append(stack, blocks[i])
	}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch curr.Kind() {
		case LinkDefKind:
			label := NormalizeLabel(curr.Label())
			if _, exists := m[label]; label == "" || exists {
				continue
			}
			m[label] = LinkDefinition{
				Destination: curr.Destination(),
				Title:       curr.Title(),
			}
		case QuoteKind:
			for i := len(curr.blocks) - 1; i >= 0; i-- {
				stack = append(stack, curr.blocks[i])
			}
		case OrderedListKind, UnorderedListKind:
			for i := len(curr.items) - 1; i >= 0; i-- {
				item := curr.items[i]
				for j := len(item) - 1; j >= 0; j-- {
					stack = append(stack, item[j])
				}
			}
		}
	}
}

// Resolve returns the definition that a [LinkRefKind] or [ImageRefKind] node refers to.
func (m ReferenceMap) Resolve(inline *Inline) (_ LinkDefinition, ok bool) {
	switch inline.Kind() {
	case LinkRefKind, ImageRefKind:
		def, ok := m[NormalizeLabel(inline.Label())]
		return def, ok
	default:
		return LinkDefinition{}, false
	}
}
