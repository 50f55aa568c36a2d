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

package actmd_test

import (
	"fmt"
	"os"

	"zombiezen.com/go/actmd"
	"zombiezen.com/go/actmd/htmlrender"
)

func Example() {
	// Parse a document with a header into a tree.
	doc := actmd.Parse("Title: Greeting\n\nHello, **World**!\n")
	// Render the body to HTML.
	htmlrender.Render(os.Stdout, doc)
	// Output:
	// <p>Hello, <strong>World</strong>!</p>
}

func ExampleDocument_Lookup() {
	doc := actmd.Parse("Title: Notes\nTag: go\nTag: markdown\n\nBody\n")
	title, _ := doc.Lookup("title")
	fmt.Println(title)
	fmt.Println(doc.Values("TAG"))
	// Output:
	// Notes
	// [go markdown]
}

func ExampleWalk() {
	doc := actmd.Parse("Hello @name!\n\n@for item in items {\n- @item\n}\n")

	// Print the embedded code in the document.
	actmd.Walk(doc.AsNode(), &actmd.WalkOptions{
		Pre: func(c *actmd.Cursor) bool {
			if inline := c.Node().Inline(); inline != nil {
				switch inline.Kind() {
				case actmd.EmbeddedStatementKind, actmd.EmbeddedExpressionKind:
					fmt.Printf("%v %q\n", inline.Kind(), inline.Text())
				}
			}
			if b := c.Node().Block(); b != nil && b.Kind() == actmd.EmbeddedStatementBlockKind {
				fmt.Printf("%v %q\n", b.Kind(), b.Text())
			}
			return true
		},
	})
	// Output:
	// EmbeddedExpression "name"
	// EmbeddedStatement "for item in items {"
	// EmbeddedExpression "item"
	// EmbeddedStatementBlock "}"
}

func ExampleReferenceMap() {
	doc := actmd.Parse("See [the docs][Docs].\n\n[docs]: https://example.com/ \"Docs\"\n")
	refMap := make(actmd.ReferenceMap)
	refMap.Extract(doc.Body)

	ref := doc.Body[0].Inlines()[1]
	def, ok := refMap.Resolve(ref)
	fmt.Println(ref.Kind(), ok, def.Destination, def.Title)
	// Output:
	// LinkRef true https://example.com/ Docs
}
