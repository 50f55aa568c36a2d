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

//go:build !actmd_nospans

package actmd

import "testing"

func TestLocations(t *testing.T) {
	const input = "Title: x\n\n# Hi\n\nSee @name and [link](/u).\n"
	doc := Parse(input)
	if len(doc.Body) != 2 {
		t.Fatalf("len(Body) = %d; want 2", len(doc.Body))
	}

	span := func(loc Location) string {
		begin, end, ok := loc.Span()
		if !ok {
			t.Fatal("Span() not ok")
		}
		return input[begin:end]
	}

	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{"Heading", doc.Body[0].Location(), "# Hi"},
		{"HeadingText", doc.Body[0].Inlines()[0].Location(), "Hi"},
		{"Paragraph", doc.Body[1].Location(), "See @name and [link](/u).\n"},
		{"Plain", doc.Body[1].Inlines()[0].Location(), "See "},
		{"Expression", doc.Body[1].Inlines()[1].Location(), "@name"},
		{"Link", doc.Body[1].Inlines()[3].Location(), "[link](/u)"},
	}
	for _, test := range tests {
		if got := span(test.loc); got != test.want {
			t.Errorf("%s span = %q; want %q", test.name, got, test.want)
		}
	}
}

func TestEmbeddedBlockLocation(t *testing.T) {
	const input = "@{x := 1}\n"
	doc := Parse(input)
	begin, end, _ := doc.Body[0].Location().Span()
	if got, want := input[begin:end], "x := 1"; got != want {
		t.Errorf("span = %q; want %q", got, want)
	}
}
