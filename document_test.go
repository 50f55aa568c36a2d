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
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHeader []HeaderField
		wantBody   []*Block
	}{
		{
			name:  "Fields",
			input: "Title: Hello\nTags:  a\n  b\n// comment\nEmpty:\n\nBody\n",
			wantHeader: []HeaderField{
				{Key: "title", Value: "Hello"},
				{Key: "tags", Value: "a\n b"},
				{Key: "empty", Value: ""},
			},
			wantBody: []*Block{para(plain("Body"))},
		},
		{
			name:       "ContinuationKeepsExtraIndent",
			input:      "code: if x {\n\t\treturn\n\t}\n",
			wantHeader: []HeaderField{{Key: "code", Value: "if x {\n\treturn\n}"}},
		},
		{
			name:       "WhitespaceLineEndsField",
			input:      "a: 1\n   \nb: 2\n",
			wantHeader: []HeaderField{{Key: "a", Value: "1"}},
			wantBody:   []*Block{para(plain("b: 2"))},
		},
		{
			name:       "BodyWithoutBlankLine",
			input:      "a: b\nText\n",
			wantHeader: []HeaderField{{Key: "a", Value: "b"}},
			wantBody:   []*Block{para(plain("Text"))},
		},
		{
			name:       "KeyCharacters",
			input:      "Über_x.y-z: 1\n",
			wantHeader: []HeaderField{{Key: "über_x.y-z", Value: "1"}},
		},
		{
			name:     "ColonWithoutSpace",
			input:    "http://example.com\n",
			wantBody: []*Block{para(plain("http://example.com"))},
		},
		{
			name:     "LeadingBlankLine",
			input:    "\nfoo: bar\n",
			wantBody: []*Block{para(plain("foo: bar"))},
		},
		{
			name:       "CommentOnly",
			input:      "// just a comment\n# Heading\n",
			wantHeader: nil,
			wantBody:   []*Block{heading(1, plain("Heading"))},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := Parse(test.input)
			if diff := cmp.Diff(test.wantHeader, doc.Header, treeOptions); diff != "" {
				t.Errorf("Header (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantBody, doc.Body, treeOptions); diff != "" {
				t.Errorf("Body (-want +got):\n%s", diff)
			}
			if doc.Source != test.input {
				t.Errorf("Source = %q; want %q", doc.Source, test.input)
			}
		})
	}
}

func TestDocumentLookup(t *testing.T) {
	doc := Parse("Tag: a\nTitle: First\ntag: b\n\nBody\n")

	if got, ok := doc.Lookup("TAG"); got != "b" || !ok {
		t.Errorf(`Lookup("TAG") = %q, %t; want "b", true`, got, ok)
	}
	if got, ok := doc.Lookup("missing"); got != "" || ok {
		t.Errorf(`Lookup("missing") = %q, %t; want "", false`, got, ok)
	}
	if diff := cmp.Diff([]string{"a", "b"}, doc.Values("tag")); diff != "" {
		t.Errorf(`Values("tag") (-want +got):\n%s`, diff)
	}
	if got := doc.Values("missing"); got != nil {
		t.Errorf(`Values("missing") = %q; want nil`, got)
	}

	doc.AddHeader("TITLE", "Second")
	if got, _ := doc.Lookup("title"); got != "Second" {
		t.Errorf(`after AddHeader, Lookup("title") = %q; want "Second"`, got)
	}
	if diff := cmp.Diff([]string{"First", "Second"}, doc.Values("Title")); diff != "" {
		t.Errorf(`after AddHeader, Values("Title") (-want +got):\n%s`, diff)
	}
	if last := doc.Header[len(doc.Header)-1]; last.Key != "title" {
		t.Errorf("added key = %q; want %q", last.Key, "title")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("Valid", func(t *testing.T) {
		path := filepath.Join(dir, "doc.md")
		if err := os.WriteFile(path, []byte("Title: File\n\n*hi*\n"), 0o666); err != nil {
			t.Fatal(err)
		}
		doc, err := ParseFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if doc.Path != path {
			t.Errorf("Path = %q; want %q", doc.Path, path)
		}
		if got, _ := doc.Lookup("title"); got != "File" {
			t.Errorf(`Lookup("title") = %q; want "File"`, got)
		}
		want := []*Block{para(emph(plain("hi")))}
		if diff := cmp.Diff(want, doc.Body, treeOptions); diff != "" {
			t.Errorf("Body (-want +got):\n%s", diff)
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		path := filepath.Join(dir, "bad.md")
		if err := os.WriteFile(path, []byte("bad \xff\n"), 0o666); err != nil {
			t.Fatal(err)
		}
		_, err := ParseFile(path)
		if !errors.Is(err, ErrInvalidUTF8) {
			t.Errorf("ParseFile(...) error = %v; want %v", err, ErrInvalidUTF8)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(dir, "missing.md"))
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("ParseFile(...) error = %v; want %v", err, fs.ErrNotExist)
		}
	})
}

func TestSettingsString(t *testing.T) {
	tests := []struct {
		s    Settings
		want string
	}{
		{0, "0"},
		{HTML, "HTML"},
		{DefaultSettings, "HTML|Embedded"},
	}
	for _, test := range tests {
		if got := test.s.String(); got != test.want {
			t.Errorf("Settings(%d).String() = %q; want %q", uint8(test.s), got, test.want)
		}
	}
}
