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
	"testing"

	"github.com/google/go-cmp/cmp"
)

var inlineTests = []struct {
	name  string
	input string
	want  []*Inline
}{
	{
		name:  "Emphasis",
		input: "*a* **b**",
		want:  []*Inline{emph(plain("a")), plain(" "), strong(plain("b"))},
	},
	{
		name:  "UnderscoreIntraword",
		input: "snake_case_name",
		want:  []*Inline{plain("snake_case_name")},
	},
	{
		name:  "NestedEmphasis",
		input: "***both***",
		want:  []*Inline{emph(strong(plain("both")))},
	},
	{
		name:  "UnmatchedDelimiter",
		input: "a * b",
		want:  []*Inline{plain("a * b")},
	},
	{
		name:  "CodeSpan",
		input: "`a  b`",
		want:  []*Inline{codeSpan("a  b")},
	},
	{
		name:  "CodeSpanStripsOneSpace",
		input: "`` `x` ``",
		want:  []*Inline{codeSpan("`x`")},
	},
	{
		name:  "UnclosedCodeSpan",
		input: "``a`",
		want:  []*Inline{plain("``a`")},
	},
	{
		name:  "InlineLink",
		input: `[a](/u "t")`,
		want:  []*Inline{link("/u", "t", plain("a"))},
	},
	{
		name:  "AngleDestination",
		input: "[a](<my dest>)",
		want:  []*Inline{link("my dest", "", plain("a"))},
	},
	{
		name:  "Image",
		input: "![alt *text*](/i.png)",
		want:  []*Inline{image("/i.png", "", plain("alt "), emph(plain("text")))},
	},
	{
		name:  "ShortcutReference",
		input: "[foo]",
		want:  []*Inline{linkRef("foo")},
	},
	{
		name:  "FullReference",
		input: "[text][Label]",
		want:  []*Inline{linkRef("Label", plain("text"))},
	},
	{
		name:  "CollapsedReference",
		input: "[foo][]",
		want:  []*Inline{linkRef("foo")},
	},
	{
		name:  "ShortcutReferenceLabelIsSourceText",
		input: "see [*foo* \\& bar]",
		want:  []*Inline{plain("see "), linkRef("*foo* \\& bar")},
	},
	{
		name:  "BlankLabelIsShortcut",
		input: "[foo][ ]",
		want:  []*Inline{linkRef("foo"), plain("[ ]")},
	},
	{
		name:  "ShortcutImageReference",
		input: "![foo]",
		want:  []*Inline{{kind: ImageRefKind, label: "foo"}},
	},
	{
		name:  "EmphasisClosedInsideBrackets",
		input: "*[foo*]",
		want:  []*Inline{emph(plain("[foo")), plain("]")},
	},
	{
		name:  "EmphasisOpenedInsideBrackets",
		input: "[*foo]",
		want:  []*Inline{plain("[*foo]")},
	},
	{
		name:  "EmphasisInsideFullReference",
		input: "[*foo][bar]",
		want:  []*Inline{linkRef("bar", plain("*foo"))},
	},
	{
		name:  "EmptyBrackets",
		input: "[]",
		want:  []*Inline{plain("[]")},
	},
	{
		name:  "LinkInsideLink",
		input: "[a [b](/b) c](/a)",
		want:  []*Inline{plain("[a "), link("/b", "", plain("b")), plain(" c](/a)")},
	},
	{
		name:  "Autolink",
		input: "<https://example.com/a>",
		want:  []*Inline{link("https://example.com/a", "", plain("https://example.com/a"))},
	},
	{
		name:  "EmailAutolink",
		input: "<me@example.com>",
		want:  []*Inline{link("mailto:me@example.com", "", plain("me@example.com"))},
	},
	{
		name:  "RawHTML",
		input: "a <b>c</b>",
		want:  []*Inline{plain("a "), rawHTML("<b>"), plain("c"), rawHTML("</b>")},
	},
	{
		name:  "HTMLComment",
		input: "a <!-- b --> c",
		want:  []*Inline{plain("a "), rawHTML("<!-- b -->"), plain(" c")},
	},
	{
		name:  "EmbeddedInAttribute",
		input: `<a href="/u/@(id)">x</a>`,
		want: []*Inline{
			rawHTML(`<a href="/u/`),
			expr("id"),
			rawHTML(`">`),
			plain("x"),
			rawHTML("</a>"),
		},
	},
	{
		name:  "TrailingEntitySpace",
		input: "foo   &#32;   ",
		want:  []*Inline{plain("foo    ")},
	},
	{
		name:  "Entities",
		input: "&amp; &copy; &#35; &#x22; &bogus; &#0;",
		want:  []*Inline{plain("& © # \" &bogus; �")},
	},
	{
		name:  "BackslashEscapes",
		input: `\*not\* \a`,
		want:  []*Inline{plain(`*not* \a`)},
	},
	{
		name:  "BackslashHardBreak",
		input: "a\\\nb",
		want:  []*Inline{plain("a"), hardBreak(), plain("b")},
	},
	{
		name:  "SpaceHardBreak",
		input: "a  \nb",
		want:  []*Inline{plain("a"), hardBreak(), plain("b")},
	},
	{
		name:  "TrailingSpacesDropped",
		input: "a  ",
		want:  []*Inline{plain("a")},
	},
	{
		name:  "EmbeddedName",
		input: "Hi @name!",
		want:  []*Inline{plain("Hi "), expr("name"), plain("!")},
	},
	{
		name:  "EmbeddedCall",
		input: "@format!(\"{}\", x) done",
		want:  []*Inline{expr("format!(\"{}\", x)"), plain(" done")},
	},
	{
		name:  "EmbeddedDottedName",
		input: "@user.name.",
		want:  []*Inline{expr("user.name"), plain(".")},
	},
	{
		name:  "EmbeddedParens",
		input: "@(a + (b))",
		want:  []*Inline{expr("a + (b)")},
	},
	{
		name:  "EmbeddedStatement",
		input: "a @{x += 1;} b",
		want:  []*Inline{plain("a "), stmt("x += 1;"), plain(" b")},
	},
	{
		name:  "EscapedAt",
		input: "a@@b",
		want:  []*Inline{plain("a@b")},
	},
	{
		name:  "LoneAt",
		input: "a @ b",
		want:  []*Inline{plain("a @ b")},
	},
	{
		name:  "LineComment",
		input: "@// note\nnext",
		want:  []*Inline{stmt("// note\n"), plain("next")},
	},
	{
		name:  "BlockComment",
		input: "a@/* note */b",
		want:  []*Inline{plain("a"), stmt("/* note */"), plain("b")},
	},
	{
		name:  "EmptyStatementJoinsLines",
		input: "a@\nb",
		want:  []*Inline{plain("a"), stmt(""), plain("b")},
	},
	{
		name:  "If",
		input: "@if x { @y } ",
		want:  []*Inline{stmt("if x {"), plain(" "), expr("y"), plain(" "), stmt("}")},
	},
	{
		name:  "IfElse",
		input: "@if ok {yes} else {no}",
		want: []*Inline{
			stmt("if ok {"),
			plain("yes"),
			stmt("} else {"),
			plain("no"),
			stmt("}"),
		},
	},
	{
		name:  "NestedControl",
		input: "@for e in list {@if first {@{first = false;}} else {, }@e}",
		want: []*Inline{
			stmt("for e in list {"),
			stmt("if first {"),
			stmt("first = false;"),
			stmt("} else {"),
			plain(", "),
			stmt("}"),
			expr("e"),
			stmt("}"),
		},
	},
	{
		name:  "ChainedControlHeads",
		input: "@if a { if b {x}}",
		want:  []*Inline{stmt("if a { if b {"), plain("x"), stmt("}"), stmt("}")},
	},
	{
		name:  "ControlAcrossLines",
		input: "@if ok {\nyes\n}",
		want:  []*Inline{stmt("if ok {"), softBreak(), plain("yes"), stmt("}")},
	},
	{
		name:  "ControlHeadWithoutBrace",
		input: "@if ok",
		want:  []*Inline{plain("@if ok")},
	},
}

func TestParseInlines(t *testing.T) {
	for _, test := range inlineTests {
		t.Run(test.name, func(t *testing.T) {
			doc := Parse(test.input)
			if len(doc.Body) != 1 {
				t.Fatalf("Parse(%q) has %d blocks; want 1", test.input, len(doc.Body))
			}
			b := doc.Body[0]
			if b.Kind() != ParagraphKind {
				t.Fatalf("Parse(%q).Body[0].Kind() = %v; want %v", test.input, b.Kind(), ParagraphKind)
			}
			if diff := cmp.Diff(test.want, b.Inlines(), treeOptions); diff != "" {
				t.Errorf("Parse(%q) inlines (-want +got):\n%s", test.input, diff)
			}
		})
	}
}

func TestClassifyRun(t *testing.T) {
	tests := []struct {
		ch        byte
		prev      rune
		next      rune
		wantOpen  bool
		wantClose bool
	}{
		{'*', ' ', 'a', true, false},
		{'*', 'a', ' ', false, true},
		{'*', 'a', 'b', true, true},
		{'_', 'a', 'b', false, false},
		{'_', ' ', 'a', true, false},
		{'*', ' ', ' ', false, false},
		{'_', '.', 'a', true, false},
		{'*', 'a', eof, false, true},
	}
	for _, test := range tests {
		canOpen, canClose := classifyRun(test.ch, test.prev, test.next)
		if canOpen != test.wantOpen || canClose != test.wantClose {
			t.Errorf("classifyRun(%q, %q, %q) = %t, %t; want %t, %t",
				test.ch, test.prev, test.next, canOpen, canClose, test.wantOpen, test.wantClose)
		}
	}
}

func TestLinkText(t *testing.T) {
	tests := []struct {
		input string
		want  []*Inline
	}{
		{"[*foo* bar]", []*Inline{emph(plain("foo")), plain(" bar")}},
		{"[foo][]", []*Inline{plain("foo")}},
		{"[*text*][label]", []*Inline{emph(plain("text"))}},
		{"[a](/u)", []*Inline{plain("a")}},
	}
	for _, test := range tests {
		doc := Parse(test.input)
		inlines := doc.Body[0].Inlines()
		if len(inlines) != 1 {
			t.Errorf("Parse(%q) has %d inlines; want 1", test.input, len(inlines))
			continue
		}
		if diff := cmp.Diff(test.want, inlines[0].LinkText(), treeOptions); diff != "" {
			t.Errorf("Parse(%q) link text (-want +got):\n%s", test.input, diff)
		}
	}
}

func TestParserParseInlines(t *testing.T) {
	p := &Parser{Settings: CommonMarkSettings}
	got := p.ParseInlines("*a* @b\nc  ")
	want := []*Inline{emph(plain("a")), plain(" @b"), softBreak(), plain("c")}
	if diff := cmp.Diff(want, got, treeOptions); diff != "" {
		t.Errorf("ParseInlines (-want +got):\n%s", diff)
	}
}
