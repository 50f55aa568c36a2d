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
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var treeOptions = cmp.Options{
	cmp.AllowUnexported(Block{}, Inline{}),
	cmpopts.IgnoreTypes(Location{}),
	cmpopts.EquateEmpty(),
}

func para(inlines ...*Inline) *Block {
	return &Block{kind: ParagraphKind, inlines: inlines}
}

func heading(level int, inlines ...*Inline) *Block {
	return &Block{kind: HeadingKind, level: level, inlines: inlines}
}

func codeBlock(info, text string) *Block {
	return &Block{kind: CodeBlockKind, info: info, text: text}
}

func quote(blocks ...*Block) *Block {
	return &Block{kind: QuoteKind, blocks: blocks}
}

func bulletList(items ...[]*Block) *Block {
	return &Block{kind: UnorderedListKind, items: items}
}

func orderedList(start string, items ...[]*Block) *Block {
	return &Block{kind: OrderedListKind, info: start, items: items}
}

func item(blocks ...*Block) []*Block {
	return blocks
}

func htmlBlock(text string) *Block {
	return &Block{kind: HTMLBlockKind, text: text}
}

func stmtBlock(code string) *Block {
	return &Block{kind: EmbeddedStatementBlockKind, text: code}
}

func exprBlock(code string) *Block {
	return &Block{kind: EmbeddedExpressionBlockKind, text: code}
}

func linkDefBlock(label, dest, title string) *Block {
	return &Block{kind: LinkDefKind, info: label, text: dest, title: title}
}

func plain(text string) *Inline {
	return &Inline{kind: PlainKind, text: text}
}

func rawHTML(text string) *Inline {
	return &Inline{kind: RawHTMLKind, text: text}
}

func codeSpan(text string) *Inline {
	return &Inline{kind: CodeSpanKind, text: text}
}

func softBreak() *Inline {
	return &Inline{kind: SoftBreakKind}
}

func hardBreak() *Inline {
	return &Inline{kind: HardBreakKind}
}

func emph(children ...*Inline) *Inline {
	return &Inline{kind: EmphasisKind, children: children}
}

func strong(children ...*Inline) *Inline {
	return &Inline{kind: StrongKind, children: children}
}

func link(dest, title string, children ...*Inline) *Inline {
	return &Inline{kind: LinkKind, dest: dest, title: title, children: children}
}

func image(dest, title string, children ...*Inline) *Inline {
	return &Inline{kind: ImageKind, dest: dest, title: title, children: children}
}

func linkRef(label string, children ...*Inline) *Inline {
	return &Inline{kind: LinkRefKind, label: label, children: children}
}

func stmt(code string) *Inline {
	return &Inline{kind: EmbeddedStatementKind, text: code}
}

func expr(code string) *Inline {
	return &Inline{kind: EmbeddedExpressionKind, text: code}
}

var blockTests = []struct {
	name  string
	input string
	want  []*Block
}{
	{
		name:  "Empty",
		input: "",
		want:  nil,
	},
	{
		name:  "BlankLines",
		input: "\n \n\t\n",
		want:  nil,
	},
	{
		name:  "Paragraph",
		input: "Hello\n",
		want:  []*Block{para(plain("Hello"))},
	},
	{
		name:  "SoftBreak",
		input: "a\n   b\n",
		want:  []*Block{para(plain("a"), softBreak(), plain("b"))},
	},
	{
		name:  "TwoParagraphs",
		input: "a\n\nb",
		want:  []*Block{para(plain("a")), para(plain("b"))},
	},
	{
		name:  "CRLF",
		input: "a\r\nb\r\n\r\nc\r\n",
		want:  []*Block{para(plain("a"), softBreak(), plain("b")), para(plain("c"))},
	},
	{
		name:  "Heading",
		input: "# Title #\n",
		want:  []*Block{heading(1, plain("Title"))},
	},
	{
		name:  "EmptyHeading",
		input: "##\n",
		want:  []*Block{heading(2)},
	},
	{
		name:  "HeadingNeedsSpace",
		input: "#5 bolt\n",
		want:  []*Block{para(plain("#5 bolt"))},
	},
	{
		name:  "HeadingInterruptsParagraph",
		input: "text\n## Sub\n",
		want:  []*Block{para(plain("text")), heading(2, plain("Sub"))},
	},
	{
		name:  "FencedCode",
		input: "```go\nfunc main() {}\n```\n",
		want:  []*Block{codeBlock("go", "func main() {}\n")},
	},
	{
		name:  "UnclosedFence",
		input: "~~~\nunclosed\n",
		want:  []*Block{codeBlock("", "unclosed\n")},
	},
	{
		name:  "FenceKeepsMarkdown",
		input: "```\n# not a heading\n@(x)\n```\n",
		want:  []*Block{codeBlock("", "# not a heading\n@(x)\n")},
	},
	{
		name:  "ThematicBreak",
		input: "***\n- - -\n",
		want: []*Block{
			{kind: ThematicBreakKind},
			{kind: ThematicBreakKind},
		},
	},
	{
		name:  "Quote",
		input: "> quote\n> more\n",
		want:  []*Block{quote(para(plain("quote"), softBreak(), plain("more")))},
	},
	{
		name:  "QuoteLazyContinuation",
		input: "> quote\nlazy\n",
		want:  []*Block{quote(para(plain("quote"), softBreak(), plain("lazy")))},
	},
	{
		name:  "BulletList",
		input: "- a\n- b\n",
		want:  []*Block{bulletList(item(para(plain("a"))), item(para(plain("b"))))},
	},
	{
		name:  "LooseBulletList",
		input: "- a\n\n- b\n",
		want:  []*Block{bulletList(item(para(plain("a"))), item(para(plain("b"))))},
	},
	{
		name:  "ChangingBulletStartsNewList",
		input: "- a\n+ b\n",
		want: []*Block{
			bulletList(item(para(plain("a")))),
			bulletList(item(para(plain("b")))),
		},
	},
	{
		name:  "OrderedList",
		input: "3) x\n4) y\n",
		want:  []*Block{orderedList("3", item(para(plain("x"))), item(para(plain("y"))))},
	},
	{
		name:  "ListItemWithTwoParagraphs",
		input: "1. a\n\n   b\n",
		want:  []*Block{orderedList("1", item(para(plain("a")), para(plain("b"))))},
	},
	{
		name:  "HTMLBlock",
		input: "<div>\nhi\n</div>\n\nafter\n",
		want:  []*Block{htmlBlock("<div>\nhi\n</div>\n"), para(plain("after"))},
	},
	{
		name:  "HTMLComment",
		input: "<!-- x -->\nafter\n",
		want:  []*Block{htmlBlock("<!-- x -->\n"), para(plain("after"))},
	},
	{
		name:  "HTMLBlockWithEmbeddedCode",
		input: "<div title=\"x\">@(name)</div>\n",
		want: []*Block{
			htmlBlock("<div title=\"x\">"),
			exprBlock("name"),
			htmlBlock("</div>\n"),
		},
	},
	{
		name:  "LinkDefinition",
		input: "[Foo]: /url \"title\"\n",
		want:  []*Block{linkDefBlock("Foo", "/url", "title")},
	},
	{
		name:  "ShortcutReferenceAfterDefinition",
		input: "[foo]: /url\ntest [foo]\n",
		want: []*Block{
			linkDefBlock("foo", "/url", ""),
			para(plain("test "), linkRef("foo")),
		},
	},
	{
		name:  "MetaTagHTMLBlock",
		input: "<meta charset=\"utf-8\">\n*not emphasis*\n\nafter\n",
		want: []*Block{
			htmlBlock("<meta charset=\"utf-8\">\n*not emphasis*\n"),
			para(plain("after")),
		},
	},
	{
		name:  "LinkDefinitionTitleOnNextLine",
		input: "[foo]: <my url>\n  'title'\n",
		want:  []*Block{linkDefBlock("foo", "my url", "title")},
	},
	{
		name:  "EmbeddedBlock",
		input: "@{\nlet x = 1;\n}\nafter\n",
		want:  []*Block{stmtBlock("let x = 1;\n"), para(plain("after"))},
	},
	{
		name:  "EmbeddedBlockAtClose",
		input: "@{\n  a();\n@}\n",
		want:  []*Block{stmtBlock("  a();\n")},
	},
	{
		name:  "EmbeddedOneLineBlock",
		input: "@{x := 1}\n",
		want:  []*Block{stmtBlock("x := 1")},
	},
	{
		name:  "EmptyStatement",
		input: "@\n",
		want:  []*Block{stmtBlock("")},
	},
	{
		name:  "ControlAcrossBlocks",
		input: "@if ok {\n\n# Yes\n\n}\n",
		want: []*Block{
			para(stmt("if ok {")),
			heading(1, plain("Yes")),
			stmtBlock("}"),
		},
	},
	{
		name:  "ElseAcrossBlocks",
		input: "@if ok {\n\nyes\n} else {\n\nno\n\n}\n",
		want: []*Block{
			para(stmt("if ok {")),
			para(plain("yes")),
			stmtBlock("} else {"),
			para(plain("no")),
			stmtBlock("}"),
		},
	},
	{
		name:  "ClosingBraceWithoutOpenIsText",
		input: "}\n",
		want:  []*Block{para(plain("}"))},
	},
}

func TestParseBlocks(t *testing.T) {
	for _, test := range blockTests {
		t.Run(test.name, func(t *testing.T) {
			doc := Parse(test.input)
			if diff := cmp.Diff(test.want, doc.Body, treeOptions); diff != "" {
				t.Errorf("Parse(%q).Body (-want +got):\n%s", test.input, diff)
			}
		})
	}
}

func TestParseCommonMarkSettings(t *testing.T) {
	p := &Parser{Settings: CommonMarkSettings}
	doc := p.Parse("@{x}\n\nHi @name\n")
	want := []*Block{
		para(plain("@{x}")),
		para(plain("Hi @name")),
	}
	if diff := cmp.Diff(want, doc.Body, treeOptions); diff != "" {
		t.Errorf("Body (-want +got):\n%s", diff)
	}
}

func TestParseWithoutHTML(t *testing.T) {
	p := &Parser{Settings: Embedded}
	doc := p.Parse("<div>\n<b>x</b>\n")
	want := []*Block{
		para(plain("<div>"), softBreak(), plain("<b>x</b>")),
	}
	if diff := cmp.Diff(want, doc.Body, treeOptions); diff != "" {
		t.Errorf("Body (-want +got):\n%s", diff)
	}
}

func TestParseUnclosedBracePanics(t *testing.T) {
	defer func() {
		v := recover()
		if v == nil {
			t.Fatal("Parse did not panic")
		}
		if msg, _ := v.(string); !strings.Contains(msg, "still open") {
			t.Errorf("panic value = %v; want message about open blocks", v)
		}
	}()
	Parse("@if x {\nyes\n")
}

func TestNulReplaced(t *testing.T) {
	const src = "Hello,\x00World"
	doc := Parse(src)
	want := []*Block{para(plain("Hello,\uFFFDWorld"))}
	if diff := cmp.Diff(want, doc.Body, treeOptions); diff != "" {
		t.Errorf("Body (-want +got):\n%s", diff)
	}
	if doc.Source != src {
		t.Errorf("Source = %q; want %q", doc.Source, src)
	}
	// Locations index Source, where the NUL is one byte wide.
	if begin, end, ok := doc.Body[0].Location().Span(); ok && (begin != 0 || end != len(src)) {
		t.Errorf("paragraph span = [%d:%d]; want [0:%d]", begin, end, len(src))
	}
}

func nestedListDepth(b *Block) int {
	depth := 0
	for b != nil && b.Kind() == UnorderedListKind {
		depth++
		items := b.Items()
		if len(items) == 0 || len(items[0]) == 0 {
			break
		}
		b = items[0][0]
	}
	return depth
}

func nestedQuoteDepth(b *Block) int {
	depth := 0
	for b != nil && b.Kind() == QuoteKind {
		depth++
		blocks := b.Blocks()
		if len(blocks) == 0 {
			break
		}
		b = blocks[0]
	}
	return depth
}

func TestParseDeepNesting(t *testing.T) {
	const depth = 300
	t.Run("List", func(t *testing.T) {
		doc := Parse(strings.Repeat("- ", depth) + "x\n")
		if len(doc.Body) != 1 {
			t.Fatalf("len(Body) = %d; want 1", len(doc.Body))
		}
		if got := nestedListDepth(doc.Body[0]); got != depth {
			t.Errorf("list depth = %d; want %d", got, depth)
		}
	})
	t.Run("Quote", func(t *testing.T) {
		doc := Parse(strings.Repeat(">", depth) + " x\n")
		if len(doc.Body) != 1 {
			t.Fatalf("len(Body) = %d; want 1", len(doc.Body))
		}
		if got := nestedQuoteDepth(doc.Body[0]); got != depth {
			t.Errorf("quote depth = %d; want %d", got, depth)
		}
	})
}

func BenchmarkParseDeepNesting(b *testing.B) {
	for _, depth := range []int{50, 100, 200, 400} {
		lists := strings.Repeat("- ", depth) + "x\n"
		quotes := strings.Repeat(">", depth) + " x\n" + strings.Repeat(">", depth) + " y\n"
		b.Run(fmt.Sprintf("List/%d", depth), func(b *testing.B) {
			b.SetBytes(int64(len(lists)))
			for i := 0; i < b.N; i++ {
				Parse(lists)
			}
		})
		b.Run(fmt.Sprintf("Quote/%d", depth), func(b *testing.B) {
			b.SetBytes(int64(len(quotes)))
			for i := 0; i < b.N; i++ {
				Parse(quotes)
			}
		})
	}
}

func FuzzParse(f *testing.F) {
	for _, test := range blockTests {
		f.Add(test.input, false)
		f.Add(test.input, true)
	}
	for _, test := range inlineTests {
		f.Add(test.input, true)
	}
	f.Fuzz(func(t *testing.T, markdown string, commonMark bool) {
		p := &Parser{Settings: DefaultSettings}
		if commonMark {
			p.Settings = CommonMarkSettings
		}
		var doc *Document
		func() {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if msg, _ := v.(string); strings.Contains(msg, "embedded code blocks still open") {
					t.Skip(msg)
				}
				panic(v)
			}()
			doc = p.Parse(markdown)
		}()
		Walk(doc.AsNode(), &WalkOptions{
			Pre: func(c *Cursor) bool {
				var loc Location
				if b := c.Node().Block(); b != nil {
					loc = b.Location()
				} else if inline := c.Node().Inline(); inline != nil {
					loc = inline.Location()
				}
				begin, end, ok := loc.Span()
				if ok && (begin < 0 || end > len(markdown) || begin > end) {
					t.Errorf("node span [%d:%d] outside of input (len=%d)", begin, end, len(markdown))
				}
				return true
			},
		})
	})
}
