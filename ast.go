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

import "fmt"

// Location is the span of source text that produced a node.
// Nodes that do not track their span have a zero Location.
type Location struct {
	Begin Position
	End   Position
}

// Span returns the byte offsets of l.
// ok is false if the package was built without span tracking.
func (l Location) Span() (begin, end int, ok bool) {
	begin, ok = l.Begin.Offset()
	end, _ = l.End.Offset()
	return begin, end, ok
}

// A Block is a structural element in a document.
// The accessors that are relevant depend on the block's [BlockKind].
type Block struct {
	kind    BlockKind
	level   int
	inlines []*Inline
	blocks  []*Block
	items   [][]*Block
	// text is the code block content, raw HTML, embedded code,
	// or link definition destination.
	text string
	// info is the code block info string, ordered list start number,
	// or link definition label.
	info  string
	title string
	loc   Location
}

// Kind returns the type of block or zero if b is nil.
func (b *Block) Kind() BlockKind {
	if b == nil {
		return 0
	}
	return b.kind
}

// Location returns the span of source that produced the block.
func (b *Block) Location() Location {
	if b == nil {
		return Location{}
	}
	return b.loc
}

// HeadingLevel returns the level of a [HeadingKind] block (1-6)
// or zero for any other block.
func (b *Block) HeadingLevel() int {
	if b.Kind() != HeadingKind {
		return 0
	}
	return b.level
}

// Inlines returns the content of a [HeadingKind] or [ParagraphKind] block.
func (b *Block) Inlines() []*Inline {
	if b == nil {
		return nil
	}
	return b.inlines
}

// Blocks returns the children of a [QuoteKind] block.
func (b *Block) Blocks() []*Block {
	if b == nil {
		return nil
	}
	return b.blocks
}

// Items returns the items of an [OrderedListKind] or [UnorderedListKind] block.
// Each item is a sequence of blocks.
func (b *Block) Items() [][]*Block {
	if b == nil {
		return nil
	}
	return b.items
}

// Text returns the verbatim content of a [CodeBlockKind], [HTMLBlockKind],
// [EmbeddedStatementBlockKind] or [EmbeddedExpressionBlockKind] block.
func (b *Block) Text() string {
	switch b.Kind() {
	case CodeBlockKind, HTMLBlockKind, EmbeddedStatementBlockKind, EmbeddedExpressionBlockKind:
		return b.text
	default:
		return ""
	}
}

// InfoString returns the [info string] of a [CodeBlockKind] block.
//
// [info string]: https://spec.commonmark.org/0.29/#info-string
func (b *Block) InfoString() string {
	if b.Kind() != CodeBlockKind {
		return ""
	}
	return b.info
}

// ListStart returns the start number of an [OrderedListKind] block
// as it was written in the source.
func (b *Block) ListStart() string {
	if b.Kind() != OrderedListKind {
		return ""
	}
	return b.info
}

// Label returns the label of a [LinkDefKind] block.
func (b *Block) Label() string {
	if b.Kind() != LinkDefKind {
		return ""
	}
	return b.info
}

// Destination returns the URL of a [LinkDefKind] block.
func (b *Block) Destination() string {
	if b.Kind() != LinkDefKind {
		return ""
	}
	return b.text
}

// Title returns the title of a [LinkDefKind] block.
func (b *Block) Title() string {
	if b.Kind() != LinkDefKind {
		return ""
	}
	return b.title
}

// BlockKind is an enumeration of values returned by [*Block.Kind].
type BlockKind uint16

const (
	// HeadingKind is used for an [ATX heading].
	// Its content is returned by [*Block.Inlines].
	//
	// [ATX heading]: https://spec.commonmark.org/0.29/#atx-headings
	HeadingKind BlockKind = 1 + iota
	// ParagraphKind is used for a [paragraph].
	//
	// [paragraph]: https://spec.commonmark.org/0.29/#paragraphs
	ParagraphKind
	// QuoteKind is used for a [block quote].
	//
	// [block quote]: https://spec.commonmark.org/0.29/#block-quotes
	QuoteKind
	// CodeBlockKind is used for a [fenced code block].
	//
	// [fenced code block]: https://spec.commonmark.org/0.29/#fenced-code-blocks
	CodeBlockKind
	// OrderedListKind is used for a list whose items start with numbers.
	OrderedListKind
	// UnorderedListKind is used for a list whose items start with bullets.
	UnorderedListKind
	// HTMLBlockKind is used for an [HTML block].
	//
	// [HTML block]: https://spec.commonmark.org/0.29/#html-blocks
	HTMLBlockKind
	// ThematicBreakKind is used for a [thematic break].
	//
	// [thematic break]: https://spec.commonmark.org/0.29/#thematic-breaks
	ThematicBreakKind
	// LinkDefKind is used for a [link reference definition].
	//
	// [link reference definition]: https://spec.commonmark.org/0.29/#link-reference-definitions
	LinkDefKind
	// EmbeddedStatementBlockKind is used for embedded code
	// that does not produce output by itself:
	// an @{...} block, a control-flow head like "if x {",
	// a closing "}" or a comment.
	EmbeddedStatementBlockKind
	// EmbeddedExpressionBlockKind is used for embedded code
	// whose value is written to the output, like @(expr).
	EmbeddedExpressionBlockKind
)

func (k BlockKind) String() string {
	switch k {
	case HeadingKind:
		return "Heading"
	case ParagraphKind:
		return "Paragraph"
	case QuoteKind:
		return "Quote"
	case CodeBlockKind:
		return "CodeBlock"
	case OrderedListKind:
		return "OrderedList"
	case UnorderedListKind:
		return "UnorderedList"
	case HTMLBlockKind:
		return "HTMLBlock"
	case ThematicBreakKind:
		return "ThematicBreak"
	case LinkDefKind:
		return "LinkDef"
	case EmbeddedStatementBlockKind:
		return "EmbeddedStatementBlock"
	case EmbeddedExpressionBlockKind:
		return "EmbeddedExpressionBlock"
	default:
		return fmt.Sprintf("BlockKind(%d)", uint16(k))
	}
}

// IsList reports whether k is [OrderedListKind] or [UnorderedListKind].
func (k BlockKind) IsList() bool {
	return k == OrderedListKind || k == UnorderedListKind
}

// An Inline is a run of text flow inside a paragraph or heading.
// The accessors that are relevant depend on the inline's [InlineKind].
type Inline struct {
	kind     InlineKind
	text     string
	children []*Inline
	dest     string
	title    string
	label    string
	loc      Location
}

// Kind returns the type of inline node or zero if inline is nil.
func (inline *Inline) Kind() InlineKind {
	if inline == nil {
		return 0
	}
	return inline.kind
}

// Location returns the span of source that produced the node.
// Only [PlainKind], [RawHTMLKind], [EmbeddedStatementKind] and
// [EmbeddedExpressionKind] nodes and links track their span.
func (inline *Inline) Location() Location {
	if inline == nil {
		return Location{}
	}
	return inline.loc
}

// Text returns the literal content of a [PlainKind], [RawHTMLKind],
// [CodeSpanKind], [EmbeddedStatementKind] or [EmbeddedExpressionKind] node.
func (inline *Inline) Text() string {
	if inline == nil {
		return ""
	}
	return inline.text
}

// Children returns the content of an emphasis, strong, link or image node.
func (inline *Inline) Children() []*Inline {
	if inline == nil {
		return nil
	}
	return inline.children
}

// Destination returns the URL of a [LinkKind] or [ImageKind] node.
func (inline *Inline) Destination() string {
	if inline == nil {
		return ""
	}
	return inline.dest
}

// Title returns the title of a [LinkKind] or [ImageKind] node.
func (inline *Inline) Title() string {
	if inline == nil {
		return ""
	}
	return inline.title
}

// Label returns the reference label of a [LinkRefKind] or [ImageRefKind] node.
// Shortcut and collapsed references have no children:
// their label is their link text as written in the source.
func (inline *Inline) Label() string {
	if inline == nil {
		return ""
	}
	return inline.label
}

// LinkText returns the link text of a link or image node.
// For a shortcut or collapsed reference,
// it is the node's label parsed as CommonMark inlines.
func (inline *Inline) LinkText() []*Inline {
	if inline == nil {
		return nil
	}
	if len(inline.children) > 0 || inline.kind != LinkRefKind && inline.kind != ImageRefKind {
		return inline.children
	}
	p := &Parser{Settings: CommonMarkSettings}
	return p.ParseInlines(inline.label)
}

// InlineKind is an enumeration of values returned by [*Inline.Kind].
type InlineKind uint16

const (
	// PlainKind is used for literal text.
	PlainKind InlineKind = 1 + iota
	// RawHTMLKind is used for [raw HTML].
	//
	// [raw HTML]: https://spec.commonmark.org/0.29/#raw-html
	RawHTMLKind
	// CodeSpanKind is used for a [code span].
	//
	// [code span]: https://spec.commonmark.org/0.29/#code-spans
	CodeSpanKind
	// SoftBreakKind is used for a [soft line break].
	//
	// [soft line break]: https://spec.commonmark.org/0.29/#soft-line-breaks
	SoftBreakKind
	// HardBreakKind is used for a [hard line break].
	//
	// [hard line break]: https://spec.commonmark.org/0.29/#hard-line-breaks
	HardBreakKind
	// EmphasisKind is used for emphasized text.
	EmphasisKind
	// StrongKind is used for strongly emphasized text.
	StrongKind
	// ImageKind is used for an image with an inline destination.
	ImageKind
	// ImageRefKind is used for an image that refers to a link definition.
	ImageRefKind
	// LinkKind is used for a link with an inline destination or an [autolink].
	//
	// [autolink]: https://spec.commonmark.org/0.29/#autolinks
	LinkKind
	// LinkRefKind is used for a link that refers to a link definition.
	LinkRefKind
	// EmbeddedStatementKind is the inline form of [EmbeddedStatementBlockKind].
	EmbeddedStatementKind
	// EmbeddedExpressionKind is the inline form of [EmbeddedExpressionBlockKind].
	EmbeddedExpressionKind
)

func (k InlineKind) String() string {
	switch k {
	case PlainKind:
		return "Plain"
	case RawHTMLKind:
		return "RawHTML"
	case CodeSpanKind:
		return "CodeSpan"
	case SoftBreakKind:
		return "SoftBreak"
	case HardBreakKind:
		return "HardBreak"
	case EmphasisKind:
		return "Emphasis"
	case StrongKind:
		return "Strong"
	case ImageKind:
		return "Image"
	case ImageRefKind:
		return "ImageRef"
	case LinkKind:
		return "Link"
	case LinkRefKind:
		return "LinkRef"
	case EmbeddedStatementKind:
		return "EmbeddedStatement"
	case EmbeddedExpressionKind:
		return "EmbeddedExpression"
	default:
		return fmt.Sprintf("InlineKind(%d)", uint16(k))
	}
}

// textContent returns the concatenated literal text of a sequence of inlines
// with breaks turned into spaces.
func textContent(inlines []*Inline) string {
	var sb []byte
	stack := make([]*Inline, 0, len(inlines))
	for i := len(inlines) - 1; i >= 0; i-- {
		stack = append(stack, inlines[i])
	}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch curr.Kind() {
		case PlainKind, CodeSpanKind, RawHTMLKind:
			sb = append(sb, curr.text...)
		case SoftBreakKind, HardBreakKind:
			sb = append(sb, ' ')
		default:
			for i := len(curr.children) - 1; i >= 0; i-- {
				stack = append(stack, curr.children[i])
			}
		}
	}
	return string(sb)
}
