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

import "unsafe"

const (
	nodeTypeDocument = 1 + iota
	nodeTypeBlock
	nodeTypeItem
	nodeTypeInline
)

// Node is a pointer to a [Document], a [Block], a list item or an [Inline].
// Nodes can be compared for equality using the == operator.
type Node struct {
	ptr   unsafe.Pointer
	typ   uint8
	index int
}

// Document returns the referenced document
// or nil if the pointer does not reference a document.
func (n Node) Document() *Document {
	if n.typ != nodeTypeDocument {
		return nil
	}
	return (*Document)(n.ptr)
}

// Block returns the referenced block
// or nil if the pointer does not reference a block.
func (n Node) Block() *Block {
	if n.typ != nodeTypeBlock {
		return nil
	}
	return (*Block)(n.ptr)
}

// ListItem returns the list containing the referenced item
// and the item's index in [*Block.Items].
// list is nil if the pointer does not reference a list item.
func (n Node) ListItem() (list *Block, index int) {
	if n.typ != nodeTypeItem {
		return nil, -1
	}
	return (*Block)(n.ptr), n.index
}

// Inline returns the referenced inline
// or nil if the pointer does not reference an inline.
func (n Node) Inline() *Inline {
	if n.typ != nodeTypeInline {
		return nil
	}
	return (*Inline)(n.ptr)
}

// ChildCount returns the number of children the node has.
// Calling ChildCount on the zero value returns 0.
func (n Node) ChildCount() int {
	switch n.typ {
	case nodeTypeDocument:
		return len(n.Document().Body)
	case nodeTypeBlock:
		b := n.Block()
		switch {
		case b.Kind().IsList():
			return len(b.items)
		case b.Kind() == QuoteKind:
			return len(b.blocks)
		default:
			return len(b.inlines)
		}
	case nodeTypeItem:
		list, i := n.ListItem()
		return len(list.items[i])
	case nodeTypeInline:
		return len(n.Inline().children)
	default:
		return 0
	}
}

// Child returns the i'th child of the node.
func (n Node) Child(i int) Node {
	switch n.typ {
	case nodeTypeDocument:
		return n.Document().Body[i].AsNode()
	case nodeTypeBlock:
		b := n.Block()
		switch {
		case b.Kind().IsList():
			_ = b.items[i]
			return Node{ptr: unsafe.Pointer(b), typ: nodeTypeItem, index: i}
		case b.Kind() == QuoteKind:
			return b.blocks[i].AsNode()
		default:
			return b.inlines[i].AsNode()
		}
	case nodeTypeItem:
		list, j := n.ListItem()
		return list.items[j][i].AsNode()
	case nodeTypeInline:
		return n.Inline().children[i].AsNode()
	default:
		panic("Child on nil Node")
	}
}

// AsNode converts the document to a [Node] pointer.
func (d *Document) AsNode() Node {
	if d == nil {
		return Node{}
	}
	return Node{
		typ: nodeTypeDocument,
		ptr: unsafe.Pointer(d),
	}
}

// AsNode converts the block to a [Node] pointer.
func (b *Block) AsNode() Node {
	if b == nil {
		return Node{}
	}
	return Node{
		typ: nodeTypeBlock,
		ptr: unsafe.Pointer(b),
	}
}

// AsNode converts the inline node to a [Node] pointer.
func (inline *Inline) AsNode() Node {
	if inline == nil {
		return Node{}
	}
	return Node{
		typ: nodeTypeInline,
		ptr: unsafe.Pointer(inline),
	}
}
