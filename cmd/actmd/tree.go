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

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"zombiezen.com/go/actmd"
)

func newTreeCommand(a *app) *cobra.Command {
	var spans bool
	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the syntax tree of a document",
		Args:  optionalFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(cmd, args)
			if err != nil {
				return err
			}
			st := a.styles(cmd.OutOrStdout())
			sb := new(strings.Builder)
			actmd.Walk(doc.AsNode(), &actmd.WalkOptions{
				Pre: func(c *actmd.Cursor) bool {
					sb.WriteString(strings.Repeat("  ", c.Depth()))
					writeNode(sb, st, c.Node(), spans)
					sb.WriteByte('\n')
					return true
				},
			})
			_, err = fmt.Fprint(cmd.OutOrStdout(), sb.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&spans, "spans", false, "show the source byte range of each node")
	return cmd
}

// writeNode writes a one-line description of n.
func writeNode(sb *strings.Builder, st *styles, n actmd.Node, spans bool) {
	var loc actmd.Location
	hasLoc := false
	switch {
	case n.Document() != nil:
		doc := n.Document()
		sb.WriteString(st.Kind.Render("Document"))
		if doc.Path != "" {
			sb.WriteString(" " + st.Text.Render(doc.Path))
		}
		for _, f := range doc.Header {
			sb.WriteString(" " + attr(st, f.Key, f.Value))
		}
	case n.Block() != nil:
		b := n.Block()
		loc, hasLoc = b.Location(), true
		sb.WriteString(st.Kind.Render(b.Kind().String()))
		switch b.Kind() {
		case actmd.HeadingKind:
			sb.WriteString(" " + st.Attr.Render(fmt.Sprintf("level=%d", b.HeadingLevel())))
		case actmd.OrderedListKind:
			sb.WriteString(" " + st.Attr.Render("start="+b.ListStart()))
		case actmd.CodeBlockKind:
			if b.InfoString() != "" {
				sb.WriteString(" " + attr(st, "info", b.InfoString()))
			}
			sb.WriteString(" " + st.Text.Render(fmt.Sprintf("%q", b.Text())))
		case actmd.HTMLBlockKind:
			sb.WriteString(" " + st.Text.Render(fmt.Sprintf("%q", b.Text())))
		case actmd.EmbeddedStatementBlockKind, actmd.EmbeddedExpressionBlockKind:
			sb.WriteString(" " + st.Code.Render(fmt.Sprintf("%q", b.Text())))
		case actmd.LinkDefKind:
			sb.WriteString(" " + attr(st, "label", b.Label()))
			sb.WriteString(" " + attr(st, "dest", b.Destination()))
			if b.Title() != "" {
				sb.WriteString(" " + attr(st, "title", b.Title()))
			}
		}
	case n.Inline() != nil:
		inline := n.Inline()
		loc, hasLoc = inline.Location(), true
		sb.WriteString(st.Kind.Render(inline.Kind().String()))
		switch inline.Kind() {
		case actmd.PlainKind, actmd.RawHTMLKind, actmd.CodeSpanKind:
			sb.WriteString(" " + st.Text.Render(fmt.Sprintf("%q", inline.Text())))
		case actmd.EmbeddedStatementKind, actmd.EmbeddedExpressionKind:
			sb.WriteString(" " + st.Code.Render(fmt.Sprintf("%q", inline.Text())))
		case actmd.LinkKind, actmd.ImageKind:
			sb.WriteString(" " + attr(st, "dest", inline.Destination()))
			if inline.Title() != "" {
				sb.WriteString(" " + attr(st, "title", inline.Title()))
			}
		case actmd.LinkRefKind, actmd.ImageRefKind:
			sb.WriteString(" " + attr(st, "label", inline.Label()))
		}
	default:
		if _, i := n.ListItem(); i >= 0 {
			sb.WriteString(st.Kind.Render(fmt.Sprintf("Item %d", i)))
		}
	}
	if spans && hasLoc {
		if begin, end, ok := loc.Span(); ok && end > begin {
			sb.WriteString(" " + st.Comment.Render(fmt.Sprintf("[%d:%d]", begin, end)))
		}
	}
}

func attr(st *styles, key, value string) string {
	return st.Attr.Render(key+"=") + st.Text.Render(fmt.Sprintf("%q", value))
}
