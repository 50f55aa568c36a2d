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
	"gopkg.in/yaml.v3"
	"zombiezen.com/go/actmd"
)

func newHeaderCommand(a *app) *cobra.Command {
	var (
		format string
		get    string
	)
	cmd := &cobra.Command{
		Use:   "header [file]",
		Short: "Print the header fields of a document",
		Long: `Print the header fields of a document.

With --get, only the values of the given key are printed, one per line.
The yaml format writes fields that occur more than once as a sequence.`,
		Args: optionalFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "yaml" {
				return fmt.Errorf("%w: invalid --format %q", errUsage, format)
			}
			doc, err := a.readDocument(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if get != "" {
				values := doc.Values(get)
				if len(values) == 0 {
					return fmt.Errorf("header %q not found", get)
				}
				for _, v := range values {
					if _, err := fmt.Fprintln(out, v); err != nil {
						return err
					}
				}
				return nil
			}
			if format == "yaml" {
				data, err := headerYAML(doc.Header)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}
			st := a.styles(out)
			sb := new(strings.Builder)
			for _, f := range doc.Header {
				sb.WriteString(st.Key.Render(f.Key + ":"))
				for i, line := range strings.Split(f.Value, "\n") {
					if i > 0 {
						sb.WriteString("\n ")
					}
					sb.WriteString(" " + st.Text.Render(line))
				}
				sb.WriteByte('\n')
			}
			_, err = fmt.Fprint(out, sb.String())
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	cmd.Flags().StringVar(&get, "get", "", "print only the values of `key`")
	return cmd
}

// headerYAML encodes header fields as a YAML mapping in source order.
func headerYAML(fields []actmd.HeaderField) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	index := make(map[string]*yaml.Node)
	for _, f := range fields {
		value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Value}
		prev := index[f.Key]
		switch {
		case prev == nil:
			root.Content = append(root.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Key},
				value,
			)
			index[f.Key] = value
		case prev.Kind == yaml.SequenceNode:
			prev.Content = append(prev.Content, value)
		default:
			// Turn the earlier scalar into a sequence in place.
			first := *prev
			*prev = yaml.Node{Kind: yaml.SequenceNode, Content: []*yaml.Node{&first, value}}
		}
	}
	if len(root.Content) == 0 {
		return []byte("{}\n"), nil
	}
	data, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}
	return data, nil
}
