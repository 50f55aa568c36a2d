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

	"github.com/spf13/cobra"
	"zombiezen.com/go/actmd/htmlrender"
)

func newHTMLCommand(a *app) *cobra.Command {
	var (
		softBreak        string
		ignoreRaw        bool
		filterTags       bool
		embeddedComments bool
	)
	cmd := &cobra.Command{
		Use:   "html [file]",
		Short: "Render a document as HTML",
		Long: `Render the body of a document as HTML.

Flags override the corresponding settings in the config file.
Embedded code is omitted unless --embedded-comments is given.`,
		Args: optionalFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.cfg.Renderer()
			flags := cmd.Flags()
			if flags.Changed("soft-break") {
				sb, err := htmlrender.ParseSoftBreakBehavior(softBreak)
				if err != nil {
					return fmt.Errorf("%w: %v", errUsage, err)
				}
				r.SoftBreakBehavior = sb
			}
			if flags.Changed("ignore-raw") {
				r.IgnoreRaw = ignoreRaw
			}
			if flags.Changed("filter-tags") {
				r.FilterTag = nil
				if filterTags {
					r.FilterTag = htmlrender.FilterTagGFM
				}
			}
			if flags.Changed("embedded-comments") {
				r.Embedded = nil
				if embeddedComments {
					r.Embedded = htmlrender.EmbeddedAsComment
				}
			}

			doc, err := a.readDocument(cmd, args)
			if err != nil {
				return err
			}
			return r.Render(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&softBreak, "soft-break", "preserve", "render soft line breaks as preserve, space or harden")
	cmd.Flags().BoolVar(&ignoreRaw, "ignore-raw", false, "omit raw HTML")
	cmd.Flags().BoolVar(&filterTags, "filter-tags", false, "escape tags disallowed by GitHub Flavored Markdown")
	cmd.Flags().BoolVar(&embeddedComments, "embedded-comments", false, "keep embedded code as HTML comments")
	return cmd
}
