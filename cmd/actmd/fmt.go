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
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"zombiezen.com/go/actmd/format"
	"zombiezen.com/go/actmd/internal/logging"
)

func newFmtCommand(a *app) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reformat a document",
		Long: `Print a document in normalized Markdown form.

With -w, the file is rewritten in place instead.
The file is left untouched if it is already formatted.`,
		Args: optionalFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(cmd, args)
			if err != nil {
				return err
			}
			buf := new(bytes.Buffer)
			if err := format.Format(buf, doc); err != nil {
				return err
			}
			if !write {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if doc.Path == "" {
				return fmt.Errorf("%w: -w requires a file argument", errUsage)
			}
			if buf.String() == doc.Source {
				a.logger.Debug("already formatted", logging.FieldPath, doc.Path)
				return nil
			}
			if err := writeFile(doc.Path, buf.Bytes()); err != nil {
				return fmt.Errorf("format %s: %w", doc.Path, err)
			}
			a.logger.Info("formatted", logging.FieldPath, doc.Path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to the source file")
	return cmd
}
