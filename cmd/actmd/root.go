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
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"zombiezen.com/go/actmd"
	"zombiezen.com/go/actmd/internal/config"
	"zombiezen.com/go/actmd/internal/logging"
)

type buildInfo struct {
	Version string
	Commit  string
	Date    string
}

// errUsage is wrapped by errors caused by invalid command-line arguments.
var errUsage = errors.New("usage")

// app holds the state shared by subcommands after flags are parsed.
type app struct {
	debug      bool
	configPath string
	color      string

	cfg    *config.Config
	logger *log.Logger
}

func newRootCommand(info buildInfo) *cobra.Command {
	a := new(app)
	root := &cobra.Command{
		Use:   "actmd",
		Short: "Parse Markdown documents with embedded code",
		Long: `actmd parses Markdown documents that contain a header block
and "@" embedded code, and prints them as a syntax tree, HTML,
or normalized Markdown.

Commands that take a file read standard input when no file is given.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (default "+config.DefaultPath+" if present)")
	root.PersistentFlags().StringVar(&a.color, "color", "auto", "colorize output: auto, always, never")

	root.AddCommand(
		newTreeCommand(a),
		newHeaderCommand(a),
		newHTMLCommand(a),
		newFmtCommand(a),
		newVersionCommand(info),
	)
	return root
}

// optionalFile accepts zero or one file arguments.
func optionalFile(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: accepts at most one file, got %d", errUsage, len(args))
	}
	return nil
}

func (a *app) init(cmd *cobra.Command) error {
	switch a.color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: invalid --color %q", errUsage, a.color)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if level == "" {
		level = "warn"
	}
	if a.debug {
		level = "debug"
	}
	a.logger = logging.NewWriter(cmd.ErrOrStderr(), level)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	a.logger.Debug("starting", logging.FieldCommand, cmd.Name(), logging.FieldConfig, a.configPath)
	return nil
}

// parser returns a parser configured from the config file.
func (a *app) parser() *actmd.Parser {
	return &actmd.Parser{
		Settings: a.cfg.Settings(),
		Logger:   a.logger,
	}
}

// readDocument parses the file named by args
// or standard input if args is empty or "-".
func (a *app) readDocument(cmd *cobra.Command, args []string) (doc *actmd.Document, err error) {
	p := a.parser()
	// Unbalanced embedded braces are reported by panicking.
	defer func() {
		if v := recover(); v != nil {
			doc = nil
			err = fmt.Errorf("%v", v)
		}
	}()

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("parse stdin: %w", err)
		}
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("parse stdin: %w", actmd.ErrInvalidUTF8)
		}
		doc = p.Parse(string(data))
	} else {
		doc, err = p.ParseFile(args[0])
		if err != nil {
			return nil, err
		}
	}
	a.logger.Debug("parsed",
		logging.FieldPath, doc.Path,
		logging.FieldHeaders, len(doc.Header),
		logging.FieldBlocks, len(doc.Body),
	)
	return doc, nil
}

func (a *app) styles(w io.Writer) *styles {
	return newStyles(w, isColorEnabled(a.color, w))
}

// writeFile replaces the contents of path, keeping its permissions.
func writeFile(path string, data []byte) error {
	perm := os.FileMode(0o666)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, data, perm)
}
