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
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

type styles struct {
	Kind    lipgloss.Style
	Text    lipgloss.Style
	Attr    lipgloss.Style
	Code    lipgloss.Style
	Key     lipgloss.Style
	Comment lipgloss.Style
}

// newStyles returns the styles for output written to w.
func newStyles(w io.Writer, color bool) *styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &styles{
		Kind:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Text:    r.NewStyle().Foreground(lipgloss.Color("7")),
		Attr:    r.NewStyle().Foreground(lipgloss.Color("3")),
		Code:    r.NewStyle().Foreground(lipgloss.Color("5")),
		Key:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Comment: r.NewStyle().Faint(true),
	}
}

// isColorEnabled reports whether output to w should be colorized
// for the given --color mode.
func isColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
