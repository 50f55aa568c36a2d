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

// Package config loads the YAML configuration file of the actmd command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
	"zombiezen.com/go/actmd"
	"zombiezen.com/go/actmd/htmlrender"
)

// DefaultPath is the file read when no configuration path is given.
const DefaultPath = ".actmd.yml"

// Config is the contents of a configuration file.
// Unset fields keep the library defaults.
type Config struct {
	// HTML enables raw HTML recognition.
	HTML *bool `yaml:"html"`
	// Embedded enables "@" embedded code recognition.
	Embedded *bool `yaml:"embedded"`
	// SoftBreak is the name of a [htmlrender.SoftBreakBehavior].
	SoftBreak string `yaml:"soft_break"`
	// IgnoreRaw omits raw HTML from rendered output.
	IgnoreRaw bool `yaml:"ignore_raw"`
	// FilterTags escapes the tags disallowed by GitHub Flavored Markdown.
	FilterTags bool `yaml:"filter_tags"`
	// EmbeddedComments keeps embedded code in rendered output as HTML comments.
	EmbeddedComments bool `yaml:"embedded_comments"`
	// LogLevel is the default log level.
	LogLevel string `yaml:"log_level"`
}

// Load reads the configuration file at path.
// If path is empty, Load reads [DefaultPath]
// and returns an empty configuration if it does not exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return new(Config), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration from YAML.
// Unknown keys are an error.
func Parse(data []byte) (*Config, error) {
	cfg := new(Config)
	if len(data) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if _, err := cfg.softBreak(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Settings returns the parser settings selected by the configuration.
func (cfg *Config) Settings() actmd.Settings {
	s := actmd.DefaultSettings
	if cfg.HTML != nil && !*cfg.HTML {
		s &^= actmd.HTML
	}
	if cfg.Embedded != nil && !*cfg.Embedded {
		s &^= actmd.Embedded
	}
	return s
}

// Renderer returns an HTML renderer with the configured options.
func (cfg *Config) Renderer() *htmlrender.Renderer {
	sb, _ := cfg.softBreak()
	r := &htmlrender.Renderer{
		SoftBreakBehavior: sb,
		IgnoreRaw:         cfg.IgnoreRaw,
	}
	if cfg.FilterTags {
		r.FilterTag = htmlrender.FilterTagGFM
	}
	if cfg.EmbeddedComments {
		r.Embedded = htmlrender.EmbeddedAsComment
	}
	return r
}

func (cfg *Config) softBreak() (htmlrender.SoftBreakBehavior, error) {
	if cfg.SoftBreak == "" {
		return htmlrender.SoftBreakPreserve, nil
	}
	return htmlrender.ParseSoftBreakBehavior(cfg.SoftBreak)
}
