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
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"zombiezen.com/go/actmd"
)

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCommand(buildInfo{Version: "1.2.3", Commit: "abc123", Date: "2024-01-02"})
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--color=never"}, args...))
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand(buildInfo{})
	for _, name := range []string{"tree", "header", "html", "fmt", "version"} {
		sub, _, err := root.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, sub.Name())
		}
	}
}

func TestHTML(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{
			name:  "Heading",
			input: "# Hi\n",
			want:  "<h1>Hi</h1>\n",
		},
		{
			name:  "EmbeddedOmitted",
			input: "Hi @name!\n",
			want:  "<p>Hi !</p>\n",
		},
		{
			name:  "EmbeddedComments",
			args:  []string{"--embedded-comments"},
			input: "Hi @name!\n",
			want:  "<p>Hi <!--@(name)-->!</p>\n",
		},
		{
			name:  "SoftBreakSpace",
			args:  []string{"--soft-break=space"},
			input: "a\nb\n",
			want:  "<p>a b</p>\n",
		},
		{
			name:  "IgnoreRaw",
			args:  []string{"--ignore-raw"},
			input: "<div>x</div>\n",
			want:  "",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			stdout, _, err := execute(t, test.input, append([]string{"html"}, test.args...)...)
			require.NoError(t, err)
			assert.Equal(t, test.want, stdout)
		})
	}
}

func TestHTMLInvalidSoftBreak(t *testing.T) {
	_, _, err := execute(t, "a\n", "html", "--soft-break=wrap")
	assert.ErrorIs(t, err, errUsage)
}

func TestHTMLFile(t *testing.T) {
	path := writeTemp(t, "doc.md", "Title: Doc\n\n*Hello*\n")
	stdout, _, err := execute(t, "", "html", path)
	require.NoError(t, err)
	assert.Equal(t, "<p><em>Hello</em></p>\n", stdout)
}

func TestFmt(t *testing.T) {
	stdout, _, err := execute(t, "*  one\n*  two\n", "fmt")
	require.NoError(t, err)
	assert.Equal(t, "- one\n- two\n", stdout)
}

func TestFmtWrite(t *testing.T) {
	path := writeTemp(t, "doc.md", "Title:  Doc\n\n#   Hi   #\n")
	stdout, _, err := execute(t, "", "fmt", "-w", path)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "title: Doc\n\n# Hi\n", string(got))
}

func TestFmtWriteStdin(t *testing.T) {
	_, _, err := execute(t, "# Hi\n", "fmt", "-w")
	assert.ErrorIs(t, err, errUsage)
}

func TestHeader(t *testing.T) {
	const input = "Title: A\nTag: x\nTag: y\n\nBody\n"

	t.Run("Text", func(t *testing.T) {
		stdout, _, err := execute(t, input, "header")
		require.NoError(t, err)
		assert.Equal(t, "title: A\ntag: x\ntag: y\n", stdout)
	})

	t.Run("YAML", func(t *testing.T) {
		stdout, _, err := execute(t, input, "header", "--format=yaml")
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
		assert.Equal(t, map[string]any{
			"title": "A",
			"tag":   []any{"x", "y"},
		}, got)
	})

	t.Run("Get", func(t *testing.T) {
		stdout, _, err := execute(t, input, "header", "--get", "TAG")
		require.NoError(t, err)
		assert.Equal(t, "x\ny\n", stdout)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, _, err := execute(t, input, "header", "--get", "author")
		assert.Error(t, err)
	})

	t.Run("BadFormat", func(t *testing.T) {
		_, _, err := execute(t, input, "header", "--format=json")
		assert.ErrorIs(t, err, errUsage)
	})
}

func TestHeaderYAMLEmpty(t *testing.T) {
	data, err := headerYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestTree(t *testing.T) {
	stdout, _, err := execute(t, "# Hi\n\n- @(x)\n", "tree")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Document\n")
	assert.Contains(t, stdout, "  Heading level=1\n")
	assert.Contains(t, stdout, "    Plain \"Hi\"\n")
	assert.Contains(t, stdout, "  UnorderedList\n")
	assert.Contains(t, stdout, "    Item 0\n")
	assert.Contains(t, stdout, "EmbeddedExpression")
}

func TestTreeSpans(t *testing.T) {
	stdout, _, err := execute(t, "# Hi\n", "tree", "--spans")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Plain \"Hi\" [2:4]\n")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "version=1.2.3")
	assert.Contains(t, stdout, "commit=abc123")
}

func TestInvalidUTF8(t *testing.T) {
	_, _, err := execute(t, "bad \xff\n", "html")
	assert.ErrorIs(t, err, actmd.ErrInvalidUTF8)

	path := writeTemp(t, "bad.md", "bad \xff\n")
	_, _, err = execute(t, "", "html", path)
	assert.ErrorIs(t, err, actmd.ErrInvalidUTF8)
}

func TestUnclosedBrace(t *testing.T) {
	_, _, err := execute(t, "@if ok {\nyes\n", "tree")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "still open")
}

func TestTooManyArgs(t *testing.T) {
	_, _, err := execute(t, "", "html", "a.md", "b.md")
	assert.ErrorIs(t, err, errUsage)
}

func TestUnknownFlag(t *testing.T) {
	_, _, err := execute(t, "", "html", "--bogus")
	assert.ErrorIs(t, err, errUsage)
}

func TestConfigFile(t *testing.T) {
	cfg := writeTemp(t, "actmd.yml", "embedded: false\nsoft_break: harden\n")
	stdout, _, err := execute(t, "a\n@b\n", "--config", cfg, "html")
	require.NoError(t, err)
	assert.Equal(t, "<p>a<br />\n@b</p>\n", stdout)
}

func TestDebugLogging(t *testing.T) {
	_, stderr, err := execute(t, "# Hi\n", "--debug", "tree")
	require.NoError(t, err)
	assert.Contains(t, stderr, "parsed")
}

func TestColorInvalid(t *testing.T) {
	_, _, err := execute(t, "", "--color=sometimes", "version")
	assert.ErrorIs(t, err, errUsage)
}

func TestIsColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, isColorEnabled("always", &buf))
	assert.False(t, isColorEnabled("never", &buf))
	assert.False(t, isColorEnabled("auto", &buf))
}
