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

package htmlrender

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"zombiezen.com/go/actmd"
	"zombiezen.com/go/actmd/internal/normhtml"
)

func render(tb testing.TB, r *Renderer, input string) string {
	tb.Helper()
	doc := actmd.Parse(input)
	buf := new(bytes.Buffer)
	if err := r.Render(buf, doc); err != nil {
		tb.Error("Render:", err)
	}
	return buf.String()
}

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Paragraph",
			input: "Hello World!",
			want:  "<p>Hello World!</p>\n",
		},
		{
			name:  "Heading",
			input: "## Hi ##\n",
			want:  "<h2>Hi</h2>\n",
		},
		{
			name:  "ThematicBreak",
			input: "***\n",
			want:  "<hr />\n",
		},
		{
			name:  "Escaping",
			input: "a < b & \"c\"",
			want:  "<p>a &lt; b &amp; &quot;c&quot;</p>\n",
		},
		{
			name:  "CodeBlock",
			input: "```go\nx := 1 < 2\n```\n",
			want:  "<pre><code class=\"language-go\">x := 1 &lt; 2\n</code></pre>\n",
		},
		{
			name:  "Quote",
			input: "> a\n> b\n",
			want:  "<blockquote>\n<p>a\nb</p>\n</blockquote>\n",
		},
		{
			name:  "TightList",
			input: "- a\n- b\n",
			want:  "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n",
		},
		{
			name:  "OrderedListStart",
			input: "3. x\n",
			want:  "<ol start=\"3\">\n<li>x</li>\n</ol>\n",
		},
		{
			name:  "Emphasis",
			input: "*a* **b**",
			want:  "<p><em>a</em> <strong>b</strong></p>\n",
		},
		{
			name:  "InlineLink",
			input: "[x](/u \"t\")",
			want:  "<p><a href=\"/u\" title=\"t\">x</a></p>\n",
		},
		{
			name:  "ReferenceLink",
			input: "[foo]\n\n[foo]: /url \"title\"\n",
			want:  "<p><a href=\"/url\" title=\"title\">foo</a></p>\n",
		},
		{
			name:  "UnresolvedReference",
			input: "[bar]",
			want:  "<p>[bar]</p>\n",
		},
		{
			name:  "ShortcutReferenceWithEmphasis",
			input: "[*foo* bar]\n\n[*foo* bar]: /url\n",
			want:  "<p><a href=\"/url\"><em>foo</em> bar</a></p>\n",
		},
		{
			name:  "UnresolvedShortcutReference",
			input: "[*foo*]\n",
			want:  "<p>[<em>foo</em>]</p>\n",
		},
		{
			name:  "ShortcutImageReference",
			input: "![*alt* text]\n\n[*alt* text]: /i.png\n",
			want:  "<p><img src=\"/i.png\" alt=\"alt text\" /></p>\n",
		},
		{
			name:  "Image",
			input: "![alt *text*](/img.png)",
			want:  "<p><img src=\"/img.png\" alt=\"alt text\" /></p>\n",
		},
		{
			name:  "Autolink",
			input: "<https://example.com/a b>",
			want:  "<p>&lt;https://example.com/a b&gt;</p>\n",
		},
		{
			name:  "EmailAutolink",
			input: "<me@example.com>",
			want:  "<p><a href=\"mailto:me@example.com\">me@example.com</a></p>\n",
		},
		{
			name:  "HardBreak",
			input: "a  \nb",
			want:  "<p>a<br />\nb</p>\n",
		},
		{
			name:  "EmbeddedOmitted",
			input: "Hi @name!",
			want:  "<p>Hi !</p>\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := render(t, new(Renderer), test.input)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEmbeddedAsComment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Expression",
			input: "Hi @name!",
			want:  "<p>Hi <!--@(name)-->!</p>\n",
		},
		{
			name:  "Statement",
			input: "@{x := 1}\n",
			want:  "<!--@{x := 1}-->",
		},
		{
			name:  "CommentDashes",
			input: "@(a--)",
			want:  "<p><!--@(a- -)--></p>\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := render(t, &Renderer{Embedded: EmbeddedAsComment}, test.input)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSoftBreakBehavior(t *testing.T) {
	tests := []struct {
		name     string
		behavior SoftBreakBehavior
		input    string
		want     string
	}{
		{
			name:     "PreserveLF",
			behavior: SoftBreakPreserve,
			input:    "Hello\nWorld!",
			want:     "<p>Hello\nWorld!</p>\n",
		},
		{
			name:     "PreserveCRLF",
			behavior: SoftBreakPreserve,
			input:    "Hello\r\nWorld!",
			want:     "<p>Hello\nWorld!</p>\n",
		},
		{
			name:     "Space",
			behavior: SoftBreakSpace,
			input:    "Hello\r\nWorld!",
			want:     "<p>Hello World!</p>\n",
		},
		{
			name:     "Harden",
			behavior: SoftBreakHarden,
			input:    "Hello\r\nWorld!",
			want:     "<p>Hello<br />\nWorld!</p>\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := render(t, &Renderer{SoftBreakBehavior: test.behavior}, test.input)
			if got != test.want {
				t.Errorf("output = %q; want %q", got, test.want)
			}
		})
	}
}

func TestParseSoftBreakBehavior(t *testing.T) {
	for _, want := range []SoftBreakBehavior{SoftBreakPreserve, SoftBreakSpace, SoftBreakHarden} {
		got, err := ParseSoftBreakBehavior(want.String())
		if err != nil || got != want {
			t.Errorf("ParseSoftBreakBehavior(%q) = %v, %v; want %v, <nil>", want.String(), got, err, want)
		}
	}
	if _, err := ParseSoftBreakBehavior("bogus"); err == nil {
		t.Error("ParseSoftBreakBehavior(\"bogus\") did not return an error")
	}
}

func TestRendererIgnoreRaw(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "NoRaw",
			input: "Hello World!",
			want:  "<p>Hello World!</p>\n",
		},
		{
			name:  "MarkdownStrong",
			input: "Hello **World**!",
			want:  "<p>Hello <strong>World</strong>!</p>\n",
		},
		{
			name:  "HTMLStrong",
			input: "Hello <strong>World</strong>!",
			want:  "<p>Hello World!</p>\n",
		},
		{
			name:  "HTMLBlock",
			input: "<table>\n<tr><td>Hello</td></tr>\n</table>",
			want:  "",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := render(t, &Renderer{IgnoreRaw: true}, test.input)
			if got != test.want {
				t.Errorf("output = %q; want %q", got, test.want)
			}
		})
	}
}

func TestRendererFilter(t *testing.T) {
	const input = "<strong> <title> <style> <em>\n\n" +
		"<blockquote>\n" +
		"  <xmp> is disallowed.  <XMP> is also disallowed.\n" +
		"</blockquote>\n"
	tests := []struct {
		name      string
		filterTag func(tag []byte) bool
		want      string
	}{
		{
			name:      "GFM",
			filterTag: FilterTagGFM,
			want: "<p><strong> &lt;title> &lt;style> <em></p>\n" +
				"<blockquote>\n" +
				"  &lt;xmp> is disallowed.  &lt;XMP> is also disallowed.\n" +
				"</blockquote>\n",
		},
		{
			name:      "AllowAll",
			filterTag: func(tag []byte) bool { return false },
			want: "<p><strong> <title> <style> <em></p>\n" +
				"<blockquote>\n" +
				"  <xmp> is disallowed.  <XMP> is also disallowed.\n" +
				"</blockquote>\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := render(t, &Renderer{FilterTag: test.filterTag}, input)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("-want +got:\n%s", diff)
			}
		})
	}
}

func TestRenderNormalized(t *testing.T) {
	const input = "# Title\n\n" +
		"Some *emphasis* and `code`.\n\n" +
		"1. one\n" +
		"2. two\n\n" +
		"> quoted\n"
	const want = "<h1>Title</h1>\n" +
		"<p>Some <em>emphasis</em> and <code>code</code>.</p>\n" +
		"<ol>\n  <li>one</li>\n  <li>two</li>\n</ol>\n" +
		"<blockquote>\n  <p>quoted</p>\n</blockquote>\n"
	got := normhtml.NormalizeHTML([]byte(render(t, new(Renderer), input)))
	if diff := cmp.Diff(string(normhtml.NormalizeHTML([]byte(want))), string(got)); diff != "" {
		t.Errorf("-want +got:\n%s", diff)
	}
}

type errWriter struct{}

var errWrite = errors.New("bork")

func (errWriter) Write(p []byte) (int, error) { return 0, errWrite }

func TestRenderWriteError(t *testing.T) {
	err := Render(errWriter{}, actmd.Parse("Hello"))
	if !errors.Is(err, errWrite) {
		t.Errorf("Render(...) = %v; want %v", err, errWrite)
	}
	if err != nil && !strings.HasPrefix(err.Error(), "render markdown to html: ") {
		t.Errorf("error %q does not start with \"render markdown to html: \"", err)
	}
}

func TestNormalizeURI(t *testing.T) {
	tests := []struct {
		s    string
		want string
	}{
		{"", ""},
		{"/url", "/url"},
		{"a b", "a%20b"},
		{"%20", "%20"},
		{"100%", "100%25"},
		{"ä", "%C3%A4"},
		{"https://example.com/?a=1&b=2#c", "https://example.com/?a=1&b=2#c"},
	}
	for _, test := range tests {
		if got := NormalizeURI(test.s); got != test.want {
			t.Errorf("NormalizeURI(%q) = %q; want %q", test.s, got, test.want)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	input := strings.Repeat("# Heading\n\nSome *text* with a [link](/x) and `code`.\n\n- a\n- b\n\n", 100)
	doc := actmd.Parse(input)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := Render(io.Discard, doc); err != nil {
			b.Fatal(err)
		}
	}
}
