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

package htmlrender

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"zombiezen.com/go/actmd"
	"zombiezen.com/go/actmd/internal/normhtml"
)

// TestCommonMarkExamples renders a selection of examples
// from the CommonMark test suite with embedded code disabled.
func TestCommonMarkExamples(t *testing.T) {
	p := &actmd.Parser{Settings: actmd.CommonMarkSettings}
	for _, test := range loadExamples(t) {
		t.Run(fmt.Sprintf("Example%d", test.Example), func(t *testing.T) {
			doc := p.Parse(test.Markdown)
			buf := new(bytes.Buffer)
			if err := new(Renderer).Render(buf, doc); err != nil {
				t.Error("Render:", err)
			}
			got := string(normhtml.NormalizeHTML(buf.Bytes()))
			want := string(normhtml.NormalizeHTML([]byte(test.HTML)))
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("%s\nInput:\n%s\nOutput (-want +got):\n%s", test.Section, test.Markdown, diff)
			}
		})
	}
}

type commonMarkExample struct {
	Markdown string
	HTML     string
	Example  int
	Section  string
}

func loadExamples(tb testing.TB) []commonMarkExample {
	tb.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "commonmark.json"))
	if err != nil {
		tb.Fatal(err)
	}
	var examples []commonMarkExample
	if err := json.Unmarshal(data, &examples); err != nil {
		tb.Fatal(err)
	}
	return examples
}
