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

package actmd

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStringCursor(t *testing.T) {
	c := newStringCursor("a\x00é", 0)
	var got []rune
	var offsets []int
	for c.peek() != eof {
		got = append(got, c.peek())
		offsets = append(offsets, c.pos())
		c.advance()
	}
	want := []rune{'a', '�', 'é'}
	if string(got) != string(want) {
		t.Errorf("runes = %q; want %q", got, want)
	}
	if wantOffsets := []int{0, 1, 2}; !cmp.Equal(offsets, wantOffsets) {
		t.Errorf("offsets = %v; want %v", offsets, wantOffsets)
	}
	if c.pos() != 4 {
		t.Errorf("pos at end = %d; want 4", c.pos())
	}
	c.advance()
	if c.peek() != eof || c.pos() != 4 {
		t.Errorf("advance at end moved cursor to %d (peek=%q)", c.pos(), c.peek())
	}
	if err := c.reset(5); err == nil {
		t.Error("reset(5) did not return an error")
	}
	if err := c.reset(1); err != nil {
		t.Fatal(err)
	}
	if c.peek() != '�' {
		t.Errorf("after reset(1), peek() = %q; want %q", c.peek(), '�')
	}
}

func TestTransaction(t *testing.T) {
	c := newStringCursor("abc", 0)
	c.advance()

	t.Run("Rollback", func(t *testing.T) {
		tx := begin(c)
		tx.advance()
		tx.advance()
		tx.rollback()
		if c.pos() != 1 {
			t.Errorf("pos = %d; want 1", c.pos())
		}
	})

	t.Run("Commit", func(t *testing.T) {
		tx := begin(c)
		tx.advance()
		tx.commit()
		tx.rollback()
		if c.pos() != 2 {
			t.Errorf("pos = %d; want 2", c.pos())
		}
		mustReset(c, 1)
	})

	t.Run("ResetBeforeStart", func(t *testing.T) {
		tx := begin(c)
		defer tx.rollback()
		if err := tx.reset(0); !errors.Is(err, errRewind) {
			t.Errorf("reset(0) = %v; want %v", err, errRewind)
		}
	})
}

func TestSkipSeq(t *testing.T) {
	c := newStringCursor("@if x", 0)
	if skipSeq(c, "@for") {
		t.Error(`skipSeq(c, "@for") = true`)
	}
	if c.pos() != 0 {
		t.Errorf("failed skipSeq moved cursor to %d", c.pos())
	}
	if !skipSeq(c, "@if") {
		t.Error(`skipSeq(c, "@if") = false`)
	}
	if c.pos() != 3 {
		t.Errorf("pos = %d; want 3", c.pos())
	}
}

func TestSkipNewline(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantPos int
	}{
		{"\n", true, 1},
		{"\r\n", true, 2},
		{"\r", true, 1},
		{"x", false, 0},
		{"", false, 0},
	}
	for _, test := range tests {
		c := newStringCursor(test.input, 0)
		if got := skipNewline(c); got != test.want || c.pos() != test.wantPos {
			t.Errorf("skipNewline(%q) = %t, pos %d; want %t, pos %d", test.input, got, c.pos(), test.want, test.wantPos)
		}
	}
}

func TestCopyUntilMatch(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		ok      bool
		wantPos int
	}{
		{"x}", "x}", true, 2},
		{"a {b} c} rest", "a {b} c}", true, 8},
		{`\}}`, "}}", true, 3},
		{`\\}`, `\}`, true, 3},
		{`\n}`, `\n}`, true, 3},
		{"{unclosed}", "", false, 10},
	}
	for _, test := range tests {
		c := newStringCursor(test.input, 0)
		buf := []byte("prefix:")
		ok := copyUntilMatch(c, &buf, '{', '}')
		got := string(buf[len("prefix:"):])
		if got != test.want || ok != test.ok || c.pos() != test.wantPos {
			t.Errorf("copyUntilMatch(%q) = %q, %t, pos %d; want %q, %t, pos %d",
				test.input, got, ok, c.pos(), test.want, test.ok, test.wantPos)
		}
	}
}

func TestCopyUntilSeq(t *testing.T) {
	c := newStringCursor("a --b-->c", 0)
	var buf []byte
	if !copyUntilSeq(c, &buf, "-->") {
		t.Fatal("copyUntilSeq returned false")
	}
	if got, want := string(buf), "a --b-->"; got != want {
		t.Errorf("buf = %q; want %q", got, want)
	}
	if c.peek() != 'c' {
		t.Errorf("peek() = %q; want 'c'", c.peek())
	}
}
