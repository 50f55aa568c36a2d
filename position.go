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

//go:build !actmd_nospans

package actmd

// Position is a byte offset into a document's source text.
// Building with the actmd_nospans tag replaces Position with an empty struct
// so that every [Location] compares equal.
type Position int

func positionAt(off int) Position {
	return Position(off)
}

// Offset returns the byte offset of p.
// ok is false if the package was built without span tracking.
func (p Position) Offset() (off int, ok bool) {
	return int(p), true
}

func (p Position) add(n int) Position {
	return p + Position(n)
}
