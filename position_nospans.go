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

//go:build actmd_nospans

package actmd

// Position is a placeholder for a source offset.
// This build does not track spans.
type Position struct{}

func positionAt(int) Position {
	return Position{}
}

// Offset always reports false in this build.
func (Position) Offset() (off int, ok bool) {
	return 0, false
}

func (p Position) add(int) Position {
	return p
}
