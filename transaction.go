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

// A transaction is a speculative read of a cursor.
// Unless commit is called, rollback returns the cursor
// to where the transaction began.
//
//	t := begin(c)
//	defer t.rollback()
//	// ...
//	t.commit()
type transaction struct {
	cursor
	start int
	done  bool
}

func begin(c cursor) *transaction {
	return &transaction{cursor: c, start: c.pos()}
}

func (t *transaction) reset(pos int) error {
	if pos < t.start {
		return errRewind
	}
	return t.cursor.reset(pos)
}

func (t *transaction) commit() {
	t.done = true
}

func (t *transaction) rollback() {
	if t.done {
		return
	}
	t.done = true
	mustReset(t.cursor, t.start)
}
