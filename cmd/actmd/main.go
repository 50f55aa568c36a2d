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

// actmd parses Markdown documents with embedded code
// and prints them as a tree, HTML or normalized Markdown.
package main

import (
	"context"
	"errors"
	"os"

	"zombiezen.com/go/actmd/internal/logging"
)

// Set at build time with -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := logging.WithLogger(context.Background(), logging.New("warn"))
	root := newRootCommand(buildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		logger := logging.FromContext(root.Context())
		if errors.Is(err, errUsage) {
			logger.Error(err.Error())
			return 2
		}
		logger.Error("command failed", logging.FieldError, err)
		return 1
	}
	return 0
}
