// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// previewContext is the number of unchanged lines kept around each change
const previewContext = 1

// 🔍 Preview renders the change from before to after as an inline word diff:
// deletions as [-text-], insertions as {+text+}. Long unchanged stretches are
// collapsed to "...".
func Preview(path, before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))

	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", color.New(color.Bold).Sprint("--- "+path))
	for i, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString(del.Sprint("[-" + d.Text + "-]"))
		case diffmatchpatch.DiffInsert:
			sb.WriteString(ins.Sprint("{+" + d.Text + "+}"))
		default:
			sb.WriteString(collapse(d.Text, i == 0, i == len(diffs)-1))
		}
	}
	if !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

// collapse trims an unchanged stretch down to the lines next to the changes
func collapse(s string, first, last bool) string {
	lines := strings.Split(s, "\n")
	keep := previewContext + 1

	switch {
	case first && last:
		return s
	case first:
		if len(lines) <= keep {
			return s
		}
		return "...\n" + strings.Join(lines[len(lines)-keep:], "\n")
	case last:
		if len(lines) <= keep {
			return s
		}
		return strings.Join(lines[:keep], "\n") + "\n..."
	default:
		if len(lines) <= 2*keep {
			return s
		}
		return strings.Join(lines[:keep], "\n") + "\n...\n" + strings.Join(lines[len(lines)-keep:], "\n")
	}
}
