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

package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/walteh/librewrite/pkg/log"
	"github.com/walteh/librewrite/pkg/operation"
	"github.com/walteh/librewrite/pkg/rules"
)

// 📊 renderSummary renders the totals of an operation as a table
func renderSummary(s *operation.Summary) (string, error) {
	data := pterm.TableData{
		{"operation", "files", "changed", "replacements", "failed"},
		{s.Operation, strconv.Itoa(s.Scanned), strconv.Itoa(s.Changed), strconv.Itoa(s.Replacements), strconv.Itoa(s.Failed)},
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// 📋 renderRules renders a rule set as a table, one row per rule
func renderRules(rs *rules.RuleSet) (string, error) {
	data := pterm.TableData{{"#", "modifiers", "pattern", "replacement"}}
	for _, r := range rs.Rules() {
		data = append(data, []string{
			strconv.Itoa(r.Index),
			r.Modifiers.String(),
			r.Expr,
			fmt.Sprintf("%q", r.Replacement),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// 🏁 finish prints the summary of an operation and the closing status line
func finish(logger *log.Logger, s *operation.Summary, runErr error, root string, dryRun bool) error {
	if s == nil {
		return runErr
	}

	table, err := renderSummary(s)
	if err != nil {
		return err
	}
	logger.LogNewline()
	logger.Print(table + "\n")

	switch {
	case runErr != nil:
		if s.Failed > 0 {
			logger.Errorf("%d of %d files failed", s.Failed, s.Scanned)
		}
		return runErr
	case s.Scanned == 0:
		logger.Warningf("nothing to %s under %s", s.Operation, root)
	case dryRun:
		logger.Infof("dry run, %d of %d files would change", s.Changed, s.Scanned)
	default:
		logger.Successf("done, %d of %d files changed", s.Changed, s.Scanned)
	}
	return nil
}
