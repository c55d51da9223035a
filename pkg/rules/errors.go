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

package rules

import (
	"fmt"
)

// ⚙️ ConfigError reports a rule script that cannot be turned into a RuleSet:
// missing or unreadable, no patterns, or unequal pattern and replacement counts
type ConfigError struct {
	Path   string // script path, "" when built in memory
	Reason string // what is wrong with the script
	Err    error  // underlying cause, if any
}

func (e *ConfigError) Error() string {
	msg := "rule script"
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// 💥 CompileError reports a pattern whose regular expression does not compile
type CompileError struct {
	Index   int    // rule index, -1 when compiled outside a rule set
	Pattern string // pattern text as written, modifiers included
	Err     error  // error from regexp
}

func (e *CompileError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("compiling pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("compiling pattern %d %q: %v", e.Index, e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
