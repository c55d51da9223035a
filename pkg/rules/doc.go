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

/*
Package rules compiles a rule script into an ordered, immutable RuleSet.

	Pat:(?1)(?i)^draft:\s*(.*)$
	Rep:NOTE: $1
	                 |
	          +------+------+
	          |    Parse    |
	          +------+------+
	                 |
	   +-------------+-------------+
	   |                           |
	+--+-----------+      +--------+-----+
	| modifiers    |      |  regexp      |
	| (?1) (?i)    |      |  ^draft:...  |
	+--------------+      +--------------+

🎯 Purpose:
  - Read "Pat:" and "Rep:" lines in order and pair them by index
  - Strip leading modifier tokens and turn them into regexp flags
  - Fail before any file is touched when the script is unusable

🏳️ Modifier tokens, consumed from the front of a pattern in any order:

	(?m)          multiline
	(?i)          case-insensitive
	(?im) (?mi)   both of the above
	(?s)          dot matches newline
	(?1)          suppress-gate: once a (?1) rule matches in a file,
	              later (?1) rules are skipped for that file

🔍 Example:

	rs, err := rules.Load(ctx, "migrate.rules")
	if err != nil {
		var cerr *rules.ConfigError
		if errors.As(err, &cerr) {
			// bad script, nothing was changed
		}
		return err
	}
*/
package rules
