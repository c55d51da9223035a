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
	"regexp"
	"strings"
)

// 🏳️ Modifiers are the per-rule flags parsed from the front of a pattern
type Modifiers struct {
	Multiline       bool // ^ and $ match at line boundaries
	CaseInsensitive bool // letters match without regard to case
	DotAll          bool // . also matches \n
	Suppress        bool // a match disables later suppress-flagged rules for the rest of the file
}

// 🔤 flags returns the inline regexp flag group for these modifiers, or "" if none apply
func (m Modifiers) flags() string {
	var sb strings.Builder
	if m.CaseInsensitive {
		sb.WriteByte('i')
	}
	if m.Multiline {
		sb.WriteByte('m')
	}
	if m.DotAll {
		sb.WriteByte('s')
	}
	if sb.Len() == 0 {
		return ""
	}
	return "(?" + sb.String() + ")"
}

// String returns the modifier tokens that would produce m, in table order
func (m Modifiers) String() string {
	var sb strings.Builder
	if m.Suppress {
		sb.WriteString(TokenSuppress)
	}
	if m.CaseInsensitive {
		sb.WriteString(TokenCaseInsensitive)
	}
	if m.Multiline {
		sb.WriteString(TokenMultiline)
	}
	if m.DotAll {
		sb.WriteString(TokenDotAll)
	}
	return sb.String()
}

// Modifier tokens recognized at the start of a pattern.
const (
	TokenMultiline       = "(?m)"
	TokenCaseInsensitive = "(?i)"
	TokenDotAll          = "(?s)"
	TokenSuppress        = "(?1)"
)

// 🧩 modifier maps one leading token to its effect
type modifier struct {
	token string
	apply func(*Modifiers)
}

// modifierTable is tried in order until no token matches the front of the pattern.
// New tokens are added here; callers of Compile are unaffected.
var modifierTable = []modifier{
	{token: TokenMultiline, apply: func(m *Modifiers) { m.Multiline = true }},
	{token: TokenSuppress, apply: func(m *Modifiers) { m.Suppress = true }},
	{token: TokenCaseInsensitive, apply: func(m *Modifiers) { m.CaseInsensitive = true }},
	{token: "(?im)", apply: func(m *Modifiers) { m.CaseInsensitive, m.Multiline = true, true }},
	{token: "(?mi)", apply: func(m *Modifiers) { m.CaseInsensitive, m.Multiline = true, true }},
	{token: TokenDotAll, apply: func(m *Modifiers) { m.DotAll = true }},
}

// 🔪 StripModifiers consumes every leading modifier token and returns the rest of the pattern
func StripModifiers(pattern string) (string, Modifiers) {
	var mods Modifiers
	for {
		matched := false
		for _, mod := range modifierTable {
			if strings.HasPrefix(pattern, mod.token) {
				pattern = pattern[len(mod.token):]
				mod.apply(&mods)
				matched = true
				break
			}
		}
		if !matched {
			return pattern, mods
		}
	}
}

// 🔨 Compile strips the modifier prefix from pattern and compiles what remains.
// The returned Modifiers carry the suppress flag for the caller's flag vector.
func Compile(pattern string) (*regexp.Regexp, Modifiers, error) {
	expr, mods := StripModifiers(pattern)

	re, err := regexp.Compile(mods.flags() + expr)
	if err != nil {
		return nil, mods, &CompileError{Index: -1, Pattern: pattern, Err: err}
	}

	return re, mods, nil
}
