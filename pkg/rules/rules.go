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
	"regexp"
)

// 📏 Rule is one compiled pattern paired with its replacement
type Rule struct {
	Index       int    // position in the script, 0-based
	Pattern     string // pattern text as written, modifiers included
	Expr        string // pattern text after the modifiers were stripped
	Replacement string // replacement template; $1, ${name} and $$ are expanded
	Modifiers   Modifiers

	re *regexp.Regexp
}

// Regexp returns the compiled matcher
func (r Rule) Regexp() *regexp.Regexp {
	return r.re
}

// Suppress reports whether the rule carries the suppress-gate flag
func (r Rule) Suppress() bool {
	return r.Modifiers.Suppress
}

func (r Rule) String() string {
	return fmt.Sprintf("%s%s -> %s", r.Modifiers, r.Expr, r.Replacement)
}

// 📚 RuleSet is the ordered, immutable collection of rules for one run.
// It is safe for concurrent use once built.
type RuleSet struct {
	source   string
	rules    []Rule
	suppress []bool
}

// 🏭 New compiles patterns and pairs them with replacements by index
func New(patterns, replacements []string) (*RuleSet, error) {
	return build("", patterns, replacements)
}

func build(source string, patterns, replacements []string) (*RuleSet, error) {
	rs := &RuleSet{source: source}

	for i, pattern := range patterns {
		re, mods, err := Compile(pattern)
		if err != nil {
			if ce, ok := err.(*CompileError); ok {
				ce.Index = i
			}
			return nil, err
		}
		expr, _ := StripModifiers(pattern)
		rs.rules = append(rs.rules, Rule{
			Index:     i,
			Pattern:   pattern,
			Expr:      expr,
			Modifiers: mods,
			re:        re,
		})
		rs.suppress = append(rs.suppress, mods.Suppress)
	}

	if err := checkCounts(source, len(patterns), len(replacements)); err != nil {
		return nil, err
	}

	for i, rep := range replacements {
		rs.rules[i].Replacement = rep
	}

	return rs, nil
}

func checkCounts(source string, patterns, replacements int) error {
	if patterns == 0 {
		return &ConfigError{Path: source, Reason: "no patterns found"}
	}
	if patterns != replacements {
		return &ConfigError{
			Path:   source,
			Reason: fmt.Sprintf("%d patterns but %d replacements", patterns, replacements),
		}
	}
	return nil
}

// Len returns the number of rules
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Rule returns a copy of the rule at index i
func (rs *RuleSet) Rule(i int) Rule {
	return rs.rules[i]
}

// Rules returns the rules in script order. The slice is a copy.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// SuppressFlags returns the suppress flag of every rule, indexed like Rules. The slice is a copy.
func (rs *RuleSet) SuppressFlags() []bool {
	out := make([]bool, len(rs.suppress))
	copy(out, rs.suppress)
	return out
}

// Source returns the script path the set was loaded from, or "" if built in memory
func (rs *RuleSet) Source() string {
	return rs.source
}
