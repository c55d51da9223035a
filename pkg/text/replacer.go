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

package text

import (
	"context"
	"io"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/walteh/librewrite/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// 📊 RuleResult records what one rule did to one file
type RuleResult struct {
	Index   int  // rule index in the set
	Count   int  // substitutions made by this rule
	Skipped bool // rule was suppressed by an earlier gated match
}

// 📄 Result contains the outcome of applying a rule set to one unit of content
type Result struct {
	// OriginalContent is the content before any rule ran
	OriginalContent string

	// ModifiedContent is the content after the last rule ran
	ModifiedContent string

	// ReplacementCount is the sum of substitutions over all rules that ran
	ReplacementCount int

	// WasModified is true when ReplacementCount is positive
	WasModified bool

	// GateTripped is true when a suppress-flagged rule matched
	GateTripped bool

	// Rules has one entry per rule, in rule order
	Rules []RuleResult
}

// 🔄 Apply runs every rule of rs over content in order.
//
// Each rule substitutes all non-overlapping matches in the output of the rules
// before it. Once a suppress-flagged rule matches, later suppress-flagged rules
// are skipped; rules without the flag always run.
func Apply(rs *rules.RuleSet, content string) *Result {
	result := &Result{
		OriginalContent: content,
		Rules:           make([]RuleResult, 0, rs.Len()),
	}

	suppress := rs.SuppressFlags()
	current := content
	gateTripped := false

	for i := 0; i < rs.Len(); i++ {
		if gateTripped && suppress[i] {
			result.Rules = append(result.Rules, RuleResult{Index: i, Skipped: true})
			continue
		}

		rule := rs.Rule(i)
		next, n := ReplaceAll(rule.Regexp(), current, rule.Replacement)
		result.Rules = append(result.Rules, RuleResult{Index: i, Count: n})
		if n == 0 {
			continue
		}

		current = next
		result.ReplacementCount += n
		if suppress[i] {
			gateTripped = true
		}
	}

	result.ModifiedContent = current
	result.WasModified = result.ReplacementCount > 0
	result.GateTripped = gateTripped
	return result
}

// 🔁 ReplaceAll behaves like re.ReplaceAllString and also returns the number of
// substitutions. Empty matches are counted wherever regexp would substitute them.
func ReplaceAll(re *regexp.Regexp, src, template string) (string, int) {
	matches := re.FindAllStringSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src, 0
	}

	buf := make([]byte, 0, len(src))
	last := 0
	for _, m := range matches {
		buf = append(buf, src[last:m[0]]...)
		buf = re.ExpandString(buf, template, src, m)
		last = m[1]
	}
	buf = append(buf, src[last:]...)

	return string(buf), len(matches)
}

// 🧰 TextReplacer defines the interface for rule-set replacement over a reader
type TextReplacer interface {
	// ReplaceText applies rs to the full content of r
	ReplaceText(ctx context.Context, content io.Reader, rs *rules.RuleSet) (*Result, error)
}

// 🔧 RegexpReplacer implements TextReplacer with Apply
type RegexpReplacer struct{}

// 🏭 NewRegexpReplacer creates a new RegexpReplacer
func NewRegexpReplacer() *RegexpReplacer {
	return &RegexpReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *RegexpReplacer) ReplaceText(ctx context.Context, content io.Reader, rs *rules.RuleSet) (*Result, error) {
	if rs == nil {
		return nil, errors.New("rule set is required")
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := Apply(rs, string(data))

	zerolog.Ctx(ctx).Debug().
		Int("rules", len(result.Rules)).
		Int("replacements", result.ReplacementCount).
		Bool("gate_tripped", result.GateTripped).
		Msg("rule set applied")

	return result, nil
}
