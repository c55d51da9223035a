package text

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/librewrite/pkg/rules"
)

type pair struct {
	pattern     string
	replacement string
}

func ruleSet(t *testing.T, pairs ...pair) *rules.RuleSet {
	t.Helper()
	var pats, reps []string
	for _, p := range pairs {
		pats = append(pats, p.pattern)
		reps = append(reps, p.replacement)
	}
	rs, err := rules.New(pats, reps)
	require.NoError(t, err)
	return rs
}

func TestApply(t *testing.T) {
	tests := []struct {
		name        string
		rules       []pair
		content     string
		want        string
		wantCount   int
		wantPerRule []RuleResult
		wantGate    bool
	}{
		{
			name:        "order_forward",
			rules:       []pair{{"a", "b"}, {"b", "c"}},
			content:     "a",
			want:        "c",
			wantCount:   2,
			wantPerRule: []RuleResult{{Index: 0, Count: 1}, {Index: 1, Count: 1}},
		},
		{
			name:        "order_reversed",
			rules:       []pair{{"b", "c"}, {"a", "b"}},
			content:     "a",
			want:        "b",
			wantCount:   1,
			wantPerRule: []RuleResult{{Index: 0, Count: 0}, {Index: 1, Count: 1}},
		},
		{
			name:        "suppress_gate_skips_later_gated_rule",
			rules:       []pair{{"(?1)X", "x"}, {"(?1)Y", "y"}},
			content:     "X Y",
			want:        "x Y",
			wantCount:   1,
			wantPerRule: []RuleResult{{Index: 0, Count: 1}, {Index: 1, Skipped: true}},
			wantGate:    true,
		},
		{
			name:      "ungated_rule_runs_after_gate",
			rules:     []pair{{"(?1)X", "x"}, {"Y", "y"}, {"(?1)Z", "z"}},
			content:   "X Y Z",
			want:      "x y Z",
			wantCount: 2,
			wantPerRule: []RuleResult{
				{Index: 0, Count: 1},
				{Index: 1, Count: 1},
				{Index: 2, Skipped: true},
			},
			wantGate: true,
		},
		{
			name:      "gate_not_tripped_without_match",
			rules:     []pair{{"(?1)missing", "-"}, {"(?1)X", "x"}, {"(?1)Y", "y"}},
			content:   "X Y",
			want:      "x Y",
			wantCount: 1,
			wantPerRule: []RuleResult{
				{Index: 0, Count: 0},
				{Index: 1, Count: 1},
				{Index: 2, Skipped: true},
			},
			wantGate: true,
		},
		{
			name:        "gate_does_not_affect_earlier_rules",
			rules:       []pair{{"(?1)Y", "y"}, {"(?1)X", "x"}},
			content:     "X",
			want:        "x",
			wantCount:   1,
			wantPerRule: []RuleResult{{Index: 0, Count: 0}, {Index: 1, Count: 1}},
			wantGate:    true,
		},
		{
			name:        "gated_rule_after_ungated_match_still_runs",
			rules:       []pair{{"X", "x"}, {"(?1)Y", "y"}},
			content:     "X Y",
			want:        "x y",
			wantCount:   2,
			wantPerRule: []RuleResult{{Index: 0, Count: 1}, {Index: 1, Count: 1}},
			wantGate:    true,
		},
		{
			name:        "no_match_is_identity",
			rules:       []pair{{"nothing", "here"}},
			content:     "some content",
			want:        "some content",
			wantCount:   0,
			wantPerRule: []RuleResult{{Index: 0, Count: 0}},
		},
		{
			name:        "counts_on_content_at_time_of_rule",
			rules:       []pair{{"a", "aa"}, {"a", "b"}},
			content:     "aa",
			want:        "bbbb",
			wantCount:   6,
			wantPerRule: []RuleResult{{Index: 0, Count: 2}, {Index: 1, Count: 4}},
		},
		{
			name:        "empty_match_at_every_position",
			rules:       []pair{{"x*", "-"}},
			content:     "abc",
			want:        "-a-b-c-",
			wantCount:   4,
			wantPerRule: []RuleResult{{Index: 0, Count: 4}},
		},
		{
			name:        "empty_match_on_empty_content",
			rules:       []pair{{"^", "header\n"}},
			content:     "",
			want:        "header\n",
			wantCount:   1,
			wantPerRule: []RuleResult{{Index: 0, Count: 1}},
		},
		{
			name:        "backreferences",
			rules:       []pair{{`(\w+)@(\w+)`, "$2 at ${1}x"}},
			content:     "user@host",
			want:        "host at userx",
			wantCount:   1,
			wantPerRule: []RuleResult{{Index: 0, Count: 1}},
		},
		{
			name:        "named_groups_and_literal_dollar",
			rules:       []pair{{`(?P<n>\d+) USD`, "$$${n}"}},
			content:     "cost: 12 USD",
			want:        "cost: $12",
			wantCount:   1,
			wantPerRule: []RuleResult{{Index: 0, Count: 1}},
		},
		{
			name:        "multiline_case_insensitive",
			rules:       []pair{{"(?mi)^todo:", "TODO:"}},
			content:     "todo: a\nTodo: b\nnot todo: c",
			want:        "TODO: a\nTODO: b\nnot todo: c",
			wantCount:   2,
			wantPerRule: []RuleResult{{Index: 0, Count: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := ruleSet(t, tt.rules...)

			result := Apply(rs, tt.content)

			assert.Equal(t, tt.content, result.OriginalContent)
			assert.Equal(t, tt.want, result.ModifiedContent)
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantCount > 0, result.WasModified)
			assert.Equal(t, tt.wantPerRule, result.Rules)
			assert.Equal(t, tt.wantGate, result.GateTripped)

			sum := 0
			for _, rr := range result.Rules {
				sum += rr.Count
			}
			assert.Equal(t, result.ReplacementCount, sum, "total should be the sum of per-rule counts")
		})
	}
}

func TestApplyGateResetsPerCall(t *testing.T) {
	rs := ruleSet(t, pair{"(?1)X", "x"}, pair{"(?1)Y", "y"})

	first := Apply(rs, "X Y")
	assert.Equal(t, "x Y", first.ModifiedContent)

	second := Apply(rs, "Y")
	assert.Equal(t, "y", second.ModifiedContent, "gate from a previous file must not leak")
	assert.Equal(t, 1, second.ReplacementCount)
}

func TestReplaceAllMatchesRegexp(t *testing.T) {
	tests := []struct {
		pattern  string
		template string
		src      string
	}{
		{"a*", "X", "baaac"},
		{"x*", "-", "abc"},
		{`(\w)(\w)`, "$2$1", "abcdef"},
		{"(?m)$", ";", "one\ntwo"},
		{"é", "e", "café crème"},
		{"", "_", "日本"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re := regexp.MustCompile(tt.pattern)
			got, n := ReplaceAll(re, tt.src, tt.template)
			assert.Equal(t, re.ReplaceAllString(tt.src, tt.template), got)
			assert.Equal(t, len(re.FindAllStringIndex(tt.src, -1)), n)
		})
	}
}

func TestRegexpReplacer_ReplaceText(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel).WithContext(context.Background())
	rs := ruleSet(t, pair{"World", "Universe"}, pair{"Hello", "Hi"})

	result, err := NewRegexpReplacer().ReplaceText(ctx, strings.NewReader("Hello World!"), rs)
	require.NoError(t, err)
	assert.Equal(t, "Hi Universe!", result.ModifiedContent)
	assert.Equal(t, 2, result.ReplacementCount)

	_, err = NewRegexpReplacer().ReplaceText(ctx, strings.NewReader("x"), nil)
	require.Error(t, err)
}
