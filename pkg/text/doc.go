// Package text applies a compiled rules.RuleSet to file content, one rule at a
// time and in script order, and reports how many substitutions each rule made.
package text
