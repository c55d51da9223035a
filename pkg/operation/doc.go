/*
Package operation runs librewrite actions over a library directory.

	+-------------+
	|  RuleSet    |
	| (compiled)  |
	+------+------+
	       |
	+------+------+      +-------------+
	|   rewrite   +----->+ files       |
	| walk, apply |      | .out → .bak |
	+------+------+      +-------------+
	       |
	+------+------+
	|   Summary   |
	+-------------+

🎯 Purpose:
  - rewrite: walk the library, apply the rule set to each selected file and
    persist changed files through the backup lifecycle
  - clean: delete every backup under the library
  - restore: move every backup back over its original

🔄 Flow:
 1. The rule set is compiled once, before any file is read
 2. Selected files are processed by the Runner, one at a time unless more
    workers are configured
 3. A failing file is reported in the Summary and the rest still run
 4. Every result goes to the log.Logger found in the context

⚡ Concurrency:
The rule set is read-only and each file's temp and backup paths belong to that
file alone, so workers never touch the same path.
*/
package operation
