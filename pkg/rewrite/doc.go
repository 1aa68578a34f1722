/*
Package rewrite implements a best-effort, idempotent text-pattern rewriter.

	            +-------------+
	            |  Rewriter   |
	            |  (Engine)   |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+-----+
	|   Rules   |           | Scanner  |
	| (Guarded) |           | (Blocks) |
	+-----------+           +----------+

🎯 Purpose:
- Applies ordered, guarded rewrite rules to in-memory content
- Guarantees each insertion happens at most once (idempotence)
- Locates structural blocks with a balanced-token scan
- Treats content as opaque text, never as a syntax tree

🔄 Flow:
1. Each rule's trigger pattern is matched against the current content
2. Matches whose guard string is already present in scope are skipped
3. Templates are expanded (capture groups allowed) and spliced in
4. Edits are applied in reverse document order so offsets stay valid

⚡ Key Responsibilities:
- Trigger matching and template expansion
- Guard-scope checks (file, window, block)
- Structural block location honoring string and comment literals
- Per-rule outcome reporting

📝 Design Philosophy:
The rewriter exists to make one-shot codemod scripts safe to re-run. It:
- Makes "already applied" a first-class outcome, not an error
- Never produces output for a block it could not bound (unbalanced
  tokens surface as warnings instead of truncated files)
- Keeps all file I/O out of the package; callers own persistence

🔍 Example:

	rule := rewrite.Rule{
		Name:     "wrap-fetch-mock",
		Trigger:  `mockFetch\.mockReset\(\);`,
		Guard:    "wrapFetchMock",
		Template: "wrapFetchMock(mockFetch);",
	}
	result, err := rewrite.New().Rewrite(ctx, content, []rewrite.Rule{rule})
	if err != nil {
		return err
	}
	if result.Changed {
		// persist result.ModifiedContent
	}
*/
package rewrite
