package rewrite

import (
	"gitlab.com/tozd/go/errors"
)

// ErrUnbalanced is returned when a structural scan runs out of content before
// the open/close depth returns to zero.
var ErrUnbalanced = errors.New("unbalanced structural tokens")

// scanBalanced locates the structural block that starts with the first open
// token at or after from. It returns the offset of the opening token and the
// offset of the matching closing token.
//
// The scanner counts token depth while skipping single-quoted, double-quoted
// and backtick string literals (with backslash escapes) and // and /* */
// comments. It is a best-effort approximation of the target syntax, not a
// parser: a quote character inside an unusual construct can still confuse it,
// in which case the caller gets ErrUnbalanced rather than a bogus offset.
func scanBalanced(content []byte, from int, open, close byte) (openAt, closeAt int, err error) {
	const (
		stateCode = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateCode
	var quote byte
	depth := 0
	openAt = -1

	for i := from; i < len(content); i++ {
		c := content[i]

		switch state {
		case stateString:
			switch {
			case c == '\\' && quote != '`':
				i++ // skip escaped character
			case c == quote:
				state = stateCode
			}

		case stateLineComment:
			if c == '\n' {
				state = stateCode
			}

		case stateBlockComment:
			if c == '*' && i+1 < len(content) && content[i+1] == '/' {
				i++
				state = stateCode
			}

		default: // stateCode
			switch {
			case c == '\'' || c == '"' || c == '`':
				state = stateString
				quote = c
			case c == '/' && i+1 < len(content) && content[i+1] == '/':
				i++
				state = stateLineComment
			case c == '/' && i+1 < len(content) && content[i+1] == '*':
				i++
				state = stateBlockComment
			case c == open:
				if openAt < 0 {
					openAt = i
				}
				depth++
			case c == close && openAt >= 0:
				depth--
				if depth == 0 {
					return openAt, i, nil
				}
			}
		}
	}

	return -1, -1, ErrUnbalanced
}

// lineIndent returns the leading whitespace of the line containing pos.
func lineIndent(content []byte, pos int) []byte {
	start := pos
	for start > 0 && content[start-1] != '\n' {
		start--
	}
	end := start
	for end < len(content) && (content[end] == ' ' || content[end] == '\t') {
		end++
	}
	return content[start:end]
}
