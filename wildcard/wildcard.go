// Package wildcard implements Krauss' two-cursor wildcard matching
// algorithm, used for host and route pattern matching.
package wildcard

// Match reports whether text matches pattern, where '*' in pattern matches
// zero or more characters. Multiple '*' are allowed.
//
// The algorithm walks both strings with a single cursor each, and remembers
// the position just after the last '*' seen in pattern together with the
// text position at that time. On a literal mismatch it rewinds to that
// remembered pair and advances the text cursor by one, instead of
// backtracking through the whole pattern. This keeps the match O(len(pattern)
// + len(text)) on realistic inputs.
func Match(pattern, text string) bool {
	var (
		pIdx, tIdx         int
		starIdx            = -1
		matchIdx           int
	)

	for tIdx < len(text) {
		switch {
		case pIdx < len(pattern) && pattern[pIdx] == '*':
			starIdx = pIdx
			matchIdx = tIdx
			pIdx++
		case pIdx < len(pattern) && (pattern[pIdx] == text[tIdx]):
			pIdx++
			tIdx++
		case starIdx != -1:
			pIdx = starIdx + 1
			matchIdx++
			tIdx = matchIdx
		default:
			return false
		}
	}

	for pIdx < len(pattern) && pattern[pIdx] == '*' {
		pIdx++
	}

	return pIdx == len(pattern)
}
