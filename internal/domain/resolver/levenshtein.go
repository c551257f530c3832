package resolver

// levenshtein returns the edit distance between a and b: the minimum number
// of single-character insertions, deletions, and substitutions needed to
// turn one into the other.
//
// Standard dynamic program over two rolling rows, O(len(a)*len(b)) time and
// O(len(b)) space. Operates on bytes; queries and aliases are normalized to
// lowercase ASCII before they reach this point.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			min := prev[j-1] // substitution
			if prev[j] < min {
				min = prev[j] // deletion
			}
			if curr[j-1] < min {
				min = curr[j-1] // insertion
			}
			curr[j] = min + 1
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// similarity maps edit distance to a [0,1] score: 1 - distance/maxLen.
// Two empty strings are identical, so their similarity is 1.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}
