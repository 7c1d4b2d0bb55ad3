package classifier

// PartialRatio scores how well the shorter of two strings matches anywhere
// inside the longer one, on a 0-100 scale. 100 means the shorter string
// appears as an exact window of the longer.
func PartialRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}

	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	best := 0
	for start := 0; start+len(shorter) <= len(longer); start++ {
		window := longer[start : start+len(shorter)]
		score := ratio(shorter, window)
		if score > best {
			best = score
		}
		if best == 100 {
			break
		}
	}
	return best
}

// ratio is a similarity score for two equal-length-ish rune slices based on
// edit distance: 100 * (1 - distance/maxLen).
func ratio(a, b []rune) int {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 100
	}
	d := editDistance(a, b)
	return (maxLen - d) * 100 / maxLen
}

// editDistance computes the Levenshtein distance between two rune slices
// with a single rolling row.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur := i
		diag := prev[0]
		prev[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min3(prev[j]+1, cur+1, diag+cost)
			diag = prev[j]
			prev[j] = next
			cur = next
		}
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
