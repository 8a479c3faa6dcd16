// Package similarity scores how alike two name strings are on a 0..1 scale
// using the Ratcliff/Obershelp "gestalt pattern matching" ratio.
//
// The score is 2*M/T where T is the total rune count of both strings and M
// is the number of runes in matching blocks found by repeatedly taking the
// longest common block and recursing on either side of it. Comparison is
// case-insensitive.
package similarity

import "strings"

// Ratio returns the similarity of a and b in [0, 1]. Two empty strings are
// identical and score 1.
func Ratio(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(Matches(ra, rb)) / float64(total)
}

// AtLeast reports whether Ratio(a, b) meets the threshold.
func AtLeast(a, b string, threshold float64) bool {
	return Ratio(a, b) >= threshold
}

// Matches returns the number of runes in all matching blocks of a and b.
func Matches(a, b []rune) int {
	index := make(map[rune][]int, len(b))
	for j, r := range b {
		index[r] = append(index[r], j)
	}

	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(b)}}
	matched := 0

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longest(a, index, s.alo, s.ahi, s.blo, s.bhi)
		if k == 0 {
			continue
		}
		matched += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return matched
}

// longest finds the longest common block of a[alo:ahi] and b[blo:bhi].
// Ties go to the block starting earliest in a, then earliest in b.
func longest(a []rune, index map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, bestk int) {
	besti, bestj = alo, blo
	lengths := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range index[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := lengths[j-1] + 1
			next[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		lengths = next
	}
	return besti, bestj, bestk
}
