// Package match implements the file-name numbering conventions used in the
// shared Drive: assignment files carry an "assignment_<n>" token and note
// files a "unit_<n>" or "note_<n>" token. Numbers are matched on the full
// digit run, so a search for 1 never matches "assignment_10".
package match

import (
	"regexp"
	"sort"
	"strconv"

	"course-material-bot/internal/entity"
)

var (
	assignmentPattern = regexp.MustCompile(`(?i)assignment[ _-]?(\d+)`)
	notePattern       = regexp.MustCompile(`(?i)(?:unit|note)[ _-]?(\d+)`)
)

func patternFor(kind entity.Kind) *regexp.Regexp {
	if kind == entity.KindNote {
		return notePattern
	}
	return assignmentPattern
}

// Numbers extracts every document number tagged in a file name for the
// given kind. Names with no matching token yield nil.
func Numbers(name string, kind entity.Kind) []int {
	var nums []int
	for _, m := range patternFor(kind).FindAllStringSubmatch(name, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

// HasNumber reports whether the file name carries exactly the given number
// for the kind's token.
func HasNumber(name string, kind entity.Kind, number int) bool {
	for _, n := range Numbers(name, kind) {
		if n == number {
			return true
		}
	}
	return false
}

// DistinctSorted collects the distinct numbers found across file names,
// ascending. Names without a matching token are skipped.
func DistinctSorted(names []string, kind entity.Kind) []int {
	seen := make(map[int]struct{})
	for _, name := range names {
		for _, n := range Numbers(name, kind) {
			seen[n] = struct{}{}
		}
	}
	nums := make([]int, 0, len(seen))
	for n := range seen {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
