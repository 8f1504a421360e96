package matching

import (
	"sort"
	"time"
)

// CaseGroup is a partition of the case population responsible for a
// contiguous, half-open range of birth day ordinals. Groups produced by
// GroupCasesByBirthDayRange are disjoint and ordered by ascending range.
type CaseGroup struct {
	PNRs        []string
	BirthDates  []time.Time
	Genders     []*string
	FamilySizes []*int
	Indices     []int

	// BirthDayRange is the [start, end) ordinal interval this group covers.
	BirthDayRange [2]int
}

// Len returns the number of cases in the group.
func (g *CaseGroup) Len() int { return len(g.PNRs) }

// GroupCasesByBirthDayRange partitions cases into up to numGroups groups of
// contiguous, equal-width birth day ranges. Every input case lands in exactly
// one group; empty ranges are dropped, so fewer than numGroups groups may be
// returned.
func GroupCasesByBirthDayRange(attrs *ExtractedAttributes, numGroups int) []*CaseGroup {
	if attrs.IsEmpty() || numGroups <= 0 {
		return nil
	}

	n := attrs.Len()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	birthDays := make([]int, n)
	for i, date := range attrs.BirthDates {
		birthDays[i] = DayOrdinal(date)
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return birthDays[perm[a]] < birthDays[perm[b]]
	})

	minBirthDay := birthDays[perm[0]]
	maxBirthDay := birthDays[perm[n-1]]
	totalRange := maxBirthDay - minBirthDay + 1
	groupRangeSize := totalRange / numGroups
	if groupRangeSize < 1 {
		groupRangeSize = 1
	}

	var groups []*CaseGroup
	cursor := 0 // position in perm
	currentStart := minBirthDay

	for g := 0; g < numGroups; g++ {
		currentEnd := currentStart + groupRangeSize
		if g == numGroups-1 || currentEnd > maxBirthDay+1 {
			currentEnd = maxBirthDay + 1
		}

		group := &CaseGroup{BirthDayRange: [2]int{currentStart, currentEnd}}
		for cursor < n && birthDays[perm[cursor]] < currentEnd {
			src := perm[cursor]
			group.PNRs = append(group.PNRs, attrs.PNRs[src])
			group.BirthDates = append(group.BirthDates, attrs.BirthDates[src])
			group.Genders = append(group.Genders, attrs.Genders[src])
			group.FamilySizes = append(group.FamilySizes, attrs.FamilySizes[src])
			group.Indices = append(group.Indices, attrs.Indices[src])
			cursor++
		}
		if group.Len() > 0 {
			groups = append(groups, group)
		}

		currentStart = currentEnd
		if currentStart > maxBirthDay {
			break
		}
	}

	return groups
}
