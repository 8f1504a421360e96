package matching

import (
	"sort"
	"time"
)

// DayOrdinal converts a date to a day count since the Unix epoch. Only the
// calendar date matters; the time of day and location are discarded. The
// ordinal makes birth date ordering and window arithmetic plain integer
// operations.
func DayOrdinal(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// ControlData is a struct-of-arrays view of the control pool, sorted by
// birth day ordinal so eligible-control lookup is a binary search over a
// contiguous range. Read-only after NewControlData; safe to share across
// workers.
type ControlData struct {
	PNRs        []string
	BirthDates  []time.Time
	Genders     []*string
	FamilySizes []*int
	Indices     []int

	// birthDays[i] is DayOrdinal(BirthDates[i]); non-decreasing after
	// construction.
	birthDays []int
}

// NewControlData builds the sorted control index from extracted control
// attributes. All parallel arrays are permuted consistently.
func NewControlData(attrs *ExtractedAttributes) *ControlData {
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

	data := &ControlData{
		PNRs:        make([]string, n),
		BirthDates:  make([]time.Time, n),
		Genders:     make([]*string, n),
		FamilySizes: make([]*int, n),
		Indices:     make([]int, n),
		birthDays:   make([]int, n),
	}
	for i, src := range perm {
		data.PNRs[i] = attrs.PNRs[src]
		data.BirthDates[i] = attrs.BirthDates[src]
		data.Genders[i] = attrs.Genders[src]
		data.FamilySizes[i] = attrs.FamilySizes[src]
		data.Indices[i] = attrs.Indices[src]
		data.birthDays[i] = birthDays[src]
	}
	return data
}

// FindBirthDayRange returns the half-open range [start, end) of controls
// whose birth day ordinal lies within ±window days of targetBirthDay,
// inclusive. An empty range means no control qualifies.
func (d *ControlData) FindBirthDayRange(targetBirthDay, window int) (start, end int) {
	minBirthDay := targetBirthDay - window
	maxBirthDay := targetBirthDay + window

	start = sort.Search(len(d.birthDays), func(i int) bool {
		return d.birthDays[i] >= minBirthDay
	})
	end = sort.Search(len(d.birthDays), func(i int) bool {
		return d.birthDays[i] > maxBirthDay
	})
	return start, end
}

// BirthDay returns the birth day ordinal of the control at pool position i.
func (d *ControlData) BirthDay(i int) int { return d.birthDays[i] }

// Len returns the number of controls in the pool.
func (d *ControlData) Len() int { return len(d.PNRs) }

// IsEmpty reports whether the control pool is empty.
func (d *ControlData) IsEmpty() bool { return len(d.PNRs) == 0 }
