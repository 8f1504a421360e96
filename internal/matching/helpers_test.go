package matching

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// dateFromDay converts a day ordinal back to a UTC midnight date.
func dateFromDay(day int) time.Time {
	return time.Unix(int64(day)*86400, 0).UTC()
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// attrsFromDays builds extracted attributes from birth day ordinals. PNRs are
// prefix-0, prefix-1, ... and indices are positional.
func attrsFromDays(prefix string, days []int) *ExtractedAttributes {
	attrs := &ExtractedAttributes{}
	for i, day := range days {
		attrs.PNRs = append(attrs.PNRs, prefix+"-"+strconv.Itoa(i))
		attrs.BirthDates = append(attrs.BirthDates, dateFromDay(day))
		attrs.Genders = append(attrs.Genders, nil)
		attrs.FamilySizes = append(attrs.FamilySizes, nil)
		attrs.Indices = append(attrs.Indices, i)
	}
	return attrs
}

// randomDays generates n reproducible day ordinals in [min, max].
func randomDays(n, min, max int, seed uint64) []int {
	rng := rand.New(rand.NewPCG(seed, 0))
	days := make([]int, n)
	for i := range days {
		days[i] = min + rng.IntN(max-min+1)
	}
	return days
}
