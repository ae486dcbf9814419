// Package interval implements half-open time-of-day range algebra used by the
// availability resolver. Values are offsets from local midnight, so a range may
// run past 24h when an appointment spills over into the next day.
package interval

import (
	"fmt"
	"sort"
	"time"
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Duration
	End   time.Duration
}

// New builds an interval from two offsets.
func New(start, end time.Duration) Interval {
	return Interval{Start: start, End: end}
}

// Valid reports whether the interval has positive length.
func (i Interval) Valid() bool {
	return i.Start < i.End
}

// Duration returns the interval length.
func (i Interval) Duration() time.Duration {
	return i.End - i.Start
}

// Overlaps reports whether i and o share any instant.
func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i.Start, i.End, o.Start, o.End)
}

// Contains reports whether o lies completely inside i.
func (i Interval) Contains(o Interval) bool {
	return i.Start <= o.Start && o.End <= i.End
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", FormatClock(i.Start), FormatClock(i.End))
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share any instant.
// Ranges that only touch (aEnd == bStart) do not overlap, and empty ranges
// overlap nothing.
func Overlaps(aStart, aEnd, bStart, bEnd time.Duration) bool {
	if aStart >= aEnd || bStart >= bEnd {
		return false
	}
	return aStart < bEnd && bStart < aEnd
}

// Subtract removes every exclusion from window and returns what is left, in
// ascending order. Exclusions are clipped to the window; an exclusion covering
// the whole window yields an empty result.
func Subtract(window Interval, exclusions []Interval) []Interval {
	if !window.Valid() {
		return nil
	}

	cuts := make([]Interval, 0, len(exclusions))
	for _, ex := range exclusions {
		if window.Overlaps(ex) {
			cuts = append(cuts, ex)
		}
	}
	cuts = Merge(cuts)

	remaining := make([]Interval, 0, len(cuts)+1)
	cursor := window.Start
	for _, cut := range cuts {
		if cut.Start > cursor {
			remaining = append(remaining, Interval{Start: cursor, End: min(cut.Start, window.End)})
		}
		if cut.End > cursor {
			cursor = cut.End
		}
		if cursor >= window.End {
			break
		}
	}
	if cursor < window.End {
		remaining = append(remaining, Interval{Start: cursor, End: window.End})
	}

	return remaining
}

// Merge returns the union of intervals as a sorted list of disjoint ranges.
// Adjacent ranges are joined.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Valid() {
			sorted = append(sorted, iv)
		}
	}
	sort.Slice(sorted, func(a, b int) bool {
		if sorted[a].Start == sorted[b].Start {
			return sorted[a].End < sorted[b].End
		}
		return sorted[a].Start < sorted[b].Start
	})

	merged := make([]Interval, 0, len(sorted))
	for _, iv := range sorted {
		last := len(merged) - 1
		if last >= 0 && iv.Start <= merged[last].End {
			if iv.End > merged[last].End {
				merged[last].End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// EnumerateStarts returns every start t in [iv.Start, iv.End-duration] stepping
// by granularity, so that [t, t+duration) always fits inside iv.
func EnumerateStarts(iv Interval, granularity, duration time.Duration) []time.Duration {
	if granularity <= 0 || duration <= 0 || iv.Duration() < duration {
		return nil
	}

	starts := make([]time.Duration, 0, int((iv.Duration()-duration)/granularity)+1)
	for t := iv.Start; t+duration <= iv.End; t += granularity {
		starts = append(starts, t)
	}
	return starts
}

// Dedupe sorts starts ascending and drops repeated values.
func Dedupe(starts []time.Duration) []time.Duration {
	if len(starts) == 0 {
		return []time.Duration{}
	}

	sorted := append([]time.Duration(nil), starts...)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a] < sorted[b] })

	unique := sorted[:1]
	for _, s := range sorted[1:] {
		if s != unique[len(unique)-1] {
			unique = append(unique, s)
		}
	}
	return unique
}

// FormatClock renders an offset as HH:MM.
func FormatClock(d time.Duration) string {
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ParseClock parses HH:MM or HH:MM:SS into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q, use HH:MM", s)
}
