package domain

import (
	"iter"
	"time"
)

// Window is a bounded date range submitted as one query unit to the feed.
// Start is inclusive, End exclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindows yields contiguous, non-overlapping windows covering
// [start, end), each spanning at most one calendar month: the first window
// begins at start, every later window begins on day 1 of the next month, and
// each window ends at min(first of next month, end). start == end yields no
// windows. The sequence is restartable; ranging over it twice produces the
// same windows.
//
// Monthly bounding keeps each feed query under the server's page cap, though
// it does not eliminate truncation — callers should watch for saturated pages.
func MonthWindows(start, end time.Time) iter.Seq[Window] {
	return func(yield func(Window) bool) {
		current := start
		for current.Before(end) {
			next := firstOfNextMonth(current)
			windowEnd := next
			if end.Before(next) {
				windowEnd = end
			}
			if !yield(Window{Start: current, End: windowEnd}) {
				return
			}
			current = next
		}
	}
}

func firstOfNextMonth(t time.Time) time.Time {
	year, month := t.Year(), t.Month()
	if month == time.December {
		return time.Date(year+1, time.January, 1, 0, 0, 0, 0, t.Location())
	}
	return time.Date(year, month+1, 1, 0, 0, 0, 0, t.Location())
}
