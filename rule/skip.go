package rule

import "github.com/nihei9/vartrace/event"

// Each function below scans the log at most once in one direction, so applying one to its own
// result never moves the cursor again.

// Normalize returns the index the cursor settles on after a jump to idx. With semantic stepping
// off, a semantic step is skipped forward to the next non-semantic step; when only semantic
// steps remain the cursor settles on the nearest non-semantic step before idx, or -1.
func Normalize(events []event.Event, idx int, enabled bool) int {
	idx = event.Bound(len(events), idx)
	if enabled || idx < 0 || !isSemantic(events[idx]) {
		return idx
	}
	for i := idx + 1; i < len(events); i++ {
		if !isSemantic(events[i]) {
			return i
		}
	}
	for i := idx - 1; i >= 0; i-- {
		if !isSemantic(events[i]) {
			return i
		}
	}
	return -1
}

// Forward returns the index after from. With semantic stepping off, semantic steps are skipped;
// the cursor stays at from when nothing but semantic steps follows it.
func Forward(events []event.Event, from int, enabled bool) int {
	from = event.Bound(len(events), from)
	next := from + 1
	if next >= len(events) {
		return from
	}
	if enabled {
		return next
	}
	for i := next; i < len(events); i++ {
		if !isSemantic(events[i]) {
			return i
		}
	}
	return from
}

// Backward returns the index before from. With semantic stepping off, semantic steps are skipped
// and the cursor may go back to -1.
func Backward(events []event.Event, from int, enabled bool) int {
	from = event.Bound(len(events), from)
	prev := from - 1
	if prev < 0 {
		return -1
	}
	if enabled {
		return prev
	}
	for i := prev; i >= 0; i-- {
		if !isSemantic(events[i]) {
			return i
		}
	}
	return -1
}
