// Package timedqueue implements the ordered, contiguous, time-indexed
// queue that backs both the forward and backward media-page buffers. It
// is a FIFO of items each tagged with a
// half-open [start, end) span; adjacent items must be contiguous
// (items[i].end == items[i+1].start). The queue trusts its caller for
// that invariant and never mutates an item after insertion.
package timedqueue

import (
	"sort"

	"github.com/oreal-solutions/npxlplay/internal/mediatime"
)

// Item pairs a payload with the timed span it occupies in the queue.
type Item[T any] struct {
	Payload T
	Start   mediatime.Duration
	Length  mediatime.Duration
}

// End returns Start + Length.
func (it Item[T]) End() mediatime.Duration { return it.Start.Add(it.Length) }

// Queue is a FIFO of contiguous, non-overlapping timed items.
// The zero value is an empty, ready-to-use queue.
type Queue[T any] struct {
	items []Item[T]
}

// New returns an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// IsEmpty reports whether the queue holds no items.
func (q *Queue[T]) IsEmpty() bool { return len(q.items) == 0 }

// Len returns the number of items currently queued.
func (q *Queue[T]) Len() int { return len(q.items) }

// First returns the first item. Callers must check IsEmpty first.
func (q *Queue[T]) First() Item[T] { return q.items[0] }

// Last returns the last item. Callers must check IsEmpty first.
func (q *Queue[T]) Last() Item[T] { return q.items[len(q.items)-1] }

// PushBack appends a new item. The caller is responsible for contiguity;
// the queue does not validate start/length against the existing tail.
func (q *Queue[T]) PushBack(payload T, start, length mediatime.Duration) {
	q.items = append(q.items, Item[T]{Payload: payload, Start: start, Length: length})
}

// Clear empties the queue.
func (q *Queue[T]) Clear() {
	q.items = nil
}

// indexOfStartAtOrBefore returns the index of the last item whose Start is
// <= seek, or -1 if every item starts after seek (or the queue is empty).
func (q *Queue[T]) indexOfStartAtOrBefore(seek mediatime.Duration) int {
	// items are sorted by Start ascending (contiguity implies this).
	// sort.Search finds the first index whose Start > seek.
	idx := sort.Search(len(q.items), func(i int) bool {
		return q.items[i].Start.Greater(seek)
	})
	return idx - 1
}

// GetAt locates the item whose [start, end) span contains seek. A seek
// exactly at an item's end is a miss for that item — it belongs to the
// next one. Returns ok=false on a miss (including an empty queue).
func (q *Queue[T]) GetAt(seek mediatime.Duration) (payload T, ok bool) {
	idx := q.indexOfStartAtOrBefore(seek)
	if idx < 0 {
		var zero T
		return zero, false
	}
	item := q.items[idx]
	if seek.Less(item.End()) {
		return item.Payload, true
	}
	var zero T
	return zero, false
}

// GetInRange returns every item whose [start, end) span overlaps
// [inclusiveStart, exclusiveEnd): a page straddling inclusiveStart is
// included; a page straddling exclusiveEnd is included.
func (q *Queue[T]) GetInRange(inclusiveStart, exclusiveEnd mediatime.Duration) []Item[T] {
	if len(q.items) == 0 {
		return nil
	}

	lower := q.indexOfStartAtOrBefore(inclusiveStart)
	if lower >= 0 && !inclusiveStart.Less(q.items[lower].End()) {
		// Only the last item can end at or before inclusiveStart; it does
		// not overlap the range.
		lower++
	}
	// upper = index of the last item whose Start is < exclusiveEnd.
	upperBound := sort.Search(len(q.items), func(i int) bool {
		return q.items[i].Start.GreaterEq(exclusiveEnd)
	})
	upper := upperBound - 1

	if lower < 0 {
		if upper < 0 {
			return nil
		}
		return append([]Item[T](nil), q.items[:upper+1]...)
	}
	if lower > upper {
		return nil
	}
	return append([]Item[T](nil), q.items[lower:upper+1]...)
}

// PopFrontByLength removes items from the front while the cumulative
// length already removed plus the next candidate stays <= limit. It never
// removes an item that would push the cumulative length over limit.
func (q *Queue[T]) PopFrontByLength(limit mediatime.Duration) {
	removed := mediatime.Zero
	n := 0
	for n < len(q.items) {
		next := removed.Add(q.items[n].Length)
		if next.Greater(limit) {
			break
		}
		removed = next
		n++
	}
	q.items = q.items[n:]
}

// PopBackByLength removes items from the back under the same cumulative
// rule as PopFrontByLength.
func (q *Queue[T]) PopBackByLength(limit mediatime.Duration) {
	removed := mediatime.Zero
	n := 0
	for n < len(q.items) {
		idx := len(q.items) - 1 - n
		next := removed.Add(q.items[idx].Length)
		if next.Greater(limit) {
			break
		}
		removed = next
		n++
	}
	q.items = q.items[:len(q.items)-n]
}
