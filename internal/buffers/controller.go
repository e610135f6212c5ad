// Package buffers implements the buffers controller: a
// wrapper around the timed media queue that enforces the
// forward/backward capacity invariants and computes the "space to fill"
// deltas the coordinator uses to decide when to buffer more.
package buffers

import (
	"github.com/oreal-solutions/npxlplay/internal/media"
	"github.com/oreal-solutions/npxlplay/internal/mediatime"
	"github.com/oreal-solutions/npxlplay/internal/timedqueue"
)

// backwardRatio is the fraction of forward capacity reserved for the
// backward (already-played) buffer.
const backwardRatio = 0.7

// DefaultForwardCapacityMs is the default forward buffer size (15s).
const DefaultForwardCapacityMs = 15_000

// Controller wraps a timedqueue.Queue of ready-to-play pages, enforcing
// that the portion of the queue strictly before the current seek
// position never exceeds backward capacity.
type Controller struct {
	queue            *timedqueue.Queue[media.ReadyToPlayPage]
	forwardCapacity  mediatime.Duration
	backwardCapacity mediatime.Duration
}

// New returns a controller with the default forward capacity.
func New() *Controller {
	c := &Controller{queue: timedqueue.New[media.ReadyToPlayPage]()}
	c.SetForwardCapacity(mediatime.FromMillis(DefaultForwardCapacityMs))
	return c
}

// SetForwardCapacity sets the forward capacity and recomputes backward
// capacity as 0.7 * forward.
func (c *Controller) SetForwardCapacity(d mediatime.Duration) {
	c.forwardCapacity = d
	c.backwardCapacity = d.MulFrac(backwardRatio)
}

// ForwardCapacity returns the current forward capacity.
func (c *Controller) ForwardCapacity() mediatime.Duration { return c.forwardCapacity }

// BackwardCapacity returns the current backward capacity (0.7 * forward).
func (c *Controller) BackwardCapacity() mediatime.Duration { return c.backwardCapacity }

// ForwardSpaceToFill returns forwardCapacity - (endOfLastQueued - seek),
// saturating at zero.
func (c *Controller) ForwardSpaceToFill(seek mediatime.Duration) mediatime.Duration {
	buffered := c.EndOfLastQueuedPage().Sub(seek)
	return c.forwardCapacity.Sub(buffered)
}

// EndOfLastQueuedPage returns the end of the last queued item, or zero if
// the queue is empty.
func (c *Controller) EndOfLastQueuedPage() mediatime.Duration {
	if c.queue.IsEmpty() {
		return mediatime.Zero
	}
	return c.queue.Last().End()
}

// LastPage returns the last queued page, or the void page if empty.
func (c *Controller) LastPage() media.ReadyToPlayPage {
	if c.queue.IsEmpty() {
		return media.VoidReadyToPlayPage
	}
	return c.queue.Last().Payload
}

// GetAt looks up the page at seek. On a miss, onNeedsFull is invoked and
// the void page is returned (full buffering is expected to run
// asynchronously; subsequent polls during that interval keep observing
// misses). On a hit, if the buffered-ahead time drops below 70% of
// forward capacity, onNeedsSoft is invoked fire-and-forget; then backward
// overflow is evicted before the hit payload is returned.
func (c *Controller) GetAt(seek mediatime.Duration, onNeedsSoft, onNeedsFull func()) media.ReadyToPlayPage {
	page, ok := c.queue.GetAt(seek)
	if !ok {
		if onNeedsFull != nil {
			onNeedsFull()
		}
		return media.VoidReadyToPlayPage
	}

	bufferedAhead := c.EndOfLastQueuedPage().Sub(seek)
	if bufferedAhead.Less(c.backwardCapacity) {
		if onNeedsSoft != nil {
			onNeedsSoft()
		}
	}

	c.evictBackwardOverflow(seek)

	return page
}

func (c *Controller) evictBackwardOverflow(seek mediatime.Duration) {
	if c.queue.IsEmpty() {
		return
	}
	usedBack := seek.Sub(c.queue.First().Start)
	for usedBack.Greater(c.backwardCapacity) {
		lenBefore := c.queue.Len()
		c.queue.PopFrontByLength(usedBack.Sub(c.backwardCapacity))
		if c.queue.IsEmpty() {
			return
		}
		if c.queue.Len() == lenBefore {
			// The oldest remaining item alone is longer than the overflow.
			// It is dropped whole if it lies entirely before seek; the item
			// containing seek itself is never evicted.
			first := c.queue.First()
			if first.End().Greater(seek) {
				return
			}
			c.queue.PopFrontByLength(first.Length)
			if c.queue.IsEmpty() {
				return
			}
		}
		usedBack = seek.Sub(c.queue.First().Start)
	}
}

// PushPage appends a ready-to-play page at [start, start+length).
func (c *Controller) PushPage(page media.ReadyToPlayPage, start, length mediatime.Duration) {
	c.queue.PushBack(page, start, length)
}

// Clear empties the buffer.
func (c *Controller) Clear() {
	c.queue.Clear()
}

// BackwardUsed returns seek - first_item.Start, the quantity the backward
// capacity invariant bounds. Exposed for tests/property checks.
func (c *Controller) BackwardUsed(seek mediatime.Duration) mediatime.Duration {
	if c.queue.IsEmpty() {
		return mediatime.Zero
	}
	return seek.Sub(c.queue.First().Start)
}
