package buffers

import (
	"testing"

	"github.com/oreal-solutions/npxlplay/internal/media"
	"github.com/oreal-solutions/npxlplay/internal/mediatime"
)

func ms(n int64) mediatime.Duration { return mediatime.FromMillis(n) }

func page(n int64) media.ReadyToPlayPage {
	return media.ReadyToPlayPage{Header: &media.PageHeader{MediaPageNumber: n}}
}

func TestSetForwardCapacityRecomputesBackward(t *testing.T) {
	c := New()
	c.SetForwardCapacity(ms(10_000))
	if got := c.ForwardCapacity().Millis(); got != 10_000 {
		t.Fatalf("ForwardCapacity() = %d, want 10000", got)
	}
	if got := c.BackwardCapacity().Millis(); got != 7_000 {
		t.Fatalf("BackwardCapacity() = %d, want 7000 (0.7x)", got)
	}
}

func TestGetAtMissInvokesOnNeedsFull(t *testing.T) {
	c := New()
	fullCalled := false
	got := c.GetAt(ms(0), nil, func() { fullCalled = true })
	if !fullCalled {
		t.Fatalf("onNeedsFull not called on miss")
	}
	if !got.IsVoid() {
		t.Fatalf("GetAt() on miss = %v, want void", got)
	}
}

func TestGetAtHitBelowSoftThresholdInvokesOnNeedsSoft(t *testing.T) {
	c := New()
	c.SetForwardCapacity(ms(10_000))
	c.PushPage(page(1), ms(0), ms(2_000)) // only 2s buffered, well under 7s (70%) threshold

	softCalled := false
	got := c.GetAt(ms(0), func() { softCalled = true }, nil)
	if !softCalled {
		t.Fatalf("onNeedsSoft not called when buffered-ahead < 70%% of forward capacity")
	}
	if got.IsVoid() || got.Header.MediaPageNumber != 1 {
		t.Fatalf("GetAt() = %v, want page 1", got)
	}
}

func TestGetAtHitAboveSoftThresholdSkipsOnNeedsSoft(t *testing.T) {
	c := New()
	c.SetForwardCapacity(ms(10_000))
	c.PushPage(page(1), ms(0), ms(10_000)) // fully buffered

	softCalled := false
	c.GetAt(ms(0), func() { softCalled = true }, nil)
	if softCalled {
		t.Fatalf("onNeedsSoft called when forward buffer is full")
	}
}

func TestGetAtEvictsBackwardOverflow(t *testing.T) {
	c := New()
	c.SetForwardCapacity(ms(10_000)) // backward = 7000
	c.PushPage(page(1), ms(0), ms(3_000))
	c.PushPage(page(2), ms(3_000), ms(3_000))
	c.PushPage(page(3), ms(6_000), ms(10_000))

	// seek at 9000: used_back = 9000, over 7000 backward capacity.
	c.GetAt(ms(9_000), nil, nil)

	if got := c.BackwardUsed(ms(9_000)).Millis(); got > c.BackwardCapacity().Millis() {
		t.Fatalf("BackwardUsed() = %d, exceeds backward capacity %d", got, c.BackwardCapacity().Millis())
	}
}

func TestEndOfLastQueuedPageEmptyIsZero(t *testing.T) {
	c := New()
	if !c.EndOfLastQueuedPage().IsZero() {
		t.Fatalf("EndOfLastQueuedPage() on empty buffer not zero")
	}
}

func TestLastPageEmptyIsVoid(t *testing.T) {
	c := New()
	if !c.LastPage().IsVoid() {
		t.Fatalf("LastPage() on empty buffer not void")
	}
}

func TestForwardSpaceToFillSaturatesAtZero(t *testing.T) {
	c := New()
	c.SetForwardCapacity(ms(10_000))
	c.PushPage(page(1), ms(0), ms(20_000)) // over-full
	if got := c.ForwardSpaceToFill(ms(0)).Millis(); got != 0 {
		t.Fatalf("ForwardSpaceToFill() = %d, want 0 (saturating)", got)
	}
}

func TestClear(t *testing.T) {
	c := New()
	c.PushPage(page(1), ms(0), ms(1_000))
	c.Clear()
	if !c.EndOfLastQueuedPage().IsZero() {
		t.Fatalf("Clear() did not empty the buffer")
	}
}
