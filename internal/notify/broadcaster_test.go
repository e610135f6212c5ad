package notify

import "testing"

func TestNotifyCallsListenersInOrder(t *testing.T) {
	b := New()
	var order []int
	b.Subscribe(func() { order = append(order, 1) })
	b.Subscribe(func() { order = append(order, 2) })
	b.Subscribe(func() { order = append(order, 3) })

	b.Notify()

	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestNotifyWithNoListenersDoesNotPanic(t *testing.T) {
	New().Notify()
}

func TestSubscribeAfterNotifyIsIncludedNextTime(t *testing.T) {
	b := New()
	calls := 0
	b.Notify()
	b.Subscribe(func() { calls++ })
	b.Notify()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}
