package oto

import (
	"testing"
	"time"
)

func TestQueueReadBlocksUntilPush(t *testing.T) {
	q := newQueue()
	done := make(chan []byte, 1)
	go func() {
		p := make([]byte, 4)
		n, err := q.Read(p)
		if err != nil {
			t.Errorf("Read() error = %v", err)
		}
		done <- p[:n]
	}()

	time.Sleep(10 * time.Millisecond) // give the goroutine time to start blocking
	q.push([]byte{1, 2, 3})

	select {
	case got := <-done:
		if string(got) != string([]byte{1, 2, 3}) {
			t.Fatalf("Read() = %v, want [1 2 3]", got)
		}
	case <-time.After(time.Second):
		t.Fatal("Read() did not unblock after push")
	}
}

func TestQueueDropClearsBufferedData(t *testing.T) {
	q := newQueue()
	q.push([]byte{1, 2, 3})
	q.drop()

	p := make([]byte, 4)
	done := make(chan struct{})
	go func() {
		_, _ = q.Read(p)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Read() returned after drop with nothing pushed; want it still blocked")
	case <-time.After(50 * time.Millisecond):
		// still blocked, as expected
	}
	q.close()
	<-done
}

func TestQueueCloseUnblocksReadersWithEOFLikeZero(t *testing.T) {
	q := newQueue()
	done := make(chan int, 1)
	go func() {
		n, _ := q.Read(make([]byte, 4))
		done <- n
	}()

	time.Sleep(10 * time.Millisecond)
	q.close()

	select {
	case n := <-done:
		if n != 0 {
			t.Fatalf("Read() after close = %d bytes, want 0", n)
		}
	case <-time.After(time.Second):
		t.Fatal("Read() did not unblock after close")
	}
}
