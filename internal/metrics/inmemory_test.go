package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	t.Parallel()

	rec := NewInMemory()

	rec.IncSubscriberCreated()
	rec.IncSubscriberCreated()
	rec.IncSubscriberUpdated()
	rec.IncSubscriberDeleted()
	rec.IncListServed()
	rec.ObserveListDuration(5 * time.Millisecond)

	snap := rec.Snapshot()

	if snap.SubscribersCreated != 2 {
		t.Errorf("SubscribersCreated = %d, want 2", snap.SubscribersCreated)
	}
	if snap.SubscribersUpdated != 1 {
		t.Errorf("SubscribersUpdated = %d, want 1", snap.SubscribersUpdated)
	}
	if snap.SubscribersDeleted != 1 {
		t.Errorf("SubscribersDeleted = %d, want 1", snap.SubscribersDeleted)
	}
	if snap.ListsServed != 1 {
		t.Errorf("ListsServed = %d, want 1", snap.ListsServed)
	}
	if snap.ListDurationCount != 1 {
		t.Errorf("ListDurationCount = %d, want 1", snap.ListDurationCount)
	}
	if snap.ListDurationTotalNs != (5 * time.Millisecond).Nanoseconds() {
		t.Errorf("ListDurationTotalNs = %d, want %d", snap.ListDurationTotalNs, (5 * time.Millisecond).Nanoseconds())
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	t.Parallel()

	rec := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.IncSubscriberCreated()
			rec.IncListServed()
		}()
	}
	wg.Wait()

	snap := rec.Snapshot()
	if snap.SubscribersCreated != 50 {
		t.Errorf("SubscribersCreated = %d, want 50", snap.SubscribersCreated)
	}
	if snap.ListsServed != 50 {
		t.Errorf("ListsServed = %d, want 50", snap.ListsServed)
	}
}
