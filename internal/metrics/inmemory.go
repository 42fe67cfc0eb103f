package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	SubscribersCreated  uint64
	SubscribersUpdated  uint64
	SubscribersDeleted  uint64
	ListsServed         uint64
	ListDurationCount   uint64
	ListDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory using atomic counters.
type InMemoryRecorder struct {
	subscribersCreated  uint64
	subscribersUpdated  uint64
	subscribersDeleted  uint64
	listsServed         uint64
	listDurationCount   uint64
	listDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		SubscribersCreated:  atomic.LoadUint64(&m.subscribersCreated),
		SubscribersUpdated:  atomic.LoadUint64(&m.subscribersUpdated),
		SubscribersDeleted:  atomic.LoadUint64(&m.subscribersDeleted),
		ListsServed:         atomic.LoadUint64(&m.listsServed),
		ListDurationCount:   atomic.LoadUint64(&m.listDurationCount),
		ListDurationTotalNs: atomic.LoadInt64(&m.listDurationTotalNs),
	}
}

// IncSubscriberCreated increments the created counter.
func (m *InMemoryRecorder) IncSubscriberCreated() {
	atomic.AddUint64(&m.subscribersCreated, 1)
}

// IncSubscriberUpdated increments the updated counter.
func (m *InMemoryRecorder) IncSubscriberUpdated() {
	atomic.AddUint64(&m.subscribersUpdated, 1)
}

// IncSubscriberDeleted increments the deleted counter.
func (m *InMemoryRecorder) IncSubscriberDeleted() {
	atomic.AddUint64(&m.subscribersDeleted, 1)
}

// IncListServed increments the list counter.
func (m *InMemoryRecorder) IncListServed() {
	atomic.AddUint64(&m.listsServed, 1)
}

// ObserveListDuration records list retrieval latency.
func (m *InMemoryRecorder) ObserveListDuration(duration time.Duration) {
	atomic.AddUint64(&m.listDurationCount, 1)
	atomic.AddInt64(&m.listDurationTotalNs, duration.Nanoseconds())
}
