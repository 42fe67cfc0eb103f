package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSubscriberCreated is a no-op.
func (n *NoopRecorder) IncSubscriberCreated() {}

// IncSubscriberUpdated is a no-op.
func (n *NoopRecorder) IncSubscriberUpdated() {}

// IncSubscriberDeleted is a no-op.
func (n *NoopRecorder) IncSubscriberDeleted() {}

// IncListServed is a no-op.
func (n *NoopRecorder) IncListServed() {}

// ObserveListDuration is a no-op.
func (n *NoopRecorder) ObserveListDuration(duration time.Duration) {}
