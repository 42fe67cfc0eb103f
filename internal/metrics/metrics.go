// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Subscriber management metrics
	IncSubscriberCreated()
	IncSubscriberUpdated()
	IncSubscriberDeleted()

	// List retrieval metrics
	IncListServed()
	ObserveListDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
