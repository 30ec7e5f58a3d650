// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Catalog metrics
	IncMedicineCreated()
	IncMedicineUpdated()
	IncMedicineDeleted()
	ObserveListDuration(duration time.Duration)

	// Account metrics
	IncUserRegistered()
	IncLogin(status string) // status: "success" or "failed"

	// Persistence metrics
	IncStorageError(op string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
