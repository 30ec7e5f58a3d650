package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncMedicineCreated is a no-op.
func (n *NoopRecorder) IncMedicineCreated() {}

// IncMedicineUpdated is a no-op.
func (n *NoopRecorder) IncMedicineUpdated() {}

// IncMedicineDeleted is a no-op.
func (n *NoopRecorder) IncMedicineDeleted() {}

// ObserveListDuration is a no-op.
func (n *NoopRecorder) ObserveListDuration(duration time.Duration) {}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(status string) {}

// IncStorageError is a no-op.
func (n *NoopRecorder) IncStorageError(op string) {}
