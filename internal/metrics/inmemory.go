package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	MedicinesCreated    uint64
	MedicinesUpdated    uint64
	MedicinesDeleted    uint64
	ListDurationCount   uint64
	ListDurationTotalNs int64
	UsersRegistered     uint64
	LoginsSucceeded     uint64
	LoginsFailed        uint64
	StorageErrors       map[string]uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	medicinesCreated    uint64
	medicinesUpdated    uint64
	medicinesDeleted    uint64
	listDurationCount   uint64
	listDurationTotalNs int64
	usersRegistered     uint64
	loginsSucceeded     uint64
	loginsFailed        uint64

	mu            sync.Mutex
	storageErrors map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{storageErrors: make(map[string]uint64)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	storageErrors := make(map[string]uint64, len(m.storageErrors))
	for op, n := range m.storageErrors {
		storageErrors[op] = n
	}
	m.mu.Unlock()

	return Snapshot{
		MedicinesCreated:    atomic.LoadUint64(&m.medicinesCreated),
		MedicinesUpdated:    atomic.LoadUint64(&m.medicinesUpdated),
		MedicinesDeleted:    atomic.LoadUint64(&m.medicinesDeleted),
		ListDurationCount:   atomic.LoadUint64(&m.listDurationCount),
		ListDurationTotalNs: atomic.LoadInt64(&m.listDurationTotalNs),
		UsersRegistered:     atomic.LoadUint64(&m.usersRegistered),
		LoginsSucceeded:     atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:        atomic.LoadUint64(&m.loginsFailed),
		StorageErrors:       storageErrors,
	}
}

// IncMedicineCreated increments medicine created counter.
func (m *InMemoryRecorder) IncMedicineCreated() {
	atomic.AddUint64(&m.medicinesCreated, 1)
}

// IncMedicineUpdated increments medicine updated counter.
func (m *InMemoryRecorder) IncMedicineUpdated() {
	atomic.AddUint64(&m.medicinesUpdated, 1)
}

// IncMedicineDeleted increments medicine deleted counter.
func (m *InMemoryRecorder) IncMedicineDeleted() {
	atomic.AddUint64(&m.medicinesDeleted, 1)
}

// ObserveListDuration records list query duration.
func (m *InMemoryRecorder) ObserveListDuration(duration time.Duration) {
	atomic.AddUint64(&m.listDurationCount, 1)
	atomic.AddInt64(&m.listDurationTotalNs, duration.Nanoseconds())
}

// IncUserRegistered increments registered user counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLogin increments the login counter for status.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == "success" {
		atomic.AddUint64(&m.loginsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncStorageError increments the storage error counter for op.
func (m *InMemoryRecorder) IncStorageError(op string) {
	m.mu.Lock()
	m.storageErrors[op]++
	m.mu.Unlock()
}
