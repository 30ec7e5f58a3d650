package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	m := NewInMemory()

	m.IncMedicineCreated()
	m.IncMedicineCreated()
	m.IncMedicineUpdated()
	m.IncMedicineDeleted()
	m.ObserveListDuration(2 * time.Millisecond)
	m.ObserveListDuration(3 * time.Millisecond)
	m.IncUserRegistered()
	m.IncLogin("success")
	m.IncLogin("failed")
	m.IncLogin("failed")
	m.IncStorageError("read")
	m.IncStorageError("parse")
	m.IncStorageError("parse")

	snap := m.Snapshot()
	if snap.MedicinesCreated != 2 || snap.MedicinesUpdated != 1 || snap.MedicinesDeleted != 1 {
		t.Errorf("unexpected medicine counters: %+v", snap)
	}
	if snap.ListDurationCount != 2 || snap.ListDurationTotalNs != int64(5*time.Millisecond) {
		t.Errorf("unexpected list duration: count=%d total=%d", snap.ListDurationCount, snap.ListDurationTotalNs)
	}
	if snap.UsersRegistered != 1 || snap.LoginsSucceeded != 1 || snap.LoginsFailed != 2 {
		t.Errorf("unexpected account counters: %+v", snap)
	}
	if snap.StorageErrors["read"] != 1 || snap.StorageErrors["parse"] != 2 {
		t.Errorf("unexpected storage errors: %v", snap.StorageErrors)
	}
}

func TestInMemoryRecorder_SnapshotIsCopy(t *testing.T) {
	m := NewInMemory()
	m.IncStorageError("write")

	snap := m.Snapshot()
	snap.StorageErrors["write"] = 100

	if got := m.Snapshot().StorageErrors["write"]; got != 1 {
		t.Errorf("expected snapshot mutation to be isolated, got %d", got)
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	m := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncMedicineCreated()
			m.IncStorageError("write")
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	if snap.MedicinesCreated != 50 || snap.StorageErrors["write"] != 50 {
		t.Errorf("expected 50/50, got %d/%d", snap.MedicinesCreated, snap.StorageErrors["write"])
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoop()
	r.IncMedicineCreated()
	r.IncMedicineUpdated()
	r.IncMedicineDeleted()
	r.ObserveListDuration(time.Second)
	r.IncUserRegistered()
	r.IncLogin("success")
	r.IncStorageError("read")
}
