package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/medicare/medicare-api/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "medicare_medicines_created_total %d\n", snap.MedicinesCreated)
	writeMetric(w, "medicare_medicines_updated_total %d\n", snap.MedicinesUpdated)
	writeMetric(w, "medicare_medicines_deleted_total %d\n", snap.MedicinesDeleted)
	writeMetric(w, "medicare_medicines_list_duration_seconds_count %d\n", snap.ListDurationCount)
	writeMetric(w, "medicare_medicines_list_duration_seconds_sum %.6f\n", float64(snap.ListDurationTotalNs)/1e9)

	writeMetric(w, "medicare_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "medicare_logins_total{status=\"success\"} %d\n", snap.LoginsSucceeded)
	writeMetric(w, "medicare_logins_total{status=\"failed\"} %d\n", snap.LoginsFailed)

	ops := make([]string, 0, len(snap.StorageErrors))
	for op := range snap.StorageErrors {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	for _, op := range ops {
		writeMetric(w, "medicare_storage_errors_total{op=%q} %d\n", op, snap.StorageErrors[op])
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
