// Package metrics provides Prometheus metrics for drivetug.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	batchItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivetug_batch_items_total",
			Help: "Total number of batch items processed",
		},
		[]string{"operation", "result"},
	)

	batchesAborted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivetug_batches_aborted_total",
			Help: "Total number of batches aborted before the last item",
		},
		[]string{"operation"},
	)

	hexCommitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivetug_hex_commits_total",
			Help: "Total number of hex editor commit attempts",
		},
		[]string{"result"},
	)

	hexBytesCommitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "drivetug_hex_bytes_changed_total",
			Help: "Total number of bytes changed by committed hex edits",
		},
	)

	mediaEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivetug_media_events_total",
			Help: "Total number of media insert, eject and remap events",
		},
		[]string{"kind"},
	)

	enumerationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "drivetug_enumeration_failures_total",
			Help: "Total number of directory listings that failed and fell back",
		},
	)

	backendOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drivetug_backend_operation_duration_seconds",
			Help:    "Remote backend operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	backendOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivetug_backend_operations_total",
			Help: "Total number of remote backend operations",
		},
		[]string{"backend", "operation", "status"},
	)
)

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordBatchItem records one batch item outcome: succeeded, failed or skipped.
func RecordBatchItem(operation, result string) {
	batchItemsTotal.WithLabelValues(operation, result).Inc()
}

// RecordBatchAborted records a batch the operator stopped.
func RecordBatchAborted(operation string) {
	batchesAborted.WithLabelValues(operation).Inc()
}

// RecordHexCommit records a hex editor commit and the number of changed bytes.
func RecordHexCommit(changed int, success bool) {
	hexCommitsTotal.WithLabelValues(status(success)).Inc()
	if success {
		hexBytesCommitted.Add(float64(changed))
	}
}

// RecordMediaEvent records a media event by kind.
func RecordMediaEvent(kind string) {
	mediaEventsTotal.WithLabelValues(kind).Inc()
}

// RecordEnumerationFailure records a listing that could not be read.
func RecordEnumerationFailure() {
	enumerationFailures.Inc()
}

// RecordBackendOperation records a remote backend operation.
func RecordBackendOperation(backend, operation string, duration time.Duration, success bool) {
	backendOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	backendOperationsTotal.WithLabelValues(backend, operation, status(success)).Inc()
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	slog.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
