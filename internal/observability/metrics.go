// Package observability provides Prometheus metrics for stream runtime
// behavior. All recording methods are safe on a nil receiver so metrics
// stay optional, and they perform only atomic counter increments so the
// real-time callback path can record without blocking or allocating.
package observability

import "github.com/prometheus/client_golang/prometheus"

// StreamMetrics tracks per-process stream activity.
type StreamMetrics struct {
	callbacksTotal    prometheus.Counter
	timingErrorsTotal prometheus.Counter
	skippedCycles     prometheus.Counter
	streamBuilds      *prometheus.CounterVec
	deviceStops       prometheus.Counter
}

// NewStreamMetrics creates and registers stream metrics against reg.
func NewStreamMetrics(reg prometheus.Registerer) (*StreamMetrics, error) {
	m := &StreamMetrics{
		callbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audioio_callbacks_total",
			Help: "Total data callback invocations delivered to user code",
		}),
		timingErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audioio_timing_errors_total",
			Help: "Total buffer cycles with host time conversion or timestamp failures",
		}),
		skippedCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audioio_skipped_cycles_total",
			Help: "Total buffer cycles that produced no data",
		}),
		streamBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "audioio_stream_builds_total",
			Help: "Total stream build attempts by result",
		}, []string{"result"}),
		deviceStops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audioio_device_stops_total",
			Help: "Total unexpected native device stops",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.callbacksTotal, m.timingErrorsTotal, m.skippedCycles, m.streamBuilds, m.deviceStops,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordCallback counts one delivered data callback.
func (m *StreamMetrics) RecordCallback() {
	if m == nil {
		return
	}
	m.callbacksTotal.Inc()
}

// RecordTimingError counts one cycle lost to a timestamp failure.
func (m *StreamMetrics) RecordTimingError() {
	if m == nil {
		return
	}
	m.timingErrorsTotal.Inc()
	m.skippedCycles.Inc()
}

// RecordStreamBuild counts one stream build attempt.
func (m *StreamMetrics) RecordStreamBuild(success bool) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.streamBuilds.WithLabelValues(result).Inc()
}

// RecordDeviceStop counts one unexpected native device stop.
func (m *StreamMetrics) RecordDeviceStop() {
	if m == nil {
		return
	}
	m.deviceStops.Inc()
}
