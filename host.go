package audioio

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tphakala/audioio/internal/backend"
	"github.com/tphakala/audioio/internal/backend/miniaudio"
	"github.com/tphakala/audioio/internal/logging"
	"github.com/tphakala/audioio/internal/observability"
)

// Host owns a connection to the platform's native audio layer. It is an
// explicit value: construct one and pass it where enumeration or stream
// building is needed. There is no hidden process-wide host.
//
// A Host must be closed when no longer needed; devices and streams
// obtained from it must not outlive it.
type Host struct {
	backend backend.Backend
	logger  *slog.Logger
	metrics *observability.StreamMetrics
}

// HostOption configures a Host during construction.
type HostOption func(*hostOptions)

type hostOptions struct {
	logger     *slog.Logger
	registerer prometheus.Registerer
}

// WithLogger routes the host's control-path logging to logger instead of
// the package default.
func WithLogger(logger *slog.Logger) HostOption {
	return func(o *hostOptions) { o.logger = logger }
}

// WithMetrics registers stream runtime metrics against reg.
func WithMetrics(reg prometheus.Registerer) HostOption {
	return func(o *hostOptions) { o.registerer = reg }
}

// NewHost connects to the platform's default native audio layer.
func NewHost(opts ...HostOption) (*Host, error) {
	bk, err := miniaudio.New()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceNotAvailable, err)
	}
	return newHost(bk, opts...)
}

// newHost wires a Host over an explicit backend. Tests use this to inject
// fake native layers.
func newHost(bk backend.Backend, opts ...HostOption) (*Host, error) {
	var o hostOptions
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = logging.ForService("audioio")
	}

	var metrics *observability.StreamMetrics
	if o.registerer != nil {
		m, err := observability.NewStreamMetrics(o.registerer)
		if err != nil {
			_ = bk.Close()
			return nil, fmt.Errorf("registering stream metrics: %w", err)
		}
		metrics = m
	}

	return &Host{backend: bk, logger: logger, metrics: metrics}, nil
}

// Name identifies the native layer this host is connected to.
func (h *Host) Name() string {
	return h.backend.Name()
}

// OutputDevices enumerates the available output devices.
func (h *Host) OutputDevices() ([]*Device, error) {
	bks, err := h.backend.OutputDevices()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceQueryFailed, err)
	}
	devices := make([]*Device, 0, len(bks))
	for _, bk := range bks {
		devices = append(devices, &Device{bk: bk, host: h})
	}
	return devices, nil
}

// DefaultOutputDevice returns the platform's default output device.
func (h *Host) DefaultOutputDevice() (*Device, error) {
	bk, err := h.backend.DefaultOutputDevice()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceNotAvailable, err)
	}
	return &Device{bk: bk, host: h}, nil
}

// Close releases the native audio connection. Devices and streams obtained
// from this host must not be used afterwards.
func (h *Host) Close() error {
	return h.backend.Close()
}
