package wsbridge

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector receives connection telemetry. Implementations must be cheap:
// hooks run inline with lifecycle dispatch and sends.
type Collector interface {
	ConnOpened()
	ConnClosed()
	FrameSent(t MessageType)
	SendFailure()
	CloseTimeout()
}

type noopCollector struct{}

// Noop returns a collector that discards all telemetry.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) ConnOpened() {}

func (noopCollector) ConnClosed() {}

func (noopCollector) FrameSent(MessageType) {}

func (noopCollector) SendFailure() {}

func (noopCollector) CloseTimeout() {}

// PrometheusCollector exposes connection telemetry as Prometheus metrics.
type PrometheusCollector struct {
	active        prometheus.Gauge
	framesSent    *prometheus.CounterVec
	sendFailures  prometheus.Counter
	closeTimeouts prometheus.Counter
}

// NewPrometheusCollector registers the connection metrics with the given
// registerer. A nil registerer falls back to the default one.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &PrometheusCollector{
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wsbridge_active_connections",
			Help: "Number of currently open WebSocket connections.",
		}),
		framesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wsbridge_frames_sent_total",
			Help: "Number of frames written to peers, by payload kind.",
		}, []string{"kind"}),
		sendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wsbridge_send_failures_total",
			Help: "Number of sends dropped because the transport write failed.",
		}),
		closeTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wsbridge_close_timeouts_total",
			Help: "Number of close handshakes not acknowledged within the close-wait timeout.",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.active, c.framesSent, c.sendFailures, c.closeTimeouts,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *PrometheusCollector) ConnOpened() {
	c.active.Inc()
}

func (c *PrometheusCollector) ConnClosed() {
	c.active.Dec()
}

func (c *PrometheusCollector) FrameSent(t MessageType) {
	c.framesSent.WithLabelValues(frameKind(t)).Inc()
}

func (c *PrometheusCollector) SendFailure() {
	c.sendFailures.Inc()
}

func (c *PrometheusCollector) CloseTimeout() {
	c.closeTimeouts.Inc()
}

func frameKind(t MessageType) string {
	switch t {
	case TextMessage:
		return "text"
	case BinaryMessage:
		return "binary"
	case BufferMessage:
		return "buffer"
	default:
		return "unknown"
	}
}
