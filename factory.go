package wsbridge

import (
	"sync/atomic"
	"time"
)

// Factory builds one Conn per incoming upgrade. All connections share the
// same read-only Handlers; the only other shared state is the atomic
// connection-id counter, so concurrent upgrades are safe.
type Factory struct {
	handlers     Handlers
	logger       logger
	metrics      Collector
	closeTimeout time.Duration
	nextID       atomic.Uint64
}

type FactoryOption func(*Factory)

func WithLogger(l logger) FactoryOption {
	return func(f *Factory) {
		f.logger = l
	}
}

func WithCollector(c Collector) FactoryOption {
	return func(f *Factory) {
		f.metrics = c
	}
}

// WithCloseTimeout overrides how long Close blocks awaiting the peer's
// close frame. Defaults to DefaultCloseTimeout.
func WithCloseTimeout(d time.Duration) FactoryOption {
	return func(f *Factory) {
		f.closeTimeout = d
	}
}

func NewFactory(handlers Handlers, opts ...FactoryOption) *Factory {
	f := &Factory{
		handlers:     handlers,
		logger:       noopLogger(),
		metrics:      Noop(),
		closeTimeout: DefaultCloseTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewConn extracts the peer certificate chain, request path and security
// flag from the upgrade request, allocates a fresh close latch and returns
// the adapter for the connection.
func (f *Factory) NewConn(req UpgradeRequest) *Conn {
	id := f.nextID.Add(1)
	return &Conn{
		handlers: f.handlers,
		identity: Identity{
			id:     id,
			certs:  req.PeerCertificates(),
			path:   req.Path(),
			secure: req.Secure(),
		},
		latch:        newCloseLatch(),
		logger:       f.logger.WithField("conn_id", id),
		metrics:      f.metrics,
		closeTimeout: f.closeTimeout,
	}
}
