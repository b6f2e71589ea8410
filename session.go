package wsbridge

import (
	"crypto/x509"
	"net"
	"time"
)

type (
	// Session is the capability surface handed to every handler invocation.
	// It is independent of the concrete transport object: the host
	// application programs against it for the whole lifetime of a
	// connection.
	//
	// Send and the close operations are best-effort. A send racing a
	// half-closed socket is an expected condition, not a fatal error, so
	// operational transport failures are logged and swallowed rather than
	// returned to the caller.
	Session interface {
		// Send writes exactly one frame of the payload's kind to the peer.
		Send(m Message)

		// Close initiates the close handshake with a normal-closure status
		// and blocks until the peer's close frame is observed or the
		// close-wait timeout elapses, whichever comes first. Called from
		// inside a handler it returns without waiting; the engine observes
		// the acknowledgment once the handler returns.
		Close()

		// CloseWithStatus behaves like Close but sends an explicit status
		// code and reason to the peer.
		CloseWithStatus(code int, reason string)

		// Disconnect drops the underlying connection without a close
		// handshake. No-op when no live transport session is bound.
		Disconnect()

		// RemoteAddr returns the network address of the peer, or nil when
		// no live transport session is bound.
		RemoteAddr() net.Addr

		// IsSecure reports whether the upgrade request arrived over TLS.
		IsSecure() bool

		// PeerCertificates returns the peer certificate chain extracted at
		// upgrade time. Possibly empty; fixed for the connection lifetime.
		PeerCertificates() []*x509.Certificate

		// RequestPath returns the path of the upgrade request.
		RequestPath() string

		// SetIdleTimeout reconfigures the idle threshold. The new value
		// governs every subsequent idle-detection cycle, starting with the
		// engine's next read.
		SetIdleTimeout(d time.Duration)

		// IsConnected reports whether the transport session is currently
		// open.
		IsConnected() bool
	}
)
