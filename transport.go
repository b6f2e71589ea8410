package wsbridge

import (
	"crypto/x509"
	"net"
	"net/http"
	"time"
)

type (
	// TransportSession is the capability set this module consumes from the
	// underlying WebSocket engine for one live connection. The engine owns
	// frame encoding, control frames and the wire protocol; this module
	// only drives these primitives.
	TransportSession interface {
		SendBytes(p []byte) error
		SendText(text string) error

		// Close sends a close frame with the given status code and reason.
		// It does not tear down the connection; the engine does that once
		// the peer's close frame is observed.
		Close(code int, reason string) error

		// Disconnect drops the underlying connection immediately,
		// bypassing the close handshake.
		Disconnect() error

		Connected() bool
		RemoteAddr() net.Addr
		SetIdleTimeout(d time.Duration) error
	}

	// UpgradeRequest exposes the parts of the protocol upgrade this module
	// extracts connection identity from. Certificate validation has
	// already happened by the time a chain reaches here.
	UpgradeRequest interface {
		PeerCertificates() []*x509.Certificate
		Path() string
		Secure() bool
	}
)

type httpUpgradeRequest struct {
	r *http.Request
}

// NewHTTPUpgradeRequest adapts a standard upgrade request.
func NewHTTPUpgradeRequest(r *http.Request) UpgradeRequest {
	return httpUpgradeRequest{r: r}
}

func (u httpUpgradeRequest) PeerCertificates() []*x509.Certificate {
	if u.r.TLS == nil {
		return nil
	}
	return u.r.TLS.PeerCertificates
}

func (u httpUpgradeRequest) Path() string {
	return u.r.URL.Path
}

func (u httpUpgradeRequest) Secure() bool {
	return u.r.TLS != nil
}
