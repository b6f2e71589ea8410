package wsbridge

import (
	"crypto/x509"
)

// Identity is what was extracted from the upgrade request for one
// connection: the peer certificate chain, the request path, the security
// flag and a factory-scoped numeric id used to correlate log lines. Fixed
// at construction, never mutated afterwards.
type Identity struct {
	id     uint64
	certs  []*x509.Certificate
	path   string
	secure bool
}

func (i Identity) ID() uint64 {
	return i.id
}

func (i Identity) PeerCertificates() []*x509.Certificate {
	return i.certs
}

func (i Identity) Path() string {
	return i.path
}

func (i Identity) Secure() bool {
	return i.secure
}

// CommonName returns the subject CN of the first peer certificate, or the
// empty string when the chain is empty. Diagnostics only; trust decisions
// happened before the chain reached this module.
func (i Identity) CommonName() string {
	if len(i.certs) == 0 {
		return ""
	}
	return i.certs[0].Subject.CommonName
}
