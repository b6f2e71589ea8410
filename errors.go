package wsbridge

import (
	"github.com/pkg/errors"
)

var (
	ErrSessionClosed      = errors.New("transport session has been closed")
	ErrNotConnected       = errors.New("no transport session is bound")
	ErrWriteFailed        = errors.New("transport write failed")
	ErrUnsupportedMessage = errors.New("unsupported message type")
	ErrCloseTimeout       = errors.New("close handshake not acknowledged in time")
)
