package wsbridge

import (
	"github.com/pkg/errors"
)

// writeMessage maps a payload's shape to the transport primitive of the
// same kind: text goes out as a text frame, raw bytes and buffer views as
// binary frames over the same path. Exactly one frame is written per call.
// Transport failures propagate to the caller; handling them is the session
// facade's job, not the encoder's.
func writeMessage(sess TransportSession, m Message) error {
	switch m.Type() {
	case TextMessage:
		return sess.SendText(m.Text())
	case BinaryMessage, BufferMessage:
		return sess.SendBytes(m.Bytes())
	default:
		return errors.Wrapf(ErrUnsupportedMessage, "type=%d", m.Type())
	}
}
