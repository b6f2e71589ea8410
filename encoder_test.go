package wsbridge

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWriteMessageTextFrame(t *testing.T) {
	sess := new(mockTransportSession)
	sess.On("SendText", "hola").Return(nil).Once()

	require.NoError(t, writeMessage(sess, NewTextMessage("hola")))
	sess.AssertExpectations(t)
}

func TestWriteMessageBinaryFrame(t *testing.T) {
	sess := new(mockTransportSession)
	sess.On("SendBytes", []byte{0x01, 0x02}).Return(nil).Once()

	require.NoError(t, writeMessage(sess, NewBinaryMessage([]byte{0x01, 0x02})))
	sess.AssertExpectations(t)
}

func TestWriteMessageBufferFrame(t *testing.T) {
	sess := new(mockTransportSession)
	sess.On("SendBytes", []byte("abc")).Return(nil).Once()

	buf := bytes.NewBufferString("abc")
	require.NoError(t, writeMessage(sess, NewBufferMessage(buf)))
	sess.AssertExpectations(t)
}

type bogusMessage struct{}

func (bogusMessage) Type() MessageType { return MessageType(99) }
func (bogusMessage) Bytes() []byte     { return nil }
func (bogusMessage) Text() string      { return "" }
func (bogusMessage) String() string    { return "bogus" }

func TestWriteMessageUnsupportedShape(t *testing.T) {
	sess := new(mockTransportSession)

	err := writeMessage(sess, bogusMessage{})
	require.True(t, errors.Is(err, ErrUnsupportedMessage))
	sess.AssertNotCalled(t, "SendBytes")
	sess.AssertNotCalled(t, "SendText")
}

func TestWriteMessagePropagatesTransportFailure(t *testing.T) {
	sess := new(mockTransportSession)
	sess.On("SendText", "x").Return(ErrSessionClosed).Once()

	require.Error(t, writeMessage(sess, NewTextMessage("x")))
	sess.AssertExpectations(t)
}
