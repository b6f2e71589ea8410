package wsbridge

import (
	"bytes"
	"fmt"
)

type MessageType byte

const (
	TextMessage   MessageType = 1
	BinaryMessage MessageType = 2
	BufferMessage MessageType = 3
)

func (t MessageType) Is(other MessageType) bool {
	return t == other
}

func (t MessageType) IsText() bool {
	return t.Is(TextMessage)
}

func (t MessageType) IsBinary() bool {
	return t.Is(BinaryMessage)
}

func (t MessageType) IsBuffer() bool {
	return t.Is(BufferMessage)
}

// Message is an outbound payload. The shape set is closed: text, a raw byte
// slice, or a buffer view. Text is written as a text frame, the other two as
// binary frames.
type Message interface {
	Type() MessageType
	Bytes() []byte
	Text() string
	String() string
}

type message struct {
	MessageType MessageType
	MessageData []byte
}

func (m message) Type() MessageType {
	return m.MessageType
}

func (m message) Bytes() []byte {
	return m.MessageData
}

func (m message) Text() string {
	return string(m.MessageData)
}

func (m message) String() string {
	return fmt.Sprintf("Message{type=%d,len=%d}",
		m.MessageType, len(m.MessageData))
}

type bufferMessage struct {
	buf *bytes.Buffer
}

func (m bufferMessage) Type() MessageType {
	return BufferMessage
}

func (m bufferMessage) Bytes() []byte {
	return m.buf.Bytes()
}

func (m bufferMessage) Text() string {
	return m.buf.String()
}

func (m bufferMessage) String() string {
	return fmt.Sprintf("Message{type=%d,len=%d}",
		BufferMessage, m.buf.Len())
}

func NewTextMessage(text string) Message {
	return message{MessageType: TextMessage, MessageData: []byte(text)}
}

func NewBinaryMessage(data []byte) Message {
	return message{MessageType: BinaryMessage, MessageData: data}
}

func NewBufferMessage(buf *bytes.Buffer) Message {
	return bufferMessage{buf: buf}
}
