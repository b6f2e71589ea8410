package wsbridge

import (
	"net"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockTransportSession struct {
	mock.Mock
}

func (m *mockTransportSession) SendBytes(p []byte) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *mockTransportSession) SendText(text string) error {
	args := m.Called(text)
	return args.Error(0)
}

func (m *mockTransportSession) Close(code int, reason string) error {
	args := m.Called(code, reason)
	return args.Error(0)
}

func (m *mockTransportSession) Disconnect() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockTransportSession) Connected() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *mockTransportSession) RemoteAddr() net.Addr {
	args := m.Called()
	if addr := args.Get(0); addr != nil {
		return addr.(net.Addr)
	}
	return nil
}

func (m *mockTransportSession) SetIdleTimeout(d time.Duration) error {
	args := m.Called(d)
	return args.Error(0)
}
