package wsbridge

import (
	"net"
	"time"
)

type noopTransportSession struct{}

func (noopTransportSession) SendBytes([]byte) error { return nil }

func (noopTransportSession) SendText(string) error { return nil }

func (noopTransportSession) Close(int, string) error { return nil }

func (noopTransportSession) Disconnect() error { return nil }

func (noopTransportSession) Connected() bool { return false }

func (noopTransportSession) RemoteAddr() net.Addr { return nil }

func (noopTransportSession) SetIdleTimeout(time.Duration) error { return nil }
