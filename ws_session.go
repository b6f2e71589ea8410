package wsbridge

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/fasthttp/websocket"
)

const writeWait = time.Second

// wsSession implements TransportSession over a server-side websocket.Conn.
// Outbound data frames are serialized with a mutex since the facade may be
// driven from arbitrary goroutines; all reads belong to the bridge's read
// loop.
type wsSession struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	connected atomic.Bool
	idle      atomic.Int64 // nanoseconds, 0 disables idle detection
}

func newWSSession(conn *websocket.Conn) *wsSession {
	s := &wsSession{conn: conn}
	s.connected.Store(true)
	return s
}

func (s *wsSession) SendBytes(p []byte) error {
	return s.write(websocket.BinaryMessage, p)
}

func (s *wsSession) SendText(text string) error {
	return s.write(websocket.TextMessage, []byte(text))
}

func (s *wsSession) write(messageType int, p []byte) error {
	if !s.connected.Load() {
		return ErrSessionClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(messageType, p); err != nil {
		// Deadline and I/O errors are not evidence the session is closed;
		// ErrSessionClosed is reserved for the known-closed path above.
		return errors.Wrap(ErrWriteFailed, err.Error())
	}
	return nil
}

// Close sends a close frame. The socket stays open so the read loop can
// observe the peer's acknowledging close frame.
func (s *wsSession) Close(code int, reason string) error {
	msg := websocket.FormatCloseMessage(code, reason)
	err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	if err != nil && err != websocket.ErrCloseSent {
		return errors.Wrap(ErrWriteFailed, err.Error())
	}
	return nil
}

func (s *wsSession) Disconnect() error {
	s.connected.Store(false)
	return s.conn.Close()
}

func (s *wsSession) Connected() bool {
	return s.connected.Load()
}

func (s *wsSession) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

// SetIdleTimeout stores the new threshold; the read loop applies it at its
// next deadline refresh. Touching the read deadline from here would race
// the engine's reader, which only blesses Close and WriteControl for
// concurrent use.
func (s *wsSession) SetIdleTimeout(d time.Duration) error {
	s.idle.Store(int64(d))
	return nil
}

// refreshReadDeadline is invoked by the read loop before every read so idle
// detection tracks the latest activity and stored timeout updates take
// effect.
func (s *wsSession) refreshReadDeadline() error {
	d := time.Duration(s.idle.Load())
	if d <= 0 {
		return s.conn.SetReadDeadline(time.Time{})
	}
	return s.conn.SetReadDeadline(time.Now().Add(d))
}

func (s *wsSession) ping(data []byte) error {
	return s.conn.WriteControl(websocket.PingMessage, data, time.Now().Add(writeWait))
}

// markClosed flags the session as gone and releases the socket. Safe to
// call more than once.
func (s *wsSession) markClosed() {
	s.connected.Store(false)
	_ = s.conn.Close()
}
