package wsbridge

import (
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/fasthttp/websocket"
)

// Bridge glues a Factory to the engine's upgrade machinery. It is an
// http.Handler: each request is upgraded, turned into a Conn and driven
// through its lifecycle from a single read loop, which is what guarantees
// the one-callback-at-a-time ordering the adapter relies on.
type Bridge struct {
	factory      *Factory
	upgrader     websocket.Upgrader
	logger       logger
	pingInterval time.Duration
}

type BridgeOption func(*Bridge)

// WithUpgrader replaces the default upgrader, e.g. to set buffer sizes or
// an origin check.
func WithUpgrader(u websocket.Upgrader) BridgeOption {
	return func(b *Bridge) {
		b.upgrader = u
	}
}

// WithPingInterval enables a server-side keep-alive ping per connection.
func WithPingInterval(d time.Duration) BridgeOption {
	return func(b *Bridge) {
		b.pingInterval = d
	}
}

func WithBridgeLogger(l logger) BridgeOption {
	return func(b *Bridge) {
		b.logger = l
	}
}

func NewBridge(factory *Factory, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		factory: factory,
		logger:  noopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Errorf("upgrade failed for %s: %s", r.URL.Path, err)
		return
	}

	conn := b.factory.NewConn(NewHTTPUpgradeRequest(r))
	sess := newWSSession(ws)
	conn.HandleConnect(sess)

	if b.pingInterval > 0 {
		go b.keepAlive(conn, sess)
	}

	b.readLoop(conn, sess)
}

// readLoop delivers inbound frames to the adapter until the connection
// ends, then reports the close exactly once. Handler failures are caller
// bugs and are not intercepted here.
func (b *Bridge) readLoop(conn *Conn, sess *wsSession) {
	defer sess.markClosed()

	for {
		if err := sess.refreshReadDeadline(); err != nil {
			b.logger.Debugf("read deadline refresh failed: %s", err)
		}

		messageType, data, err := sess.conn.ReadMessage()
		if err != nil {
			code, reason, clean := closeStatus(err)
			if !clean {
				conn.HandleError(err)
			}
			sess.markClosed()
			conn.HandleClose(code, reason)
			return
		}

		switch messageType {
		case websocket.TextMessage:
			conn.HandleText(string(data))
		case websocket.BinaryMessage:
			conn.HandleBinary(data)
		}
	}
}

// closeStatus maps a read error to close-frame status. A decoded close
// frame yields the peer's code and reason; anything else is an abnormal
// closure.
func closeStatus(err error) (code int, reason string, clean bool) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text, true
	}
	return websocket.CloseAbnormalClosure, err.Error(), false
}

// keepAlive pings the peer at the configured interval until the close
// handshake completes.
func (b *Bridge) keepAlive(conn *Conn, sess *wsSession) {
	ticker := time.NewTicker(b.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-conn.closed():
			return
		case <-ticker.C:
			if err := sess.ping(nil); err != nil {
				b.logger.Debugf("keep-alive ping failed: %s", err)
				return
			}
		}
	}
}
