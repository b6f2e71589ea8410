package wsbridge

import (
	"crypto/x509"
	"net"
	"sync/atomic"
	"time"

	"github.com/fasthttp/websocket"
)

// DefaultCloseTimeout bounds how long Close blocks waiting for the peer's
// close frame.
const DefaultCloseTimeout = 30 * time.Second

// Conn adapts one physical WebSocket connection to the caller's Handlers.
// The engine invokes the Handle* callbacks one at a time per connection;
// Conn relies on that ordering and keeps no lock around handler dispatch.
// Distinct connections are fully independent and may run concurrently.
//
// Conn also implements Session, which is what every handler receives as its
// first argument.
type Conn struct {
	handlers     Handlers
	identity     Identity
	latch        *closeLatch
	sess         TransportSession
	logger       logger
	metrics      Collector
	closeTimeout time.Duration

	// dispatching is set while a handler runs on the connection's engine
	// goroutine. A close issued there must not block on the latch: the
	// same goroutine has to return to the read loop before the peer's
	// acknowledging close frame can be observed.
	dispatching atomic.Bool
}

// invoke runs a handler with the dispatch flag raised. Handler panics are
// caller bugs and propagate, so the flag is reset via defer.
func (c *Conn) invoke(handler func()) {
	c.dispatching.Store(true)
	defer c.dispatching.Store(false)
	handler()
}

// HandleConnect binds the live transport session delivered by the engine
// and dispatches the on-connect handler. The engine must invoke it before
// any other lifecycle callback for the connection.
func (c *Conn) HandleConnect(sess TransportSession) {
	c.sess = sess
	c.logger.Debugf("connected: peer=%v cn=%q path=%s",
		sess.RemoteAddr(), c.identity.CommonName(), c.identity.Path())
	c.metrics.ConnOpened()

	if c.handlers.OnConnect == nil {
		c.logger.Debugln("no on-connect handler registered, dropping event")
		return
	}
	c.invoke(func() { c.handlers.OnConnect(c) })
}

// HandleError dispatches a non-terminal transport error to the on-error
// handler. Errors may recur; the connection stays usable until the engine
// reports close.
func (c *Conn) HandleError(err error) {
	c.logger.Debugf("transport error: %s", err)

	if c.handlers.OnError == nil {
		c.logger.Debugf("no on-error handler registered, dropping: %s", err)
		return
	}
	c.invoke(func() { c.handlers.OnError(c, err) })
}

// HandleText dispatches an inbound text frame to the on-text handler.
func (c *Conn) HandleText(text string) {
	c.logger.Debugf("<= [TEXT] %d bytes", len(text))

	if c.handlers.OnText == nil {
		c.logger.Debugln("no on-text handler registered, dropping frame")
		return
	}
	c.invoke(func() { c.handlers.OnText(c, text) })
}

// HandleBinary dispatches an inbound binary frame to the on-binary handler.
func (c *Conn) HandleBinary(data []byte) {
	c.logger.Debugf("<= [BIN] %d bytes", len(data))

	if c.handlers.OnBinary == nil {
		c.logger.Debugln("no on-binary handler registered, dropping frame")
		return
	}
	c.invoke(func() { c.handlers.OnBinary(c, data) })
}

// HandleClose releases the close latch and dispatches the on-close handler.
// The engine invokes it exactly once per connection, whether the close was
// initiated locally or remotely; the latch release itself is idempotent.
// Releasing before dispatch guarantees that a Close caller blocked on the
// latch unblocks even if the on-close handler misbehaves.
func (c *Conn) HandleClose(code int, reason string) {
	c.logger.Debugf("<= [CLOSE] code=%d reason=%q", code, reason)
	c.latch.release()
	c.metrics.ConnClosed()

	if c.handlers.OnClose == nil {
		c.logger.Debugf("no on-close handler registered, dropping event: code=%d", code)
		return
	}
	c.invoke(func() { c.handlers.OnClose(c, code, reason) })
}

// Send writes one frame of the payload's kind to the peer. Transport
// failures are logged and swallowed: a send racing a half-closed socket is
// expected, not fatal.
func (c *Conn) Send(m Message) {
	if c.sess == nil {
		c.logger.Warnf("send dropped: %s", ErrNotConnected)
		return
	}
	if err := writeMessage(c.sess, m); err != nil {
		c.metrics.SendFailure()
		c.logger.Errorf("send failed for %s: %s", m, err)
		return
	}
	c.metrics.FrameSent(m.Type())
}

// Close initiates the close handshake with a normal-closure status and
// blocks until the peer's close frame is observed or the close-wait timeout
// elapses. When called from inside a handler it returns without waiting,
// since the goroutine that would observe the acknowledgment is the one
// running the handler. Best-effort: failures and timeouts are logged, never
// returned.
func (c *Conn) Close() {
	c.CloseWithStatus(websocket.CloseNormalClosure, "")
}

// CloseWithStatus behaves like Close with an explicit status code and
// reason.
func (c *Conn) CloseWithStatus(code int, reason string) {
	if c.sess == nil {
		c.logger.Warnf("close dropped: %s", ErrNotConnected)
		return
	}
	if err := c.sess.Close(code, reason); err != nil {
		c.logger.Errorf("close request failed: %s", err)
	}
	if c.dispatching.Load() {
		// Closing from inside a handler: the engine goroutine running
		// this code is the one that must read the peer's close frame, so
		// awaiting the latch here would burn the whole timeout. The loop
		// observes the acknowledgment right after the handler returns and
		// the latch still releases exactly once.
		c.logger.Debugln("close requested during dispatch, not awaiting acknowledgment")
		return
	}
	if !c.latch.wait(c.closeTimeout) {
		c.metrics.CloseTimeout()
		c.logger.Warnf("%s after %s", ErrCloseTimeout, c.closeTimeout)
	}
}

// Disconnect drops the connection without a close handshake. No-op when no
// live transport session is bound.
func (c *Conn) Disconnect() {
	if c.sess == nil {
		return
	}
	if err := c.sess.Disconnect(); err != nil {
		c.logger.Errorf("disconnect failed: %s", err)
	}
}

func (c *Conn) RemoteAddr() net.Addr {
	if c.sess == nil {
		return nil
	}
	return c.sess.RemoteAddr()
}

func (c *Conn) IsSecure() bool {
	return c.identity.Secure()
}

func (c *Conn) PeerCertificates() []*x509.Certificate {
	return c.identity.PeerCertificates()
}

func (c *Conn) RequestPath() string {
	return c.identity.Path()
}

func (c *Conn) SetIdleTimeout(d time.Duration) {
	if c.sess == nil {
		c.logger.Warnf("idle timeout dropped: %s", ErrNotConnected)
		return
	}
	if err := c.sess.SetIdleTimeout(d); err != nil {
		c.logger.Errorf("idle timeout update failed: %s", err)
	}
}

func (c *Conn) IsConnected() bool {
	return c.sess != nil && c.sess.Connected()
}

// Identity returns the connection's immutable identity.
func (c *Conn) Identity() Identity {
	return c.identity
}

// closed returns a channel closed once the close handshake completed.
func (c *Conn) closed() <-chan struct{} {
	return c.latch.releasedChan()
}
