package wsbridge

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/stretchr/testify/require"
)

func newBridgeServer(t *testing.T, factory *Factory, opts ...BridgeOption) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewBridge(factory, opts...))
	t.Cleanup(srv.Close)
	return srv
}

func dialBridge(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestBridgeEchoesTextAndBinary(t *testing.T) {
	factory := NewFactory(Handlers{
		OnText: func(s Session, text string) {
			s.Send(NewTextMessage(text))
		},
		OnBinary: func(s Session, data []byte) {
			s.Send(NewBinaryMessage(data))
		},
	})
	srv := newBridgeServer(t, factory)
	client := dialBridge(t, srv, "/echo")

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte("hola")))
	mt, data, err := client.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, mt)
	require.Equal(t, "hola", string(data))

	require.NoError(t, client.WriteMessage(websocket.BinaryMessage, []byte{0xde, 0xad}))
	mt, data, err = client.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.BinaryMessage, mt)
	require.Equal(t, []byte{0xde, 0xad}, data)
}

func TestBridgeLocalCloseReturnsOncePeerAcknowledges(t *testing.T) {
	sessions := make(chan Session, 1)
	factory := NewFactory(Handlers{
		OnConnect: func(s Session) {
			sessions <- s
		},
	}, WithCloseTimeout(5*time.Second))
	srv := newBridgeServer(t, factory)
	client := dialBridge(t, srv, "/ws/events")

	// The client read loop makes its default close handler echo the close
	// frame, completing the handshake from the remote side.
	clientDone := make(chan struct{})
	go func() {
		defer close(clientDone)
		for {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var sess Session
	select {
	case sess = <-sessions:
	case <-time.After(2 * time.Second):
		t.Fatal("on-connect never fired")
	}

	start := time.Now()
	sess.Close()
	require.Less(t, time.Since(start), 3*time.Second)

	select {
	case <-clientDone:
	case <-time.After(2 * time.Second):
		t.Fatal("client never observed the close")
	}
}

func TestBridgeHandlerInitiatedCloseCompletesPromptly(t *testing.T) {
	elapsed := make(chan time.Duration, 1)
	closed := make(chan struct{})
	factory := NewFactory(Handlers{
		OnText: func(s Session, _ string) {
			start := time.Now()
			s.Close()
			elapsed <- time.Since(start)
		},
		OnClose: func(Session, int, string) {
			close(closed)
		},
	}, WithCloseTimeout(2*time.Second))
	srv := newBridgeServer(t, factory)
	client := dialBridge(t, srv, "/ws")

	// The client pump makes its default close handler echo the close frame
	// as soon as it arrives.
	go func() {
		for {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte("shutdown")))

	select {
	case d := <-elapsed:
		require.Less(t, d, time.Second,
			"in-handler close must not burn the close-wait timeout")
	case <-time.After(5 * time.Second):
		t.Fatal("on-text handler never returned")
	}

	// The handshake still completes: the read loop observes the peer's
	// close frame after the handler returns and reports it exactly once.
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("close handshake never completed")
	}
}

func TestBridgeRemoteCloseReportsCodeAndReason(t *testing.T) {
	type closeEvent struct {
		code   int
		reason string
	}

	closes := make(chan closeEvent, 1)
	factory := NewFactory(Handlers{
		OnClose: func(_ Session, code int, reason string) {
			closes <- closeEvent{code: code, reason: reason}
		},
	})
	srv := newBridgeServer(t, factory)
	client := dialBridge(t, srv, "/ws/events")

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "moving on")
	require.NoError(t, client.WriteControl(
		websocket.CloseMessage, msg, time.Now().Add(time.Second)))

	select {
	case ev := <-closes:
		require.Equal(t, websocket.CloseGoingAway, ev.code)
		require.Equal(t, "moving on", ev.reason)
	case <-time.After(2 * time.Second):
		t.Fatal("on-close never fired")
	}
}

func TestBridgeExtractsIdentityFromUpgrade(t *testing.T) {
	type identity struct {
		path   string
		secure bool
		certs  int
	}

	identities := make(chan identity, 1)
	factory := NewFactory(Handlers{
		OnConnect: func(s Session) {
			identities <- identity{
				path:   s.RequestPath(),
				secure: s.IsSecure(),
				certs:  len(s.PeerCertificates()),
			}
		},
	})
	srv := newBridgeServer(t, factory)
	dialBridge(t, srv, "/ws/events")

	select {
	case id := <-identities:
		require.Equal(t, "/ws/events", id.path)
		require.False(t, id.secure)
		require.Zero(t, id.certs)
	case <-time.After(2 * time.Second):
		t.Fatal("on-connect never fired")
	}
}

func TestBridgeKeepAlivePingsPeer(t *testing.T) {
	factory := NewFactory(Handlers{})
	srv := newBridgeServer(t, factory, WithPingInterval(20*time.Millisecond))
	client := dialBridge(t, srv, "/ws")

	pings := make(chan struct{}, 1)
	client.SetPingHandler(func(string) error {
		select {
		case pings <- struct{}{}:
		default:
		}
		return nil
	})

	go func() {
		for {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-pings:
	case <-time.After(2 * time.Second):
		t.Fatal("no keep-alive ping observed")
	}
}

func TestBridgeIdleTimeoutDropsSilentPeer(t *testing.T) {
	errs := make(chan error, 1)
	factory := NewFactory(Handlers{
		OnConnect: func(s Session) {
			s.SetIdleTimeout(50 * time.Millisecond)
		},
		OnError: func(_ Session, err error) {
			select {
			case errs <- err:
			default:
			}
		},
	})
	srv := newBridgeServer(t, factory)
	client := dialBridge(t, srv, "/ws")

	// The client stays silent; the server's idle detection must kick in.
	select {
	case err := <-errs:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("idle timeout never fired")
	}

	_, _, err := client.ReadMessage()
	require.Error(t, err)
}
