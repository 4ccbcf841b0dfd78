package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// chanSteerer forwards steering requests to a channel.
type chanSteerer chan core.Direction

func (s chanSteerer) Steer(d core.Direction) { s <- d }

func startHub(t *testing.T, steer chanSteerer) (*Hub, string, context.CancelFunc) {
	t.Helper()

	hub := NewHub(steer, log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http"), cancel
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("Unmarshal %q: %v", raw, err)
	}
	return msg
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("ClientCount = %d, want %d", hub.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWelcomeCarriesClientID(t *testing.T) {
	_, url, _ := startHub(t, nil)
	conn := dial(t, url)

	msg := readMessage(t, conn)
	if msg.Event != EventWelcome {
		t.Fatalf("first event = %q, want %q", msg.Event, EventWelcome)
	}
	if len(msg.ClientID) != 36 {
		t.Errorf("client id %q does not look like a UUID", msg.ClientID)
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub, url, _ := startHub(t, nil)
	a := dial(t, url)
	b := dial(t, url)
	readMessage(t, a)
	readMessage(t, b)
	waitForClients(t, hub, 2)

	snap := map[string]any{"tick": 7, "score": 2}
	if err := hub.Broadcast(snap); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readMessage(t, conn)
		if msg.Event != EventSnapshot {
			t.Fatalf("event = %q, want snapshot", msg.Event)
		}
		data, ok := msg.Data.(map[string]any)
		if !ok || data["tick"] != float64(7) {
			t.Errorf("data = %#v", msg.Data)
		}
	}
}

func TestHeadingCommandSteers(t *testing.T) {
	steer := make(chanSteerer, 4)
	_, url, _ := startHub(t, steer)
	conn := dial(t, url)
	readMessage(t, conn)

	for _, raw := range []string{`{"heading":"up"}`, `not json`, `{"heading":"sideways"}`, `{"heading":"Left"}`} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
			t.Fatalf("WriteMessage: %v", err)
		}
	}

	want := []core.Direction{core.DirUp, core.DirLeft}
	for _, d := range want {
		select {
		case got := <-steer:
			if got != d {
				t.Errorf("steered %v, want %v", got, d)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("no steer for %v", d)
		}
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	hub, url, _ := startHub(t, nil)
	conn := dial(t, url)
	readMessage(t, conn)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestBroadcastAfterStop(t *testing.T) {
	hub, _, cancel := startHub(t, nil)
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for {
		err := hub.Broadcast(map[string]int{"tick": 1})
		if errors.Is(err, ErrClosed) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("Broadcast after stop = %v, want ErrClosed", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
