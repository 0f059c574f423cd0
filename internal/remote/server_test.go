package remote

import (
	"context"
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/olivier-w/fogbank/internal/signals"
)

func waitPointer(t *testing.T, feed *signals.Latest[signals.Pointer], want func(signals.Pointer) bool) signals.Pointer {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p, ok := feed.Take(); ok && want(p) {
			return p
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for pointer")
	return signals.Pointer{}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http")+Path, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestFeedStoresPointerMessages(t *testing.T) {
	feed := &signals.Latest[signals.Pointer]{}
	ts := httptest.NewServer(New(feed).Handler())
	defer ts.Close()

	conn := dial(t, ts.URL)
	defer conn.Close()

	if err := conn.WriteJSON(Message{X: 12.5, Y: 4}); err != nil {
		t.Fatalf("write: %v", err)
	}
	p := waitPointer(t, feed, func(p signals.Pointer) bool { return p.Present })
	if p.X != 12.5 || p.Y != 4 {
		t.Fatalf("expected pointer (12.5, 4), got %+v", p)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"leave":true}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitPointer(t, feed, func(p signals.Pointer) bool { return !p.Present })
}

func TestFeedClearsPointerWhenClientLeaves(t *testing.T) {
	feed := &signals.Latest[signals.Pointer]{}
	ts := httptest.NewServer(New(feed).Handler())
	defer ts.Close()

	conn := dial(t, ts.URL)
	if err := conn.WriteJSON(Message{X: 1, Y: 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitPointer(t, feed, func(p signals.Pointer) bool { return p.Present })

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	waitPointer(t, feed, func(p signals.Pointer) bool { return !p.Present })
}

func TestMessagePointer(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		present bool
		ok      bool
	}{
		{"move", Message{X: 1, Y: 2}, true, true},
		{"leave", Message{X: 1, Y: 2, Leave: true}, false, true},
		{"nan", Message{X: math.NaN()}, false, false},
		{"inf", Message{Y: math.Inf(1)}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := tt.msg.Pointer()
			if ok != tt.ok || p.Present != tt.present {
				t.Fatalf("expected ok=%v present=%v, got ok=%v present=%v", tt.ok, tt.present, ok, p.Present)
			}
		})
	}
}

func TestListenAndShutdown(t *testing.T) {
	feed := &signals.Latest[signals.Pointer]{}
	srv := New(feed)
	addr, err := srv.Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	conn := dial(t, "http://"+addr.String())
	if err := conn.WriteJSON(Message{X: 3, Y: 9}); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitPointer(t, feed, func(p signals.Pointer) bool { return p.Present && p.X == 3 })
	conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestShutdownWithoutListen(t *testing.T) {
	var srv *Server
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := New(&signals.Latest[signals.Pointer]{}).Shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
