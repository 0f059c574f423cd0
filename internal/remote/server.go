package remote

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/olivier-w/fogbank/internal/signals"
)

// Path is the websocket endpoint of the pointer feed.
const Path = "/pointer"

// Message is one pointer update sent by a remote client, in viewport
// pixels. Leave clears the pointer.
type Message struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Leave bool    `json:"leave,omitempty"`
}

// Pointer converts m into a pointer signal. ok is false for coordinates
// that are not finite.
func (m Message) Pointer() (p signals.Pointer, ok bool) {
	if m.Leave {
		return signals.Pointer{}, true
	}
	if math.IsNaN(m.X) || math.IsNaN(m.Y) || math.IsInf(m.X, 0) || math.IsInf(m.Y, 0) {
		return signals.Pointer{}, false
	}
	return signals.Pointer{Point: signals.Point{X: m.X, Y: m.Y}, Present: true}, true
}

// Server accepts websocket clients and hands their pointer positions to
// the host through a last-write-wins mailbox.
type Server struct {
	feed     *signals.Latest[signals.Pointer]
	upgrader websocket.Upgrader
	http     *http.Server
}

// New returns a server writing into feed.
func New(feed *signals.Latest[signals.Pointer]) *Server {
	s := &Server{
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	return s
}

// Handler returns the HTTP handler serving the feed endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.serveWS)
	return mux
}

// Listen binds addr and serves in the background. The returned address is
// the one actually bound, which matters for ":0".
func (s *Server) Listen(addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("remote: serve: %v", err)
		}
	}()
	log.Printf("remote: pointer feed on ws://%s%s", ln.Addr(), Path)
	return ln.Addr(), nil
}

// Shutdown stops accepting clients. Open connections end when their
// clients hang up.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		var hs websocket.HandshakeError
		if !errors.As(err, &hs) {
			log.Printf("remote: upgrade: %v", err)
		}
		return
	}
	go s.read(conn)
}

func (s *Server) read(conn *websocket.Conn) {
	defer conn.Close()
	log.Printf("remote: client %s connected", conn.RemoteAddr())

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("remote: read: %v", err)
			}
			// A client that goes away takes its pointer with it.
			s.feed.Store(signals.Pointer{})
			return
		}

		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			log.Printf("remote: skipping message: %v", err)
			continue
		}
		p, ok := m.Pointer()
		if !ok {
			log.Printf("remote: skipping non-finite pointer %v,%v", m.X, m.Y)
			continue
		}
		s.feed.Store(p)
	}
}
