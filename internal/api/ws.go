package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/EyalShechtman/AWSHackDay/internal/session"
	"github.com/EyalShechtman/AWSHackDay/pkg/logger"
)

// Stream pushes session snapshots to dashboard clients over a
// websocket. Each connection gets its own subscription to the session
// store; a slow client only loses intermediate snapshots, never the
// final state of a run.
type Stream struct {
	store    *session.Store
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewStream creates a websocket state stream over the session store.
func NewStream(store *session.Store, log *logger.Logger) *Stream {
	return &Stream{
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Dashboard is served from anywhere during development
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log.WithField("module", "ws"),
	}
}

// Serve upgrades the connection and streams snapshots until the client
// disconnects.
func (s *Stream) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	s.logger.WithField("remote", conn.RemoteAddr().String()).Info("Dashboard client connected")

	updates := s.store.Subscribe()
	defer s.store.Unsubscribe(updates)

	// Drain reads so close frames and pings are processed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Send current state immediately so a reconnecting client catches up
	if err := s.write(conn, s.store.Snapshot()); err != nil {
		return
	}

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := s.write(conn, snap); err != nil {
				s.logger.WithError(err).Debug("websocket write failed, dropping client")
				return
			}
		case <-done:
			s.logger.WithField("remote", conn.RemoteAddr().String()).Info("Dashboard client disconnected")
			return
		}
	}
}

func (s *Stream) write(conn *websocket.Conn, snap session.Snapshot) error {
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(snap)
}
