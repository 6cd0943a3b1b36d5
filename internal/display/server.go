// Package display is the display sink: a small HTTP server that streams
// render frames to browser viewers over WebSocket and feeds button presses
// back as view commands. Pushing a frame never blocks acquisition; slow
// viewers miss frames instead of queueing them.
package display

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"codeberg.org/mutker/scopectl/internal/errors"
	"codeberg.org/mutker/scopectl/internal/logger"
	"codeberg.org/mutker/scopectl/internal/view"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 2 * time.Second

	// Per-viewer frame backlog; one pending frame is enough for a live
	// trace, anything older is stale.
	frameBacklog = 1
)

// Frame is one render update as sent to viewers.
type Frame struct {
	Samples    []float64  `json:"samples"`
	DominantHz float64    `json:"dominant_hz"`
	View       view.State `json:"view"`
}

// command is what a viewer sends back on a button press.
type command struct {
	Command string `json:"command"`
}

type client struct {
	conn   *websocket.Conn
	frames chan []byte
}

// Server implements the display sink over HTTP + WebSocket.
type Server struct {
	commands chan<- view.Command
	upgrader websocket.Upgrader
	srv      *http.Server

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewServer returns a display server that forwards viewer button presses
// into the given command channel.
func NewServer(listen string, commands chan<- view.Command) *Server {
	s := &Server{
		commands: commands,
		clients:  make(map[*client]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)
	s.srv = &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Start begins serving in the background. It fails fast if the listen
// address is unavailable.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return errors.New().Wrap(ErrListenFailed, err)
	}

	logger.Info().Str("listen", s.srv.Addr).Msg("Display sink serving")

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Display server stopped unexpectedly")
		}
	}()

	return nil
}

// Stop shuts the server down and disconnects all viewers.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return errors.New().Wrap(ErrShutdownFailed, err)
	}
	return nil
}

// Render implements scope.Sink. The frame is marshalled once and fanned out
// to every connected viewer; a viewer whose backlog is full is skipped.
func (s *Server) Render(snapshot []float64, dominantHz float64, state view.State) {
	payload, err := json.Marshal(Frame{
		Samples:    snapshot,
		DominantHz: dominantHz,
		View:       state,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode render frame")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.frames <- payload:
		default:
			// Viewer is behind; drop the frame rather than stall.
		}
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(indexHTML)); err != nil {
		logger.Debug().Err(err).Msg("Failed to serve index page")
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &client{
		conn:   conn,
		frames: make(chan []byte, frameBacklog),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("Viewer connected")

	go s.writeLoop(c)
	s.readLoop(c)
}

// writeLoop streams frames to one viewer until its channel closes.
func (s *Server) writeLoop(c *client) {
	for payload := range c.frames {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Debug().Err(err).Msg("Viewer write failed")
			break
		}
	}
	c.conn.Close()
}

// readLoop receives button presses from one viewer and forwards them as
// view commands. It unregisters the viewer when the socket drops.
func (s *Server) readLoop(c *client) {
	defer s.unregister(c)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg command
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.Warn().Err(err).Msg("Discarded malformed viewer message")
			continue
		}

		cmd, ok := view.ParseCommand(msg.Command)
		if !ok {
			logger.Warn().Str("command", msg.Command).Msg("Discarded unknown viewer command")
			continue
		}

		select {
		case s.commands <- cmd:
		default:
			logger.Warn().Str("command", cmd.String()).Msg("Command backlog full, dropped")
		}
	}
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.frames)
	}
	s.mu.Unlock()

	logger.Debug().Str("remote", c.conn.RemoteAddr().String()).Msg("Viewer disconnected")
}

// Discard is a Sink that ignores every frame; useful for headless runs.
type Discard struct{}

func (Discard) Render([]float64, float64, view.State) {}
