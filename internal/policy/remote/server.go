package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/reversi/internal/agent"
)

// Server exposes a policy on /policy and a health check on /health
type Server struct {
	addr     string
	policy   agent.Policy
	upgrader websocket.Upgrader
	logger   *log.Logger
	http     *http.Server
}

// NewServer creates a server for policy listening on addr
func NewServer(addr string, policy agent.Policy, logger *log.Logger) *Server {
	s := &Server{
		addr:   addr,
		policy: policy,
		upgrader: websocket.Upgrader{
			// Policy clients are not browsers
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithPrefix("policy-server"),
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP routes, for use with httptest or another mux
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/policy", s.handlePolicy)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting policy server", "addr", s.addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("policy server: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for open ones up to ctx
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The reader owns the connection's read side. A read error means the
	// client went away, which abandons any decision in progress.
	requests := make(chan Message)
	go func() {
		defer cancel()
		for {
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.logger.Debug("Client read failed", "error", err)
				}
				return
			}
			select {
			case requests <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-requests:
			reply := s.decide(ctx, msg)
			if reply == nil {
				return
			}
			if err := conn.WriteJSON(reply); err != nil {
				s.logger.Debug("Failed to write reply", "error", err)
				return
			}
		}
	}
}

// decide answers one message. It returns nil when the client has gone.
func (s *Server) decide(ctx context.Context, msg Message) *Message {
	if msg.Type != MessageTypeDecide {
		return errorMessage(fmt.Sprintf("unexpected message type %q", msg.Type))
	}
	var req DecideData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return errorMessage("malformed decide message: " + err.Error())
	}

	start := time.Now()
	move, err := s.policy.Decide(ctx, req.Dimension, req.Cells)
	if ctx.Err() != nil {
		s.logger.Debug("Decision abandoned by client")
		return nil
	}
	if err != nil {
		s.logger.Warn("Policy failed", "error", err)
		return errorMessage(err.Error())
	}

	s.logger.Debug("Decided", "move", move, "elapsed", time.Since(start))
	reply, err := NewMessage(MessageTypeDecision, DecisionData{Row: move.Row, Col: move.Col})
	if err != nil {
		return errorMessage(err.Error())
	}
	return reply
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func errorMessage(text string) *Message {
	msg, _ := NewMessage(MessageTypeError, ErrorData{Message: text})
	return msg
}
