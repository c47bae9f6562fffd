package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/reversi/internal/board"
)

// Client is an agent.Policy backed by a policy server
type Client struct {
	url    string
	dialer *websocket.Dialer
	header http.Header
	logger *log.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithDialer replaces websocket.DefaultDialer
func WithDialer(d *websocket.Dialer) ClientOption {
	return func(c *Client) { c.dialer = d }
}

// WithHeader adds headers to every handshake
func WithHeader(h http.Header) ClientOption {
	return func(c *Client) { c.header = h }
}

// WithClientLogger sets the logger
func WithClientLogger(logger *log.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the policy server at url, for example
// ws://localhost:8090/policy
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:    url,
		dialer: websocket.DefaultDialer,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithPrefix("remote")
	return c
}

// Decide opens a connection, sends the board and waits for the answer.
// Cancelling ctx closes the connection.
func (c *Client) Decide(ctx context.Context, dim int, cells []int) (board.Coord, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		return board.PassCoord, fmt.Errorf("dial %s: %w", c.url, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close() // unblocks ReadMessage
	})
	defer stop()

	req, err := NewMessage(MessageTypeDecide, DecideData{Dimension: dim, Cells: cells})
	if err != nil {
		return board.PassCoord, err
	}
	if err := conn.WriteJSON(req); err != nil {
		return board.PassCoord, c.connErr(ctx, "send decide", err)
	}

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		return board.PassCoord, c.connErr(ctx, "read decision", err)
	}

	switch msg.Type {
	case MessageTypeDecision:
		var d DecisionData
		if err := json.Unmarshal(msg.Data, &d); err != nil {
			return board.PassCoord, fmt.Errorf("decode decision: %w", err)
		}
		c.logger.Debug("Received decision", "row", d.Row, "col", d.Col)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return board.Coord{Row: d.Row, Col: d.Col}, nil
	case MessageTypeError:
		var e ErrorData
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			return board.PassCoord, fmt.Errorf("decode error: %w", err)
		}
		return board.PassCoord, fmt.Errorf("%w: %s", ErrPolicy, e.Message)
	default:
		return board.PassCoord, fmt.Errorf("%w: unexpected message type %q", ErrPolicy, msg.Type)
	}
}

func (c *Client) connErr(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%s: %w", op, err)
}
