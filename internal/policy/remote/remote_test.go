package remote

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/reversi/internal/agent"
	"github.com/lox/reversi/internal/board"
	"github.com/lox/reversi/internal/policy"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// startServer serves p on an httptest server and returns the websocket URL
func startServer(t *testing.T, p agent.Policy) string {
	t.Helper()
	srv := NewServer("", p, quietLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/policy"
}

func TestClientDecides(t *testing.T) {
	url := startServer(t, policy.Greedy{})
	client := NewClient(url, WithClientLogger(quietLogger()))

	move, err := client.Decide(context.Background(), board.Size, board.New().Encode(board.White))
	require.NoError(t, err)
	assert.Equal(t, board.Coord{Row: 5, Col: 3}, move)

	// One connection per decision, so the client can be reused
	move, err = client.Decide(context.Background(), board.Size, board.New().Encode(board.White))
	require.NoError(t, err)
	assert.Equal(t, board.Coord{Row: 5, Col: 3}, move)
}

func TestClientPass(t *testing.T) {
	url := startServer(t, agent.PolicyFunc(func(ctx context.Context, dim int, cells []int) (board.Coord, error) {
		return board.PassCoord, nil
	}))
	client := NewClient(url)

	move, err := client.Decide(context.Background(), board.Size, board.New().Encode(board.White))
	require.NoError(t, err)
	assert.True(t, move.IsPass())
}

func TestClientReportsPolicyErrors(t *testing.T) {
	url := startServer(t, policy.Greedy{})
	client := NewClient(url)

	// Greedy rejects a board of the wrong size
	_, err := client.Decide(context.Background(), 4, make([]int, 16))
	require.ErrorIs(t, err, ErrPolicy)
	assert.Contains(t, err.Error(), "unsupported dimension")
}

func TestClientDialFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/policy"
	ts.Close()

	_, err := NewClient(url).Decide(context.Background(), board.Size, board.New().Encode(board.White))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPolicy)
}

func TestCancelAbandonsDecision(t *testing.T) {
	started := make(chan struct{})
	abandoned := make(chan struct{})
	url := startServer(t, agent.PolicyFunc(func(ctx context.Context, dim int, cells []int) (board.Coord, error) {
		close(started)
		<-ctx.Done()
		close(abandoned)
		return board.PassCoord, ctx.Err()
	}))
	client := NewClient(url)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := client.Decide(ctx, board.Size, board.New().Encode(board.White))
		errc <- err
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the request")
	}
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("client did not return after cancel")
	}

	select {
	case <-abandoned:
	case <-time.After(2 * time.Second):
		t.Fatal("server policy was not cancelled")
	}
}

func TestServerRejectsUnknownMessages(t *testing.T) {
	url := startServer(t, policy.Greedy{})
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(Message{Type: "hello", Data: []byte(`{}`)}))

	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, MessageTypeError, reply.Type)
	assert.Contains(t, string(reply.Data), "unexpected message type")

	// The connection stays usable for a real request
	req, err := NewMessage(MessageTypeDecide, DecideData{Dimension: board.Size, Cells: board.New().Encode(board.White)})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(req))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, MessageTypeDecision, reply.Type)
	assert.JSONEq(t, `{"row":5,"col":3}`, string(reply.Data))
}

func TestHealth(t *testing.T) {
	srv := NewServer("", policy.Greedy{}, quietLogger())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestClientThroughBridge(t *testing.T) {
	url := startServer(t, policy.Greedy{})
	bridge := agent.NewBridge(NewClient(url), agent.WithMinDelay(0))

	p := bridge.Request(board.New())
	select {
	case resp := <-p.Done():
		assert.Equal(t, agent.Moved, resp.Kind)
		assert.Equal(t, board.Coord{Row: 5, Col: 3}, resp.Move)
		assert.True(t, bridge.Current(resp))
	case <-time.After(2 * time.Second):
		t.Fatal("no response from bridge")
	}
}

var _ agent.Policy = (*Client)(nil)
