package server

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/gorilla/websocket"

	"fallingfour/internal/game"
)

type wsClient struct {
	conn   *websocket.Conn
	send   chan []byte
	moves  chan int
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

func newWSClient(conn *websocket.Conn, cancel context.CancelFunc) *wsClient {
	return &wsClient{
		conn:   conn,
		send:   make(chan []byte, 32),
		moves:  make(chan int),
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// writePump owns writes to the connection. After a write error it keeps
// draining send so that senders never block.
func (c *wsClient) writePump() {
	defer close(c.done)
	failed := false
	for msg := range c.send {
		if failed {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			failed = true
			c.cancel()
		}
	}
}

// readPump forwards move columns to the game. It is the only sender on
// moves and closes it when the connection goes away.
func (c *wsClient) readPump(ctx context.Context) {
	defer close(c.moves)
	defer c.cancel()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg struct {
			Type   string `json:"type"`
			Column *int   `json:"column"`
		}
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "move" || msg.Column == nil {
			c.sendJSON(ctx, map[string]any{"type": "error", "message": "expected {\"type\":\"move\",\"column\":N}"})
			continue
		}
		select {
		case c.moves <- *msg.Column:
		case <-ctx.Done():
			return
		}
	}
}

func (c *wsClient) sendJSON(ctx context.Context, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	case <-ctx.Done():
	}
}

// close flushes queued messages and closes the connection.
func (c *wsClient) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()

	<-c.done
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"))
	_ = c.conn.Close()
}

type wsInput struct {
	client *wsClient
}

func (in *wsInput) RequestColumn(ctx context.Context, p game.Prompt) (int, error) {
	if p.Attempt > 0 {
		in.client.sendJSON(ctx, map[string]any{"type": "rejected", "column": p.Rejected})
	}
	select {
	case col, ok := <-in.client.moves:
		if !ok {
			return -1, io.EOF
		}
		return col, nil
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}

type wsPresenter struct {
	client *wsClient
	ctx    context.Context
	server *Server
}

func (p *wsPresenter) RenderBoard(b *game.Board) {
	p.client.sendJSON(p.ctx, map[string]any{
		"type":  "state",
		"board": symbols(b),
		"moves": b.Moves(),
	})
}

func (p *wsPresenter) AnnounceTurn(pl game.Player) {
	p.client.sendJSON(p.ctx, map[string]any{
		"type":   "turn",
		"player": pl.Symbol.String(),
		"kind":   pl.Kind.String(),
	})
}

func (p *wsPresenter) AnnounceMove(pl game.Player, col int) {
	p.client.sendJSON(p.ctx, map[string]any{
		"type":   "move",
		"player": pl.Symbol.String(),
		"column": col,
	})
}

func (p *wsPresenter) AnnounceResult(o game.Outcome) {
	p.server.record(o)
	winner := ""
	if o.Status == game.StatusWon {
		winner = o.Winner.Symbol.String()
	}
	p.client.sendJSON(p.ctx, map[string]any{
		"type":   "result",
		"status": string(o.Status),
		"winner": winner,
		"line":   o.Line,
	})
}

// symbols renders the board row by row, "" for empty cells.
func symbols(b *game.Board) [][]string {
	out := make([][]string, b.Rows())
	for r := range out {
		out[r] = make([]string, b.Cols())
		for c := range out[r] {
			if cell := b.At(r, c); cell != game.Empty {
				out[r][c] = cell.String()
			}
		}
	}
	return out
}
