package analytics

import (
	"context"

	"fallingfour/internal/game"
)

// Reporter is a game.Presenter that turns a game's notifications into
// analytics events.
type Reporter struct {
	producer *Producer
	gameID   string
	started  bool
}

func NewReporter(p *Producer, gameID string) *Reporter {
	return &Reporter{producer: p, gameID: gameID}
}

func (r *Reporter) RenderBoard(b *game.Board) {
	if r.started {
		return
	}
	r.started = true
	r.producer.Publish(context.Background(), EventGameStarted, map[string]any{
		"gameId": r.gameID,
		"rows":   b.Rows(),
		"cols":   b.Cols(),
	})
}

func (r *Reporter) AnnounceTurn(game.Player) {}

func (r *Reporter) AnnounceMove(p game.Player, col int) {
	r.producer.Publish(context.Background(), EventMovePlayed, map[string]any{
		"gameId": r.gameID,
		"player": p.Kind.String(),
		"symbol": p.Symbol.String(),
		"column": col,
	})
}

func (r *Reporter) AnnounceResult(o game.Outcome) {
	winner := ""
	if o.Status == game.StatusWon {
		winner = o.Winner.Kind.String()
	}
	r.producer.Publish(context.Background(), EventGameFinished, map[string]any{
		"gameId":    o.GameID,
		"status":    string(o.Status),
		"winner":    winner,
		"moves":     o.Moves,
		"duration":  o.EndedAt.Sub(o.StartedAt).Seconds(),
		"startedAt": o.StartedAt,
		"endedAt":   o.EndedAt,
	})
}
