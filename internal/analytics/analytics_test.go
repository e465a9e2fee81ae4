package analytics

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"fallingfour/internal/game"
)

type captureWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error {
	w.closed = true
	return nil
}

func decode(t *testing.T, msg kafka.Message) Event {
	t.Helper()
	var e Event
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return e
}

func TestNewProducerDisabled(t *testing.T) {
	if p := NewProducer(nil, "game-events"); p != nil {
		t.Fatalf("expected nil producer without brokers")
	}
	if p := NewProducer([]string{"localhost:9092"}, ""); p != nil {
		t.Fatalf("expected nil producer without topic")
	}

	var p *Producer
	p.Publish(context.Background(), EventGameStarted, nil)
	p.Close()
}

func TestReporterEvents(t *testing.T) {
	w := &captureWriter{}
	p := &Producer{writer: w}
	r := NewReporter(p, "g1")

	b := game.NewBoard(6, 7)
	r.RenderBoard(b)
	r.RenderBoard(b)
	r.AnnounceTurn(game.Player{Symbol: game.PlayerA, Kind: game.Human})
	r.AnnounceMove(game.Player{Symbol: game.PlayerB, Kind: game.Computer}, 3)
	start := time.Now()
	r.AnnounceResult(game.Outcome{
		GameID:    "g1",
		Status:    game.StatusWon,
		Winner:    game.Player{Symbol: game.PlayerB, Kind: game.Computer},
		Moves:     7,
		StartedAt: start,
		EndedAt:   start.Add(2 * time.Second),
	})
	p.Close()

	if len(w.msgs) != 3 {
		t.Fatalf("messages = %d, want 3", len(w.msgs))
	}
	started := decode(t, w.msgs[0])
	if started.Event != EventGameStarted || started.Payload["gameId"] != "g1" || started.Payload["cols"] != float64(7) {
		t.Fatalf("unexpected start event: %+v", started)
	}
	move := decode(t, w.msgs[1])
	if move.Event != EventMovePlayed || move.Payload["column"] != float64(3) || move.Payload["symbol"] != "O" {
		t.Fatalf("unexpected move event: %+v", move)
	}
	finished := decode(t, w.msgs[2])
	if finished.Event != EventGameFinished || finished.Payload["winner"] != "Computer" || finished.Payload["duration"] != float64(2) {
		t.Fatalf("unexpected finish event: %+v", finished)
	}
	if !w.closed {
		t.Fatalf("writer should be closed")
	}
}

func TestMetricsSummary(t *testing.T) {
	m := NewMetrics()
	ts := time.Date(2024, 5, 1, 13, 20, 0, 0, time.UTC)

	m.Record(Event{Event: EventGameFinished, Timestamp: ts, Payload: map[string]any{"winner": "Player", "duration": 10.0, "moves": 7.0}})
	m.Record(Event{Event: EventGameFinished, Timestamp: ts, Payload: map[string]any{"winner": "Computer", "duration": 20.0, "moves": 9.0}})
	m.Record(Event{Event: EventGameFinished, Timestamp: ts.Add(24 * time.Hour), Payload: map[string]any{"winner": "", "duration": 30.0, "moves": 42.0}})
	m.Record(Event{Event: EventMovePlayed, Payload: map[string]any{"column": 3.0}})
	m.Record(Event{Event: EventMovePlayed, Payload: map[string]any{"column": 3.0}})
	m.Record(Event{Event: "unknown"})

	s := m.Summary()
	if s.TotalGames != 3 {
		t.Fatalf("TotalGames = %d, want 3", s.TotalGames)
	}
	if s.Outcomes["Player"] != 1 || s.Outcomes["Computer"] != 1 || s.Outcomes["draw"] != 1 {
		t.Fatalf("Outcomes = %v", s.Outcomes)
	}
	if s.AverageDuration != 20 {
		t.Fatalf("AverageDuration = %v, want 20", s.AverageDuration)
	}
	if s.AverageMoves != 58.0/3.0 {
		t.Fatalf("AverageMoves = %v", s.AverageMoves)
	}
	if s.GamesPerDay["2024-05-01"] != 2 || s.GamesPerDay["2024-05-02"] != 1 {
		t.Fatalf("GamesPerDay = %v", s.GamesPerDay)
	}
	if s.GamesPerHour["2024-05-01 13:00"] != 2 {
		t.Fatalf("GamesPerHour = %v", s.GamesPerHour)
	}
	if s.ColumnPlays[3] != 2 {
		t.Fatalf("ColumnPlays = %v", s.ColumnPlays)
	}

	s.Outcomes["Player"] = 100
	if m.Summary().Outcomes["Player"] != 1 {
		t.Fatalf("Summary must return copies")
	}
}

func TestConsumerHandle(t *testing.T) {
	m := NewMetrics()
	c := &Consumer{metrics: m, logger: zerolog.Nop()}

	if err := c.Handle(kafka.Message{Value: []byte("not json")}); err == nil {
		t.Fatalf("expected decode error")
	}

	w := &captureWriter{}
	r := NewReporter(&Producer{writer: w}, "g2")
	r.AnnounceResult(game.Outcome{GameID: "g2", Status: game.StatusDraw, Moves: 42})
	for _, msg := range w.msgs {
		if err := c.Handle(msg); err != nil {
			t.Fatalf("Handle: %v", err)
		}
	}
	s := m.Summary()
	if s.TotalGames != 1 || s.Outcomes["draw"] != 1 || s.AverageMoves != 42 {
		t.Fatalf("summary = %+v", s)
	}
}
