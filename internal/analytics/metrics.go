package analytics

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Metrics aggregates finished games read back from the event topic.
type Metrics struct {
	mu            sync.Mutex
	totalGames    int
	totalMoves    int
	outcomes      map[string]int
	gameDurations []float64
	gamesPerDay   map[string]int
	gamesPerHour  map[string]int
	columnPlays   map[int]int
}

type Summary struct {
	TotalGames      int            `json:"totalGames"`
	Outcomes        map[string]int `json:"outcomes"`
	AverageDuration float64        `json:"averageDuration"`
	AverageMoves    float64        `json:"averageMoves"`
	GamesPerDay     map[string]int `json:"gamesPerDay"`
	GamesPerHour    map[string]int `json:"gamesPerHour"`
	ColumnPlays     map[int]int    `json:"columnPlays"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		outcomes:     make(map[string]int),
		gamesPerDay:  make(map[string]int),
		gamesPerHour: make(map[string]int),
		columnPlays:  make(map[int]int),
	}
}

// Record folds one event in; unknown events are ignored.
func (m *Metrics) Record(e Event) {
	switch e.Event {
	case EventGameFinished:
		m.recordGameFinished(e.Payload, e.Timestamp)
	case EventMovePlayed:
		// JSON numbers decode as float64
		if col, ok := e.Payload["column"].(float64); ok {
			m.mu.Lock()
			m.columnPlays[int(col)]++
			m.mu.Unlock()
		}
	}
}

func (m *Metrics) recordGameFinished(payload map[string]any, timestamp time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalGames++

	key := "draw"
	if winner, ok := payload["winner"].(string); ok && winner != "" {
		key = winner
	}
	m.outcomes[key]++

	if duration, ok := payload["duration"].(float64); ok {
		m.gameDurations = append(m.gameDurations, duration)
	}
	if moves, ok := payload["moves"].(float64); ok {
		m.totalMoves += int(moves)
	}

	m.gamesPerDay[timestamp.Format("2006-01-02")]++
	m.gamesPerHour[timestamp.Format("2006-01-02 15:00")]++
}

func (m *Metrics) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{
		TotalGames:   m.totalGames,
		Outcomes:     copyMap(m.outcomes),
		GamesPerDay:  copyMap(m.gamesPerDay),
		GamesPerHour: copyMap(m.gamesPerHour),
		ColumnPlays:  copyMap(m.columnPlays),
	}
	if len(m.gameDurations) > 0 {
		sum := 0.0
		for _, d := range m.gameDurations {
			sum += d
		}
		s.AverageDuration = sum / float64(len(m.gameDurations))
	}
	if m.totalGames > 0 {
		s.AverageMoves = float64(m.totalMoves) / float64(m.totalGames)
	}
	return s
}

func (m *Metrics) Log(logger zerolog.Logger) {
	s := m.Summary()
	logger.Info().
		Int("totalGames", s.TotalGames).
		Interface("outcomes", s.Outcomes).
		Float64("averageDuration", s.AverageDuration).
		Float64("averageMoves", s.AverageMoves).
		Interface("gamesPerDay", s.GamesPerDay).
		Interface("gamesPerHour", s.GamesPerHour).
		Interface("columnPlays", s.ColumnPlays).
		Msg("analytics summary")
}

func copyMap[K comparable](src map[K]int) map[K]int {
	dst := make(map[K]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
