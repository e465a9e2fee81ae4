package server

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"fallingfour/internal/analytics"
	"fallingfour/internal/game"
)

// Server hosts human-versus-computer games over websockets, one game per
// connection. Games never share a board.
type Server struct {
	router    *gin.Engine
	rows      int
	cols      int
	seed      int64
	newBot    func(seed int64) *game.Bot
	analytics *analytics.Producer
	games     atomic.Int64
	resultsMu sync.Mutex
	results   map[string]int
}

type Config struct {
	Rows      int
	Cols      int
	Seed      int64
	Analytics *analytics.Producer
	// NewBot builds the computer player for each game; game.NewBot by default.
	NewBot func(seed int64) *game.Bot
}

func New(cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	newBot := cfg.NewBot
	if newBot == nil {
		newBot = func(seed int64) *game.Bot { return game.NewBot(game.PlayerB, seed) }
	}
	s := &Server{
		router:    router,
		rows:      cfg.Rows,
		cols:      cfg.Cols,
		seed:      cfg.Seed,
		newBot:    newBot,
		analytics: cfg.Analytics,
		results:   make(map[string]int),
	}

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/stats", s.handleStats)
	router.GET("/ws", s.handleWS)
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) handleStats(c *gin.Context) {
	s.resultsMu.Lock()
	res := gin.H{
		"games":        s.games.Load(),
		"humanWins":    s.results[game.Human.String()],
		"computerWins": s.results[game.Computer.String()],
		"draws":        s.results[string(game.StatusDraw)],
	}
	s.resultsMu.Unlock()
	c.JSON(http.StatusOK, res)
}

func (s *Server) record(o game.Outcome) {
	key := string(game.StatusDraw)
	if o.Status == game.StatusWon {
		key = o.Winner.Kind.String()
	}
	s.resultsMu.Lock()
	s.results[key]++
	s.resultsMu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) handleWS(c *gin.Context) {
	humanStarts := true
	if v := c.Query("humanStarts"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "humanStarts must be true or false"})
			return
		}
		humanStarts = parsed
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := s.games.Add(1)
	seed := s.seed
	if seed != 0 {
		seed += n
	}
	gameID := uuid.NewString()
	client := newWSClient(conn, cancel)
	logger := log.With().Str("component", "ws").Str("gameId", gameID).Logger()

	go client.writePump()
	go client.readPump(ctx)

	var out game.Presenter = &wsPresenter{client: client, ctx: ctx, server: s}
	if s.analytics != nil {
		out = game.Presenters{analytics.NewReporter(s.analytics, gameID), out}
	}
	ctrl, err := game.NewController(game.Config{
		ID:          gameID,
		Rows:        s.rows,
		Cols:        s.cols,
		HumanStarts: humanStarts,
		Input:       &wsInput{client: client},
		Bot:         s.newBot(seed),
		Presenter:   out,
	})
	if err != nil {
		logger.Error().Err(err).Msg("create game")
		client.close()
		return
	}

	client.sendJSON(ctx, map[string]any{
		"type":        "init",
		"gameId":      gameID,
		"rows":        s.rows,
		"cols":        s.cols,
		"you":         game.PlayerA.String(),
		"humanStarts": humanStarts,
	})

	if _, err := ctrl.Run(ctx); err != nil {
		logger.Info().Err(err).Msg("game abandoned")
	}
	client.close()
}
