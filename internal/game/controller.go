package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrGameFinished = errors.New("game already finished")
	ErrNoInput      = errors.New("human player needs an input source")
)

type Kind int

const (
	Human Kind = iota
	Computer
)

func (k Kind) String() string {
	if k == Computer {
		return "Computer"
	}
	return "Player"
}

type Player struct {
	Symbol Cell
	Kind   Kind
}

func (p Player) String() string {
	return fmt.Sprintf("%s (%s)", p.Kind, p.Symbol)
}

type Status string

const (
	StatusAwaiting Status = "awaiting"
	StatusWon      Status = "won"
	StatusDraw     Status = "draw"
)

// State is the controller's position in the turn state machine. Current is
// meaningful while awaiting a move, Winner once the game is won.
type State struct {
	Status  Status
	Current Player
	Winner  Player
}

func (s State) Terminal() bool {
	return s.Status == StatusWon || s.Status == StatusDraw
}

type Outcome struct {
	GameID    string
	Status    Status
	Winner    Player
	Line      [][2]int
	Moves     int
	StartedAt time.Time
	EndedAt   time.Time
}

// Prompt describes the move being asked for. Attempt counts rejected
// answers so far; Rejected is the last refused column when Attempt > 0.
type Prompt struct {
	Player   Player
	Cols     int
	Attempt  int
	Rejected int
}

type InputSource interface {
	RequestColumn(ctx context.Context, p Prompt) (int, error)
}

type Presenter interface {
	RenderBoard(b *Board)
	AnnounceTurn(p Player)
	AnnounceMove(p Player, col int)
	AnnounceResult(o Outcome)
}

// Presenters notifies each presenter in order.
type Presenters []Presenter

func (ps Presenters) RenderBoard(b *Board) {
	for _, p := range ps {
		p.RenderBoard(b)
	}
}

func (ps Presenters) AnnounceTurn(pl Player) {
	for _, p := range ps {
		p.AnnounceTurn(pl)
	}
}

func (ps Presenters) AnnounceMove(pl Player, col int) {
	for _, p := range ps {
		p.AnnounceMove(pl, col)
	}
}

func (ps Presenters) AnnounceResult(o Outcome) {
	for _, p := range ps {
		p.AnnounceResult(o)
	}
}

type Config struct {
	// ID identifies the game in logs and events; a new UUID when empty.
	ID          string
	Rows        int
	Cols        int
	HumanStarts bool
	Input       InputSource
	Bot         *Bot
	Presenter   Presenter
}

// Controller runs a single game between a human and the bot.
type Controller struct {
	ID        string
	board     *Board
	players   [2]Player
	turn      int
	state     State
	input     InputSource
	bot       *Bot
	out       Presenter
	logger    zerolog.Logger
	started   bool
	startedAt time.Time
	outcome   Outcome
}

func NewController(cfg Config) (*Controller, error) {
	if cfg.Input == nil {
		return nil, ErrNoInput
	}
	human := Player{Symbol: PlayerA, Kind: Human}
	computer := Player{Symbol: PlayerB, Kind: Computer}
	players := [2]Player{human, computer}
	if !cfg.HumanStarts {
		players = [2]Player{computer, human}
	}

	bot := cfg.Bot
	if bot == nil {
		bot = NewBot(computer.Symbol, 0)
	}
	out := cfg.Presenter
	if out == nil {
		out = Presenters{}
	}

	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}
	return &Controller{
		ID:      id,
		board:   NewBoard(cfg.Rows, cfg.Cols),
		players: players,
		state:   State{Status: StatusAwaiting, Current: players[0]},
		input:   cfg.Input,
		bot:     bot,
		out:     out,
		logger:  log.With().Str("component", "controller").Str("gameId", id).Logger(),
	}, nil
}

func (c *Controller) Board() *Board { return c.board }
func (c *Controller) State() State  { return c.state }

// Outcome is the zero value until the game reaches a terminal state.
func (c *Controller) Outcome() Outcome { return c.outcome }

// Run plays turns until the game is won or drawn.
func (c *Controller) Run(ctx context.Context) (Outcome, error) {
	for !c.state.Terminal() {
		if err := c.Step(ctx); err != nil {
			return Outcome{}, err
		}
	}
	return c.outcome, nil
}

// Step plays exactly one turn for the current player.
func (c *Controller) Step(ctx context.Context) error {
	if c.state.Terminal() {
		return ErrGameFinished
	}
	if !c.started {
		c.started = true
		c.startedAt = time.Now()
		c.logger.Debug().Int("rows", c.board.Rows()).Int("cols", c.board.Cols()).
			Str("first", c.players[0].String()).Msg("game started")
		c.out.RenderBoard(c.board)
	}

	player := c.state.Current
	c.out.AnnounceTurn(player)

	col, err := c.nextMove(ctx, player)
	if err != nil {
		return err
	}
	row, ok := c.board.Drop(col, player.Symbol)
	if !ok {
		return errors.Errorf("column %d rejected a validated move", col)
	}
	c.logger.Debug().Str("player", player.String()).Int("column", col).Int("row", row).Msg("move played")

	c.out.AnnounceMove(player, col)
	c.out.RenderBoard(c.board)

	switch {
	case c.board.HasWon(player.Symbol):
		c.finish(State{Status: StatusWon, Winner: player})
	case c.board.IsDraw():
		c.finish(State{Status: StatusDraw})
	default:
		c.turn = 1 - c.turn
		c.state.Current = c.players[c.turn]
	}
	return nil
}

func (c *Controller) nextMove(ctx context.Context, p Player) (int, error) {
	if p.Kind == Computer {
		col, err := c.bot.ChooseColumn(c.board)
		if err != nil {
			return -1, errors.Wrapf(err, "computer move in game %s", c.ID)
		}
		if !c.board.IsValid(col) {
			return -1, errors.Errorf("computer chose invalid column %d", col)
		}
		return col, nil
	}

	prompt := Prompt{Player: p, Cols: c.board.Cols(), Rejected: -1}
	for {
		col, err := c.input.RequestColumn(ctx, prompt)
		if err != nil {
			return -1, errors.Wrapf(err, "read move for %s", p)
		}
		if c.board.IsValid(col) {
			return col, nil
		}
		c.logger.Debug().Int("column", col).Msg("move rejected")
		prompt.Attempt++
		prompt.Rejected = col
	}
}

func (c *Controller) finish(s State) {
	c.state = s
	c.outcome = Outcome{
		GameID:    c.ID,
		Status:    s.Status,
		Winner:    s.Winner,
		Moves:     c.board.Moves(),
		StartedAt: c.startedAt,
		EndedAt:   time.Now(),
	}
	if s.Status == StatusWon {
		c.outcome.Line = c.board.WinningLine(s.Winner.Symbol)
	}
	ev := c.logger.Info().Str("status", string(s.Status)).Int("moves", c.outcome.Moves)
	if s.Status == StatusWon {
		ev = ev.Str("winner", s.Winner.String())
	}
	ev.Msg("game finished")
	c.out.AnnounceResult(c.outcome)
}
