package game

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

var ErrNoValidColumn = errors.New("no valid column left")

// Rand is the source of uniform draws used by the Bot.
type Rand interface {
	Intn(n int) int
}

// Bot plays a uniformly random legal column. It has no strategy.
type Bot struct {
	Player Cell
	rnd    Rand
}

// NewBot returns a bot seeded with seed, or with the clock when seed is 0.
func NewBot(player Cell, seed int64) *Bot {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewBotWithRand(player, rand.New(rand.NewSource(seed)))
}

func NewBotWithRand(player Cell, rnd Rand) *Bot {
	return &Bot{Player: player, rnd: rnd}
}

// ChooseColumn draws columns uniformly until one is valid. The expected
// number of draws is cols divided by the number of open columns.
func (b *Bot) ChooseColumn(board *Board) (int, error) {
	if len(board.ValidColumns()) == 0 {
		return -1, ErrNoValidColumn
	}
	for {
		col := b.rnd.Intn(board.Cols())
		if board.IsValid(col) {
			return col, nil
		}
	}
}
