package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"fallingfour/internal/game"
)

func TestInputSkipsNonNumericLines(t *testing.T) {
	var out bytes.Buffer
	in := NewInput(strings.NewReader("abc\n\n 4 \n"), &out)

	col, err := in.RequestColumn(context.Background(), game.Prompt{Cols: 7, Rejected: -1})
	if err != nil {
		t.Fatalf("RequestColumn: %v", err)
	}
	if col != 4 {
		t.Fatalf("col = %d, want 4", col)
	}
	if got := strings.Count(out.String(), "Please enter a valid number."); got != 2 {
		t.Fatalf("hint printed %d times, want 2:\n%s", got, out.String())
	}
	if !strings.Contains(out.String(), "Choose column (0-6): ") {
		t.Fatalf("missing prompt:\n%s", out.String())
	}
}

func TestInputReportsRejectedMove(t *testing.T) {
	var out bytes.Buffer
	in := NewInput(strings.NewReader("2\n"), &out)

	if _, err := in.RequestColumn(context.Background(), game.Prompt{Cols: 7, Attempt: 1, Rejected: 9}); err != nil {
		t.Fatalf("RequestColumn: %v", err)
	}
	if !strings.HasPrefix(out.String(), "Invalid move or column full. Try again.") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestInputEOF(t *testing.T) {
	in := NewInput(strings.NewReader("x\n"), io.Discard)
	if _, err := in.RequestColumn(context.Background(), game.Prompt{Cols: 7}); err != io.EOF {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}

func TestInputCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := NewInput(strings.NewReader("1\n"), io.Discard)
	if _, err := in.RequestColumn(ctx, game.Prompt{Cols: 7}); err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestFormatBoard(t *testing.T) {
	b := game.NewBoard(2, 3)
	b.Drop(1, game.PlayerA)
	b.Drop(1, game.PlayerB)
	b.Drop(2, game.PlayerA)

	want := "    O    \n" +
		"    X  X \n" +
		"---------\n" +
		" 0  1  2 \n"
	if got := FormatBoard(b); got != want {
		t.Fatalf("FormatBoard() =\n%q\nwant\n%q", got, want)
	}
}

func TestPresenterMessages(t *testing.T) {
	var out bytes.Buffer
	p := NewPresenter(&out)
	human := game.Player{Symbol: game.PlayerA, Kind: game.Human}
	computer := game.Player{Symbol: game.PlayerB, Kind: game.Computer}

	p.Banner(6, 7)
	p.AnnounceTurn(human)
	p.AnnounceMove(human, 3)
	p.AnnounceMove(computer, 5)
	p.AnnounceResult(game.Outcome{Status: game.StatusWon, Winner: computer})
	p.AnnounceResult(game.Outcome{Status: game.StatusDraw})

	want := "Starting Game! Board Size: 6x7\n" +
		"\nTurn: Player (X)\n" +
		"Computer chose column 5\n" +
		"\nGame Over! Computer (O) WINS!\n" +
		"\nGame Over! It's a DRAW.\n"
	if out.String() != want {
		t.Fatalf("output =\n%q\nwant\n%q", out.String(), want)
	}
}

func TestPlayOneGameThroughConsole(t *testing.T) {
	var out bytes.Buffer
	in := NewInput(strings.NewReader("0\n0\n0\n0\n"), &out)
	c, err := game.NewController(game.Config{
		Rows:        6,
		Cols:        7,
		HumanStarts: true,
		Input:       in,
		Bot:         game.NewBotWithRand(game.PlayerB, fixedRand(6)),
		Presenter:   NewPresenter(&out),
	})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	res, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != game.StatusWon || res.Winner.Kind != game.Human {
		t.Fatalf("outcome = %+v", res)
	}
	if !strings.HasSuffix(out.String(), "Game Over! Player (X) WINS!\n") {
		t.Fatalf("unexpected tail:\n%s", out.String())
	}
	if strings.Count(out.String(), "Computer chose column 6") != 3 {
		t.Fatalf("expected three computer moves:\n%s", out.String())
	}
}

type fixedRand int

func (f fixedRand) Intn(int) int { return int(f) }
