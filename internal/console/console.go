// Package console is the line-oriented terminal front end: it reads column
// numbers from a reader and prints the board and announcements to a writer.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fallingfour/internal/game"
)

// Input reads one column number per line. Lines that are not integers are
// answered with a hint and read again; io.EOF is returned when input ends.
type Input struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewInput(r io.Reader, w io.Writer) *Input {
	return &Input{scanner: bufio.NewScanner(r), out: w}
}

func (in *Input) RequestColumn(ctx context.Context, p game.Prompt) (int, error) {
	if p.Attempt > 0 {
		fmt.Fprintln(in.out, "Invalid move or column full. Try again.")
	}
	for {
		if err := ctx.Err(); err != nil {
			return -1, err
		}
		fmt.Fprintf(in.out, "Choose column (0-%d): ", p.Cols-1)
		if !in.scanner.Scan() {
			if err := in.scanner.Err(); err != nil {
				return -1, err
			}
			return -1, io.EOF
		}
		col, err := strconv.Atoi(strings.TrimSpace(in.scanner.Text()))
		if err != nil {
			fmt.Fprintln(in.out, "Please enter a valid number.")
			continue
		}
		return col, nil
	}
}

// Presenter prints to a terminal.
type Presenter struct {
	out io.Writer
}

func NewPresenter(w io.Writer) *Presenter {
	return &Presenter{out: w}
}

// Banner prints the start-of-game line.
func (p *Presenter) Banner(rows, cols int) {
	fmt.Fprintf(p.out, "Starting Game! Board Size: %dx%d\n", rows, cols)
}

func (p *Presenter) RenderBoard(b *game.Board) {
	fmt.Fprint(p.out, FormatBoard(b))
}

func (p *Presenter) AnnounceTurn(pl game.Player) {
	fmt.Fprintf(p.out, "\nTurn: %s\n", pl)
}

func (p *Presenter) AnnounceMove(pl game.Player, col int) {
	if pl.Kind == game.Computer {
		fmt.Fprintf(p.out, "Computer chose column %d\n", col)
	}
}

func (p *Presenter) AnnounceResult(o game.Outcome) {
	switch o.Status {
	case game.StatusWon:
		fmt.Fprintf(p.out, "\nGame Over! %s WINS!\n", o.Winner)
	case game.StatusDraw:
		fmt.Fprintln(p.out, "\nGame Over! It's a DRAW.")
	}
}

// FormatBoard renders each cell as " c ", then a separator and the column
// indices underneath.
func FormatBoard(b *game.Board) string {
	var sb strings.Builder
	for r := 0; r < b.Rows(); r++ {
		for c := 0; c < b.Cols(); c++ {
			fmt.Fprintf(&sb, " %s ", b.At(r, c))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Repeat("---", b.Cols()))
	sb.WriteByte('\n')
	for c := 0; c < b.Cols(); c++ {
		fmt.Fprintf(&sb, " %d ", c)
	}
	sb.WriteByte('\n')
	return sb.String()
}
