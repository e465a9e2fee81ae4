package game

const (
	DefaultRows = 6
	DefaultCols = 7

	// WinLength is the run length that wins a game.
	WinLength = 4
)

type Cell uint8

const (
	Empty Cell = iota
	PlayerA
	PlayerB
)

func (c Cell) String() string {
	switch c {
	case PlayerA:
		return "X"
	case PlayerB:
		return "O"
	default:
		return " "
	}
}

// Opponent returns the other player's symbol. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return Empty
	}
}

// Board is a rows x cols grid. Row 0 is the top row; pieces fall towards
// row rows-1. Cells only ever change from Empty to a player through Drop.
type Board struct {
	rows  int
	cols  int
	grid  [][]Cell
	moves int
}

func NewBoard(rows, cols int) *Board {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	grid := make([][]Cell, rows)
	for r := range grid {
		grid[r] = make([]Cell, cols)
	}
	return &Board{rows: rows, cols: cols, grid: grid}
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

// Moves is the number of pieces dropped so far.
func (b *Board) Moves() int { return b.moves }

// At returns the cell at (row, col), or Empty outside the grid.
func (b *Board) At(row, col int) Cell {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return Empty
	}
	return b.grid[row][col]
}

// IsValid reports whether col is on the board and still has room.
func (b *Board) IsValid(col int) bool {
	if col < 0 || col >= b.cols || b.rows == 0 {
		return false
	}
	return b.grid[0][col] == Empty
}

// ValidColumns lists the columns that accept a piece, left to right.
func (b *Board) ValidColumns() []int {
	cols := make([]int, 0, b.cols)
	for c := 0; c < b.cols; c++ {
		if b.IsValid(c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// Drop places cell in the lowest empty row of col and returns that row.
// A full or out-of-range column is left untouched and ok is false.
func (b *Board) Drop(col int, cell Cell) (row int, ok bool) {
	if cell == Empty || col < 0 || col >= b.cols {
		return -1, false
	}
	for r := b.rows - 1; r >= 0; r-- {
		if b.grid[r][col] == Empty {
			b.grid[r][col] = cell
			b.moves++
			return r, true
		}
	}
	return -1, false
}

// HasWon reports whether cell has WinLength or more in a row anywhere.
func (b *Board) HasWon(cell Cell) bool {
	return b.WinningLine(cell) != nil
}

// WinningLine returns the coordinates of the first run of WinLength cells
// found for cell, or nil.
func (b *Board) WinningLine(cell Cell) [][2]int {
	if cell == Empty {
		return nil
	}

	for r := 0; r < b.rows; r++ {
		count := 0
		for c := 0; c < b.cols; c++ {
			if b.grid[r][c] != cell {
				count = 0
				continue
			}
			count++
			if count == WinLength {
				return line(r, c-WinLength+1, 0, 1)
			}
		}
	}

	for c := 0; c < b.cols; c++ {
		count := 0
		for r := 0; r < b.rows; r++ {
			if b.grid[r][c] != cell {
				count = 0
				continue
			}
			count++
			if count == WinLength {
				return line(r-WinLength+1, c, 1, 0)
			}
		}
	}

	// down-right
	for r := 0; r <= b.rows-WinLength; r++ {
		for c := 0; c <= b.cols-WinLength; c++ {
			if b.run(r, c, 1, 1, cell) {
				return line(r, c, 1, 1)
			}
		}
	}

	// up-right, anchored on the bottom-left cell
	for r := WinLength - 1; r < b.rows; r++ {
		for c := 0; c <= b.cols-WinLength; c++ {
			if b.run(r, c, -1, 1, cell) {
				return line(r, c, -1, 1)
			}
		}
	}

	return nil
}

func (b *Board) run(row, col, dr, dc int, cell Cell) bool {
	for i := 0; i < WinLength; i++ {
		if b.grid[row+i*dr][col+i*dc] != cell {
			return false
		}
	}
	return true
}

func line(row, col, dr, dc int) [][2]int {
	coords := make([][2]int, WinLength)
	for i := range coords {
		coords[i] = [2]int{row + i*dr, col + i*dc}
	}
	return coords
}

// IsDraw reports whether no empty cell remains. Callers check HasWon first:
// a full board with a run of four is a win.
func (b *Board) IsDraw() bool {
	for _, row := range b.grid {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}
	return true
}

// Cells returns a copy of the grid, row 0 first.
func (b *Board) Cells() [][]Cell {
	dest := make([][]Cell, b.rows)
	for r := range b.grid {
		dest[r] = make([]Cell, b.cols)
		copy(dest[r], b.grid[r])
	}
	return dest
}

func (b *Board) Clone() *Board {
	return &Board{rows: b.rows, cols: b.cols, grid: b.Cells(), moves: b.moves}
}
