package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

const (
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "Draw"

	EmptyCell = ""

	BoardSize = 3
)

// Cell is a [row, col] pair. It encodes to JSON as a two element array.
type Cell [2]int

// WinLines is the fixed scan order for win detection: rows, columns, then both diagonals.
var WinLines = [8][3]Cell{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

type Board [BoardSize][BoardSize]string

// Result is the outcome of a finished round. Winner is a mark or PlayerTie.
type Result struct {
	Winner string
	Line   []Cell
}

func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func (that *Board) At(cell Cell) string {
	return that[cell[0]][cell[1]]
}

// Place writes mark into an empty cell.
func (that *Board) Place(row, col int, mark string) error {
	if !InBounds(row, col) {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrInvalidCell, row, col)
	}

	if that[row][col] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that[row][col] = mark

	return nil
}

func (that *Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}

// DetermineResult returns the result of the round, or nil while the game continues.
func (that *Board) DetermineResult() *Result {
	for _, line := range WinLines {
		a, b, c := that.At(line[0]), that.At(line[1]), that.At(line[2])
		if a != EmptyCell && a == b && b == c {
			return &Result{
				Winner: a,
				Line:   []Cell{line[0], line[1], line[2]},
			}
		}
	}

	// the game will continue until all the squares are full
	if !that.IsFull() {
		return nil
	}

	return &Result{Winner: PlayerTie, Line: []Cell{}}
}

func ToggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
