package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

func TestBoard_DetermineResult(t *testing.T) {
	t.Run("Returns nil for an empty board", func(t *testing.T) {
		// Given: an empty board
		board := Board{}

		// When / Then: no result is decided
		assert.Nil(t, board.DetermineResult())
	})

	t.Run("Detects every winning line", func(t *testing.T) {
		for _, line := range WinLines {
			// Given: a board with O on exactly one line
			board := Board{}
			for _, cell := range line {
				board[cell[0]][cell[1]] = PlayerO
			}

			// When: determining the result
			result := board.DetermineResult()

			// Then: O wins on that line
			require.NotNil(t, result)
			assert.Equal(t, PlayerO, result.Winner)
			assert.Equal(t, []Cell{line[0], line[1], line[2]}, result.Line)
		}
	})

	t.Run("Reports the first line in scan order", func(t *testing.T) {
		// Given: a full board where X owns both the top row and the left column
		board := Board{
			{PlayerX, PlayerX, PlayerX},
			{PlayerX, PlayerO, PlayerO},
			{PlayerX, PlayerO, PlayerO},
		}

		// When: determining the result
		result := board.DetermineResult()

		// Then: the row wins because rows are scanned first
		require.NotNil(t, result)
		assert.Equal(t, []Cell{{0, 0}, {0, 1}, {0, 2}}, result.Line)
	})

	t.Run("Detects a draw on a full board without a line", func(t *testing.T) {
		// Given: a full board with no three in a row
		board := Board{
			{PlayerX, PlayerO, PlayerX},
			{PlayerX, PlayerO, PlayerO},
			{PlayerO, PlayerX, PlayerX},
		}

		// When: determining the result
		result := board.DetermineResult()

		// Then: a draw with an empty line
		require.NotNil(t, result)
		assert.Equal(t, PlayerTie, result.Winner)
		assert.Equal(t, []Cell{}, result.Line)
	})

	t.Run("A win on the last cell is not a draw", func(t *testing.T) {
		// Given: a full board where the final X completes the bottom row
		board := Board{
			{PlayerX, PlayerO, PlayerO},
			{PlayerO, PlayerX, PlayerX},
			{PlayerX, PlayerX, PlayerX},
		}

		// When / Then: X wins
		result := board.DetermineResult()
		require.NotNil(t, result)
		assert.Equal(t, PlayerX, result.Winner)
	})
}

func TestBoard_Place(t *testing.T) {
	t.Run("Rejects out of range coordinates", func(t *testing.T) {
		board := Board{}

		err := board.Place(3, 0, PlayerX)

		assert.ErrorIs(t, err, apperror.ErrInvalidCell)
		assert.Equal(t, Board{}, board)
	})

	t.Run("Rejects an occupied cell", func(t *testing.T) {
		// Given: a board with X in the centre
		board := Board{}
		require.NoError(t, board.Place(1, 1, PlayerX))

		// When: O tries the same cell
		err := board.Place(1, 1, PlayerO)

		// Then: the cell keeps its mark
		assert.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, PlayerX, board[1][1])
	})
}

func TestToggleMark(t *testing.T) {
	assert.Equal(t, PlayerO, ToggleMark(PlayerX))
	assert.Equal(t, PlayerX, ToggleMark(PlayerO))
}

func TestBoard_Properties(t *testing.T) {
	t.Run("Any result line is three equal marks", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			board := Board{}
			for row := range BoardSize {
				for col := range BoardSize {
					board[row][col] = rapid.SampledFrom([]string{EmptyCell, PlayerX, PlayerO}).Draw(t, "cell")
				}
			}

			result := board.DetermineResult()
			if result == nil {
				if board.IsFull() {
					t.Fatalf("full board without a result: %v", board)
				}
				return
			}

			if result.Winner == PlayerTie {
				if !board.IsFull() || len(result.Line) != 0 {
					t.Fatalf("bad draw %v on %v", result, board)
				}
				return
			}

			if len(result.Line) != 3 {
				t.Fatalf("line %v should have three cells", result.Line)
			}
			for _, cell := range result.Line {
				if board.At(cell) != result.Winner {
					t.Fatalf("cell %v is %q, want %q", cell, board.At(cell), result.Winner)
				}
			}
		})
	})
}
