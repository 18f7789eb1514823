package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// MakeTurn places mark at row, col if the move is legal and updates the round result.
// On a rejected move the game is left untouched.
func MakeTurn(gameInstance *entity.Game, mark string, row, col int) error {
	if gameInstance.IsFinished() {
		return apperror.ErrGameFinished
	}

	if err := validateMove(gameInstance, mark, row, col); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	if err := gameInstance.Board.Place(row, col, mark); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	updateGameStatus(gameInstance, mark)

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(gameInstance *entity.Game, mark string, row, col int) error {
	if !entity.InBounds(row, col) {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrInvalidCell, row, col)
	}

	if gameInstance.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if gameInstance.Board[row][col] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// updateGameStatus - checks the game status after a move.
func updateGameStatus(gameInstance *entity.Game, mark string) {
	result := gameInstance.Board.DetermineResult()
	if result == nil {
		gameInstance.Turn = entity.ToggleMark(mark)
		return
	}

	gameInstance.Winner = result.Winner
	gameInstance.WinningLine = result.Line
	gameInstance.Status = entity.StatusFinished
}
