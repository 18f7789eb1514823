package entity

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

// Phase is the lifecycle stage of a session.
type Phase string

const (
	PhasePairing   Phase = "pairing"
	PhaseCountdown Phase = "countdown"
	PhasePlaying   Phase = "playing"
	PhaseFinished  Phase = "finished"
	PhaseDissolved Phase = "dissolved"
)

// Game is one round of tic-tac-toe: the board, whose turn it is and the result once decided.
type Game struct {
	Board       Board
	Turn        string
	Winner      string
	WinningLine []Cell
	Status      string
}

func NewGame() *Game {
	return &Game{
		Board:       Board{},
		Turn:        PlayerX,
		WinningLine: []Cell{},
		Status:      StatusOngoing,
	}
}

// Reset starts a fresh round with X to move.
func (that *Game) Reset() {
	that.Board = Board{}
	that.Turn = PlayerX
	that.Winner = ""
	that.WinningLine = []Cell{}
	that.Status = StatusOngoing
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

// Result returns the decided result of the round, or nil while it is ongoing.
func (that *Game) Result() *Result {
	if !that.IsFinished() {
		return nil
	}

	return &Result{Winner: that.Winner, Line: that.WinningLine}
}
