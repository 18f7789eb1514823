package usecase

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/tictactoe"
)

const (
	msgGameFound    = "Game found! Starting soon..."
	msgOpponentLeft = "Opponent left. Waiting for a new player..."
	msgDraw         = "It's a Draw! Game resetting..."
	msgScoreFormat  = "Score: <strong>X</strong>: %d - <strong>O</strong>: %d Game resetting..."
	msgCountdownFmt = "Game starting in %d..."
)

type member struct {
	conn Conn
	mark string
}

// Session is one pairing of two connections. All state is guarded by mu,
// including timer callbacks, so moves are applied one at a time.
type Session struct {
	mu sync.Mutex

	id       string
	logger   *slog.Logger
	router   *Router
	clock    clockwork.Clock
	opts     Options
	recorder snapshotRecorder

	members []*member
	game    *entity.Game
	phase   entity.Phase
	scores  map[string]int
	started bool

	generation uint64
	timer      clockwork.Timer
	countdown  int
}

// newSession pairs first as X and second as O. The session stays in Pairing until start.
func newSession(logger *slog.Logger, router *Router, opts Options, recorder snapshotRecorder, first, second Conn) *Session {
	id := uuid.NewString()

	return &Session{
		id:       id,
		logger:   logger.With("sessionID", id),
		router:   router,
		clock:    opts.Clock,
		opts:     opts,
		recorder: recorder,
		members: []*member{
			{conn: first, mark: entity.PlayerX},
			{conn: second, mark: entity.PlayerO},
		},
		game:   entity.NewGame(),
		phase:  entity.PhasePairing,
		scores: map[string]int{entity.PlayerX: 0, entity.PlayerO: 0},
	}
}

func (that *Session) ID() string {
	return that.id
}

func (that *Session) Phase() entity.Phase {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.phase
}

// start announces the pairing and begins the countdown.
func (that *Session) start() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.phase != entity.PhasePairing {
		return
	}

	for _, m := range that.members {
		that.router.Send(m.conn, entity.NewInitEvent(m.mark))
	}
	that.broadcast(entity.NewMessageEvent(msgGameFound))

	that.phase = entity.PhaseCountdown
	that.countdown = that.opts.CountdownFrom
	that.schedule(that.opts.TickInterval, that.tick)

	that.logger.Info("session started", "method", "start")
	that.record()
}

// ApplyMove validates and applies one move. Rejected moves change nothing and broadcast nothing.
func (that *Session) ApplyMove(conn Conn, row, col int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	m := that.memberOf(conn)
	if m == nil {
		return apperror.ErrNotInSession
	}

	switch that.phase {
	case entity.PhaseDissolved:
		return apperror.ErrSessionDissolved
	case entity.PhaseFinished:
		return apperror.ErrGameFinished
	case entity.PhasePairing, entity.PhaseCountdown:
		return apperror.ErrGameIsNotStarted
	}

	if err := tictactoe.MakeTurn(that.game, m.mark, row, col); err != nil {
		return fmt.Errorf("failed make turn: %w", err)
	}

	that.broadcast(entity.NewUpdateEvent(that.game.Board, that.game.Turn, that.game.Result()))

	if that.game.IsFinished() {
		that.finishRound()
	}

	that.record()

	return nil
}

func (that *Session) finishRound() {
	winner := that.game.Winner

	message := msgDraw
	if winner != entity.PlayerTie {
		that.scores[winner]++
		message = fmt.Sprintf(msgScoreFormat, that.scores[entity.PlayerX], that.scores[entity.PlayerO])
	}

	that.phase = entity.PhaseFinished
	that.broadcast(entity.NewMessageEvent(message))
	that.schedule(that.opts.ResetDelay, that.reset)

	that.logger.Info("round finished", "method", "finishRound", "winner", winner)
}

// reset starts the next round on the same session.
func (that *Session) reset() {
	if that.phase != entity.PhaseFinished {
		return
	}

	that.game.Reset()
	that.phase = entity.PhasePlaying
	that.broadcast(entity.NewUpdateEvent(that.game.Board, that.game.Turn, nil))
	that.record()
}

// ApplyChat relays text verbatim to all members when the chat policy allows it.
func (that *Session) ApplyChat(conn Conn, text string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	m := that.memberOf(conn)
	if m == nil {
		return apperror.ErrNotInSession
	}

	if that.phase == entity.PhaseDissolved {
		return apperror.ErrSessionDissolved
	}

	if that.opts.ChatPolicy == ChatWhenStarted && !that.started {
		return apperror.ErrChatNotAllowed
	}

	that.broadcast(entity.NewChatEvent(m.mark, text))

	return nil
}

// leave detaches conn and dissolves the session. It returns the remaining
// member, if any, so the caller can put it back into matchmaking.
func (that *Session) leave(conn Conn) Conn {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.memberOf(conn) == nil {
		return nil
	}

	var survivor Conn
	for _, m := range that.members {
		if m.conn.ID() != conn.ID() {
			survivor = m.conn
		}
	}

	that.dissolve()
	that.members = nil

	if survivor != nil {
		that.router.Send(survivor, entity.NewMessageEvent(msgOpponentLeft))
	}

	that.logger.Info("session dissolved", "method", "leave", "connID", conn.ID())

	return survivor
}

// close dissolves the session and closes every member connection.
func (that *Session) close() {
	that.mu.Lock()
	members := that.members
	that.members = nil
	that.dissolve()
	that.mu.Unlock()

	for _, m := range members {
		m.conn.Close()
	}
}

func (that *Session) dissolve() {
	if that.phase == entity.PhaseDissolved {
		return
	}

	that.phase = entity.PhaseDissolved
	that.stopTimer()
	that.generation++
	that.recorder.Forget(that.id)
}

func (that *Session) Snapshot() *entity.SessionSnapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

func (that *Session) snapshot() *entity.SessionSnapshot {
	scores := make(map[string]int, len(that.scores))
	for mark, score := range that.scores {
		scores[mark] = score
	}

	players := make([]entity.Player, 0, len(that.members))
	for _, m := range that.members {
		players = append(players, entity.Player{ID: m.conn.ID(), Mark: m.mark})
	}

	return &entity.SessionSnapshot{
		ID:          that.id,
		Phase:       that.phase,
		Board:       that.game.Board,
		CurrentTurn: that.game.Turn,
		Winner:      that.game.Winner,
		Scores:      scores,
		Players:     players,
		Started:     that.started,
		UpdatedAt:   that.clock.Now(),
	}
}

func (that *Session) record() {
	if that.phase == entity.PhaseDissolved {
		return
	}

	that.recorder.Record(that.snapshot())
}

func (that *Session) memberOf(conn Conn) *member {
	for _, m := range that.members {
		if m.conn.ID() == conn.ID() {
			return m
		}
	}

	return nil
}

func (that *Session) broadcast(event entity.Event) {
	conns := make([]Conn, 0, len(that.members))
	for _, m := range that.members {
		conns = append(conns, m.conn)
	}

	that.router.Broadcast(conns, event)
}
