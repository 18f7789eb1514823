package usecase

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

type Stats struct {
	ActiveSessions int  `json:"active_sessions"`
	Waiting        bool `json:"waiting"`
}

type messageHandler func(conn Conn, msg *entity.Inbound) error

// GameManager is the entry point the transport calls into.
type GameManager struct {
	logger     *slog.Logger
	registry   *Registry
	matchmaker *Matchmaker

	handlers map[string]messageHandler
}

// NewGameManager builds the matchmaking core. recorder may be nil.
func NewGameManager(logger *slog.Logger, opts Options, recorder snapshotRecorder) *GameManager {
	opts = opts.withDefaults()
	if recorder == nil {
		recorder = noopRecorder{}
	}

	logger = logger.With("component", "game_manager")
	router := NewRouter(logger)
	registry := NewRegistry()

	manager := &GameManager{
		logger:     logger,
		registry:   registry,
		matchmaker: NewMatchmaker(logger, router, registry, opts, recorder),
	}

	manager.handlers = map[string]messageHandler{
		entity.InboundMove: manager.handleMove,
		entity.InboundChat: manager.handleChat,
	}

	return manager
}

// Connect hands a new connection to matchmaking.
func (that *GameManager) Connect(conn Conn) error {
	if _, err := that.matchmaker.EnqueueOrPair(conn); err != nil {
		return fmt.Errorf("failed to enqueue connection: %w", err)
	}

	return nil
}

// HandleMessage routes a parsed client message to the session of conn.
func (that *GameManager) HandleMessage(conn Conn, msg *entity.Inbound) error {
	handler, ok := that.handlers[msg.Type]
	if !ok {
		return fmt.Errorf("%w: %q", apperror.ErrUnknownMessageType, msg.Type)
	}

	return handler(conn, msg)
}

func (that *GameManager) handleMove(conn Conn, msg *entity.Inbound) error {
	if msg.Row == nil || msg.Col == nil {
		return apperror.ErrMalformedMessage
	}

	sess := that.registry.Lookup(conn)
	if sess == nil {
		return apperror.ErrNotInSession
	}

	if err := sess.ApplyMove(conn, *msg.Row, *msg.Col); err != nil {
		return fmt.Errorf("move rejected: %w", err)
	}

	return nil
}

func (that *GameManager) handleChat(conn Conn, msg *entity.Inbound) error {
	sess := that.registry.Lookup(conn)
	if sess == nil {
		return apperror.ErrNotInSession
	}

	if err := sess.ApplyChat(conn, msg.Message); err != nil {
		return fmt.Errorf("chat dropped: %w", err)
	}

	return nil
}

// Disconnect removes conn from matchmaking. Calling it twice is a no-op.
func (that *GameManager) Disconnect(conn Conn) {
	log := that.logger.With("method", "Disconnect", "connID", conn.ID())

	sess := that.matchmaker.release(conn)
	if sess == nil {
		return
	}

	survivor := sess.leave(conn)

	next, err := that.matchmaker.Retire(sess, survivor)
	switch {
	case errors.Is(err, apperror.ErrConnectionClosed):
		log.Debug("survivor already gone")
	case err != nil:
		log.Warn("failed to requeue survivor", "error", err)
	case next != nil:
		log.Info("survivor paired again", "sessionID", next.ID())
	}
}

func (that *GameManager) Stats() Stats {
	return Stats{
		ActiveSessions: that.registry.ActiveSessions(),
		Waiting:        that.matchmaker.Waiting(),
	}
}

// Snapshot returns the live state of a session.
func (that *GameManager) Snapshot(sessionID string) (*entity.SessionSnapshot, error) {
	sess := that.registry.SessionByID(sessionID)
	if sess == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, apperror.ErrNotFound)
	}

	return sess.Snapshot(), nil
}

// Shutdown dissolves every session and closes all known connections.
func (that *GameManager) Shutdown() {
	if waiting := that.matchmaker.drain(); waiting != nil {
		waiting.Close()
	}

	for _, sess := range that.registry.Sessions() {
		sess.close()
		if _, err := that.matchmaker.Retire(sess, nil); err != nil {
			that.logger.Warn("failed to retire session", "method", "Shutdown", "error", err)
		}
	}

	that.logger.Info("game manager stopped", "method", "Shutdown")
}
