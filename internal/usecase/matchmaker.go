package usecase

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const msgFindingPlayer = "Finding player..."

// Matchmaker holds at most one waiting connection and pairs it with the next arrival.
// Its lock also serializes every Registry write. Lock order is matchmaker, then registry;
// a session lock is never held while taking it.
type Matchmaker struct {
	mu sync.Mutex

	logger   *slog.Logger
	router   *Router
	registry *Registry
	opts     Options
	recorder snapshotRecorder

	waiting Conn
}

func NewMatchmaker(logger *slog.Logger, router *Router, registry *Registry, opts Options, recorder snapshotRecorder) *Matchmaker {
	return &Matchmaker{
		logger:   logger,
		router:   router,
		registry: registry,
		opts:     opts,
		recorder: recorder,
	}
}

// EnqueueOrPair parks conn in the waiting slot, or pairs it with the waiting
// connection. A nil session with a nil error means conn is waiting.
func (that *Matchmaker) EnqueueOrPair(conn Conn) (*Session, error) {
	that.mu.Lock()
	sess, err := that.enqueueOrPair(conn)
	that.mu.Unlock()

	if sess != nil {
		sess.start()
	}

	return sess, err
}

func (that *Matchmaker) enqueueOrPair(conn Conn) (*Session, error) {
	log := that.logger.With("method", "enqueueOrPair", "connID", conn.ID())

	if !conn.IsOpen() {
		return nil, apperror.ErrConnectionClosed
	}

	if that.registry.Lookup(conn) != nil {
		return nil, nil
	}

	if that.waiting != nil && that.waiting.ID() == conn.ID() {
		return nil, nil
	}

	if that.waiting == nil || !that.waiting.IsOpen() {
		that.waiting = conn
		that.router.Send(conn, entity.NewMessageEvent(msgFindingPlayer))
		log.Debug("connection is waiting")

		return nil, nil
	}

	if that.opts.MaxSessions > 0 && that.registry.ActiveSessions() >= that.opts.MaxSessions {
		that.router.Send(conn, entity.NewErrorEvent(apperror.ErrServerFull.Error()))
		conn.Close()
		log.Warn("rejected connection", "error", apperror.ErrServerFull)

		return nil, apperror.ErrServerFull
	}

	first := that.waiting
	that.waiting = nil

	sess := newSession(that.logger, that.router, that.opts, that.recorder, first, conn)
	that.registry.add(sess, first, conn)
	log.Info("paired connections", "sessionID", sess.ID(), "opponentID", first.ID())

	return sess, nil
}

// release clears conn from the waiting slot, or returns the session it is bound to.
func (that *Matchmaker) release(conn Conn) *Session {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.waiting != nil && that.waiting.ID() == conn.ID() {
		that.waiting = nil
		return nil
	}

	return that.registry.Lookup(conn)
}

// Retire drops a dissolved session and feeds the survivor back into matchmaking
// within the same critical section.
func (that *Matchmaker) Retire(sess *Session, survivor Conn) (*Session, error) {
	that.mu.Lock()
	that.registry.remove(sess)

	var (
		next *Session
		err  error
	)
	if survivor != nil {
		next, err = that.enqueueOrPair(survivor)
	}
	that.mu.Unlock()

	if next != nil {
		next.start()
	}

	return next, err
}

func (that *Matchmaker) Waiting() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.waiting != nil
}

// drain clears the waiting slot and returns what was in it.
func (that *Matchmaker) drain() Conn {
	that.mu.Lock()
	defer that.mu.Unlock()

	waiting := that.waiting
	that.waiting = nil

	return waiting
}
