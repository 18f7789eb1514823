package usecase

import "sync"

// Registry maps connections to the session they play in. Writes happen only
// under the Matchmaker lock; reads may come from any goroutine.
type Registry struct {
	mu       sync.RWMutex
	byConn   map[string]*Session
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		byConn:   make(map[string]*Session),
		sessions: make(map[string]*Session),
	}
}

// Lookup returns the session conn belongs to, or nil.
func (that *Registry) Lookup(conn Conn) *Session {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.byConn[conn.ID()]
}

func (that *Registry) SessionByID(id string) *Session {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.sessions[id]
}

func (that *Registry) ActiveSessions() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

func (that *Registry) Sessions() []*Session {
	that.mu.RLock()
	defer that.mu.RUnlock()

	sessions := make([]*Session, 0, len(that.sessions))
	for _, sess := range that.sessions {
		sessions = append(sessions, sess)
	}

	return sessions
}

func (that *Registry) add(sess *Session, conns ...Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[sess.ID()] = sess
	for _, conn := range conns {
		that.byConn[conn.ID()] = sess
	}
}

// remove drops sess and every connection still bound to it.
func (that *Registry) remove(sess *Session) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, sess.ID())
	for connID, bound := range that.byConn {
		if bound == sess {
			delete(that.byConn, connID)
		}
	}
}
