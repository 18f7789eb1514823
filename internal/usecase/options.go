package usecase

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// Chat gate policies.
const (
	ChatWhenAssigned = "session"
	ChatWhenStarted  = "started"
)

// Conn is the transport side of one client. Send must not block.
type Conn interface {
	ID() string
	Send(event entity.Event) error
	IsOpen() bool
	Close()
}

type Options struct {
	CountdownFrom int
	TickInterval  time.Duration
	ResetDelay    time.Duration
	ChatPolicy    string
	// MaxSessions caps concurrently active sessions. Zero means unlimited.
	MaxSessions int
	Clock       clockwork.Clock
}

func DefaultOptions() Options {
	return Options{
		CountdownFrom: 3,
		TickInterval:  time.Second,
		ResetDelay:    5 * time.Second,
		ChatPolicy:    ChatWhenAssigned,
		Clock:         clockwork.NewRealClock(),
	}
}

func (that Options) withDefaults() Options {
	defaults := DefaultOptions()

	if that.CountdownFrom <= 0 {
		that.CountdownFrom = defaults.CountdownFrom
	}
	if that.TickInterval <= 0 {
		that.TickInterval = defaults.TickInterval
	}
	if that.ResetDelay <= 0 {
		that.ResetDelay = defaults.ResetDelay
	}
	if that.ChatPolicy == "" {
		that.ChatPolicy = defaults.ChatPolicy
	}
	if that.Clock == nil {
		that.Clock = defaults.Clock
	}

	return that
}

type snapshotRecorder interface {
	Record(snapshot *entity.SessionSnapshot)
	Forget(sessionID string)
}

type noopRecorder struct{}

func (noopRecorder) Record(*entity.SessionSnapshot) {}
func (noopRecorder) Forget(string)                  {}
