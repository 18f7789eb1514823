package usecase

import (
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// Router fans events out to session members. Delivery failures are never surfaced.
type Router struct {
	logger *slog.Logger
}

func NewRouter(logger *slog.Logger) *Router {
	return &Router{logger: logger}
}

// Broadcast sends event to every open connection in members, skipping closed ones.
func (that *Router) Broadcast(members []Conn, event entity.Event) {
	for _, conn := range members {
		that.Send(conn, event)
	}
}

func (that *Router) Send(conn Conn, event entity.Event) {
	if conn == nil || !conn.IsOpen() {
		return
	}

	if err := conn.Send(event); err != nil {
		that.logger.Debug("failed to deliver event",
			"method", "Send",
			"connID", conn.ID(),
			"type", event.EventType(),
			"error", err,
		)
	}
}
