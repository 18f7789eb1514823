package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 32
)

// connection adapts one websocket to the game core. Writes go through a
// buffered channel drained by writePump, so Send never blocks the caller.
type connection struct {
	id   string
	ws   *gorilla.Conn
	send chan []byte
	done chan struct{}

	closed    atomic.Bool
	closeOnce sync.Once
}

func newConnection(ws *gorilla.Conn) *connection {
	return &connection{
		id:   uuid.NewString(),
		ws:   ws,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (that *connection) ID() string {
	return that.id
}

func (that *connection) IsOpen() bool {
	return !that.closed.Load()
}

// Send queues event for delivery. A client that cannot keep up is closed.
func (that *connection) Send(event entity.Event) error {
	if !that.IsOpen() {
		return apperror.ErrConnectionClosed
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal %s event: %w", event.EventType(), err)
	}

	select {
	case that.send <- data:
		return nil
	case <-that.done:
		return apperror.ErrConnectionClosed
	default:
		that.Close()
		return fmt.Errorf("send buffer is full: %w", apperror.ErrConnectionClosed)
	}
}

// Close marks the connection closed. writePump flushes what is queued and sends a close frame.
func (that *connection) Close() {
	that.closeOnce.Do(func() {
		that.closed.Store(true)
		close(that.done)
	})
}

func (that *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.ws.Close()
	}()

	for {
		select {
		case data := <-that.send:
			if err := that.write(gorilla.TextMessage, data); err != nil {
				that.Close()
				return
			}
		case <-ticker.C:
			if err := that.write(gorilla.PingMessage, nil); err != nil {
				that.Close()
				return
			}
		case <-that.done:
			that.flush()
			_ = that.write(gorilla.CloseMessage, gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, ""))
			return
		}
	}
}

func (that *connection) flush() {
	for {
		select {
		case data := <-that.send:
			if err := that.write(gorilla.TextMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (that *connection) write(messageType int, data []byte) error {
	if err := that.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.ws.WriteMessage(messageType, data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
