package entity

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
)

// Outbound event types.
const (
	EventInit      = "init"
	EventMessage   = "message"
	EventCountdown = "countdown"
	EventUpdate    = "update"
	EventChat      = "chat"
	EventError     = "error"
)

// Inbound message types.
const (
	InboundMove = "move"
	InboundChat = "chat"
)

// Event is a message sent from the server to a client.
type Event interface {
	EventType() string
}

type InitEvent struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
}

func NewInitEvent(symbol string) InitEvent {
	return InitEvent{Type: EventInit, Symbol: symbol}
}

func (that InitEvent) EventType() string { return that.Type }

// TextEvent carries free text. It backs the message, countdown and error types.
type TextEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewMessageEvent(message string) TextEvent {
	return TextEvent{Type: EventMessage, Message: message}
}

func NewCountdownEvent(message string) TextEvent {
	return TextEvent{Type: EventCountdown, Message: message}
}

func NewErrorEvent(message string) TextEvent {
	return TextEvent{Type: EventError, Message: message}
}

func (that TextEvent) EventType() string { return that.Type }

type UpdateEvent struct {
	Type        string  `json:"type"`
	Board       Board   `json:"board"`
	CurrentTurn string  `json:"currentTurn"`
	Winner      *string `json:"winner"`
	WinningLine []Cell  `json:"winningLine"`
}

// NewUpdateEvent builds the authoritative board snapshot. A nil result means no winner yet.
func NewUpdateEvent(board Board, currentTurn string, result *Result) UpdateEvent {
	event := UpdateEvent{
		Type:        EventUpdate,
		Board:       board,
		CurrentTurn: currentTurn,
		WinningLine: []Cell{},
	}

	if result != nil {
		winner := result.Winner
		event.Winner = &winner
		event.WinningLine = append(event.WinningLine, result.Line...)
	}

	return event
}

func (that UpdateEvent) EventType() string { return that.Type }

type ChatEvent struct {
	Type    string `json:"type"`
	Player  string `json:"player"`
	Message string `json:"message"`
}

func NewChatEvent(player, message string) ChatEvent {
	return ChatEvent{Type: EventChat, Player: player, Message: message}
}

func (that ChatEvent) EventType() string { return that.Type }

// Inbound is a parsed client message.
type Inbound struct {
	Type    string `json:"type"`
	Row     *int   `json:"row,omitempty"`
	Col     *int   `json:"col,omitempty"`
	Message string `json:"message,omitempty"`
}

// ParseInbound decodes one client message. Coordinates are not range checked here.
func ParseInbound(data []byte) (*Inbound, error) {
	var msg Inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedMessage, err)
	}

	switch msg.Type {
	case InboundMove:
		if msg.Row == nil || msg.Col == nil {
			return nil, fmt.Errorf("%w: move requires row and col", apperror.ErrMalformedMessage)
		}
	case InboundChat:
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownMessageType, msg.Type)
	}

	return &msg, nil
}
