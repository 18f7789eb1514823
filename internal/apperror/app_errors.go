package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")

	ErrNotInSession     = errors.New("connection is not in a session")
	ErrSessionDissolved = errors.New("session is dissolved")
	ErrChatNotAllowed   = errors.New("chat is not allowed yet")
	ErrServerFull       = errors.New("server is full")

	ErrMalformedMessage   = errors.New("malformed message")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrConnectionClosed   = errors.New("connection is closed")

	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid config")
)
