package websocket

import (
	"log/slog"
	"net/http"
	"time"

	gorilla "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

type gameManager interface {
	Connect(conn usecase.Conn) error
	HandleMessage(conn usecase.Conn, msg *entity.Inbound) error
	Disconnect(conn usecase.Conn)
}

// Server upgrades HTTP requests to websockets and feeds them to the game manager.
type Server struct {
	logger   *slog.Logger
	manager  gameManager
	upgrader gorilla.Upgrader
}

func New(logger *slog.Logger, manager gameManager) *Server {
	return &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		// the upgrader has already replied to the client
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(ws)
	log = log.With("connID", conn.ID())
	go conn.writePump()

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("recovered from panic", "panic", rec)
		}

		conn.Close()
		that.manager.Disconnect(conn)
		log.Info("WebSocket connection closed")
	}()

	log.Info("WebSocket connection established")

	if err = that.manager.Connect(conn); err != nil {
		log.Info("connection was not admitted", "error", err)
		return
	}

	that.readLoop(log, conn)
}

// readLoop - processes messages from the client until the socket fails.
func (that *Server) readLoop(log *slog.Logger, conn *connection) {
	conn.ws.SetReadLimit(maxMessageSize)
	_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseGoingAway, gorilla.CloseNormalClosure) {
				log.Warn("unexpected close", "error", err)
			}
			return
		}

		msg, err := entity.ParseInbound(data)
		if err != nil {
			log.Warn("failed to parse message", "error", err)
			continue
		}

		if err = that.manager.HandleMessage(conn, msg); err != nil {
			log.Debug("message ignored", "type", msg.Type, "error", err)
		}
	}
}
