package controller

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// lockedConn serialises writes to one socket; broadcasts from other
// players' goroutines share it with this connection's own replies.
type lockedConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (l *lockedConn) WriteJSON(v any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.WriteJSON(v)
}

// HandleConnection reads commands from one socket until it closes or the
// player leaves.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	conn := &lockedConn{conn: c}
	log.Debugf("websocket opened for %s in game %s", playerID, gameID)
	defer wsc.gameService.Disconnect(gameID, playerID, conn)
	// Socket handlers run outside the recover middleware.
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("websocket handler for %s in game %s panicked: %v", playerID, gameID, r)
		}
	}()

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("websocket closed for %s in game %s: %v", playerID, gameID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(conn, fmt.Errorf("malformed message: %w", err))
			continue
		}

		done, err := wsc.handleMessage(gameID, playerID, conn, msg)
		if err != nil {
			log.Debugf("game %s: %s %s: %v", gameID, playerID, msg.Type, err)
			wsc.sendError(conn, err)
		}
		if done {
			_ = c.Close()
			return
		}
	}
}

// handleMessage runs one command. done reports that the socket should close.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, conn service.Conn, msg ws.Message) (done bool, err error) {
	switch msg.Type {
	case ws.MessageTypeConnect:
		return false, wsc.gameService.Connect(gameID, playerID, conn)

	case ws.MessageTypeMakeMove:
		var p ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, fmt.Errorf("invalid move payload: %w", err)
		}
		return false, wsc.gameService.MakeMove(gameID, playerID, p.Move)

	case ws.MessageTypeResign:
		return false, wsc.gameService.Resign(gameID, playerID)

	case ws.MessageTypeLeave:
		if err := wsc.gameService.Leave(gameID, playerID, conn); err != nil {
			return false, err
		}
		return true, nil

	default:
		return false, fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(conn service.Conn, err error) {
	if werr := conn.WriteJSON(ws.Error(err)); werr != nil {
		log.Warnf("failed to send error: %v", werr)
	}
}
