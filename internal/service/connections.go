package service

import (
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/exp/maps"
)

// Conn is the write half of a client connection. Implementations must be
// comparable (pointer types) and safe for concurrent WriteJSON calls.
type Conn interface {
	WriteJSON(v any) error
}

// RegisterConnection attaches conn to gameID for playerID, replacing any
// earlier connection of the same player.
func (gm *GameManager) RegisterConnection(gameID, playerID string, conn Conn) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	conns, ok := gm.conns[gameID]
	if !ok {
		conns = make(map[string]Conn)
		gm.conns[gameID] = conns
	}
	if _, exists := conns[playerID]; exists {
		log.Debugf("replacing connection of %s in game %s", playerID, gameID)
	}
	conns[playerID] = conn
}

// UnregisterConnection detaches conn, but only while it is still the
// player's current connection.
func (gm *GameManager) UnregisterConnection(gameID, playerID string, conn Conn) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	conns, ok := gm.conns[gameID]
	if !ok {
		return
	}
	if current, ok := conns[playerID]; ok && current == conn {
		delete(conns, playerID)
		log.Debugf("unregistered connection of %s in game %s", playerID, gameID)
	}
	if len(conns) == 0 {
		delete(gm.conns, gameID)
	}
}

func (gm *GameManager) connections(gameID string) map[string]Conn {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	snapshot := make(map[string]Conn, len(gm.conns[gameID]))
	maps.Copy(snapshot, gm.conns[gameID])
	return snapshot
}

// Send writes msg to one player's connection in gameID, if there is one.
func (gm *GameManager) Send(gameID, playerID string, msg ws.Message) {
	conn, ok := gm.connections(gameID)[playerID]
	if !ok {
		return
	}
	gm.write(gameID, playerID, conn, msg)
}

// Broadcast writes msg to every connection of gameID except the one
// belonging to except. Pass "" to reach everyone.
func (gm *GameManager) Broadcast(gameID string, msg ws.Message, except string) {
	for playerID, conn := range gm.connections(gameID) {
		if except != "" && playerID == except {
			continue
		}
		gm.write(gameID, playerID, conn, msg)
	}
}

func (gm *GameManager) write(gameID, playerID string, conn Conn, msg ws.Message) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Warnf("dropping connection of %s in game %s: %v", playerID, gameID, err)
		gm.UnregisterConnection(gameID, playerID, conn)
	}
}
